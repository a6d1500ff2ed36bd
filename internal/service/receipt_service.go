package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/repository/storage"
)

const (
	MaxReceiptSize     = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth    = 50
	MinReceiptHeight   = 50
	ReceiptWidth       = 800
	ReceiptJPEGQuality = 85
	receiptPrefix      = "receipts/"
)

var (
	ErrImageTooLarge     = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidFormat     = errors.New("invalid format. Supported: JPEG, PNG")
	ErrImageTooSmall     = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidImageData  = errors.New("invalid image data")
	ErrInvalidReceiptRef = errors.New("invalid receipt reference")
)

// AllowedExtensions maps receipt file extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ReceiptService validates, normalizes and stores receipt images in the blob store
type ReceiptService struct {
	store  storage.BlobStore
	logger zerolog.Logger
	newID  func() string
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(store storage.BlobStore, logger zerolog.Logger) *ReceiptService {
	return &ReceiptService{
		store:  store,
		logger: logger.With().Str("component", "receipt_service").Logger(),
		newID:  func() string { return uuid.New().String() },
	}
}

// ValidateImage checks size, format and dimensions without storing anything
func (s *ReceiptService) ValidateImage(data []byte, filename string) error {
	_, err := s.validateAndDecode(data, filename)
	return err
}

func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImageData
	}
	if format != "jpeg" && format != "png" {
		return nil, ErrInvalidFormat
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrImageTooSmall
	}

	return img, nil
}

// Upload stores the image as a JPEG no wider than ReceiptWidth and returns the blob name
// to record as the expense's receipt reference.
func (s *ReceiptService) Upload(ctx context.Context, expenseID string, data []byte, filename string) (string, error) {
	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return "", err
	}

	if img.Bounds().Dx() > ReceiptWidth {
		// Resize maintaining aspect ratio
		img = imaging.Resize(img, ReceiptWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(ReceiptJPEGQuality)); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	name := fmt.Sprintf("%s%s/%s.jpg", receiptPrefix, expenseID, s.newID())
	if err := storage.ValidateName(name); err != nil {
		return "", err
	}
	if err := s.store.Write(ctx, name, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to store receipt: %w", err)
	}

	s.logger.Debug().
		Str("expense_id", expenseID).
		Str("receipt", name).
		Int("bytes", buf.Len()).
		Msg("Receipt stored")
	return name, nil
}

// Open returns the stored JPEG for a receipt reference produced by Upload
func (s *ReceiptService) Open(ctx context.Context, ref string) ([]byte, error) {
	if !IsReceiptRef(ref) {
		return nil, ErrInvalidReceiptRef
	}
	return s.store.Read(ctx, ref)
}

// Remove deletes a stored receipt. An empty reference or a reference that is not a stored
// receipt (such as an external URL) is ignored.
func (s *ReceiptService) Remove(ctx context.Context, ref string) error {
	if !IsReceiptRef(ref) {
		return nil
	}
	if err := storage.Delete(ctx, s.store, ref); err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	return nil
}

// IsReceiptRef reports whether ref names a receipt stored by this service
func IsReceiptRef(ref string) bool {
	return strings.HasPrefix(ref, receiptPrefix) && storage.ValidateName(ref) == nil
}
