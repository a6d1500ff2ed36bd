package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrBlobNotFound is returned by Read when no blob has been written under the name
var ErrBlobNotFound = errors.New("blob not found")

// ErrInvalidBlobName is returned for names that are empty or escape the store root
var ErrInvalidBlobName = errors.New("invalid blob name")

// BlobStore is a durable key-value store of named blobs. Read and Write are atomic per blob.
type BlobStore interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
}

// Deleter is implemented by stores that can remove a blob.
// Deleting a missing blob is not an error.
type Deleter interface {
	Delete(ctx context.Context, name string) error
}

// Delete removes name from store if the store supports deletion
func Delete(ctx context.Context, store BlobStore, name string) error {
	d, ok := store.(Deleter)
	if !ok {
		return fmt.Errorf("%T does not support delete", store)
	}
	return d.Delete(ctx, name)
}

// ValidateName rejects names that are empty, absolute or contain ".." segments
func ValidateName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidBlobName, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidBlobName, name)
		}
	}
	return nil
}

// objectName maps a blob name to its file or object name. Ledger blobs carry no extension and are stored as JSON.
func objectName(name string) string {
	if path.Ext(name) == "" {
		return name + ".json"
	}
	return name
}

// contentType guesses the content type of a stored blob from its object name
func contentType(object string) string {
	switch path.Ext(object) {
	case ".json":
		return "application/json"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
