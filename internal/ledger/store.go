// Package ledger owns the expense, subscription and budget collections and
// persists each one as a single JSON blob.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/repository/storage"
)

// Blob names of the persisted collections
const (
	ExpensesBlob      = "mierunbo-expenses"
	SubscriptionsBlob = "mierunbo-subscriptions"
	BudgetsBlob       = "mierunbo-budgets"
)

// Option configures a ledger
type Option func(*options)

type options struct {
	clock  domain.Clock
	logger zerolog.Logger
	newID  func() string
}

func defaultOptions() options {
	return options{
		clock:  domain.SystemClock,
		logger: zerolog.Nop(),
		newID:  func() string { return uuid.New().String() },
	}
}

func buildOptions(component string, opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With().Str("component", component).Logger()
	return o
}

// WithClock sets the clock used for createdAt/updatedAt stamps
func WithClock(clock domain.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the ledger's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithIDGenerator replaces the uuid generator, for deterministic tests
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// loadCollection reads the blob under name. A missing blob is an empty collection and so is malformed
// JSON, which is logged and left in place so a later save replaces it. Only I/O failures are returned.
func loadCollection[T any](ctx context.Context, store storage.BlobStore, name string, logger zerolog.Logger) ([]T, error) {
	data, err := store.Read(ctx, name)
	if errors.Is(err, storage.ErrBlobNotFound) {
		logger.Debug().Str("store", name).Msg("No persisted data, starting empty")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn().
			Err(err).
			Str("store", name).
			Int("bytes", len(data)).
			Msg("Persisted data is malformed, starting empty")
		return nil, nil
	}
	return items, nil
}

// saveCollection writes items as a JSON array, never null
func saveCollection[T any](ctx context.Context, store storage.BlobStore, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := store.Write(ctx, name, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
