// Package app wires the blob store and the three ledgers so the API server and the CLI
// open the same data the same way.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/config"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/ledger"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/repository/storage"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/service"
)

// Ledgers holds the loaded collections sharing one blob store
type Ledgers struct {
	Store         storage.BlobStore
	Expenses      *ledger.ExpenseLedger
	Subscriptions *ledger.SubscriptionLedger
	Budgets       *ledger.BudgetLedger
}

// Open opens the configured blob store and loads every ledger from it
func Open(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (*Ledgers, error) {
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	l := NewLedgers(store, ledger.WithLogger(logger))
	if err := l.Load(ctx); err != nil {
		return nil, errors.Join(err, storage.Close(store))
	}
	return l, nil
}

// NewLedgers creates empty ledgers over store. Call Load to read existing data.
func NewLedgers(store storage.BlobStore, opts ...ledger.Option) *Ledgers {
	return &Ledgers{
		Store:         store,
		Expenses:      ledger.NewExpenseLedger(store, opts...),
		Subscriptions: ledger.NewSubscriptionLedger(store, opts...),
		Budgets:       ledger.NewBudgetLedger(store, opts...),
	}
}

// Load reads all three collections. Malformed blobs load as empty; only I/O errors fail.
func (l *Ledgers) Load(ctx context.Context) error {
	if err := l.Expenses.Load(ctx); err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	if err := l.Subscriptions.Load(ctx); err != nil {
		return fmt.Errorf("failed to load subscriptions: %w", err)
	}
	if err := l.Budgets.Load(ctx); err != nil {
		return fmt.Errorf("failed to load budgets: %w", err)
	}
	return nil
}

// Dashboard returns the aggregation facade over these ledgers
func (l *Ledgers) Dashboard() *service.DashboardService {
	return service.NewDashboardService(l.Expenses, l.Subscriptions, l.Budgets)
}

// Close releases the blob store
func (l *Ledgers) Close() error {
	return storage.Close(l.Store)
}
