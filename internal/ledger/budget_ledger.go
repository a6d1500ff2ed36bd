package ledger

import (
	"context"
	"maps"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/repository/storage"
)

// BudgetLedger owns one budget per calendar month
type BudgetLedger struct {
	mu      sync.RWMutex
	store   storage.BlobStore
	budgets []domain.Budget
	newID   func() string
	logger  zerolog.Logger
}

// NewBudgetLedger creates an empty ledger persisting to store. Call Load to read existing data.
func NewBudgetLedger(store storage.BlobStore, opts ...Option) *BudgetLedger {
	o := buildOptions("budget_ledger", opts)
	return &BudgetLedger{
		store:  store,
		newID:  o.newID,
		logger: o.logger,
	}
}

// Load replaces the in-memory collection with the persisted one
func (l *BudgetLedger) Load(ctx context.Context) error {
	items, err := loadCollection[domain.Budget](ctx, l.store, BudgetsBlob, l.logger)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.budgets = items
	l.logger.Debug().Int("count", len(items)).Msg("Loaded budgets")
	return nil
}

// Save persists the current collection
func (l *BudgetLedger) Save(ctx context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.persist(ctx)
}

// persist must be called with l.mu held
func (l *BudgetLedger) persist(ctx context.Context) error {
	if err := saveCollection(ctx, l.store, BudgetsBlob, l.budgets); err != nil {
		l.logger.Error().Err(err).Str("store", BudgetsBlob).Msg("Failed to persist budgets")
		return err
	}
	return nil
}

func (l *BudgetLedger) indexOf(month string) int {
	for i := range l.budgets {
		if l.budgets[i].Month == month {
			return i
		}
	}
	return -1
}

// seed appends the catalog default budget for month and returns its index. Must be called with l.mu held.
func (l *BudgetLedger) seed(month string) int {
	l.budgets = append(l.budgets, domain.DefaultBudget(l.newID(), month))
	l.logger.Debug().Str("month", month).Msg("Created default budget")
	return len(l.budgets) - 1
}

// Get returns the budget for month without creating one
func (l *BudgetLedger) Get(month string) (domain.Budget, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexOf(month); i >= 0 {
		return l.budgets[i].Clone(), true
	}
	return domain.Budget{}, false
}

// GetOrCreate returns the budget for month, seeding and persisting one from the category defaults if absent
func (l *BudgetLedger) GetOrCreate(ctx context.Context, month string) (domain.Budget, error) {
	if b, ok := l.Get(month); ok {
		return b, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another caller may have created it between the read and write locks
	if i := l.indexOf(month); i >= 0 {
		return l.budgets[i].Clone(), nil
	}

	i := l.seed(month)
	return l.budgets[i].Clone(), l.persist(ctx)
}

// Current returns the budget for the month today falls in, creating it if needed
func (l *BudgetLedger) Current(ctx context.Context, today domain.Date) (domain.Budget, error) {
	return l.GetOrCreate(ctx, today.YearMonth())
}

// SetTotal sets month's total budget. A nil categoryBudgets keeps the existing breakdown;
// a new month created this way starts with an empty breakdown.
func (l *BudgetLedger) SetTotal(ctx context.Context, month string, total int64, categoryBudgets map[domain.CategoryKey]int64) (domain.Budget, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(month)
	if i < 0 {
		l.budgets = append(l.budgets, domain.Budget{
			ID:              l.newID(),
			Month:           month,
			CategoryBudgets: make(map[domain.CategoryKey]int64),
		})
		i = len(l.budgets) - 1
	}

	b := &l.budgets[i]
	b.TotalBudget = total
	if categoryBudgets != nil {
		b.CategoryBudgets = maps.Clone(categoryBudgets)
	}

	return b.Clone(), l.persist(ctx)
}

// SetCategoryBudget sets one category's amount for month, keeping the others.
// A month without a budget is first seeded from the category defaults.
func (l *BudgetLedger) SetCategoryBudget(ctx context.Context, month string, category domain.CategoryKey, amount int64) (domain.Budget, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(month)
	if i < 0 {
		i = l.seed(month)
	}

	b := &l.budgets[i]
	if b.CategoryBudgets == nil {
		b.CategoryBudgets = make(map[domain.CategoryKey]int64)
	}
	b.CategoryBudgets[category] = amount

	return b.Clone(), l.persist(ctx)
}

// All returns a copy of every budget
func (l *BudgetLedger) All() []domain.Budget {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Budget, len(l.budgets))
	for i, b := range l.budgets {
		out[i] = b.Clone()
	}
	return out
}
