package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/repository/storage"
)

// ExpenseLedger owns the collection of one-off expenses
type ExpenseLedger struct {
	mu       sync.RWMutex
	store    storage.BlobStore
	expenses []domain.Expense
	clock    domain.Clock
	newID    func() string
	logger   zerolog.Logger
}

// NewExpenseLedger creates an empty ledger persisting to store. Call Load to read existing data.
func NewExpenseLedger(store storage.BlobStore, opts ...Option) *ExpenseLedger {
	o := buildOptions("expense_ledger", opts)
	return &ExpenseLedger{
		store:  store,
		clock:  o.clock,
		newID:  o.newID,
		logger: o.logger,
	}
}

// Load replaces the in-memory collection with the persisted one
func (l *ExpenseLedger) Load(ctx context.Context) error {
	items, err := loadCollection[domain.Expense](ctx, l.store, ExpensesBlob, l.logger)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.expenses = items
	l.logger.Debug().Int("count", len(items)).Msg("Loaded expenses")
	return nil
}

// Save persists the current collection
func (l *ExpenseLedger) Save(ctx context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.persist(ctx)
}

// persist must be called with l.mu held
func (l *ExpenseLedger) persist(ctx context.Context) error {
	if err := saveCollection(ctx, l.store, ExpensesBlob, l.expenses); err != nil {
		l.logger.Error().Err(err).Str("store", ExpensesBlob).Msg("Failed to persist expenses")
		return err
	}
	return nil
}

func (l *ExpenseLedger) indexOf(id string) int {
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends a new expense with a fresh id. The expense is kept in memory even if persisting fails.
func (l *ExpenseLedger) Add(ctx context.Context, in domain.CreateExpenseInput) (domain.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock().UTC()
	expense := domain.Expense{
		ID:           l.newID(),
		Amount:       in.Amount,
		Category:     in.Category,
		Description:  domain.CleanText(in.Description),
		Date:         in.Date,
		ReceiptImage: in.ReceiptImage,
		IsRecurring:  in.IsRecurring,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	l.expenses = append(l.expenses, expense)

	return expense, l.persist(ctx)
}

// Update merges patch into the expense with id. Unknown ids are a no-op reported as found=false.
func (l *ExpenseLedger) Update(ctx context.Context, id string, patch domain.ExpensePatch) (domain.Expense, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.Expense{}, false, nil
	}

	patch.Apply(&l.expenses[i])
	l.expenses[i].UpdatedAt = l.clock().UTC()

	return l.expenses[i], true, l.persist(ctx)
}

// Delete removes the expense with id and returns it. Unknown ids are a no-op reported as found=false.
func (l *ExpenseLedger) Delete(ctx context.Context, id string) (domain.Expense, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.Expense{}, false, nil
	}

	removed := l.expenses[i]
	l.expenses = append(l.expenses[:i:i], l.expenses[i+1:]...)

	return removed, true, l.persist(ctx)
}

// Get returns the expense with id
func (l *ExpenseLedger) Get(id string) (domain.Expense, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexOf(id); i >= 0 {
		return l.expenses[i], true
	}
	return domain.Expense{}, false
}

// All returns a copy of every expense in insertion order
func (l *ExpenseLedger) All() []domain.Expense {
	return l.filter(func(domain.Expense) bool { return true })
}

func (l *ExpenseLedger) filter(keep func(domain.Expense) bool) []domain.Expense {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Expense, 0)
	for _, e := range l.expenses {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// ByMonth returns the expenses dated within month (YYYY-MM)
func (l *ExpenseLedger) ByMonth(month string) []domain.Expense {
	return l.filter(func(e domain.Expense) bool { return e.Date.InMonth(month) })
}

// ByCategory returns the expenses with the given category
func (l *ExpenseLedger) ByCategory(category domain.CategoryKey) []domain.Expense {
	return l.filter(func(e domain.Expense) bool { return e.Category == category })
}

// TotalForMonth sums the amounts of expenses dated within month
func (l *ExpenseLedger) TotalForMonth(month string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total int64
	for _, e := range l.expenses {
		if e.Date.InMonth(month) {
			total += e.Amount
		}
	}
	return total
}

// TotalForCategoryInMonth sums the amounts of expenses with category dated within month
func (l *ExpenseLedger) TotalForCategoryInMonth(month string, category domain.CategoryKey) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total int64
	for _, e := range l.expenses {
		if e.Category == category && e.Date.InMonth(month) {
			total += e.Amount
		}
	}
	return total
}

// Recent returns up to n expenses, newest date first with ties broken by creation time.
// n <= 0 returns all of them.
func (l *ExpenseLedger) Recent(n int) []domain.Expense {
	out := l.All()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
