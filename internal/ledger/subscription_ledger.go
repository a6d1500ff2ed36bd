package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/repository/storage"
)

// SubscriptionLedger owns the collection of recurring payments
type SubscriptionLedger struct {
	mu            sync.RWMutex
	store         storage.BlobStore
	subscriptions []domain.Subscription
	clock         domain.Clock
	newID         func() string
	logger        zerolog.Logger
}

// NewSubscriptionLedger creates an empty ledger persisting to store. Call Load to read existing data.
func NewSubscriptionLedger(store storage.BlobStore, opts ...Option) *SubscriptionLedger {
	o := buildOptions("subscription_ledger", opts)
	return &SubscriptionLedger{
		store:  store,
		clock:  o.clock,
		newID:  o.newID,
		logger: o.logger,
	}
}

// Load replaces the in-memory collection with the persisted one
func (l *SubscriptionLedger) Load(ctx context.Context) error {
	items, err := loadCollection[domain.Subscription](ctx, l.store, SubscriptionsBlob, l.logger)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscriptions = items
	l.logger.Debug().Int("count", len(items)).Msg("Loaded subscriptions")
	return nil
}

// Save persists the current collection
func (l *SubscriptionLedger) Save(ctx context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.persist(ctx)
}

// persist must be called with l.mu held
func (l *SubscriptionLedger) persist(ctx context.Context) error {
	if err := saveCollection(ctx, l.store, SubscriptionsBlob, l.subscriptions); err != nil {
		l.logger.Error().Err(err).Str("store", SubscriptionsBlob).Msg("Failed to persist subscriptions")
		return err
	}
	return nil
}

func (l *SubscriptionLedger) indexOf(id string) int {
	for i := range l.subscriptions {
		if l.subscriptions[i].ID == id {
			return i
		}
	}
	return -1
}

// Add creates an active, unpaused subscription whose next billing date is the first
// cycle past the start date that is not before today.
func (l *SubscriptionLedger) Add(ctx context.Context, in domain.CreateSubscriptionInput) (domain.Subscription, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock().UTC()
	sub := domain.Subscription{
		ID:              l.newID(),
		Name:            domain.CleanText(in.Name),
		Amount:          in.Amount,
		BillingCycle:    in.BillingCycle,
		Category:        in.Category,
		StartDate:       in.StartDate,
		NextBillingDate: domain.NextBillingDate(in.StartDate, in.BillingCycle, domain.DateOf(now)),
		Description:     domain.CleanText(in.Description),
		Icon:            domain.CleanText(in.Icon),
		Color:           domain.CleanText(in.Color),
		IsActive:        true,
		IsPaused:        false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	l.subscriptions = append(l.subscriptions, sub)

	return sub, l.persist(ctx)
}

// Update merges patch into the subscription with id, recomputing the next billing date when
// the start date or cycle changed. Unknown ids are a no-op reported as found=false.
func (l *SubscriptionLedger) Update(ctx context.Context, id string, patch domain.SubscriptionPatch) (domain.Subscription, bool, error) {
	return l.mutate(ctx, id, func(s *domain.Subscription, now time.Time) {
		if patch.Apply(s) {
			s.NextBillingDate = domain.NextBillingDate(s.StartDate, s.BillingCycle, domain.DateOf(now))
		}
	})
}

// TogglePause flips the paused flag. The next billing date is left as is.
func (l *SubscriptionLedger) TogglePause(ctx context.Context, id string) (domain.Subscription, bool, error) {
	return l.mutate(ctx, id, func(s *domain.Subscription, _ time.Time) {
		s.IsPaused = !s.IsPaused
	})
}

// Cancel marks the subscription inactive. There is no way back; re-subscribing is a new Add.
func (l *SubscriptionLedger) Cancel(ctx context.Context, id string) (domain.Subscription, bool, error) {
	return l.mutate(ctx, id, func(s *domain.Subscription, _ time.Time) {
		s.IsActive = false
	})
}

func (l *SubscriptionLedger) mutate(ctx context.Context, id string, change func(*domain.Subscription, time.Time)) (domain.Subscription, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.Subscription{}, false, nil
	}

	now := l.clock().UTC()
	change(&l.subscriptions[i], now)
	l.subscriptions[i].UpdatedAt = now

	return l.subscriptions[i], true, l.persist(ctx)
}

// Delete removes the subscription with id and returns it. Unknown ids are a no-op reported as found=false.
func (l *SubscriptionLedger) Delete(ctx context.Context, id string) (domain.Subscription, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.Subscription{}, false, nil
	}

	removed := l.subscriptions[i]
	l.subscriptions = append(l.subscriptions[:i:i], l.subscriptions[i+1:]...)

	return removed, true, l.persist(ctx)
}

// AdvanceDue rolls every non-cancelled subscription whose next billing date is before today
// forward to its next date on or after today, and returns the ones that moved.
// Paused subscriptions move too so they come back with a current date when resumed.
func (l *SubscriptionLedger) AdvanceDue(ctx context.Context, today domain.Date) ([]domain.Subscription, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock().UTC()
	renewed := make([]domain.Subscription, 0)
	for i := range l.subscriptions {
		s := &l.subscriptions[i]
		if !s.IsActive || !s.NextBillingDate.Before(today) {
			continue
		}
		s.NextBillingDate = domain.RollForward(s.StartDate, s.NextBillingDate, s.BillingCycle, today)
		s.UpdatedAt = now
		renewed = append(renewed, *s)
	}

	if len(renewed) == 0 {
		return renewed, nil
	}
	return renewed, l.persist(ctx)
}

// Get returns the subscription with id
func (l *SubscriptionLedger) Get(id string) (domain.Subscription, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexOf(id); i >= 0 {
		return l.subscriptions[i], true
	}
	return domain.Subscription{}, false
}

func (l *SubscriptionLedger) filter(keep func(domain.Subscription) bool) []domain.Subscription {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Subscription, 0)
	for _, s := range l.subscriptions {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// All returns a copy of every subscription in insertion order
func (l *SubscriptionLedger) All() []domain.Subscription {
	return l.filter(func(domain.Subscription) bool { return true })
}

// Active returns the subscriptions that are active and not paused
func (l *SubscriptionLedger) Active() []domain.Subscription {
	return l.filter(domain.Subscription.IsBillable)
}

// List returns the subscriptions matching f in the given order
func (l *SubscriptionLedger) List(f domain.SubscriptionFilter, order domain.SubscriptionSort) []domain.Subscription {
	out := l.filter(f.Matches)
	domain.SortSubscriptions(out, order)
	return out
}

// MonthlyTotal sums the monthly-normalized amount of every active, unpaused subscription. No rounding is applied.
func (l *SubscriptionLedger) MonthlyTotal() decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := decimal.Zero
	for _, s := range l.subscriptions {
		if s.IsBillable() {
			total = total.Add(s.MonthlyAmount())
		}
	}
	return total
}

// YearlyTotal is MonthlyTotal × 12
func (l *SubscriptionLedger) YearlyTotal() decimal.Decimal {
	return l.MonthlyTotal().Mul(decimal.NewFromInt(12))
}

// UpcomingRenewals returns active, unpaused subscriptions billing within [today, today+withinDays],
// soonest first.
func (l *SubscriptionLedger) UpcomingRenewals(today domain.Date, withinDays int) []domain.Subscription {
	until := today.AddDays(withinDays)
	out := l.filter(func(s domain.Subscription) bool {
		next := s.NextBillingDate
		return s.IsBillable() && !next.Before(today) && !next.After(until)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextBillingDate.Before(out[j].NextBillingDate)
	})
	return out
}
