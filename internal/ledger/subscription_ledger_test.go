package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/testutil"
)

// testNow falls on 2024-06-10
var today = domain.NewDate(2024, 6, 10)

func newSubscriptionLedger(t *testing.T) (*SubscriptionLedger, *testutil.MockBlobStore) {
	t.Helper()
	store := testutil.NewMockBlobStore()
	l := NewSubscriptionLedger(store, testOptions("sub")...)
	require.NoError(t, l.Load(context.Background()))
	return l, store
}

func addSubscription(t *testing.T, l *SubscriptionLedger, name string, amount int64, cycle domain.BillingCycle, start domain.Date) domain.Subscription {
	t.Helper()
	s, err := l.Add(context.Background(), domain.CreateSubscriptionInput{
		Name:         name,
		Amount:       amount,
		BillingCycle: cycle,
		Category:     domain.CategorySubscription,
		StartDate:    start,
	})
	require.NoError(t, err)
	return s
}

// withNextBilling forces a subscription's cached date for window tests
func withNextBilling(t *testing.T, l *SubscriptionLedger, id string, next domain.Date) {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	require.GreaterOrEqual(t, i, 0)
	l.subscriptions[i].NextBillingDate = next
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestSubscriptionLedger_Add(t *testing.T) {
	l, store := newSubscriptionLedger(t)

	s := addSubscription(t, l, "Netflix", 1490, domain.BillingMonthly, domain.NewDate(2024, 6, 10))

	assert.Equal(t, "sub-1", s.ID)
	assert.True(t, s.IsActive)
	assert.False(t, s.IsPaused)
	assert.True(t, domain.NewDate(2024, 7, 10).Equal(s.NextBillingDate), "got %s", s.NextBillingDate)
	assert.Equal(t, testNow, s.CreatedAt)
	assert.Equal(t, 1, store.WriteCount(SubscriptionsBlob))
}

func TestSubscriptionLedger_AddRollsPastStartForward(t *testing.T) {
	l, _ := newSubscriptionLedger(t)

	s := addSubscription(t, l, "Spotify", 980, domain.BillingMonthly, domain.NewDate(2024, 1, 31))

	// Feb 29, Mar 31, Apr 30, May 31 are past; Jun 30 is the first not before 2024-06-10
	assert.True(t, domain.NewDate(2024, 6, 30).Equal(s.NextBillingDate), "got %s", s.NextBillingDate)
	assert.True(t, s.NextBillingDate.Equal(domain.NextBillingDate(s.StartDate, s.BillingCycle, today)))
}

func TestSubscriptionLedger_MonthlyTotal(t *testing.T) {
	l, _ := newSubscriptionLedger(t)

	assertDecimal(t, "0", l.MonthlyTotal())

	addSubscription(t, l, "Gym", 100, domain.BillingWeekly, today)
	assertDecimal(t, "433", l.MonthlyTotal())

	addSubscription(t, l, "Domain", 1200, domain.BillingYearly, today)
	assertDecimal(t, "533", l.MonthlyTotal())

	addSubscription(t, l, "Netflix", 1490, domain.BillingMonthly, today)
	assertDecimal(t, "2023", l.MonthlyTotal())
}

func TestSubscriptionLedger_MonthlyTotalExcludesPausedAndCancelled(t *testing.T) {
	l, _ := newSubscriptionLedger(t)
	ctx := context.Background()

	keep := addSubscription(t, l, "Netflix", 1490, domain.BillingMonthly, today)
	paused := addSubscription(t, l, "Spotify", 980, domain.BillingMonthly, today)
	cancelled := addSubscription(t, l, "Hulu", 1026, domain.BillingMonthly, today)

	_, _, err := l.TogglePause(ctx, paused.ID)
	require.NoError(t, err)
	_, _, err = l.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)

	assertDecimal(t, "1490", l.MonthlyTotal())
	active := l.Active()
	require.Len(t, active, 1)
	assert.Equal(t, keep.ID, active[0].ID)

	// A cancelled subscription stays excluded even when unpaused
	_, _, err = l.TogglePause(ctx, cancelled.ID)
	require.NoError(t, err)
	_, _, err = l.TogglePause(ctx, cancelled.ID)
	require.NoError(t, err)
	assertDecimal(t, "1490", l.MonthlyTotal())
}

func TestSubscriptionLedger_YearlyTotalIsTwelveTimesMonthly(t *testing.T) {
	l, _ := newSubscriptionLedger(t)

	amounts := []struct {
		amount int64
		cycle  domain.BillingCycle
	}{
		{777, domain.BillingWeekly},
		{1000, domain.BillingYearly},
		{1490, domain.BillingMonthly},
		{1, domain.BillingYearly},
	}
	for _, a := range amounts {
		addSubscription(t, l, "s", a.amount, a.cycle, today)
		assert.True(t, l.YearlyTotal().Equal(l.MonthlyTotal().Mul(decimal.NewFromInt(12))))
	}
}

func TestSubscriptionLedger_TogglePauseKeepsNextBilling(t *testing.T) {
	store := testutil.NewMockBlobStore()
	clock := testutil.NewMutableClock(testNow)
	l := NewSubscriptionLedger(store, WithClock(clock.Now), WithIDGenerator(sequentialIDs("sub")))
	s := addSubscription(t, l, "Netflix", 1490, domain.BillingMonthly, today)

	clock.Advance(24 * time.Hour)
	paused, found, err := l.TogglePause(context.Background(), s.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, paused.IsPaused)
	assert.True(t, s.NextBillingDate.Equal(paused.NextBillingDate))
	assert.Equal(t, testNow.Add(24*time.Hour), paused.UpdatedAt)

	resumed, _, err := l.TogglePause(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, resumed.IsPaused)
	assert.True(t, s.NextBillingDate.Equal(resumed.NextBillingDate))
}

func TestSubscriptionLedger_Update(t *testing.T) {
	l, _ := newSubscriptionLedger(t)
	s := addSubscription(t, l, "Netflix", 1490, domain.BillingMonthly, domain.NewDate(2024, 6, 5))
	require.True(t, domain.NewDate(2024, 7, 5).Equal(s.NextBillingDate))

	t.Run("amount edit keeps schedule", func(t *testing.T) {
		amount := int64(1980)
		updated, found, err := l.Update(context.Background(), s.ID, domain.SubscriptionPatch{Amount: &amount})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, int64(1980), updated.Amount)
		assert.True(t, domain.NewDate(2024, 7, 5).Equal(updated.NextBillingDate))
	})

	t.Run("cycle edit recomputes", func(t *testing.T) {
		cycle := domain.BillingWeekly
		updated, _, err := l.Update(context.Background(), s.ID, domain.SubscriptionPatch{BillingCycle: &cycle})
		require.NoError(t, err)
		assert.True(t, domain.NewDate(2024, 6, 12).Equal(updated.NextBillingDate), "got %s", updated.NextBillingDate)
	})

	t.Run("start edit recomputes", func(t *testing.T) {
		start := domain.NewDate(2024, 6, 20)
		updated, _, err := l.Update(context.Background(), s.ID, domain.SubscriptionPatch{StartDate: &start})
		require.NoError(t, err)
		assert.True(t, domain.NewDate(2024, 6, 27).Equal(updated.NextBillingDate), "got %s", updated.NextBillingDate)
	})
}

func TestSubscriptionLedger_CancelIsPermanent(t *testing.T) {
	l, _ := newSubscriptionLedger(t)
	s := addSubscription(t, l, "Netflix", 1490, domain.BillingMonthly, today)

	cancelled, found, err := l.Cancel(context.Background(), s.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.False(t, cancelled.IsActive)

	// Cancelling again leaves it cancelled
	again, _, err := l.Cancel(context.Background(), s.ID)
	require.NoError(t, err)
	assert.False(t, again.IsActive)
	assert.Empty(t, l.Active())
}

func TestSubscriptionLedger_UnknownIDIsNoOp(t *testing.T) {
	l, store := newSubscriptionLedger(t)
	addSubscription(t, l, "Netflix", 1490, domain.BillingMonthly, today)
	writes := store.WriteCount(SubscriptionsBlob)
	ctx := context.Background()

	_, found, err := l.TogglePause(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = l.Cancel(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = l.Update(ctx, "missing", domain.SubscriptionPatch{})
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = l.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, writes, store.WriteCount(SubscriptionsBlob))
	assert.Len(t, l.All(), 1)
}

func TestSubscriptionLedger_Delete(t *testing.T) {
	l, _ := newSubscriptionLedger(t)
	s := addSubscription(t, l, "Netflix", 1490, domain.BillingMonthly, today)

	removed, found, err := l.Delete(context.Background(), s.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, s.ID, removed.ID)
	assert.Empty(t, l.All())
	assertDecimal(t, "0", l.MonthlyTotal())
}

func TestSubscriptionLedger_UpcomingRenewals(t *testing.T) {
	l, _ := newSubscriptionLedger(t)
	ctx := context.Background()

	tomorrowPaused := addSubscription(t, l, "Paused", 100, domain.BillingMonthly, today)
	eightDays := addSubscription(t, l, "Later", 100, domain.BillingMonthly, today)
	sevenDays := addSubscription(t, l, "Edge", 100, domain.BillingMonthly, today)
	dueToday := addSubscription(t, l, "Today", 100, domain.BillingMonthly, today)
	threeDays := addSubscription(t, l, "Soon", 100, domain.BillingMonthly, today)
	yesterday := addSubscription(t, l, "Overdue", 100, domain.BillingMonthly, today)
	cancelled := addSubscription(t, l, "Gone", 100, domain.BillingMonthly, today)

	withNextBilling(t, l, tomorrowPaused.ID, today.AddDays(1))
	withNextBilling(t, l, eightDays.ID, today.AddDays(8))
	withNextBilling(t, l, sevenDays.ID, today.AddDays(7))
	withNextBilling(t, l, dueToday.ID, today)
	withNextBilling(t, l, threeDays.ID, today.AddDays(3))
	withNextBilling(t, l, yesterday.ID, today.AddDays(-1))
	withNextBilling(t, l, cancelled.ID, today.AddDays(2))

	_, _, err := l.TogglePause(ctx, tomorrowPaused.ID)
	require.NoError(t, err)
	_, _, err = l.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)

	upcoming := l.UpcomingRenewals(today, 7)
	ids := make([]string, len(upcoming))
	for i, s := range upcoming {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{dueToday.ID, threeDays.ID, sevenDays.ID}, ids)

	assert.Empty(t, l.UpcomingRenewals(today.AddDays(9), 7))
}

func TestSubscriptionLedger_List(t *testing.T) {
	l, _ := newSubscriptionLedger(t)
	ctx := context.Background()

	netflix := addSubscription(t, l, "Netflix", 1490, domain.BillingMonthly, domain.NewDate(2024, 6, 1))
	adobe := addSubscription(t, l, "Adobe CC", 6480, domain.BillingMonthly, domain.NewDate(2024, 6, 20))
	spotify := addSubscription(t, l, "Spotify", 980, domain.BillingMonthly, domain.NewDate(2024, 6, 15))
	_, _, err := l.TogglePause(ctx, spotify.ID)
	require.NoError(t, err)

	ids := func(list []domain.Subscription) []string {
		out := make([]string, len(list))
		for i, s := range list {
			out[i] = s.ID
		}
		return out
	}

	assert.Equal(t, []string{netflix.ID, spotify.ID, adobe.ID}, ids(l.List(domain.FilterAll, domain.SortNextBilling)))
	assert.Equal(t, []string{adobe.ID, netflix.ID}, ids(l.List(domain.FilterActive, domain.SortAmount)))
	assert.Equal(t, []string{spotify.ID}, ids(l.List(domain.FilterPaused, domain.SortName)))
	assert.Equal(t, []string{adobe.ID, netflix.ID, spotify.ID}, ids(l.List(domain.FilterAll, domain.SortName)))
}

func TestSubscriptionLedger_AdvanceDue(t *testing.T) {
	l, store := newSubscriptionLedger(t)

	monthEnd := addSubscription(t, l, "Month end", 100, domain.BillingMonthly, domain.NewDate(2024, 6, 30))
	current := addSubscription(t, l, "Current", 100, domain.BillingMonthly, domain.NewDate(2024, 6, 10))
	paused := addSubscription(t, l, "Paused", 100, domain.BillingWeekly, domain.NewDate(2024, 6, 10))
	cancelled := addSubscription(t, l, "Cancelled", 100, domain.BillingMonthly, domain.NewDate(2024, 6, 10))
	_, _, err := l.TogglePause(context.Background(), paused.ID)
	require.NoError(t, err)
	_, _, err = l.Cancel(context.Background(), cancelled.ID)
	require.NoError(t, err)

	// Nothing is due yet
	renewed, err := l.AdvanceDue(context.Background(), today)
	require.NoError(t, err)
	assert.Empty(t, renewed)
	writes := store.WriteCount(SubscriptionsBlob)

	later := domain.NewDate(2024, 9, 1)
	renewed, err = l.AdvanceDue(context.Background(), later)
	require.NoError(t, err)
	assert.Equal(t, writes+1, store.WriteCount(SubscriptionsBlob))

	got := make(map[string]domain.Date)
	for _, s := range renewed {
		got[s.ID] = s.NextBillingDate
	}
	require.Len(t, got, 3)
	assert.True(t, domain.NewDate(2024, 9, 30).Equal(got[monthEnd.ID]), "got %s", got[monthEnd.ID])
	assert.True(t, domain.NewDate(2024, 9, 10).Equal(got[current.ID]), "got %s", got[current.ID])
	assert.True(t, domain.NewDate(2024, 9, 2).Equal(got[paused.ID]), "got %s", got[paused.ID])
	assert.NotContains(t, got, cancelled.ID)

	for _, s := range l.All() {
		if s.IsActive {
			assert.False(t, s.NextBillingDate.Before(later), s.Name)
		}
	}
}

func TestSubscriptionLedger_RoundTrip(t *testing.T) {
	l, store := newSubscriptionLedger(t)
	s, err := l.Add(context.Background(), domain.CreateSubscriptionInput{
		Name:         "iCloud+",
		Amount:       130,
		BillingCycle: domain.BillingMonthly,
		Category:     domain.CategorySubscription,
		StartDate:    domain.NewDate(2024, 1, 31),
		Description:  "50GB",
		Icon:         "☁️",
		Color:        "#4A90D9",
	})
	require.NoError(t, err)
	addSubscription(t, l, "Gym", 800, domain.BillingWeekly, today)
	_, _, err = l.TogglePause(context.Background(), s.ID)
	require.NoError(t, err)

	reloaded := NewSubscriptionLedger(store)
	require.NoError(t, reloaded.Load(context.Background()))

	assert.Equal(t, l.All(), reloaded.All())
	assert.True(t, l.MonthlyTotal().Equal(reloaded.MonthlyTotal()))
}

func TestSubscriptionLedger_RoundTripInvalidUTF8(t *testing.T) {
	l, store := newSubscriptionLedger(t)
	ctx := context.Background()

	s, err := l.Add(ctx, domain.CreateSubscriptionInput{
		Name:         "Net\xfflix",
		Amount:       1490,
		BillingCycle: domain.BillingMonthly,
		Category:     domain.CategorySubscription,
		StartDate:    today,
		Description:  "\xc3",
	})
	require.NoError(t, err)
	assert.Equal(t, "Net\uFFFDlix", s.Name)

	icon := "\xed\xa0\x80"
	_, _, err = l.Update(ctx, s.ID, domain.SubscriptionPatch{Icon: &icon})
	require.NoError(t, err)

	reloaded := NewSubscriptionLedger(store)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, l.All(), reloaded.All())
}

func TestSubscriptionLedger_LoadMalformedStartsEmpty(t *testing.T) {
	store := testutil.NewMockBlobStore()
	store.Seed(SubscriptionsBlob, []byte(`[{"id":"x","startDate":"not-a-date"}]`))

	l := NewSubscriptionLedger(store)
	require.NoError(t, l.Load(context.Background()))
	assert.Empty(t, l.All())
}
