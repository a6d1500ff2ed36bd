package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAdvanceBillingDate(t *testing.T) {
	tests := []struct {
		name     string
		date     Date
		cycle    BillingCycle
		expected Date
	}{
		{"weekly adds seven days", NewDate(2024, 6, 28), BillingWeekly, NewDate(2024, 7, 5)},
		{"monthly keeps day", NewDate(2024, 3, 15), BillingMonthly, NewDate(2024, 4, 15)},
		{"monthly Jan 31 into leap February", NewDate(2024, 1, 31), BillingMonthly, NewDate(2024, 2, 29)},
		{"monthly Jan 31 into common February", NewDate(2023, 1, 31), BillingMonthly, NewDate(2023, 2, 28)},
		{"monthly across year end", NewDate(2024, 12, 31), BillingMonthly, NewDate(2025, 1, 31)},
		{"yearly keeps date", NewDate(2024, 5, 10), BillingYearly, NewDate(2025, 5, 10)},
		{"yearly leap day clamps", NewDate(2024, 2, 29), BillingYearly, NewDate(2025, 2, 28)},
		{"unknown cycle advances monthly", NewDate(2024, 3, 15), BillingCycle("daily"), NewDate(2024, 4, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdvanceBillingDate(tt.date, tt.cycle)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestAdvanceBillingDate_AlwaysLaterAndDeterministic(t *testing.T) {
	start := NewDate(2023, 1, 1)
	for _, cycle := range []BillingCycle{BillingWeekly, BillingMonthly, BillingYearly} {
		t.Run(string(cycle), func(t *testing.T) {
			for d := start; d.Before(NewDate(2025, 1, 1)); d = d.AddDays(1) {
				once := AdvanceBillingDate(d, cycle)
				assert.True(t, once.After(d), "%s %s did not move forward", cycle, d)
				assert.True(t, once.Equal(AdvanceBillingDate(d, cycle)))

				twice := AdvanceBillingDate(once, cycle)
				assert.True(t, twice.Equal(AdvanceBillingDate(AdvanceBillingDate(d, cycle), cycle)))
				assert.True(t, twice.After(once))
			}
		})
	}
}

func TestNextBillingDate(t *testing.T) {
	tests := []struct {
		name     string
		start    Date
		cycle    BillingCycle
		today    Date
		expected Date
	}{
		{"future start is one cycle past start", NewDate(2024, 6, 10), BillingMonthly, NewDate(2024, 6, 1), NewDate(2024, 7, 10)},
		{"start today is one cycle later", NewDate(2024, 6, 10), BillingMonthly, NewDate(2024, 6, 10), NewDate(2024, 7, 10)},
		{"past start rolls forward", NewDate(2024, 1, 10), BillingMonthly, NewDate(2024, 6, 11), NewDate(2024, 7, 10)},
		{"due today is kept", NewDate(2024, 1, 10), BillingMonthly, NewDate(2024, 6, 10), NewDate(2024, 6, 10)},
		{"month end anchor survives February", NewDate(2024, 1, 31), BillingMonthly, NewDate(2024, 3, 1), NewDate(2024, 3, 31)},
		{"weekly rolls by weeks", NewDate(2024, 6, 3), BillingWeekly, NewDate(2024, 6, 20), NewDate(2024, 6, 24)},
		{"yearly rolls by years", NewDate(2020, 2, 29), BillingYearly, NewDate(2024, 1, 1), NewDate(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextBillingDate(tt.start, tt.cycle, tt.today)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
			assert.False(t, got.Before(tt.today))
		})
	}
}

func TestMonthlyAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		cycle    BillingCycle
		expected string
	}{
		{"weekly times 4.33", 100, BillingWeekly, "433"},
		{"weekly keeps fraction", 250, BillingWeekly, "1082.5"},
		{"monthly unchanged", 980, BillingMonthly, "980"},
		{"yearly divided by twelve", 1200, BillingYearly, "100"},
		{"unknown cycle unchanged", 500, BillingCycle(""), "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyAmount(tt.amount, tt.cycle)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestSubscriptionPatchApply(t *testing.T) {
	base := Subscription{
		Name:         "Netflix",
		Amount:       1490,
		BillingCycle: BillingMonthly,
		StartDate:    NewDate(2024, 1, 5),
	}

	t.Run("name change does not reschedule", func(t *testing.T) {
		s := base
		name := "Netflix Premium"
		assert.False(t, SubscriptionPatch{Name: &name}.Apply(&s))
		assert.Equal(t, "Netflix Premium", s.Name)
	})

	t.Run("same start date does not reschedule", func(t *testing.T) {
		s := base
		start := NewDate(2024, 1, 5)
		assert.False(t, SubscriptionPatch{StartDate: &start}.Apply(&s))
	})

	t.Run("cycle change reschedules", func(t *testing.T) {
		s := base
		cycle := BillingYearly
		assert.True(t, SubscriptionPatch{BillingCycle: &cycle}.Apply(&s))
		assert.Equal(t, BillingYearly, s.BillingCycle)
	})

	t.Run("start change reschedules", func(t *testing.T) {
		s := base
		start := NewDate(2024, 2, 1)
		assert.True(t, SubscriptionPatch{StartDate: &start}.Apply(&s))
		assert.True(t, start.Equal(s.StartDate))
	})
}

func TestDaysUntilAndUrgency(t *testing.T) {
	today := NewDate(2024, 6, 10)
	s := Subscription{NextBillingDate: NewDate(2024, 6, 13)}

	assert.Equal(t, 3, s.DaysUntilBilling(today))
	assert.Equal(t, -1, DaysUntil(NewDate(2024, 6, 9), today))

	assert.True(t, IsUrgent(0))
	assert.True(t, IsUrgent(3))
	assert.False(t, IsUrgent(4))
	assert.False(t, IsUrgent(-1))
}

func TestIsBillable(t *testing.T) {
	assert.True(t, Subscription{IsActive: true}.IsBillable())
	assert.False(t, Subscription{IsActive: true, IsPaused: true}.IsBillable())
	assert.False(t, Subscription{IsActive: false}.IsBillable())
	assert.False(t, Subscription{IsActive: false, IsPaused: false, CreatedAt: time.Now()}.IsBillable())
}
