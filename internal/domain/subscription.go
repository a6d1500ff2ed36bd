package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/util"
)

type BillingCycle string

const (
	BillingWeekly  BillingCycle = "weekly"
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

// UrgentWithinDays is how close a renewal must be to be flagged urgent
const UrgentWithinDays = 3

// weeksPerMonth is the fixed average used to normalize weekly amounts
var weeksPerMonth = decimal.RequireFromString("4.33")

func (c BillingCycle) IsValid() bool {
	switch c {
	case BillingWeekly, BillingMonthly, BillingYearly:
		return true
	}
	return false
}

type Subscription struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Amount          int64        `json:"amount"`
	BillingCycle    BillingCycle `json:"billingCycle"`
	Category        CategoryKey  `json:"category"`
	StartDate       Date         `json:"startDate"`
	NextBillingDate Date         `json:"nextBillingDate"`
	Description     string       `json:"description,omitempty"`
	Icon            string       `json:"icon,omitempty"`
	Color           string       `json:"color,omitempty"`
	IsActive        bool         `json:"isActive"`
	IsPaused        bool         `json:"isPaused"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// CreateSubscriptionInput is the caller-supplied part of a new subscription
type CreateSubscriptionInput struct {
	Name         string
	Amount       int64
	BillingCycle BillingCycle
	Category     CategoryKey
	StartDate    Date
	Description  string
	Icon         string
	Color        string
}

// SubscriptionPatch holds the editable fields of a subscription. Nil fields are left unchanged.
// Lifecycle flags change only through TogglePause and Cancel.
type SubscriptionPatch struct {
	Name         *string
	Amount       *int64
	BillingCycle *BillingCycle
	Category     *CategoryKey
	StartDate    *Date
	Description  *string
	Icon         *string
	Color        *string
}

// Apply merges p into s and reports whether the billing schedule changed
func (p SubscriptionPatch) Apply(s *Subscription) bool {
	if p.Name != nil {
		s.Name = CleanText(*p.Name)
	}
	if p.Amount != nil {
		s.Amount = *p.Amount
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Description != nil {
		s.Description = CleanText(*p.Description)
	}
	if p.Icon != nil {
		s.Icon = CleanText(*p.Icon)
	}
	if p.Color != nil {
		s.Color = CleanText(*p.Color)
	}

	rescheduled := false
	if p.StartDate != nil && !p.StartDate.Equal(s.StartDate) {
		s.StartDate = *p.StartDate
		rescheduled = true
	}
	if p.BillingCycle != nil && *p.BillingCycle != s.BillingCycle {
		s.BillingCycle = *p.BillingCycle
		rescheduled = true
	}
	return rescheduled
}

// IsBillable reports whether the subscription counts toward totals and renewals
func (s Subscription) IsBillable() bool {
	return s.IsActive && !s.IsPaused
}

// MonthlyAmount returns the subscription amount normalized to one month
func (s Subscription) MonthlyAmount() decimal.Decimal {
	return MonthlyAmount(s.Amount, s.BillingCycle)
}

// DaysUntilBilling returns the calendar days from today to the next billing date
func (s Subscription) DaysUntilBilling(today Date) int {
	return DaysUntil(s.NextBillingDate, today)
}

// AdvanceBillingDate returns the date exactly one billing cycle after date.
// Monthly and yearly steps keep the day of month, clamped to the last day of the target month.
// Unknown cycles advance monthly.
func AdvanceBillingDate(date Date, cycle BillingCycle) Date {
	switch cycle {
	case BillingWeekly:
		return date.AddDays(7)
	case BillingYearly:
		return Date{Time: util.AddMonthsClamped(date.Time, 12)}
	default:
		return Date{Time: util.AddMonthsClamped(date.Time, 1)}
	}
}

// NextBillingDate returns the first billing date after start that is not before today.
// The first billing is always at least one cycle after start.
func NextBillingDate(start Date, cycle BillingCycle, today Date) Date {
	return RollForward(start, AdvanceBillingDate(start, cycle), cycle, today)
}

// RollForward advances next one cycle at a time until it is not before today
func RollForward(start, next Date, cycle BillingCycle, today Date) Date {
	for next.Before(today) {
		next = advanceFrom(start, next, cycle)
	}
	return next
}

// advanceFrom steps one cycle past current, anchoring monthly steps on start's day of month
// so that a clamped Feb 28 does not pull later renewals off the 31st.
func advanceFrom(start, current Date, cycle BillingCycle) Date {
	if cycle == BillingWeekly {
		return current.AddDays(7)
	}
	step := 1
	if cycle == BillingYearly {
		step = 12
	}
	months := (current.Year()-start.Year())*12 + int(current.Time.Month()-start.Time.Month()) + step
	return Date{Time: util.AddMonthsClamped(start.Time, months)}
}

// MonthlyAmount normalizes amount billed every cycle to a monthly figure.
// Weekly × 4.33, monthly × 1, yearly ÷ 12. No rounding is applied.
func MonthlyAmount(amount int64, cycle BillingCycle) decimal.Decimal {
	a := decimal.NewFromInt(amount)
	switch cycle {
	case BillingWeekly:
		return a.Mul(weeksPerMonth)
	case BillingYearly:
		return a.Div(decimal.NewFromInt(12))
	default:
		return a
	}
}

// DaysUntil returns the calendar days from today to date, negative when date has passed
func DaysUntil(date, today Date) int {
	return date.DaysUntil(today)
}

// IsUrgent reports whether a renewal days away should be highlighted
func IsUrgent(days int) bool {
	return days >= 0 && days <= UrgentWithinDays
}
