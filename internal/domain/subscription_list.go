package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SubscriptionFilter selects which subscriptions a listing shows
type SubscriptionFilter string

const (
	FilterAll    SubscriptionFilter = "all"
	FilterActive SubscriptionFilter = "active"
	// FilterPaused also shows cancelled subscriptions
	FilterPaused SubscriptionFilter = "paused"
)

// SubscriptionSort orders a listing
type SubscriptionSort string

const (
	SortNextBilling SubscriptionSort = "nextBilling"
	SortAmount      SubscriptionSort = "amount"
	SortName        SubscriptionSort = "name"
)

// ParseSubscriptionFilter maps "" to FilterAll
func ParseSubscriptionFilter(s string) (SubscriptionFilter, error) {
	switch f := SubscriptionFilter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterPaused:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, s)
}

// ParseSubscriptionSort maps "" to SortNextBilling
func ParseSubscriptionSort(s string) (SubscriptionSort, error) {
	switch o := SubscriptionSort(s); o {
	case "":
		return SortNextBilling, nil
	case SortNextBilling, SortAmount, SortName:
		return o, nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, s)
}

// Matches reports whether s belongs in a listing with this filter
func (f SubscriptionFilter) Matches(s Subscription) bool {
	switch f {
	case FilterActive:
		return s.IsBillable()
	case FilterPaused:
		return s.IsPaused || !s.IsActive
	default:
		return true
	}
}

// SortSubscriptions orders subs in place. Ties keep their existing order.
func SortSubscriptions(subs []Subscription, order SubscriptionSort) {
	var less func(a, b Subscription) bool
	switch order {
	case SortAmount:
		less = func(a, b Subscription) bool {
			return a.Amount > b.Amount
		}
	case SortName:
		less = func(a, b Subscription) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	default:
		less = func(a, b Subscription) bool {
			return a.NextBillingDate.Before(b.NextBillingDate)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool { return less(subs[i], subs[j]) })
}
