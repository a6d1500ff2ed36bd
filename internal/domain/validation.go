package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CleanText replaces invalid UTF-8 with U+FFFD so stored text survives a JSON round trip unchanged
func CleanText(s string) string {
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// Validate checks the input the way the API boundary requires. The ledger itself accepts anything.
func (in CreateExpenseInput) Validate() error {
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !in.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func (in CreateSubscriptionInput) Validate() error {
	if err := ValidateSubscriptionName(in.Name); err != nil {
		return err
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !in.BillingCycle.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidBillingCycle, in.BillingCycle)
	}
	if !in.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidDate)
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func (p ExpensePatch) Validate() error {
	if p.Amount != nil && *p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if p.Category != nil && !p.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, *p.Category)
	}
	if p.Date != nil && p.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func (p SubscriptionPatch) Validate() error {
	if p.Name != nil {
		if err := ValidateSubscriptionName(*p.Name); err != nil {
			return err
		}
	}
	if p.Amount != nil && *p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if p.BillingCycle != nil && !p.BillingCycle.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidBillingCycle, *p.BillingCycle)
	}
	if p.Category != nil && !p.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, *p.Category)
	}
	if p.StartDate != nil && p.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidDate)
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// ValidateSubscriptionName trims and checks a subscription name
func ValidateSubscriptionName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(name) > MaxSubscriptionNameLength {
		return ErrNameTooLong
	}
	return nil
}
