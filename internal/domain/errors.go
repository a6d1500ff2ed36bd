package domain

import "errors"

// Domain errors
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidBillingCycle = errors.New("invalid billing cycle")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidDate         = errors.New("invalid date")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")
	ErrDescriptionTooLong  = errors.New("description exceeds maximum length")
)

// Validation constants
const (
	MaxSubscriptionNameLength = 100
	MaxDescriptionLength      = 200
)
