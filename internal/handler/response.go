package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation  = "https://mierunbo.app/errors/validation"
	ErrorTypeNotFound    = "https://mierunbo.app/errors/not-found"
	ErrorTypeInternal    = "https://mierunbo.app/errors/internal"
	ErrorTypeUnavailable = "https://mierunbo.app/errors/unavailable"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// fieldError maps a domain validation error to the offending request field.
// ok is false for errors that are not validation failures.
func fieldError(err error) (ValidationError, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return ValidationError{Field: "amount", Message: "Amount must be a positive whole number of yen"}, true
	case errors.Is(err, domain.ErrInvalidCategory):
		return ValidationError{Field: "category", Message: "Unknown category"}, true
	case errors.Is(err, domain.ErrInvalidBillingCycle):
		return ValidationError{Field: "billingCycle", Message: "Must be one of: weekly, monthly, yearly"}, true
	case errors.Is(err, domain.ErrInvalidDate):
		return ValidationError{Field: "date", Message: "Must be in YYYY-MM-DD format"}, true
	case errors.Is(err, domain.ErrInvalidMonth):
		return ValidationError{Field: "month", Message: "Must be in YYYY-MM format"}, true
	case errors.Is(err, domain.ErrNameRequired):
		return ValidationError{Field: "name", Message: "Name is required"}, true
	case errors.Is(err, domain.ErrNameTooLong):
		return ValidationError{Field: "name", Message: fmt.Sprintf("Name must be %d characters or less", domain.MaxSubscriptionNameLength)}, true
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return ValidationError{Field: "description", Message: fmt.Sprintf("Description must be %d characters or less", domain.MaxDescriptionLength)}, true
	case errors.Is(err, domain.ErrInvalidInput):
		return ValidationError{Field: "query", Message: err.Error()}, true
	}
	return ValidationError{}, false
}

// newDomainValidationError responds 400 for a domain validation error, or 500 otherwise
func newDomainValidationError(c echo.Context, err error) error {
	if fe, ok := fieldError(err); ok {
		return NewValidationError(c, "Validation failed", []ValidationError{fe})
	}
	return NewInternalError(c, "Unexpected error")
}
