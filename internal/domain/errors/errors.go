package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an AppError for transport mapping.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeDomain       ErrorType = "domain"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeRepository   ErrorType = "repository"
	ErrorTypeInternal     ErrorType = "internal"
)

// AppError is the structured error carried across layer boundaries. The
// value and entity layers surface these by return; the HTTP layer maps
// StatusCode onto the response.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Cause      error     `json:"-"`
	StatusCode int       `json:"status_code"`

	// Validation carries the accumulated flag set when Type is
	// ErrorTypeValidation.
	Validation BidErrors `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause attaches an underlying error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// AsAppError unwraps err into an *AppError if there is one in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// NewValidation wraps an accumulated bid error set.
func NewValidation(set BidErrors) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       "VALIDATION_FAILED",
		Message:    set.String(),
		StatusCode: 400,
		Validation: set,
	}
}

// NewInvalidAmount reports a malformed monetary amount.
func NewInvalidAmount(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       "INVALID_AMOUNT",
		Message:    message,
		StatusCode: 400,
	}
}

// NewCurrencyMismatch reports arithmetic between different currencies.
func NewCurrencyMismatch(a, b string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       "CURRENCY_MISMATCH",
		Message:    fmt.Sprintf("currency mismatch: %s vs %s", a, b),
		StatusCode: 400,
	}
}

// NewInvalidUser reports a malformed user wire string.
func NewInvalidUser(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       "INVALID_USER",
		Message:    message,
		StatusCode: 400,
	}
}

// NewDomain reports a factory or entity construction failure.
func NewDomain(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeDomain,
		Code:       "DOMAIN_ERROR",
		Message:    message,
		StatusCode: 500,
	}
}

// NewNotFound reports a missing entity.
func NewNotFound(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       "NOT_FOUND",
		Message:    message,
		StatusCode: 404,
	}
}

// NewRepository reports a durable-store failure.
func NewRepository(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeRepository,
		Code:       "REPOSITORY_ERROR",
		Message:    message,
		StatusCode: 500,
	}
}

// NewInternal reports an invariant violation.
func NewInternal(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: 500,
	}
}

// NewUnauthorized reports a missing caller identity.
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
		StatusCode: 401,
	}
}
