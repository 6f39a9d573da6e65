package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategoryDeclined       ErrorCategory = "declined"
	CategorySystemError    ErrorCategory = "system_error"
	CategoryNetworkError   ErrorCategory = "network_error"
	CategoryInvalidRequest ErrorCategory = "invalid_request"
	CategoryUnsupported    ErrorCategory = "unsupported"
)

// Common gateway errors reported back to the host platform
var (
	// ErrUnsupportedOperation is returned for operations the remote API does not offer
	ErrUnsupportedOperation = NewPaymentError(
		"UNSUPPORTED_OPERATION",
		"This action is not supported by the gateway.",
		CategoryUnsupported,
		false,
	)

	// ErrGatewayGeneral is returned alongside a result whose status is error
	ErrGatewayGeneral = NewPaymentError(
		"GATEWAY_ERROR",
		"An error occurred while processing the transaction.",
		CategorySystemError,
		false,
	)
)

// PaymentError represents a payment processing error with detailed context
type PaymentError struct {
	Code           string
	Message        string
	GatewayMessage string
	IsRetriable    bool
	Category       ErrorCategory
	Details        map[string]interface{}
	Err            error
}

func (e *PaymentError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.GatewayMessage != "" {
		msg = fmt.Sprintf("%s (gateway: %s)", msg, e.GatewayMessage)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As support
func (e *PaymentError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a PaymentError with the same code
func (e *PaymentError) Is(target error) bool {
	var t *PaymentError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewPaymentError creates a new payment error
func NewPaymentError(code, message string, category ErrorCategory, retriable bool) *PaymentError {
	return &PaymentError{
		Code:        code,
		Message:     message,
		Category:    category,
		IsRetriable: retriable,
		Details:     make(map[string]interface{}),
	}
}

// WrapPaymentError creates a payment error carrying the underlying cause
func WrapPaymentError(code, message string, category ErrorCategory, retriable bool, err error) *PaymentError {
	pe := NewPaymentError(code, message, category, retriable)
	pe.Err = err
	return pe
}

// IsCategory reports whether err is a PaymentError of the given category
func IsCategory(err error, category ErrorCategory) bool {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe.Category == category
	}
	return false
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ValidationErrors collects every failed rule of a single validation pass
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Error()
	}
	return strings.Join(parts, "; ")
}

// Field returns the first error recorded for field, or nil
func (e ValidationErrors) Field(field string) *ValidationError {
	for _, ve := range e {
		if ve.Field == field {
			return ve
		}
	}
	return nil
}

// ErrOrNil returns nil when no errors were collected
func (e ValidationErrors) ErrOrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
