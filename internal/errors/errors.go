// Package errors defines the domain error taxonomy shared by all core
// services. Storage failures are wrapped and propagated unchanged; only the
// sentinels below are surfaced to callers as recoverable conditions.
package errors

import (
	"fmt"
)

// DomainError is a recoverable, caller-visible failure.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

var (
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient funds",
	}
	ErrInvalidState = &DomainError{
		Code:    "INVALID_STATE",
		Message: "operation not allowed in current state",
	}
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "record not found",
	}
	ErrInvalidToken = &DomainError{
		Code:    "INVALID_TOKEN",
		Message: "invalid or expired confirmation token",
	}
	ErrValidation = &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: "validation failed",
	}
)

// Validation returns a ValidationError with a specific message, still
// matching ErrValidation under errors.Is.
func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InvalidState returns an InvalidState error annotated with the offending
// state, still matching ErrInvalidState under errors.Is.
func InvalidState(current string) error {
	return fmt.Errorf("%w: current state %q", ErrInvalidState, current)
}
