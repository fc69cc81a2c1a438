package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that a requested resource was not found in scope.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict indicates the operation clashes with current state, e.g. a
	// campaign that is no longer draft or a tenant that already has an active
	// provider.
	ErrConflict = errors.New("conflict with current state")
)

// ValidationError indicates malformed input or a dangling reference detected
// before any side effect.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
