package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrConflict is a storage-level CAS miss: the guarded counter
	// update matched no row because another writer got there first.
	ErrConflict = errors.New("concurrent update conflict")

	ErrInsufficientAvailability = errors.New("insufficient room availability")

	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError carries the offending field so the HTTP layer can
// return field-level detail.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
