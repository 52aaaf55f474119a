// Package apperr defines the error taxonomy shared by the storage, auth and
// realtime layers. Callers match on the sentinels with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrAuth       = errors.New("auth error")
	ErrValidation = errors.New("validation error")
	ErrStorage    = errors.New("storage error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Storage wraps a failure of the durable store for the named operation.
// A nil err yields nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// Validation returns an ErrValidation carrying a human readable reason.
func Validation(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// Auth returns an ErrAuth carrying a human readable reason.
func Auth(reason string) error {
	return fmt.Errorf("%w: %s", ErrAuth, reason)
}
