package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced account does not exist in its
	// kind's collection.
	ErrNotFound = errors.New("registry: account not found")

	// ErrValidation means the request was rejected before any store call.
	ErrValidation = errors.New("registry: invalid input")
)

// CooldownActiveError is returned when a reactivation is attempted before
// the deactivation cooldown has elapsed. No mutation occurs.
type CooldownActiveError struct {
	DaysRemaining int
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("registry: reactivation cooldown active, %d day(s) remaining", e.DaysRemaining)
}

// StoreWriteError wraps a persistence failure; the operation did not apply.
type StoreWriteError struct {
	Op  string
	Err error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("registry: %s: store write failed: %v", e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
