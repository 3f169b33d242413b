// Package apperr defines the expected, user-facing error vocabulary of the
// booking engine. All five classes are local outcomes and must never
// escalate to a process-level failure; anything outside this vocabulary is
// treated as an internal error by the transport layer.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input, rejected before the ledger is touched.
	ErrValidation = errors.New("validation failed")
	// ErrPastTime marks a requested slot start that is not strictly in the future.
	ErrPastTime = errors.New("slot start is in the past")
	// ErrConflict marks an overlap with existing active bookings beyond the
	// window's session limit. Callers should re-query available slots.
	ErrConflict = errors.New("slot conflicts with an existing booking")
	// ErrIllegalTransition marks a transition the booking's current state
	// does not permit.
	ErrIllegalTransition = errors.New("transition not allowed from current state")
	// ErrNotFound marks a missing record, or one the caller is not allowed
	// to see. Ownership failures deliberately surface as not-found so the
	// engine never confirms a booking's existence to a non-owner.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries the offending field alongside ErrValidation.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Detail)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validationf builds a field-carrying validation error.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Detail: fmt.Sprintf(format, args...)}
}

// NotFoundf wraps ErrNotFound with the record kind for logs.
func NotFoundf(kind string) error {
	return fmt.Errorf("%s: %w", kind, ErrNotFound)
}

// IllegalTransitionf wraps ErrIllegalTransition with the attempted edge.
func IllegalTransitionf(transition, from string) error {
	return fmt.Errorf("%s from %q: %w", transition, from, ErrIllegalTransition)
}
