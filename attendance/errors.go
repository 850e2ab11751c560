/*
errors.go - Centralized error types for the attendance core

PURPOSE:
  All error types in one place for consistency and discoverability.
  The pure computation paths (rounding, engine) never fail; errors
  exist only at the validation boundary and around persistence.

ERROR CATEGORIES:
  1. Validation errors - malformed input, out-of-range configuration.
     Rejected synchronously, never partially applied.
  2. Not-found errors  - referenced person/record absent. Structured
     failure to the caller, no retry.
  3. Write errors      - persistence call failed. Logged at the call
     site and surfaced; queued work is not retried automatically.

USAGE:
  if errors.Is(err, attendance.ErrNotFound) { ... }
  var verr *attendance.ValidationError
  if errors.As(err, &verr) { ... }
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced person or record is absent.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is the root of all boundary validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrWriteFailed is returned when a persistence call fails.
	ErrWriteFailed = errors.New("write failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a malformed or out-of-range input value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports which record was missing.
type NotFoundError struct {
	Kind string // "person", "shift", "attendance_day", "status_period"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
