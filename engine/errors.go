/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  Callers (service layer, HTTP handlers) wrap or map these errors.

ERROR CATEGORIES:
  1. Input errors - Malformed intervals or countries, rejected up front
  2. Domain conflicts - Overlapping trips, always surfaced to the caller
  3. Config errors - Threshold invariant violations at config-write time
  4. Lookup errors - Missing employees/trips (reported by stores)

USAGE:
  Callers should test with errors.Is / errors.As:

    if errors.Is(err, engine.ErrTripOverlap) { ... }

    var conflict *engine.ConflictError
    if errors.As(err, &conflict) {
        reject(conflict.Conflicting.ID)
    }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for malformed input (entry after exit,
	// non-Schengen country). The engine never repairs malformed intervals.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTripOverlap is returned when a candidate interval overlaps an
	// existing non-ghosted trip for the same employee.
	ErrTripOverlap = errors.New("trip dates overlap an existing trip")

	// ErrInvalidConfig is returned when a rule configuration violates the
	// threshold invariants at the point it is accepted for storage.
	ErrInvalidConfig = errors.New("invalid rule configuration")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrTripNotFound is returned when a referenced trip doesn't exist.
	ErrTripNotFound = errors.New("trip not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InputError rejects malformed input before any computation runs.
type InputError struct {
	Field  string // e.g. "exit_date", "country"
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// ConflictError is a detected overlap between a candidate interval and a
// stored trip. It must always reach the caller; it is never auto-resolved.
type ConflictError struct {
	EmployeeID  EmployeeID
	Candidate   Interval
	Conflicting Trip
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("trip %s conflicts with existing trip %s (%s)",
		e.Candidate.Range(), e.Conflicting.ID, e.Conflicting.Range())
}

func (e *ConflictError) Unwrap() error { return ErrTripOverlap }

// ConfigError reports a rule-configuration field outside its allowed range
// or a violated ordering constraint.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule config %s=%d: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidConfig)
}

// IsConflict returns true if the error is an overlap conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrTripOverlap)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrTripNotFound)
}
