/*
errors.go - Centralized error types for the payment engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  Callers (service, API) wrap these with transport-level context.

ERROR CATEGORIES:
  1. Configuration errors - Required formula or parameter row missing
  2. Invalid input errors - Structurally broken records

Both categories are fatal to the computation for the instructor/period:
no partial breakdown is ever returned, because partial results could
understate or overstate pay. Soft fallbacks (full-house tariff for an
uncovered reservation count, base category when no tier qualifies,
default retention) are NOT errors.

USAGE:
  if engine.IsConfiguration(err) {
      // surface the missing formula to the operator
  }

SEE ALSO:
  - engine.go: Where these errors are raised
  - formula.go: Load-time validation raising ConfigurationError
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
	// ErrConfiguration is the root of all configuration failures: a
	// required formula, parameter row, or rule is missing where a
	// non-fallback value is mandatory.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidInput is the root of all structural input failures,
	// such as a versus class without co-instructors or negative counts.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigurationError names the discipline/period pair whose configuration
// is missing or inconsistent. Never silently defaulted to zero.
type ConfigurationError struct {
	DisciplineID DisciplineID
	PeriodID     PeriodID
	Detail       string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for discipline %q period %q: %s",
		e.DisciplineID, e.PeriodID, e.Detail)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// InvalidInputError identifies the single offending record. The rest of
// the instructor's computation does not proceed.
type InvalidInputError struct {
	RecordKind string // "class", "penalty", "workshop", ...
	RecordID   string
	Detail     string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.RecordKind, e.RecordID, e.Detail)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfiguration reports whether err is a configuration failure.
func IsConfiguration(err error) bool { return errors.Is(err, ErrConfiguration) }

// IsInvalidInput reports whether err is a structural input failure.
func IsInvalidInput(err error) bool { return errors.Is(err, ErrInvalidInput) }
