/*
errors.go - Centralized error types for the ledger core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers classify failures with errors.Is rather than string matching.

ERROR CATEGORIES:
  1. Store errors  - The ledger cannot be read or written
  2. Lookup errors - A referenced record does not exist
  3. Input errors  - A sale request fails validation before any write

SEE ALSO:
  - store.go: Uses these errors
  - recorder.go: Wraps these errors with sale context
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrStoreCorrupt is returned when the underlying store exists but its
	// contents cannot be read. A missing store is NOT corrupt: first read of
	// a never-initialized store yields an empty ledger instead.
	ErrStoreCorrupt = errors.New("ledger store is corrupt")

	// ErrRecordNotFound is returned by lookups for an id that is not in the
	// ledger. DeleteByID reports non-existence as a boolean, not this error.
	ErrRecordNotFound = errors.New("record not found")

	// ErrEmptySale is returned when a sale has no line items.
	ErrEmptySale = errors.New("sale has no line items")

	// ErrEmptyStudentName is returned when a sale names no student.
	ErrEmptyStudentName = errors.New("student name is empty")

	// ErrNegativeAmount is returned when a line item's amount is negative.
	ErrNegativeAmount = errors.New("amount is negative")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CorruptStoreError wraps the underlying read failure with its location so
// the operator can see which file is damaged.
type CorruptStoreError struct {
	Path string
	Err  error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("ledger store %s is unreadable: %v", e.Path, e.Err)
}

func (e *CorruptStoreError) Unwrap() error { return ErrStoreCorrupt }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid caller input,
// as opposed to a storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptySale) ||
		errors.Is(err, ErrEmptyStudentName) ||
		errors.Is(err, ErrNegativeAmount)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
