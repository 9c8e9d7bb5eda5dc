/*
Package ledger provides the payment ledger core for the Hinode Institute
point-of-sale.

PURPOSE:
  This package contains the domain types and algorithms for recording paid
  course fees: the transaction record model, the monthly bill-number
  sequence, and the Recorder that turns a sale into durable ledger rows.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: One immutable ledger entry (one course fee, one student, one moment)
  - BillNumber: Human-readable invoice id, "YYYYMM" + 4-digit sequence
  - Timestamp: epoch milliseconds, the canonical sort and filter key

DESIGN PRINCIPLES:
  1. Append-only: records are created once and never mutated
  2. Precision: uses decimal.Decimal for money, never float64
  3. Derived views: history and revenue are always recomputed from the
     full ledger, there is no separate running total to drift out of sync

USAGE:
  rec := ledger.Record{
      StudentName: "Asha",
      ClassName:   "N5 Japanese",
      Amount:      decimal.NewFromInt(5000),
  }

SEE ALSO:
  - billnumber.go: Sequence derivation
  - recorder.go: Sale orchestration
  - store.go: Persistence interface
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORD - One paid line item
// =============================================================================

// RecordID identifies a ledger row. IDs are assigned by the store at append
// time and increase with creation order.
type RecordID int64

// Record is one paid course fee. Once appended it is immutable; the only
// destructive operation is an explicit administrative delete by id.
type Record struct {
	ID RecordID

	// BillNumber is "YYYYMM" + zero-padded 4-digit sequence. Empty on rows
	// imported from the earliest schema, which predates bill numbering.
	BillNumber string

	StudentName string

	// ClassName is the fee label as charged. It is intentionally not tied
	// to the current course catalog: historical labels outlive catalog edits.
	ClassName string

	Amount decimal.Decimal

	// Date is a human-readable snapshot of the transaction moment, captured
	// at write time and never recomputed.
	Date string

	// Timestamp is epoch milliseconds. All temporal filtering and sorting
	// derives from this field, never from Date.
	Timestamp int64
}

// Time returns the record's instant in the local timezone.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// DateFormat is the layout for the Date snapshot. It mirrors the rendering
// the receipt printer expects, e.g. "3/14/2026, 2:45:07 PM".
const DateFormat = "1/2/2006, 3:04:05 PM"

// FormatDate renders the Date snapshot for an instant.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// =============================================================================
// SORT KEYS - Field selectors for history views
// =============================================================================

type SortKey string

const (
	SortByID         SortKey = "id"
	SortByBillNumber SortKey = "bill_number"
	SortByStudent    SortKey = "student_name"
	SortByClass      SortKey = "class_name"
	SortByAmount     SortKey = "amount"
	SortByTimestamp  SortKey = "timestamp"
)
