/*
recorder.go - Turns a sale into durable ledger rows

PURPOSE:
  The Recorder is the only writer of the ledger. For each paid line item it
  computes the transaction moment, derives the next bill number, constructs
  the record, and appends it, returning the identifiers the receipt needs.

EFFECTIVE DATE:
  A sale may be backdated for late entry. The override replaces the
  calendar day (year/month/day) but keeps the real clock's time-of-day, so
  backdated rows still carry a meaningful time and sort after earlier
  entries of the same day.

MULTI-ITEM SALES:
  A cart with N items produces N independent ledger rows sharing the same
  student and moment, each with its own consecutive bill number. The
  receipt renders them as a single bill with a first-last number range.
  Internally the N appends run inside one store transaction, so a mid-sale
  failure leaves the ledger untouched rather than partially recorded.

FAILURE PROPAGATION:
  Any persistence failure propagates to the caller as an error. The caller
  must not print a receipt for a sale that was not recorded.

SEE ALSO:
  - billnumber.go: Sequence derivation
  - store.go: TxStore critical section contract
*/
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORDER
// =============================================================================

// Recorder records sales against a transactional store.
type Recorder struct {
	store TxStore

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewRecorder creates a Recorder backed by the given store.
func NewRecorder(store TxStore) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// NewRecorderWithClock creates a Recorder with a fixed clock source.
func NewRecorderWithClock(store TxStore, now func() time.Time) *Recorder {
	return &Recorder{store: store, now: now}
}

// SaleItem is one cart line: a fee label and its amount.
type SaleItem struct {
	ClassName string
	Amount    decimal.Decimal
}

// Result confirms one recorded line item.
type Result struct {
	ID         RecordID
	BillNumber string
	Date       string
}

// Receipt confirms a whole sale. FirstBillNumber and LastBillNumber bound
// the consecutive range issued for the cart; they are equal for a
// single-item sale.
type Receipt struct {
	Items           []Result
	FirstBillNumber string
	LastBillNumber  string
	Total           decimal.Decimal
	Date            string
}

// Record persists a single paid line item and returns its identifiers.
// effective may be nil to use the current moment.
func (rc *Recorder) Record(ctx context.Context, studentName, className string, amount decimal.Decimal, effective *time.Time) (Result, error) {
	receipt, err := rc.RecordSale(ctx, studentName, []SaleItem{{ClassName: className, Amount: amount}}, effective)
	if err != nil {
		return Result{}, err
	}
	return receipt.Items[0], nil
}

// RecordSale persists every item of a cart as its own ledger row, all
// inside one store transaction. The rows share one student and one moment
// and carry consecutive bill numbers.
func (rc *Recorder) RecordSale(ctx context.Context, studentName string, items []SaleItem, effective *time.Time) (Receipt, error) {
	if strings.TrimSpace(studentName) == "" {
		return Receipt{}, ErrEmptyStudentName
	}
	if len(items) == 0 {
		return Receipt{}, ErrEmptySale
	}
	for _, item := range items {
		if item.Amount.IsNegative() {
			return Receipt{}, fmt.Errorf("%q: %w", item.ClassName, ErrNegativeAmount)
		}
	}

	moment := rc.effectiveMoment(effective)
	date := FormatDate(moment)
	timestamp := moment.UnixMilli()

	receipt := Receipt{Date: date, Total: decimal.Zero}

	err := rc.store.WithTx(ctx, func(s Store) error {
		// Read-max-then-append must not interleave with another append;
		// WithTx holds the whole cart as one critical section.
		existing, err := s.ReadAll(ctx)
		if err != nil {
			return fmt.Errorf("reading ledger for numbering: %w", err)
		}

		next := NextBillNumber(moment, existing)
		prefix, seq, _ := SplitBillNumber(next)

		for i, item := range items {
			rec := Record{
				BillNumber:  fmt.Sprintf("%s%0*d", prefix, sequenceWidth, seq+i),
				StudentName: studentName,
				ClassName:   item.ClassName,
				Amount:      item.Amount,
				Date:        date,
				Timestamp:   timestamp,
			}

			id, err := s.Append(ctx, rec)
			if err != nil {
				return fmt.Errorf("recording %q: %w", item.ClassName, err)
			}

			receipt.Items = append(receipt.Items, Result{
				ID:         id,
				BillNumber: rec.BillNumber,
				Date:       date,
			})
			receipt.Total = receipt.Total.Add(item.Amount)
		}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	receipt.FirstBillNumber = receipt.Items[0].BillNumber
	receipt.LastBillNumber = receipt.Items[len(receipt.Items)-1].BillNumber
	return receipt, nil
}

// Delete removes one record by id. It reports whether a record was found;
// non-existence is not an error. Authorization for deletion (the admin
// password prompt) is the caller's concern, not the ledger's.
func (rc *Recorder) Delete(ctx context.Context, id RecordID) (bool, error) {
	return rc.store.DeleteByID(ctx, id)
}

// effectiveMoment merges an optional backdate with the current clock:
// the override supplies year/month/day, the clock supplies time-of-day.
func (rc *Recorder) effectiveMoment(effective *time.Time) time.Time {
	now := rc.now()
	if effective == nil {
		return now
	}
	return time.Date(
		effective.Year(), effective.Month(), effective.Day(),
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(),
		now.Location(),
	)
}
