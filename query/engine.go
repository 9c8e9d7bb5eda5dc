/*
Package query derives all read-side views of the payment ledger.

PURPOSE:
  History filtering, sorting, and revenue roll-ups are computed on demand
  from a full ReadAll scan. There are no persisted indexes and no query
  engine: correctness over cleverness at tutoring-institute volumes.

FILTER SEMANTICS:
  - Free-text search: case-insensitive substring over bill number OR
    student name
  - Day filter: local calendar date derived from Timestamp (never from the
    stored Date string); takes precedence over the month filter
  - Month filter: local "YYYY-MM", same derivation
  - Class filter: exact match on the fee label
  - Range filter: inclusive of the full calendar day at both ends
  All present filters compose with logical AND. An empty Filter is the
  identity: it returns the ledger unchanged.

SCALING NOTE:
  Every view loads the whole ledger into memory. If volumes ever outgrow
  that, these filters are already expressed as a predicate over the
  record slice, so an indexed backend can short-circuit behind the same
  contract.

SEE ALSO:
  - revenue.go: Amount roll-ups grouped by class
  - ledger/store.go: The ReadAll source
*/
package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hinode/billing-engine/ledger"
)

// =============================================================================
// FILTER
// =============================================================================

// Filter selects ledger records. Zero-value fields are "no constraint";
// the zero Filter matches everything.
type Filter struct {
	// Search matches case-insensitively against bill number or student name.
	Search string

	// Day is a local calendar date, "2006-01-02". When set, Month is ignored.
	Day string

	// Month is a local calendar month, "2006-01".
	Month string

	// Class is an exact fee-label match.
	Class string

	// From/To bound the record's Timestamp to an inclusive calendar-day
	// range: From's day from 00:00:00.000, To's day through 23:59:59.999.
	From *time.Time
	To   *time.Time
}

// Matches reports whether a single record passes every constraint.
func (f Filter) Matches(rec ledger.Record) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(rec.BillNumber), needle) &&
			!strings.Contains(strings.ToLower(rec.StudentName), needle) {
			return false
		}
	}

	// Day wins over month when both are present.
	if f.Day != "" {
		if rec.Time().Format("2006-01-02") != f.Day {
			return false
		}
	} else if f.Month != "" {
		if rec.Time().Format("2006-01") != f.Month {
			return false
		}
	}

	if f.Class != "" && rec.ClassName != f.Class {
		return false
	}

	if f.From != nil && rec.Timestamp < StartOfDayMillis(*f.From) {
		return false
	}
	if f.To != nil && rec.Timestamp > EndOfDayMillis(*f.To) {
		return false
	}

	return true
}

// Apply returns the records passing the filter, preserving input order.
func (f Filter) Apply(records []ledger.Record) []ledger.Record {
	result := make([]ledger.Record, 0, len(records))
	for _, rec := range records {
		if f.Matches(rec) {
			result = append(result, rec)
		}
	}
	return result
}

// StartOfDayMillis floors a date to 00:00:00.000 local time, in epoch ms.
func StartOfDayMillis(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).UnixMilli()
}

// EndOfDayMillis ceils a date to 23:59:59.999 local time, in epoch ms.
func EndOfDayMillis(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location()).UnixMilli()
}

// =============================================================================
// SORT
// =============================================================================

// SortBy orders records by a single field key. The sort is stable: ties
// keep their input order, there is no secondary key.
func SortBy(records []ledger.Record, key ledger.SortKey, descending bool) {
	less := lessFunc(key)
	sort.SliceStable(records, func(i, j int) bool {
		if descending {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
}

func lessFunc(key ledger.SortKey) func(a, b ledger.Record) bool {
	switch key {
	case ledger.SortByID:
		return func(a, b ledger.Record) bool { return a.ID < b.ID }
	case ledger.SortByBillNumber:
		return func(a, b ledger.Record) bool { return a.BillNumber < b.BillNumber }
	case ledger.SortByStudent:
		return func(a, b ledger.Record) bool { return a.StudentName < b.StudentName }
	case ledger.SortByClass:
		return func(a, b ledger.Record) bool { return a.ClassName < b.ClassName }
	case ledger.SortByAmount:
		return func(a, b ledger.Record) bool { return a.Amount.LessThan(b.Amount) }
	default:
		return func(a, b ledger.Record) bool { return a.Timestamp < b.Timestamp }
	}
}

// =============================================================================
// ENGINE - Read-side views over a Store
// =============================================================================

// Engine serves history and revenue views from a ledger store.
type Engine struct {
	store ledger.Store
}

// NewEngine creates an Engine reading from the given store.
func NewEngine(store ledger.Store) *Engine {
	return &Engine{store: store}
}

// Transactions returns the whole ledger in storage order.
func (e *Engine) Transactions(ctx context.Context) ([]ledger.Record, error) {
	return e.store.ReadAll(ctx)
}

// Find returns the record with the given id, or ledger.ErrRecordNotFound.
func (e *Engine) Find(ctx context.Context, id ledger.RecordID) (ledger.Record, error) {
	records, err := e.store.ReadAll(ctx)
	if err != nil {
		return ledger.Record{}, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return ledger.Record{}, fmt.Errorf("transaction %d: %w", id, ledger.ErrRecordNotFound)
}

// History returns the filtered ledger, sorted by the given key.
func (e *Engine) History(ctx context.Context, f Filter, key ledger.SortKey, descending bool) ([]ledger.Record, error) {
	records, err := e.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	records = f.Apply(records)
	SortBy(records, key, descending)
	return records, nil
}

// Range returns the records of the inclusive [start, end] calendar-day
// range, in storage order. This is the exact filter the exporter uses.
func (e *Engine) Range(ctx context.Context, start, end time.Time) ([]ledger.Record, error) {
	records, err := e.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return Filter{From: &start, To: &end}.Apply(records), nil
}
