/*
revenue.go - Revenue roll-ups grouped by course

PURPOSE:
  Sums amounts over a filtered record set, grouped by fee label, plus a
  grand total. Feeds the monthly and yearly revenue dashboards, each
  independently narrowable to one course.

SEE ALSO:
  - engine.go: Filters that select the input set
*/
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/hinode/billing-engine/ledger"
	"github.com/shopspring/decimal"
)

// =============================================================================
// BREAKDOWN
// =============================================================================

// Summary is revenue grouped by course over some record set.
type Summary struct {
	ByClass map[string]decimal.Decimal
	Total   decimal.Decimal
	Count   int
}

// Breakdown sums the amounts of a record set grouped by fee label.
func Breakdown(records []ledger.Record) Summary {
	s := Summary{
		ByClass: make(map[string]decimal.Decimal),
		Total:   decimal.Zero,
	}
	for _, rec := range records {
		s.ByClass[rec.ClassName] = s.ByClass[rec.ClassName].Add(rec.Amount)
		s.Total = s.Total.Add(rec.Amount)
		s.Count++
	}
	return s
}

// =============================================================================
// PERIOD ROLL-UPS
// =============================================================================

// MonthlyRevenue computes the breakdown for one local calendar month.
// class narrows to a single course when non-empty.
func (e *Engine) MonthlyRevenue(ctx context.Context, year int, month time.Month, class string) (Summary, error) {
	records, err := e.store.ReadAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	f := Filter{
		Month: fmt.Sprintf("%04d-%02d", year, month),
		Class: class,
	}
	return Breakdown(f.Apply(records)), nil
}

// YearlyRevenue computes the breakdown for one local calendar year.
// class narrows to a single course when non-empty.
func (e *Engine) YearlyRevenue(ctx context.Context, year int, class string) (Summary, error) {
	records, err := e.store.ReadAll(ctx)
	if err != nil {
		return Summary{}, err
	}

	result := make([]ledger.Record, 0, len(records))
	for _, rec := range records {
		if rec.Time().Year() != year {
			continue
		}
		if class != "" && rec.ClassName != class {
			continue
		}
		result = append(result, rec)
	}
	return Breakdown(result), nil
}
