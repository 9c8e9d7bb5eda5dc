/*
Package catalog holds the course fee catalog the billing screen sells from.

The catalog is presentation-side data: ledger rows keep their fee label as
charged, so editing the catalog never rewrites history.
*/
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Course is one sellable fee: a label, its price, and the schedule line
// shown on the billing grid.
type Course struct {
	ID       int
	Name     string
	Price    decimal.Decimal
	Schedule string
}

// Default returns the institute's current fee catalog.
func Default() []Course {
	return []Course{
		{ID: 1, Name: "Admission Fee", Price: decimal.NewFromInt(1000), Schedule: "One Time"},
		{ID: 2, Name: "Grade 6 to 11", Price: decimal.NewFromInt(1200), Schedule: "Tue 3.30 p.m - 5.30 p.m"},
		{ID: 3, Name: "Grade 6 to 11", Price: decimal.NewFromInt(1200), Schedule: "Wed 3 p.m - 5 p.m"},
		{ID: 4, Name: "Grade 6 to 11 Special", Price: decimal.NewFromInt(1000), Schedule: "Monthly"},
		{ID: 5, Name: "2026 AL Revision", Price: decimal.NewFromInt(3500), Schedule: "Fri 10.30 a.m - 5.30 p.m"},
		{ID: 6, Name: "2027 AL Theory", Price: decimal.NewFromInt(2500), Schedule: "Mon 3 p.m - 5.30 p.m"},
		{ID: 7, Name: "2027 AL Revision", Price: decimal.NewFromInt(4000), Schedule: "Mon 10 a.m - 5.30 p.m"},
		{ID: 8, Name: "2028 AL Theory", Price: decimal.NewFromInt(3000), Schedule: "Thu 3 p.m - 5.30 p.m"},
		{ID: 9, Name: "2028 AL Revision", Price: decimal.NewFromInt(4500), Schedule: "Thu 10 a.m - 5.30 p.m"},
		{ID: 10, Name: "N5 Japanese", Price: decimal.NewFromInt(5000), Schedule: "Sun 2.30 p.m - 5.30 p.m"},
		{ID: 11, Name: "N4 Japanese", Price: decimal.NewFromInt(5000), Schedule: "Mon 7 p.m - 10 p.m"},
		{ID: 12, Name: "JFT (Weekdays)", Price: decimal.NewFromInt(10000), Schedule: "Tue, Wed, Thu 10 a.m - 2 p.m"},
		{ID: 13, Name: "JFT (Weekends)", Price: decimal.NewFromInt(10000), Schedule: "Sat 10-5, Sun 10-2"},
	}
}

// Search returns courses whose name or schedule contains the query,
// case-insensitively. An empty query returns everything.
func Search(courses []Course, q string) []Course {
	if q == "" {
		return courses
	}
	needle := strings.ToLower(q)
	var result []Course
	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Schedule), needle) {
			result = append(result, c)
		}
	}
	return result
}
