/*
Package export renders a date range of the ledger as a spreadsheet.

PURPOSE:
  Staff export payment history for bookkeeping. The exporter reuses the
  query engine's inclusive calendar-day range filter (identical to the
  history view) and writes one .xlsx file: a header row, one row per
  record sorted by timestamp, and a computed total row.

SEE ALSO:
  - query/engine.go: Range filter the exporter consumes
*/
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hinode/billing-engine/ledger"
	"github.com/hinode/billing-engine/query"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Transactions"

var headers = []string{"Bill No", "Date", "Student", "Course", "Amount (Rs.)"}

// Exporter writes ledger ranges to .xlsx files in a target directory.
type Exporter struct {
	engine *query.Engine
	dir    string
}

// New creates an Exporter writing into dir, which is created on demand.
func New(engine *query.Engine, dir string) *Exporter {
	return &Exporter{engine: engine, dir: dir}
}

// Export writes every record of the inclusive [start, end] calendar-day
// range and returns the path of the written file.
func (e *Exporter) Export(ctx context.Context, start, end time.Time) (string, error) {
	records, err := e.engine.Range(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("reading export range: %w", err)
	}
	query.SortBy(records, ledger.SortByTimestamp, false)

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(e.dir, fmt.Sprintf("transactions_%s_%s_%s.xlsx",
		start.Format("20060102"), end.Format("20060102"),
		time.Now().Format("20060102_150405")))

	if err := Write(path, records); err != nil {
		return "", err
	}
	return path, nil
}

// Write renders records to an .xlsx file at path.
func Write(path string, records []ledger.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, rec := range records {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), rec.BillNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), rec.Date)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), rec.StudentName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), rec.ClassName)
		amount, _ := rec.Amount.Float64()
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), amount)
	}

	totalRow := len(records) + 2
	total := query.Breakdown(records).Total
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", totalRow), "TOTAL")
	totalValue, _ := total.Float64()
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", totalRow), totalValue)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing spreadsheet: %w", err)
	}
	return nil
}
