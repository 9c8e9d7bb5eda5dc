/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request types carry go-playground/validator tags; handlers run the
  shared validator before touching the Recorder, so an invalid sale never
  reaches the store.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/hinode/billing-engine/ledger"
)

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// TransactionDTO is one ledger record in API responses.
type TransactionDTO struct {
	ID          int64   `json:"id"`
	BillNumber  string  `json:"bill_number,omitempty"`
	StudentName string  `json:"student_name"`
	ClassName   string  `json:"class_name"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Timestamp   int64   `json:"timestamp"`
}

func toTransactionDTO(rec ledger.Record) TransactionDTO {
	return TransactionDTO{
		ID:          int64(rec.ID),
		BillNumber:  rec.BillNumber,
		StudentName: rec.StudentName,
		ClassName:   rec.ClassName,
		Amount:      rec.Amount.InexactFloat64(),
		Date:        rec.Date,
		Timestamp:   rec.Timestamp,
	}
}

// SaveTransactionRequest records a single paid line item.
type SaveTransactionRequest struct {
	StudentName string  `json:"student_name" validate:"required"`
	ClassName   string  `json:"class_name" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`

	// EffectiveDate backdates the sale's calendar day, "2006-01-02".
	// The real clock still supplies the time-of-day.
	EffectiveDate string `json:"effective_date,omitempty"`
}

// SaveTransactionResponse confirms one recorded line item.
type SaveTransactionResponse struct {
	Success    bool   `json:"success"`
	ID         int64  `json:"id"`
	BillNumber string `json:"bill_number"`
	Date       string `json:"date"`
}

// =============================================================================
// SALE TYPES - One cart, N line items
// =============================================================================

// SaleItemRequest is one cart line.
type SaleItemRequest struct {
	ClassName string  `json:"class_name" validate:"required"`
	Amount    float64 `json:"amount" validate:"gte=0"`
}

// SaleRequest records a whole cart in one call.
type SaleRequest struct {
	StudentName   string            `json:"student_name" validate:"required"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	EffectiveDate string            `json:"effective_date,omitempty"`
}

// SaleResponse confirms a sale. The receipt renders the bill numbers as a
// first-last range.
type SaleResponse struct {
	Success         bool                      `json:"success"`
	Items           []SaveTransactionResponse `json:"items"`
	FirstBillNumber string                    `json:"first_bill_number"`
	LastBillNumber  string                    `json:"last_bill_number"`
	Total           float64                   `json:"total"`
	Date            string                    `json:"date"`
}

// =============================================================================
// DELETE / EXPORT TYPES
// =============================================================================

// DeleteResponse reports an administrative delete.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ExportRequest selects an inclusive calendar-day range, "2006-01-02".
type ExportRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// ExportResponse reports the written spreadsheet.
type ExportResponse struct {
	Success  bool   `json:"success"`
	FilePath string `json:"file_path,omitempty"`
	Error    string `json:"error,omitempty"`
}

// =============================================================================
// REVENUE / CATALOG TYPES
// =============================================================================

// RevenueDTO is a period's revenue breakdown.
type RevenueDTO struct {
	Period  string             `json:"period"`
	Class   string             `json:"class,omitempty"`
	ByClass map[string]float64 `json:"by_class"`
	Total   float64            `json:"total"`
	Count   int                `json:"count"`
}

// CourseDTO is one sellable catalog entry.
type CourseDTO struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Schedule string  `json:"schedule"`
}
