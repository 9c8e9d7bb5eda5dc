/*
handlers.go - HTTP API handlers for the point-of-sale backend

PURPOSE:
  Exposes the ledger via REST for the billing frontend. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Transactions:
    POST   /api/transactions       Record one paid line item
    GET    /api/transactions       History (search/day/month/class/sort)
    GET    /api/transactions/{id}  Single record lookup
    DELETE /api/transactions/{id}  Administrative delete by id

  Sales:
    POST   /api/sales              Record a whole cart (N line items)

  Revenue:
    GET    /api/revenue/monthly    Monthly breakdown by course
    GET    /api/revenue/yearly     Yearly breakdown by course

  Export:
    POST   /api/export             Write an .xlsx for a date range

  Catalog:
    GET    /api/courses            Course fee catalog (searchable)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Storage failures

SECURITY NOTE:
  No authentication. The admin-password prompt before deletion lives in
  the frontend; the API trusts its single interactive user.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hinode/billing-engine/catalog"
	"github.com/hinode/billing-engine/export"
	"github.com/hinode/billing-engine/ledger"
	"github.com/hinode/billing-engine/query"
	"github.com/shopspring/decimal"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Recorder *ledger.Recorder
	Engine   *query.Engine
	Exporter *export.Exporter
	Courses  []catalog.Course

	validate *validator.Validate
}

// NewHandler creates a handler over the given store-backed collaborators.
func NewHandler(recorder *ledger.Recorder, engine *query.Engine, exporter *export.Exporter) *Handler {
	return &Handler{
		Recorder: recorder,
		Engine:   engine,
		Exporter: exporter,
		Courses:  catalog.Default(),
		validate: validator.New(),
	}
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// SaveTransaction records one paid line item.
// POST /api/transactions
func (h *Handler) SaveTransaction(w http.ResponseWriter, r *http.Request) {
	var req SaveTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sale", err)
		return
	}

	effective, err := parseEffectiveDate(req.EffectiveDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_date format (use YYYY-MM-DD)", err)
		return
	}

	result, err := h.Recorder.Record(r.Context(), req.StudentName, req.ClassName, decimal.NewFromFloat(req.Amount), effective)
	if err != nil {
		status := http.StatusInternalServerError
		if ledger.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to record transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, SaveTransactionResponse{
		Success:    true,
		ID:         int64(result.ID),
		BillNumber: result.BillNumber,
		Date:       result.Date,
	})
}

// SaveSale records a whole cart as N ledger rows with consecutive bill
// numbers, all-or-nothing.
// POST /api/sales
func (h *Handler) SaveSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid sale", err)
		return
	}

	effective, err := parseEffectiveDate(req.EffectiveDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid effective_date format (use YYYY-MM-DD)", err)
		return
	}

	items := make([]ledger.SaleItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = ledger.SaleItem{
			ClassName: item.ClassName,
			Amount:    decimal.NewFromFloat(item.Amount),
		}
	}

	receipt, err := h.Recorder.RecordSale(r.Context(), req.StudentName, items, effective)
	if err != nil {
		status := http.StatusInternalServerError
		if ledger.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to record sale", err)
		return
	}

	resp := SaleResponse{
		Success:         true,
		FirstBillNumber: receipt.FirstBillNumber,
		LastBillNumber:  receipt.LastBillNumber,
		Total:           receipt.Total.InexactFloat64(),
		Date:            receipt.Date,
	}
	for _, item := range receipt.Items {
		resp.Items = append(resp.Items, SaveTransactionResponse{
			Success:    true,
			ID:         int64(item.ID),
			BillNumber: item.BillNumber,
			Date:       item.Date,
		})
	}
	writeJSON(w, http.StatusCreated, resp)
}

// GetTransactions returns the filtered, sorted history.
// GET /api/transactions?search=&day=&month=&class=&sort=&order=
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := query.Filter{
		Search: q.Get("search"),
		Day:    q.Get("day"),
		Month:  q.Get("month"),
		Class:  q.Get("class"),
	}

	key := ledger.SortKey(q.Get("sort"))
	if key == "" {
		key = ledger.SortByTimestamp
	}
	descending := q.Get("order") != "asc"

	records, err := h.Engine.History(r.Context(), filter, key, descending)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read history", err)
		return
	}

	dtos := make([]TransactionDTO, len(records))
	for i, rec := range records {
		dtos[i] = toTransactionDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTransaction returns one record by id.
// GET /api/transactions/{id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction id", err)
		return
	}

	rec, err := h.Engine.Find(r.Context(), ledger.RecordID(id))
	if err != nil {
		if ledger.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Transaction not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to read transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionDTO(rec))
}

// DeleteTransaction removes one record by id. The admin-password gate is
// the frontend's concern; here non-existence is simply a 404 result.
// DELETE /api/transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transaction id", err)
		return
	}

	found, err := h.Recorder.Delete(r.Context(), ledger.RecordID(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete transaction", err)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, DeleteResponse{Success: false, Error: "transaction not found"})
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Success: true})
}

// =============================================================================
// REVENUE HANDLERS
// =============================================================================

// MonthlyRevenue returns the revenue breakdown for one month.
// GET /api/revenue/monthly?year=2026&month=3&class=
func (h *Handler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}
	class := q.Get("class")

	summary, err := h.Engine.MonthlyRevenue(r.Context(), year, time.Month(month), class)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute revenue", err)
		return
	}

	writeJSON(w, http.StatusOK, toRevenueDTO(fmt.Sprintf("%04d-%02d", year, month), class, summary))
}

// YearlyRevenue returns the revenue breakdown for one year.
// GET /api/revenue/yearly?year=2026&class=
func (h *Handler) YearlyRevenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	class := q.Get("class")

	summary, err := h.Engine.YearlyRevenue(r.Context(), year, class)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute revenue", err)
		return
	}

	writeJSON(w, http.StatusOK, toRevenueDTO(strconv.Itoa(year), class, summary))
}

func toRevenueDTO(period, class string, summary query.Summary) RevenueDTO {
	dto := RevenueDTO{
		Period:  period,
		Class:   class,
		ByClass: make(map[string]float64, len(summary.ByClass)),
		Total:   summary.Total.InexactFloat64(),
		Count:   summary.Count,
	}
	for name, amount := range summary.ByClass {
		dto.ByClass[name] = amount.InexactFloat64()
	}
	return dto
}

// =============================================================================
// EXPORT HANDLER
// =============================================================================

// ExportTransactions writes an .xlsx of the inclusive date range.
// POST /api/export
func (h *Handler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid export range", err)
		return
	}

	start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end_date is before start_date", nil)
		return
	}

	path, err := h.Exporter.Export(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ExportResponse{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ExportResponse{Success: true, FilePath: path})
}

// =============================================================================
// CATALOG HANDLER
// =============================================================================

// ListCourses returns the fee catalog, optionally filtered by free text.
// GET /api/courses?q=
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses := catalog.Search(h.Courses, r.URL.Query().Get("q"))

	dtos := make([]CourseDTO, len(courses))
	for i, c := range courses {
		dtos[i] = CourseDTO{
			ID:       c.ID,
			Name:     c.Name,
			Price:    c.Price.InexactFloat64(),
			Schedule: c.Schedule,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func parseEffectiveDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := map[string]any{"error": message}
	if err != nil {
		resp["detail"] = err.Error()
	}
	writeJSON(w, status, resp)
}
