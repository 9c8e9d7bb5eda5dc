package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/hinode/billing-engine/api"
	"github.com/hinode/billing-engine/export"
	"github.com/hinode/billing-engine/ledger"
	"github.com/hinode/billing-engine/ledger/store"
	"github.com/hinode/billing-engine/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// march14 pins the clock so bill numbers and dates are deterministic.
var march14 = time.Date(2026, time.March, 14, 14, 45, 7, 0, time.Local)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mem := store.NewTxMemory()
	recorder := ledger.NewRecorderWithClock(mem, func() time.Time { return march14 })
	engine := query.NewEngine(mem)
	exporter := export.New(engine, t.TempDir())

	handler := api.NewHandler(recorder, engine, exporter)
	server := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func saveTransaction(t *testing.T, server *httptest.Server, student, class string, amount float64) api.SaveTransactionResponse {
	t.Helper()
	resp := postJSON(t, server.URL+"/api/transactions", api.SaveTransactionRequest{
		StudentName: student,
		ClassName:   class,
		Amount:      amount,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var saved api.SaveTransactionResponse
	decodeJSON(t, resp, &saved)
	return saved
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestSaveTransaction_AssignsBillNumber(t *testing.T) {
	// GIVEN: An empty ledger with the clock pinned to March 2026
	// WHEN: Recording one paid line item
	// THEN: 201 with the month's first bill number

	server := newTestServer(t)

	saved := saveTransaction(t, server, "Asha", "Admission Fee", 1000)

	assert.True(t, saved.Success)
	assert.Equal(t, "2026030001", saved.BillNumber)
	assert.Equal(t, ledger.FormatDate(march14), saved.Date)
	assert.NotZero(t, saved.ID)
}

func TestSaveTransaction_MissingStudent_Returns400(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/transactions", api.SaveTransactionRequest{
		ClassName: "Admission Fee",
		Amount:    1000,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSaveTransaction_MalformedEffectiveDate_Returns400(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/transactions", api.SaveTransactionRequest{
		StudentName:   "Asha",
		ClassName:     "Admission Fee",
		Amount:        1000,
		EffectiveDate: "14-03-2026",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSaveTransaction_Backdated_UsesOverrideMonth(t *testing.T) {
	// GIVEN: The clock reads March 2026
	// WHEN: Recording with an effective date in February
	// THEN: The bill number carries February's prefix

	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/transactions", api.SaveTransactionRequest{
		StudentName:   "Asha",
		ClassName:     "Admission Fee",
		Amount:        1000,
		EffectiveDate: "2026-02-10",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var saved api.SaveTransactionResponse
	decodeJSON(t, resp, &saved)
	assert.Equal(t, "2026020001", saved.BillNumber)
}

func TestGetTransactions_DefaultsToNewestFirst(t *testing.T) {
	server := newTestServer(t)

	saveTransaction(t, server, "Asha", "Admission Fee", 1000)
	saveTransaction(t, server, "Nimal", "N5 Japanese", 5000)

	resp, err := http.Get(server.URL + "/api/transactions")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []api.TransactionDTO
	decodeJSON(t, resp, &records)

	require.Len(t, records, 2)
	// Same pinned timestamp, so the stable sort keeps append order within
	// the tie; both rows must be present with their bill numbers.
	billNumbers := []string{records[0].BillNumber, records[1].BillNumber}
	assert.ElementsMatch(t, []string{"2026030001", "2026030002"}, billNumbers)
}

func TestGetTransactions_SearchFilter(t *testing.T) {
	server := newTestServer(t)

	saveTransaction(t, server, "Asha", "Admission Fee", 1000)
	saveTransaction(t, server, "Nimal", "N5 Japanese", 5000)

	resp, err := http.Get(server.URL + "/api/transactions?search=nimal")
	require.NoError(t, err)

	var records []api.TransactionDTO
	decodeJSON(t, resp, &records)

	require.Len(t, records, 1)
	assert.Equal(t, "Nimal", records[0].StudentName)
}

func TestGetTransaction_ByID(t *testing.T) {
	server := newTestServer(t)

	saved := saveTransaction(t, server, "Asha", "Admission Fee", 1000)

	resp, err := http.Get(fmt.Sprintf("%s/api/transactions/%d", server.URL, saved.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec api.TransactionDTO
	decodeJSON(t, resp, &rec)
	assert.Equal(t, saved.BillNumber, rec.BillNumber)
	assert.Equal(t, "Asha", rec.StudentName)

	resp, err = http.Get(server.URL + "/api/transactions/999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteTransaction(t *testing.T) {
	server := newTestServer(t)

	saved := saveTransaction(t, server, "Asha", "Admission Fee", 1000)
	target := fmt.Sprintf("%s/api/transactions/%d", server.URL, saved.ID)

	// Existing record: 200 and gone from history
	req, _ := http.NewRequest(http.MethodDelete, target, nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var deleted api.DeleteResponse
	decodeJSON(t, resp, &deleted)
	assert.True(t, deleted.Success)

	// Same id again: 404
	req, _ = http.NewRequest(http.MethodDelete, target, nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var notFound api.DeleteResponse
	decodeJSON(t, resp, &notFound)
	assert.False(t, notFound.Success)
}

// =============================================================================
// SALES
// =============================================================================

func TestSaveSale_WholeCartGetsConsecutiveNumbers(t *testing.T) {
	// GIVEN: An empty March ledger
	// WHEN: Selling Asha a three-item cart
	// THEN: Bills 2026030001 through 2026030003, total 7000

	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/sales", api.SaleRequest{
		StudentName: "Asha",
		Items: []api.SaleItemRequest{
			{ClassName: "Admission Fee", Amount: 1000},
			{ClassName: "N5 Japanese", Amount: 5000},
			{ClassName: "Admission Fee", Amount: 1000},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sale api.SaleResponse
	decodeJSON(t, resp, &sale)

	assert.True(t, sale.Success)
	assert.Equal(t, "2026030001", sale.FirstBillNumber)
	assert.Equal(t, "2026030003", sale.LastBillNumber)
	assert.Equal(t, 7000.0, sale.Total)
	require.Len(t, sale.Items, 3)
	assert.Equal(t, "2026030002", sale.Items[1].BillNumber)
}

func TestSaveSale_EmptyCart_Returns400(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/sales", api.SaleRequest{
		StudentName: "Asha",
		Items:       []api.SaleItemRequest{},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// REVENUE
// =============================================================================

func TestMonthlyRevenue_BreaksDownByCourse(t *testing.T) {
	server := newTestServer(t)

	saveTransaction(t, server, "Asha", "Admission Fee", 1000)
	saveTransaction(t, server, "Asha", "N5 Japanese", 5000)
	saveTransaction(t, server, "Nimal", "Admission Fee", 1000)

	resp, err := http.Get(server.URL + "/api/revenue/monthly?year=2026&month=3")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var revenue api.RevenueDTO
	decodeJSON(t, resp, &revenue)

	assert.Equal(t, "2026-03", revenue.Period)
	assert.Equal(t, 3, revenue.Count)
	assert.Equal(t, 7000.0, revenue.Total)
	assert.Equal(t, 2000.0, revenue.ByClass["Admission Fee"])
	assert.Equal(t, 5000.0, revenue.ByClass["N5 Japanese"])
}

func TestMonthlyRevenue_InvalidMonth_Returns400(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/revenue/monthly?year=2026&month=13")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestYearlyRevenue_NarrowedToOneCourse(t *testing.T) {
	server := newTestServer(t)

	saveTransaction(t, server, "Asha", "Admission Fee", 1000)
	saveTransaction(t, server, "Asha", "N5 Japanese", 5000)

	resp, err := http.Get(server.URL + "/api/revenue/yearly?year=2026&class=N5+Japanese")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var revenue api.RevenueDTO
	decodeJSON(t, resp, &revenue)

	assert.Equal(t, "2026", revenue.Period)
	assert.Equal(t, 1, revenue.Count)
	assert.Equal(t, 5000.0, revenue.Total)
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExport_WritesSpreadsheet(t *testing.T) {
	server := newTestServer(t)

	saveTransaction(t, server, "Asha", "Admission Fee", 1000)

	resp := postJSON(t, server.URL+"/api/export", api.ExportRequest{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var exported api.ExportResponse
	decodeJSON(t, resp, &exported)

	assert.True(t, exported.Success)
	require.NotEmpty(t, exported.FilePath)

	info, err := os.Stat(exported.FilePath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExport_EndBeforeStart_Returns400(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/export", api.ExportRequest{
		StartDate: "2026-03-31",
		EndDate:   "2026-03-01",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// CATALOG
// =============================================================================

func TestListCourses(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/courses")
	require.NoError(t, err)

	var courses []api.CourseDTO
	decodeJSON(t, resp, &courses)
	assert.Len(t, courses, 13)

	resp, err = http.Get(server.URL + "/api/courses?q=japanese")
	require.NoError(t, err)

	var japanese []api.CourseDTO
	decodeJSON(t, resp, &japanese)
	require.Len(t, japanese, 2)
	assert.Equal(t, "N5 Japanese", japanese[0].Name)
}
