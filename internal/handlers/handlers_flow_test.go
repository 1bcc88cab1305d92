package handlers_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/nonprofit_ledger/internal/chart"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
	"github.com/SscSPs/nonprofit_ledger/internal/core/services"
	"github.com/SscSPs/nonprofit_ledger/internal/dto"
	"github.com/SscSPs/nonprofit_ledger/internal/handlers"
	"github.com/SscSPs/nonprofit_ledger/internal/middleware"
	"github.com/SscSPs/nonprofit_ledger/internal/platform/config"
	"github.com/SscSPs/nonprofit_ledger/internal/repositories/memory"
)

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// newTestRouter wires the real services over an in-memory store.
func newTestRouter(t *testing.T, coa *domain.ChartOfAccounts, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := services.NewServiceContainer(memory.NewRepositoryProvider())
	require.NoError(t, svc.Account.SyncChart(context.Background(), coa))

	r := gin.New()
	require.NoError(t, handlers.RegisterRoutes(r, cfg, svc))
	return r
}

func defaultChart(t *testing.T) *domain.ChartOfAccounts {
	t.Helper()
	c, err := chart.Default()
	require.NoError(t, err)
	return c
}

func do(r *gin.Engine, method, url string, body io.Reader, user string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(middleware.UserIDHeader, user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postCapture(t *testing.T, r *gin.Engine, capture map[string]any) dto.JournalResponse {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/journal-entries/captures", jsonBody(t, capture), "treasurer")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var entry dto.JournalResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	return entry
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, defaultChart(t), &config.Config{})
	w := do(r, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestCaptureToLedgerFlow(t *testing.T) {
	r := newTestRouter(t, defaultChart(t), &config.Config{})

	deposit := postCapture(t, r, map[string]any{
		"type": "check-deposit", "amount": "250.00", "date": "2025-01-10",
		"accountCode": "4000", "entityId": "awakenings", "counterparty": "Jane Donor",
		"referenceNumber": "CHK-1001",
	})
	assert.Equal(t, string(domain.Posted), deposit.Status)
	assert.Equal(t, "treasurer", deposit.CreatedBy)
	require.Len(t, deposit.Lines, 2)
	assert.Equal(t, domain.CashAccountCode, deposit.Lines[0].AccountCode)
	assert.True(t, deposit.Lines[0].Debit.Equal(decimal.NewFromInt(250)))

	postCapture(t, r, map[string]any{
		"type": "expense", "amount": "40.25", "date": "2025-01-12",
		"accountCode": "5000", "entityId": "awakenings", "description": "Office supplies",
	})

	w := do(r, http.MethodGet, "/api/v1/journal-entries/"+deposit.JournalID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/journal-entries?entityId=awakenings&limit=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.ListJournalsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Journals, 1)
	assert.Equal(t, "2025-01-12", page.Journals[0].Date.String(), "newest first")
	require.NotNil(t, page.NextToken)

	w = do(r, http.MethodGet, "/api/v1/ledger?entityId=awakenings&categoryCode=1000", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var view dto.LedgerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Entries, 2)
	assert.True(t, view.Entries[0].Balance.Equal(decimal.RequireFromString("-209.75")),
		"cash balance folds credit minus debit, newest row first")
	assert.Equal(t, 2, view.Summary.TransactionCount)

	lineID := view.Entries[1].ID
	w = do(r, http.MethodPut, "/api/v1/ledger/lines/"+lineID+"/reconciled", jsonBody(t, map[string]bool{"reconciled": true}), "")
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/ledger?reconciled=reconciled", nil, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Len(t, view.Entries, 1)
	assert.Equal(t, lineID, view.Entries[0].ID)

	w = do(r, http.MethodGet, "/api/v1/reports/trial-balance?asOf=2025-01-31", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tb domain.TrialBalanceReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tb))
	assert.True(t, tb.Balanced())
	assert.True(t, tb.TotalDebits.Equal(decimal.NewFromInt(250)), "net cash 209.75 plus expense 40.25")

	w = do(r, http.MethodPost, "/api/v1/journal-entries/"+deposit.JournalID+"/void", nil, "auditor")
	require.Equal(t, http.StatusOK, w.Code)
	var voided dto.JournalResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &voided))
	assert.Equal(t, string(domain.Voided), voided.Status)
	assert.Equal(t, "auditor", voided.VoidedBy)

	w = do(r, http.MethodPost, "/api/v1/journal-entries/"+deposit.JournalID+"/void", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "voiding twice")

	w = do(r, http.MethodGet, "/api/v1/ledger", nil, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Entries, 2, "voided entries drop out of the ledger")
}

func TestPostCapture_Rejects(t *testing.T) {
	r := newTestRouter(t, defaultChart(t), &config.Config{})

	tests := []struct {
		name    string
		capture map[string]any
		status  int
	}{
		{"unknown type", map[string]any{"type": "grant", "amount": "1.00", "date": "2025-01-01", "accountCode": "4000", "entityId": "a"}, http.StatusBadRequest},
		{"missing entity", map[string]any{"type": "expense", "amount": "1.00", "date": "2025-01-01", "accountCode": "5000"}, http.StatusBadRequest},
		{"unknown account", map[string]any{"type": "expense", "amount": "1.00", "date": "2025-01-01", "accountCode": "5999", "entityId": "a"}, http.StatusBadRequest},
		{"wrong account type", map[string]any{"type": "expense", "amount": "1.00", "date": "2025-01-01", "accountCode": "4000", "entityId": "a"}, http.StatusBadRequest},
		{"zero amount", map[string]any{"type": "expense", "amount": "0", "date": "2025-01-01", "accountCode": "5000", "entityId": "a"}, http.StatusBadRequest},
		{"bad date", map[string]any{"type": "expense", "amount": "1.00", "date": "01/02/2025", "accountCode": "5000", "entityId": "a"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/v1/journal-entries/captures", jsonBody(t, tt.capture), "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestPostCapture_RetryWithSameIDConflicts(t *testing.T) {
	r := newTestRouter(t, defaultChart(t), &config.Config{})
	capture := map[string]any{
		"id": "cap-7", "type": "check-deposit", "amount": "75.00", "date": "2025-01-20",
		"accountCode": "4000", "entityId": "awakenings",
	}

	first := postCapture(t, r, capture)
	assert.Equal(t, "cap-7", first.SourceID)

	w := do(r, http.MethodPost, "/api/v1/journal-entries/captures", jsonBody(t, capture), "treasurer")
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/ledger", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var view dto.LedgerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Entries, 2, "the capture is posted once")
}

func TestLedger_ReconciledFilterIgnoresCase(t *testing.T) {
	r := newTestRouter(t, defaultChart(t), &config.Config{})
	postCapture(t, r, map[string]any{
		"type": "expense", "amount": "9.00", "date": "2025-01-03",
		"accountCode": "5000", "entityId": "awakenings",
	})

	w := do(r, http.MethodGet, "/api/v1/ledger?reconciled=Unreconciled", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view dto.LedgerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Entries, 2)

	w = do(r, http.MethodGet, "/api/v1/ledger?reconciled=RECONCILED", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Empty(t, view.Entries)

	w = do(r, http.MethodGet, "/api/v1/ledger?reconciled=maybe", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostCapture_MissingCashIsConfigurationError(t *testing.T) {
	noCash, err := domain.NewChartOfAccounts([]domain.Account{
		{ID: "5000", Code: "5000", Name: "Office Supplies", Type: domain.Expense, IsActive: true},
	})
	require.NoError(t, err)
	r := newTestRouter(t, noCash, &config.Config{})

	w := do(r, http.MethodPost, "/api/v1/journal-entries/captures", jsonBody(t, map[string]any{
		"type": "expense", "amount": "12.00", "date": "2025-01-01", "accountCode": "5000", "entityId": "a",
	}), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "account 1000 is missing")
}

func TestExportLedger(t *testing.T) {
	r := newTestRouter(t, defaultChart(t), &config.Config{})
	postCapture(t, r, map[string]any{
		"type": "reimbursement", "amount": "18.00", "date": "2025-02-03",
		"accountCode": "5000", "entityId": "harbor-house",
	})

	w := do(r, http.MethodGet, "/api/v1/ledger/export?entityId=harbor-house", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=")

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, ledger.TableHeaders, records[0])
	assert.Len(t, records, 4, "header, two lines and a totals row")

	w = do(r, http.MethodGet, "/api/v1/ledger/export?dateFrom=yesterday", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReports_ValidatePeriods(t *testing.T) {
	r := newTestRouter(t, defaultChart(t), &config.Config{})

	w := do(r, http.MethodGet, "/api/v1/reports/income-statement?fromDate=2025-01-01", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/reports/income-statement?fromDate=2025-03-01&toDate=2025-01-01", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/reports/comparative-income-statement?fromDate=2025-01-01&toDate=2025-01-31", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/reports/balance-sheet?asOf=2025-13-01", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetReconciled_UnknownLine(t *testing.T) {
	r := newTestRouter(t, defaultChart(t), &config.Config{})

	w := do(r, http.MethodPut, "/api/v1/ledger/lines/nope/reconciled", jsonBody(t, map[string]bool{"reconciled": true}), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPut, "/api/v1/ledger/lines/nope/reconciled", jsonBody(t, map[string]any{}), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimitApplied(t *testing.T) {
	r := newTestRouter(t, defaultChart(t), &config.Config{RateLimit: "1-M"})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/accounts", nil, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/api/v1/accounts", nil, "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", nil, "").Code)
}

func TestRegisterRoutes_RejectsBadRateLimit(t *testing.T) {
	svc := services.NewServiceContainer(memory.NewRepositoryProvider())
	err := handlers.RegisterRoutes(gin.New(), &config.Config{RateLimit: "lots"}, svc)
	assert.Error(t, err)
}
