package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/nonprofit_ledger/internal/core/ports/services"
	"github.com/SscSPs/nonprofit_ledger/internal/dto"
	"github.com/SscSPs/nonprofit_ledger/internal/middleware"
)

// ledgerHandler serves the aggregated general ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	now           func() time.Time
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls, now: time.Now}
}

// registerLedgerRoutes registers routes related to the general ledger.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledgerGroup := rg.Group("/ledger")
	{
		ledgerGroup.GET("", h.getLedger)
		ledgerGroup.GET("/export", h.exportLedger)
		ledgerGroup.PUT("/lines/:lineID/reconciled", h.setReconciled)
	}
}

// getLedger godoc
// @Summary Get the general ledger
// @Description Flattens posted entries into ledger rows with running balances and totals, newest first
// @Tags ledger
// @Produce  json
// @Param entityId query string false "Entity ID, or all"
// @Param categoryCode query string false "GL account code"
// @Param reconciled query string false "all, reconciled or unreconciled"
// @Param dateFrom query string false "Inclusive start date (YYYY-MM-DD)"
// @Param dateTo query string false "Inclusive end date (YYYY-MM-DD)"
// @Param search query string false "Case-insensitive match on description, reference, category or code"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.LedgerQueryParams
	if err := c.ShouldBindQuery(&query); err != nil {
		bindingError(c, logger, err)
		return
	}
	params, err := query.ToFilterParams()
	if err != nil {
		respondError(c, logger, err, "Failed to build ledger")
		return
	}

	result, err := h.ledgerService.Query(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to build ledger")
		return
	}

	logger.Debug("Ledger built", slog.Int("rows", len(result.Entries)))
	c.JSON(http.StatusOK, dto.ToLedgerResponse(result))
}

// exportLedger godoc
// @Summary Export the general ledger as CSV
// @Tags ledger
// @Produce text/csv
// @Success 200 {string} string "CSV with a trailing totals row"
// @Router /ledger/export [get]
func (h *ledgerHandler) exportLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query dto.LedgerQueryParams
	if err := c.ShouldBindQuery(&query); err != nil {
		bindingError(c, logger, err)
		return
	}
	params, err := query.ToFilterParams()
	if err != nil {
		respondError(c, logger, err, "Failed to export ledger")
		return
	}

	// Buffered so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.ledgerService.Export(c.Request.Context(), params, &buf); err != nil {
		respondError(c, logger, err, "Failed to export ledger")
		return
	}

	filename := fmt.Sprintf("general-ledger-%s.csv", h.now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// setReconciled godoc
// @Summary Mark a journal line reconciled or unreconciled
// @Tags ledger
// @Accept json
// @Param lineID path string true "Journal line ID"
// @Param body body dto.SetReconciledRequest true "Reconciled flag"
// @Success 204
// @Failure 404 {object} map[string]string "Line not found"
// @Router /ledger/lines/{lineID}/reconciled [put]
func (h *ledgerHandler) setReconciled(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID := c.Param("lineID")

	var req dto.SetReconciledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, logger, err)
		return
	}

	userID := middleware.ActorFromContext(c)
	logger = logger.With(slog.String("line_id", lineID), slog.String("user_id", userID))
	if err := h.ledgerService.SetReconciled(c.Request.Context(), lineID, *req.Reconciled, userID); err != nil {
		respondError(c, logger, err, "Failed to update reconciliation")
		return
	}

	logger.Info("Line reconciliation updated", slog.Bool("reconciled", *req.Reconciled))
	c.Status(http.StatusNoContent)
}
