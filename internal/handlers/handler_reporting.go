package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/nonprofit_ledger/internal/core/ports/services"
	"github.com/SscSPs/nonprofit_ledger/internal/dto"
	"github.com/SscSPs/nonprofit_ledger/internal/middleware"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		now:              time.Now,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
		reportingGroup.GET("/income-statement", h.getIncomeStatement)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/comparative-income-statement", h.getComparativeIncomeStatement)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param entityId query string false "Entity ID, or all"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.TrialBalanceReport
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.AsOfReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, logger, err)
		return
	}
	asOf, err := params.AsOfDate(h.now())
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	logger = logger.With(slog.String("entity_id", params.EntityID), slog.String("asOf", asOf.String()))
	logger.Info("Received request to generate trial balance report")

	report, err := h.reportingService.TrialBalance(c.Request.Context(), params.EntityID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(report.Rows)))
	c.JSON(http.StatusOK, report)
}

// getIncomeStatement godoc
// @Summary Generate statement of activities
// @Description Revenue and expenses over an inclusive period
// @Tags reports
// @Produce json
// @Param entityId query string false "Entity ID, or all"
// @Param fromDate query string true "Start date (YYYY-MM-DD)"
// @Param toDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.IncomeStatement
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.PeriodReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, logger, err)
		return
	}
	period, err := params.Period()
	if err != nil {
		respondError(c, logger, err, "Failed to generate income statement")
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), params.EntityID, period)
	if err != nil {
		respondError(c, logger.With(slog.String("entity_id", params.EntityID)), err, "Failed to generate income statement")
		return
	}

	c.JSON(http.StatusOK, report)
}

// getBalanceSheet godoc
// @Summary Generate statement of financial position
// @Tags reports
// @Produce json
// @Param entityId query string false "Entity ID, or all"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.BalanceSheetReport
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.AsOfReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, logger, err)
		return
	}
	asOf, err := params.AsOfDate(h.now())
	if err != nil {
		respondError(c, logger, err, "Failed to generate balance sheet")
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), params.EntityID, asOf)
	if err != nil {
		respondError(c, logger.With(slog.String("entity_id", params.EntityID)), err, "Failed to generate balance sheet")
		return
	}

	c.JSON(http.StatusOK, report)
}

// getComparativeIncomeStatement godoc
// @Summary Compare a period with the equally long period before it
// @Tags reports
// @Produce json
// @Param entityId query string false "Entity ID, or all"
// @Param fromDate query string true "Start date (YYYY-MM-DD)"
// @Param toDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.ComparativeIncomeStatement
// @Router /reports/comparative-income-statement [get]
func (h *reportingHandler) getComparativeIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.PeriodReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, logger, err)
		return
	}
	period, err := params.Period()
	if err != nil {
		respondError(c, logger, err, "Failed to generate comparative income statement")
		return
	}

	report, err := h.reportingService.ComparativeIncomeStatement(c.Request.Context(), params.EntityID, period)
	if err != nil {
		respondError(c, logger.With(slog.String("entity_id", params.EntityID)), err, "Failed to generate comparative income statement")
		return
	}

	c.JSON(http.StatusOK, report)
}
