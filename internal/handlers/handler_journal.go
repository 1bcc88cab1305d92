package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/nonprofit_ledger/internal/core/ports/services"
	"github.com/SscSPs/nonprofit_ledger/internal/dto"
	"github.com/SscSPs/nonprofit_ledger/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journal-entries")
	{
		journals.POST("/captures", h.postCapture)
		journals.GET("", h.listJournals)
		journals.GET("/:entryID", h.getJournal)
		journals.POST("/:entryID/void", h.voidJournal)
	}
}

// postCapture godoc
// @Summary Post a captured check deposit, reimbursement or expense
// @Description Builds a balanced two-line journal entry against Cash and posts it
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   capture body dto.PostCaptureRequest true "Capture details"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid capture"
// @Failure 409 {object} map[string]string "Entry already posted"
// @Failure 500 {object} map[string]string "Failed to post capture"
// @Router /journal-entries/captures [post]
func (h *journalHandler) postCapture(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostCaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, logger, err)
		return
	}

	userID := middleware.ActorFromContext(c)
	logger = logger.With(
		slog.String("user_id", userID),
		slog.String("source_type", string(req.Type)),
		slog.String("entity_id", req.EntityID),
	)

	entry, err := h.journalService.PostCapture(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post capture")
		return
	}

	logger.Info("Capture posted", slog.String("journal_id", entry.ID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(entry))
}

// listJournals godoc
// @Summary List journal entries
// @Description Lists journal entries newest first with token pagination
// @Tags journals
// @Produce  json
// @Param entityId query string false "Entity ID, or all"
// @Param limit query int false "Page size (1-100)"
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalsResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Router /journal-entries [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindingError(c, logger, err)
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getJournal godoc
// @Summary Get a journal entry and its lines
// @Tags journals
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Router /journal-entries/{entryID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, logger.With(slog.String("journal_id", entryID)), err, "Failed to retrieve journal entry")
		return
	}

	logger.Debug("Journal entry retrieved", slog.String("journal_id", entryID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(entry))
}

// voidJournal godoc
// @Summary Void a posted journal entry
// @Description Voided entries stay stored but drop out of the ledger and reports
// @Tags journals
// @Produce  json
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Entry is not posted"
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Router /journal-entries/{entryID}/void [post]
func (h *journalHandler) voidJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	userID := middleware.ActorFromContext(c)
	logger = logger.With(slog.String("journal_id", entryID), slog.String("user_id", userID))

	entry, err := h.journalService.VoidEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to void journal entry")
		return
	}

	logger.Info("Journal entry voided")
	c.JSON(http.StatusOK, dto.ToJournalResponse(entry))
}
