package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
)

// respondError maps service errors to HTTP responses. failMsg is returned for
// unexpected failures; the underlying error is only logged.
func respondError(c *gin.Context, logger *slog.Logger, err error, failMsg string) {
	var accErr *apperrors.AccountNotFoundError
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Request failed validation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &accErr):
		logger.Error("Chart of accounts is missing a required account", slog.String("account_code", accErr.Code))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Chart of accounts is misconfigured: account " + accErr.Code + " is missing. Check CHART_OF_ACCOUNTS_PATH.",
		})
	default:
		logger.Error(failMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
	}
}

// bindingError answers a request whose query or body could not be bound.
func bindingError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}
