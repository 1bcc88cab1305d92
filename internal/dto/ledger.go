package dto

import (
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
)

// LedgerQueryParams are the query parameters of the ledger and export endpoints.
type LedgerQueryParams struct {
	EntityID     string `form:"entityId"`
	CategoryCode string `form:"categoryCode"`
	Reconciled   string `form:"reconciled"` // Case-insensitive, see ledger.ParseReconciledFilter
	DateFrom     string `form:"dateFrom"`
	DateTo       string `form:"dateTo"`
	Search       string `form:"search"`
}

// ToFilterParams validates and converts query parameters to aggregator filters.
func (p LedgerQueryParams) ToFilterParams() (ledger.FilterParams, error) {
	reconciled, err := ledger.ParseReconciledFilter(p.Reconciled)
	if err != nil {
		return ledger.FilterParams{}, err
	}
	from, err := parseOptionalDate("dateFrom", p.DateFrom)
	if err != nil {
		return ledger.FilterParams{}, err
	}
	to, err := parseOptionalDate("dateTo", p.DateTo)
	if err != nil {
		return ledger.FilterParams{}, err
	}
	return ledger.FilterParams{
		EntityID:     p.EntityID,
		CategoryCode: p.CategoryCode,
		Reconciled:   reconciled,
		DateFrom:     from,
		DateTo:       to,
		SearchTerm:   p.Search,
	}, nil
}

// SetReconciledRequest is the body of the reconcile endpoint.
type SetReconciledRequest struct {
	Reconciled *bool `json:"reconciled" binding:"required"`
}

// LedgerResponse wraps an aggregated ledger view.
type LedgerResponse struct {
	Entries []domain.LedgerEntry `json:"entries"`
	Summary domain.LedgerSummary `json:"summary"`
}

// ToLedgerResponse converts an aggregator result to its response DTO.
func ToLedgerResponse(r *ledger.Result) LedgerResponse {
	return LedgerResponse{Entries: r.Entries, Summary: r.Summary}
}
