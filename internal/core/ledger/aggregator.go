// Package ledger derives filtered, balance-annotated general ledger views.
package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// AllEntities disables the entity filter.
const AllEntities = "all"

// ReconciledFilter selects entries by their reconciled flag.
type ReconciledFilter string

const (
	ReconciledAll  ReconciledFilter = "all"
	ReconciledOnly ReconciledFilter = "reconciled"
	Unreconciled   ReconciledFilter = "unreconciled"
)

// ParseReconciledFilter accepts "", "all", "reconciled" and "unreconciled".
func ParseReconciledFilter(s string) (ReconciledFilter, error) {
	switch f := ReconciledFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", ReconciledAll:
		return ReconciledAll, nil
	case ReconciledOnly, Unreconciled:
		return f, nil
	}
	return "", apperrors.NewValidationError("reconciled", fmt.Sprintf("unknown value %q", s))
}

// FilterParams narrows a ledger view. Zero values disable each filter.
type FilterParams struct {
	EntityID     string
	CategoryCode string
	Reconciled   ReconciledFilter
	DateFrom     domain.Date // Inclusive
	DateTo       domain.Date // Inclusive
	SearchTerm   string
}

// Result is the visible window of a ledger: newest-first rows with running
// balances, plus totals over the same rows.
type Result struct {
	Entries []domain.LedgerEntry `json:"entries"`
	Summary domain.LedgerSummary `json:"summary"`
}

// Filter applies params to entries, orders the survivors newest first and
// annotates each with a running balance.
//
// The balance is a fold of credit minus debit over the filtered rows in
// chronological order (date ascending, then input position), starting from
// zero. It is relative to the visible window, not an absolute account balance.
// The displayed order is the exact reverse of that chronological order.
// Filter never modifies entries and returns identical output for identical input.
func Filter(entries []domain.LedgerEntry, params FilterParams) Result {
	search := strings.ToLower(params.SearchTerm)

	visible := make([]domain.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if matches(e, params, search) {
			visible = append(visible, e)
		}
	}

	// Chronological order; stable so equal dates keep input order.
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Date.Before(visible[j].Date)
	})

	summary := domain.LedgerSummary{
		TotalDebits:      decimal.Zero,
		TotalCredits:     decimal.Zero,
		NetBalance:       decimal.Zero,
		TransactionCount: len(visible),
	}
	balance := decimal.Zero
	for i := range visible {
		balance = balance.Add(visible[i].Credit).Sub(visible[i].Debit)
		visible[i].Balance = balance
		summary.TotalDebits = summary.TotalDebits.Add(visible[i].Debit)
		summary.TotalCredits = summary.TotalCredits.Add(visible[i].Credit)
	}
	summary.NetBalance = summary.TotalCredits.Sub(summary.TotalDebits)

	// Display newest first.
	for i, j := 0, len(visible)-1; i < j; i, j = i+1, j-1 {
		visible[i], visible[j] = visible[j], visible[i]
	}

	return Result{Entries: visible, Summary: summary}
}

func matches(e domain.LedgerEntry, p FilterParams, search string) bool {
	if p.EntityID != "" && p.EntityID != AllEntities && e.EntityID != p.EntityID {
		return false
	}
	if p.CategoryCode != "" && !strings.HasPrefix(e.InternalCode, p.CategoryCode) {
		return false
	}
	switch p.Reconciled {
	case ReconciledOnly:
		if !e.Reconciled {
			return false
		}
	case Unreconciled:
		if e.Reconciled {
			return false
		}
	}
	if !p.DateFrom.IsZero() && e.Date.Before(p.DateFrom) {
		return false
	}
	if !p.DateTo.IsZero() && e.Date.After(p.DateTo) {
		return false
	}
	if search != "" {
		return containsFold(e.Description, search) ||
			containsFold(e.Category, search) ||
			containsFold(e.InternalCode, search) ||
			containsFold(e.ReferenceNumber, search)
	}
	return true
}

// containsFold expects needle already lower-cased.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
