package domain

import "github.com/shopspring/decimal"

// LedgerEntry is a flattened ledger line used for display and filtering.
// Balance is computed by the aggregator and never stored.
type LedgerEntry struct {
	ID              string          `json:"id"`
	Date            Date            `json:"date"`
	Description     string          `json:"description"`
	Source          string          `json:"source"`
	EntityID        string          `json:"entityId"`
	Category        string          `json:"category"`
	InternalCode    string          `json:"internalCode"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	Balance         decimal.Decimal `json:"balance"`
	ReferenceNumber string          `json:"referenceNumber"`
	Reconciled      bool            `json:"reconciled"`
}

// LedgerSummary holds totals computed over a filtered ledger window.
type LedgerSummary struct {
	TotalDebits      decimal.Decimal `json:"totalDebits"`
	TotalCredits     decimal.Decimal `json:"totalCredits"`
	NetBalance       decimal.Decimal `json:"netBalance"`
	TransactionCount int             `json:"transactionCount"`
}
