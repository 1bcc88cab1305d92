package domain

import (
	"github.com/shopspring/decimal"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
)

// ReportPeriod is an inclusive calendar-date range.
type ReportPeriod struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every account with activity and its net debit or credit balance.
type TrialBalanceReport struct {
	EntityID     string            `json:"entityId"`
	AsOf         Date              `json:"asOf"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
}

// Balanced reports whether total debits equal total credits.
func (r TrialBalanceReport) Balanced() bool {
	return r.TotalDebits.Equal(r.TotalCredits)
}

// Validate checks the period is complete and ordered.
func (p ReportPeriod) Validate() error {
	if p.From.IsZero() {
		return apperrors.NewValidationError("fromDate", "is required")
	}
	if p.To.IsZero() {
		return apperrors.NewValidationError("toDate", "is required")
	}
	if p.To.Before(p.From) {
		return apperrors.NewValidationError("toDate", "must not be before fromDate")
	}
	return nil
}

// Contains reports whether d falls inside the period, bounds included.
func (p ReportPeriod) Contains(d Date) bool {
	return !d.Before(p.From) && !d.After(p.To)
}

// Prior returns the equally long period ending the day before p starts.
func (p ReportPeriod) Prior() ReportPeriod {
	days := p.From.DaysUntil(p.To)
	to := p.From.AddDays(-1)
	return ReportPeriod{From: to.AddDays(-days), To: to}
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// IncomeStatement (statement of activities) for a period.
type IncomeStatement struct {
	EntityID      string          `json:"entityId"`
	Period        ReportPeriod    `json:"period"`
	Revenue       []AccountAmount `json:"revenue"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"` // Total revenue minus total expenses
}

// BalanceSheetReport (statement of financial position) as of a date.
// ChangeInNetAssets is revenue minus expenses to date, reported inside equity.
type BalanceSheetReport struct {
	EntityID          string          `json:"entityId"`
	AsOf              Date            `json:"asOf"`
	Assets            []AccountAmount `json:"assets"`
	Liabilities       []AccountAmount `json:"liabilities"`
	Equity            []AccountAmount `json:"equity"`
	ChangeInNetAssets decimal.Decimal `json:"changeInNetAssets"`
	TotalAssets       decimal.Decimal `json:"totalAssets"`
	TotalLiabilities  decimal.Decimal `json:"totalLiabilities"`
	TotalEquity       decimal.Decimal `json:"totalEquity"`
}

// ComparativeLine compares one account across two periods.
type ComparativeLine struct {
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Current     decimal.Decimal `json:"current"`
	Prior       decimal.Decimal `json:"prior"`
	Variance    decimal.Decimal `json:"variance"` // Current minus prior
}

// ComparativeIncomeStatement puts a period next to the equally long period before it.
type ComparativeIncomeStatement struct {
	EntityID    string            `json:"entityId"`
	Current     ReportPeriod      `json:"current"`
	Prior       ReportPeriod      `json:"prior"`
	Lines       []ComparativeLine `json:"lines"`
	CurrentNet  decimal.Decimal   `json:"currentNet"`
	PriorNet    decimal.Decimal   `json:"priorNet"`
	NetVariance decimal.Decimal   `json:"netVariance"`
}
