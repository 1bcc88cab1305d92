package services

import (
	"context"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
// entityID "all" or empty reports across every entity.
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, entityID string, asOf domain.Date) (*domain.TrialBalanceReport, error)

	// IncomeStatement generates a statement of activities for a period
	IncomeStatement(ctx context.Context, entityID string, period domain.ReportPeriod) (*domain.IncomeStatement, error)

	// BalanceSheet generates a statement of financial position as of a specific date
	BalanceSheet(ctx context.Context, entityID string, asOf domain.Date) (*domain.BalanceSheetReport, error)

	// ComparativeIncomeStatement compares a period with the equally long period before it
	ComparativeIncomeStatement(ctx context.Context, entityID string, current domain.ReportPeriod) (*domain.ComparativeIncomeStatement, error)

	// CheckIntegrity builds the all-entity trial balance as of a date and logs
	// an error when debits and credits differ.
	CheckIntegrity(ctx context.Context, asOf domain.Date) (*domain.TrialBalanceReport, error)
}
