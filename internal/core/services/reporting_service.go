package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
	portsrepo "github.com/SscSPs/nonprofit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/nonprofit_ledger/internal/core/ports/services"
	"github.com/SscSPs/nonprofit_ledger/internal/utils/accounting"
)

// ChangeInNetAssetsName labels the equity line that carries revenue minus
// expenses to date on the balance sheet.
const ChangeInNetAssetsName = "Change in Net Assets"

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	journalRepo portsrepo.JournalReader
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.JournalReader, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{journalRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// accountTotal accumulates one account's activity.
type accountTotal struct {
	account domain.Account
	net     decimal.Decimal // Debits minus credits
	signed  decimal.Decimal // Positive toward the account's normal side
}

func normalizeEntity(entityID string) string {
	if entityID == "" {
		return ledger.AllEntities
	}
	return entityID
}

// totals sums posted lines per account code for entries accepted by include.
func (s *reportingService) totals(ctx context.Context, entityID string, include func(domain.Date) bool) (map[string]*accountTotal, error) {
	entries, err := s.journalRepo.ListPostedJournals(ctx, entityID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load posted journal entries", slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to load journal entries: %w", err)
	}

	byCode := make(map[string]*accountTotal)
	for _, entry := range entries {
		if !include(entry.EntryDate) {
			continue
		}
		for _, line := range entry.Lines {
			signed, err := accounting.CalculateSignedAmount(line, line.Account.Type)
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", entry.ID, err)
			}
			t, ok := byCode[line.Account.Code]
			if !ok {
				t = &accountTotal{account: line.Account, net: decimal.Zero, signed: decimal.Zero}
				byCode[line.Account.Code] = t
			}
			t.net = t.net.Add(line.DebitAmount).Sub(line.CreditAmount)
			t.signed = t.signed.Add(signed)
		}
	}
	return byCode, nil
}

func sortedCodes(byCode map[string]*accountTotal) []string {
	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// amountsOfType lists accounts of type t in code order with their signed totals.
func amountsOfType(byCode map[string]*accountTotal, t domain.AccountType) ([]domain.AccountAmount, decimal.Decimal) {
	amounts := []domain.AccountAmount{}
	total := decimal.Zero
	for _, code := range sortedCodes(byCode) {
		at := byCode[code]
		if at.account.Type != t {
			continue
		}
		amounts = append(amounts, domain.AccountAmount{AccountCode: code, Name: at.account.Name, NetAmount: at.signed})
		total = total.Add(at.signed)
	}
	return amounts, total
}

func onOrBefore(asOf domain.Date) func(domain.Date) bool {
	return func(d domain.Date) bool { return !d.After(asOf) }
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, entityID string, asOf domain.Date) (*domain.TrialBalanceReport, error) {
	if asOf.IsZero() {
		return nil, apperrors.NewValidationError("asOf", "is required")
	}
	entityID = normalizeEntity(entityID)

	byCode, err := s.totals(ctx, entityID, onOrBefore(asOf))
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalanceReport{
		EntityID:     entityID,
		AsOf:         asOf,
		Rows:         []domain.TrialBalanceRow{},
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	for _, code := range sortedCodes(byCode) {
		at := byCode[code]
		if at.net.IsZero() {
			continue
		}
		row := domain.TrialBalanceRow{
			AccountCode: code,
			AccountName: at.account.Name,
			AccountType: at.account.Type,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if at.net.IsPositive() {
			row.Debit = at.net
		} else {
			row.Credit = at.net.Neg()
		}
		report.Rows = append(report.Rows, row)
		report.TotalDebits = report.TotalDebits.Add(row.Debit)
		report.TotalCredits = report.TotalCredits.Add(row.Credit)
	}

	s.LogInfo(ctx, "Trial balance report generated",
		slog.String("entity_id", entityID),
		slog.String("asOf", asOf.String()),
		slog.Int("row_count", len(report.Rows)))
	return report, nil
}

// IncomeStatement generates a statement of activities for a period
func (s *reportingService) IncomeStatement(ctx context.Context, entityID string, period domain.ReportPeriod) (*domain.IncomeStatement, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	entityID = normalizeEntity(entityID)

	byCode, err := s.totals(ctx, entityID, period.Contains)
	if err != nil {
		return nil, err
	}

	revenue, totalRevenue := amountsOfType(byCode, domain.Revenue)
	expenses, totalExpenses := amountsOfType(byCode, domain.Expense)

	report := &domain.IncomeStatement{
		EntityID:      entityID,
		Period:        period,
		Revenue:       revenue,
		Expenses:      expenses,
		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		NetIncome:     totalRevenue.Sub(totalExpenses),
	}

	s.LogInfo(ctx, "Income statement generated",
		slog.String("entity_id", entityID),
		slog.String("from", period.From.String()),
		slog.String("to", period.To.String()),
		slog.String("net_income", domain.FormatAmount(report.NetIncome)))
	return report, nil
}

// BalanceSheet generates a statement of financial position as of a specific date.
// Revenue minus expenses to date is reported as an equity line.
func (s *reportingService) BalanceSheet(ctx context.Context, entityID string, asOf domain.Date) (*domain.BalanceSheetReport, error) {
	if asOf.IsZero() {
		return nil, apperrors.NewValidationError("asOf", "is required")
	}
	entityID = normalizeEntity(entityID)

	byCode, err := s.totals(ctx, entityID, onOrBefore(asOf))
	if err != nil {
		return nil, err
	}

	assets, totalAssets := amountsOfType(byCode, domain.Asset)
	liabilities, totalLiabilities := amountsOfType(byCode, domain.Liability)
	equity, totalEquity := amountsOfType(byCode, domain.Equity)
	_, totalRevenue := amountsOfType(byCode, domain.Revenue)
	_, totalExpenses := amountsOfType(byCode, domain.Expense)

	change := totalRevenue.Sub(totalExpenses)
	equity = append(equity, domain.AccountAmount{Name: ChangeInNetAssetsName, NetAmount: change})

	report := &domain.BalanceSheetReport{
		EntityID:          entityID,
		AsOf:              asOf,
		Assets:            assets,
		Liabilities:       liabilities,
		Equity:            equity,
		ChangeInNetAssets: change,
		TotalAssets:       totalAssets,
		TotalLiabilities:  totalLiabilities,
		TotalEquity:       totalEquity.Add(change),
	}

	if !report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity)) {
		s.GetLogger(ctx).Warn("Balance sheet does not balance",
			slog.String("entity_id", entityID),
			slog.String("assets", domain.FormatAmount(report.TotalAssets)),
			slog.String("liabilities_and_equity", domain.FormatAmount(report.TotalLiabilities.Add(report.TotalEquity))))
	}

	s.LogInfo(ctx, "Balance sheet generated", slog.String("entity_id", entityID), slog.String("asOf", asOf.String()))
	return report, nil
}

// ComparativeIncomeStatement compares a period with the equally long period before it.
func (s *reportingService) ComparativeIncomeStatement(ctx context.Context, entityID string, current domain.ReportPeriod) (*domain.ComparativeIncomeStatement, error) {
	if err := current.Validate(); err != nil {
		return nil, err
	}
	prior := current.Prior()

	cur, err := s.IncomeStatement(ctx, entityID, current)
	if err != nil {
		return nil, err
	}
	prev, err := s.IncomeStatement(ctx, entityID, prior)
	if err != nil {
		return nil, err
	}

	report := &domain.ComparativeIncomeStatement{
		EntityID:    cur.EntityID,
		Current:     current,
		Prior:       prior,
		Lines:       []domain.ComparativeLine{},
		CurrentNet:  cur.NetIncome,
		PriorNet:    prev.NetIncome,
		NetVariance: cur.NetIncome.Sub(prev.NetIncome),
	}
	report.Lines = append(report.Lines, compareLines(domain.Revenue, cur.Revenue, prev.Revenue)...)
	report.Lines = append(report.Lines, compareLines(domain.Expense, cur.Expenses, prev.Expenses)...)

	s.LogInfo(ctx, "Comparative income statement generated",
		slog.String("entity_id", report.EntityID),
		slog.String("net_variance", domain.FormatAmount(report.NetVariance)))
	return report, nil
}

// compareLines merges two period amounts by account code, in code order.
func compareLines(t domain.AccountType, current, prior []domain.AccountAmount) []domain.ComparativeLine {
	byCode := make(map[string]*domain.ComparativeLine)
	codes := []string{}
	get := func(a domain.AccountAmount) *domain.ComparativeLine {
		line, ok := byCode[a.AccountCode]
		if !ok {
			line = &domain.ComparativeLine{AccountCode: a.AccountCode, Name: a.Name, AccountType: t, Current: decimal.Zero, Prior: decimal.Zero}
			byCode[a.AccountCode] = line
			codes = append(codes, a.AccountCode)
		}
		return line
	}
	for _, a := range current {
		get(a).Current = a.NetAmount
	}
	for _, a := range prior {
		get(a).Prior = a.NetAmount
	}

	sort.Strings(codes)
	lines := make([]domain.ComparativeLine, 0, len(codes))
	for _, code := range codes {
		line := byCode[code]
		line.Variance = line.Current.Sub(line.Prior)
		lines = append(lines, *line)
	}
	return lines
}

// CheckIntegrity builds the all-entity trial balance as of asOf and logs an
// error when it does not balance.
func (s *reportingService) CheckIntegrity(ctx context.Context, asOf domain.Date) (*domain.TrialBalanceReport, error) {
	report, err := s.TrialBalance(ctx, ledger.AllEntities, asOf)
	if err != nil {
		return nil, err
	}
	if !report.Balanced() {
		s.GetLogger(ctx).Error("Ledger integrity check failed: trial balance does not balance",
			slog.String("asOf", asOf.String()),
			slog.String("total_debits", domain.FormatAmount(report.TotalDebits)),
			slog.String("total_credits", domain.FormatAmount(report.TotalCredits)))
		return report, nil
	}
	s.LogInfo(ctx, "Ledger integrity check passed",
		slog.String("asOf", asOf.String()),
		slog.Int("accounts", len(report.Rows)))
	return report, nil
}
