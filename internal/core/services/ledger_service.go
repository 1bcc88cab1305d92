package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
	portsrepo "github.com/SscSPs/nonprofit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/nonprofit_ledger/internal/core/ports/services"
)

// ledgerService aggregates posted journal lines into the general ledger view.
type ledgerService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{journalRepo: journalRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Query returns the filtered ledger with running balances and totals.
func (s *ledgerService) Query(ctx context.Context, params ledger.FilterParams) (*ledger.Result, error) {
	entries, err := s.journalRepo.ListPostedJournals(ctx, params.EntityID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load posted journal entries", slog.String("entity_id", params.EntityID))
		return nil, fmt.Errorf("failed to load journal entries: %w", err)
	}

	reconciled, err := s.journalRepo.ReconciledLines(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load reconciled lines")
		return nil, fmt.Errorf("failed to load reconciliation state: %w", err)
	}

	result := ledger.Filter(ledger.FromJournalEntries(entries, reconciled), params)

	s.LogDebug(ctx, "Ledger aggregated",
		slog.Int("journal_entries", len(entries)),
		slog.Int("visible_rows", result.Summary.TransactionCount))
	return &result, nil
}

// Export writes the filtered ledger as CSV: a header row, the ledger rows in
// display order, and a trailing totals row.
func (s *ledgerService) Export(ctx context.Context, params ledger.FilterParams, w io.Writer) error {
	result, err := s.Query(ctx, params)
	if err != nil {
		return err
	}

	table := ledger.ToTable(*result)
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Headers); err != nil {
		return fmt.Errorf("failed to write ledger export header: %w", err)
	}
	if err := cw.WriteAll(append(table.Rows, ledger.SummaryRow(result.Summary))); err != nil {
		return fmt.Errorf("failed to write ledger export rows: %w", err)
	}

	s.LogInfo(ctx, "Ledger exported", slog.Int("rows", len(table.Rows)))
	return nil
}

// SetReconciled sets the reconciled flag of one journal line.
func (s *ledgerService) SetReconciled(ctx context.Context, lineID string, reconciled bool, userID string) error {
	if err := s.journalRepo.SetLineReconciled(ctx, lineID, reconciled); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update reconciliation flag", slog.String("line_id", lineID))
		}
		return fmt.Errorf("failed to update line %s: %w", lineID, err)
	}

	s.LogInfo(ctx, "Reconciliation flag updated",
		slog.String("line_id", lineID),
		slog.Bool("reconciled", reconciled),
		slog.String("user_id", userID))
	return nil
}
