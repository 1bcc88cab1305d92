package services

import (
	"context"
	"io"

	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
)

// LedgerReaderSvc defines read operations on the aggregated general ledger
type LedgerReaderSvc interface {
	// Query returns the filtered ledger with running balances and totals.
	Query(ctx context.Context, params ledger.FilterParams) (*ledger.Result, error)

	// Export writes the filtered ledger to w as CSV with a trailing totals row.
	Export(ctx context.Context, params ledger.FilterParams, w io.Writer) error
}

// LedgerReconcilerSvc defines bank reconciliation operations
type LedgerReconcilerSvc interface {
	// SetReconciled sets the reconciled flag of one journal line.
	SetReconciled(ctx context.Context, lineID string, reconciled bool, userID string) error
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerReconcilerSvc
}
