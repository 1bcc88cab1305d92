package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
	"github.com/SscSPs/nonprofit_ledger/internal/core/services"
)

// entry builds a posted two-line entry debiting debitAcc and crediting creditAcc.
func entry(id, entity, date string, amount string, debitAcc, creditAcc domain.Account) domain.JournalEntry {
	amt := decimal.RequireFromString(amount)
	return domain.JournalEntry{
		ID:          id,
		EntityID:    entity,
		EntryDate:   domain.MustParseDate(date),
		Description: "entry " + id,
		Status:      domain.Posted,
		SourceType:  domain.SourceManual,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Lines: []domain.JournalEntryLine{
			{ID: id + "-1", LineNumber: 1, Account: debitAcc, DebitAmount: amt, CreditAmount: decimal.Zero},
			{ID: id + "-2", LineNumber: 2, Account: creditAcc, DebitAmount: decimal.Zero, CreditAmount: amt},
		},
	}
}

func TestLedgerService_Query(t *testing.T) {
	ctx := context.Background()
	repo := new(MockJournalRepository)
	repo.On("ListPostedJournals", ctx, "awakenings").Return([]domain.JournalEntry{
		entry("je-1", "awakenings", "2025-01-01", "100", cashAccount, donationsAccount),
		entry("je-2", "awakenings", "2025-01-02", "30", suppliesAccount, cashAccount),
	}, nil).Once()
	repo.On("ReconciledLines", ctx).Return(map[string]bool{"je-1-1": true}, nil).Once()

	svc := services.NewLedgerService(repo)
	res, err := svc.Query(ctx, ledger.FilterParams{EntityID: "awakenings", CategoryCode: "1000"})

	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "je-2-2", res.Entries[0].ID)
	assert.Equal(t, "-70.00", domain.FormatAmount(res.Entries[0].Balance))
	assert.True(t, res.Entries[1].Reconciled)
	assert.Equal(t, "70.00", domain.FormatAmount(res.Summary.NetBalance.Neg()))
	repo.AssertExpectations(t)
}

func TestLedgerService_Export(t *testing.T) {
	ctx := context.Background()
	repo := new(MockJournalRepository)
	repo.On("ListPostedJournals", ctx, "").Return([]domain.JournalEntry{
		entry("je-1", "awakenings", "2025-01-01", "100", cashAccount, donationsAccount),
	}, nil).Once()
	repo.On("ReconciledLines", ctx).Return(map[string]bool{}, nil).Once()

	var buf bytes.Buffer
	err := services.NewLedgerService(repo).Export(ctx, ledger.FilterParams{}, &buf)
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header, two lines, totals")
	assert.Equal(t, ledger.TableHeaders, records[0])
	assert.Equal(t, "100.00", records[3][7])
	assert.Equal(t, "100.00", records[3][8])
	assert.Equal(t, "0.00", records[3][9])
}

func TestLedgerService_SetReconciled(t *testing.T) {
	ctx := context.Background()
	repo := new(MockJournalRepository)
	repo.On("SetLineReconciled", ctx, "je-1-1", true).Return(nil).Once()
	repo.On("SetLineReconciled", ctx, "nope", true).Return(apperrors.ErrNotFound).Once()

	svc := services.NewLedgerService(repo)

	assert.NoError(t, svc.SetReconciled(ctx, "je-1-1", true, "treasurer-1"))
	assert.ErrorIs(t, svc.SetReconciled(ctx, "nope", true, "treasurer-1"), apperrors.ErrNotFound)
	repo.AssertExpectations(t)
}
