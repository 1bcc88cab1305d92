package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
)

func row(id, date string, debit, credit string) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:           id,
		Date:         domain.MustParseDate(date),
		Description:  "row " + id,
		Source:       "check-deposit",
		EntityID:     "awakenings",
		Category:     "Donations",
		InternalCode: "4000",
		Debit:        decimal.RequireFromString(debit),
		Credit:       decimal.RequireFromString(credit),
		Balance:      decimal.Zero,
	}
}

func ids(entries []domain.LedgerEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestFilter_RunningBalanceNewestFirst(t *testing.T) {
	entries := []domain.LedgerEntry{
		row("b", "2025-01-02", "30", "0"),
		row("a", "2025-01-01", "0", "100"),
	}

	res := ledger.Filter(entries, ledger.FilterParams{})

	require.Len(t, res.Entries, 2)
	assert.Equal(t, []string{"b", "a"}, ids(res.Entries))
	assert.Equal(t, "70.00", domain.FormatAmount(res.Entries[0].Balance))
	assert.Equal(t, "100.00", domain.FormatAmount(res.Entries[1].Balance))

	assert.Equal(t, "30.00", domain.FormatAmount(res.Summary.TotalDebits))
	assert.Equal(t, "100.00", domain.FormatAmount(res.Summary.TotalCredits))
	assert.Equal(t, "70.00", domain.FormatAmount(res.Summary.NetBalance))
	assert.Equal(t, 2, res.Summary.TransactionCount)
}

func TestFilter_SameDateKeepsInputOrderReversed(t *testing.T) {
	entries := []domain.LedgerEntry{
		row("first", "2025-02-01", "0", "10"),
		row("second", "2025-02-01", "0", "20"),
		row("third", "2025-02-01", "5", "0"),
	}

	res := ledger.Filter(entries, ledger.FilterParams{})

	assert.Equal(t, []string{"third", "second", "first"}, ids(res.Entries))
	assert.Equal(t, "25.00", domain.FormatAmount(res.Entries[0].Balance))
	assert.Equal(t, "30.00", domain.FormatAmount(res.Entries[1].Balance))
	assert.Equal(t, "10.00", domain.FormatAmount(res.Entries[2].Balance))
}

func TestFilter_NetBalanceMatchesOldestToNewestFold(t *testing.T) {
	entries := []domain.LedgerEntry{
		row("1", "2025-03-05", "12.34", "0"),
		row("2", "2025-03-01", "0", "250"),
		row("3", "2025-03-03", "40.10", "0"),
		row("4", "2025-03-04", "0", "0.99"),
	}

	res := ledger.Filter(entries, ledger.FilterParams{})

	require.NotEmpty(t, res.Entries)
	assert.True(t, res.Entries[0].Balance.Equal(res.Summary.NetBalance),
		"newest row balance %s should equal net %s", res.Entries[0].Balance, res.Summary.NetBalance)
	assert.True(t, res.Summary.NetBalance.Equal(res.Summary.TotalCredits.Sub(res.Summary.TotalDebits)))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	entries := []domain.LedgerEntry{
		row("b", "2025-01-02", "30", "0"),
		row("a", "2025-01-01", "0", "100"),
	}
	before := make([]domain.LedgerEntry, len(entries))
	copy(before, entries)

	first := ledger.Filter(entries, ledger.FilterParams{})
	second := ledger.Filter(entries, ledger.FilterParams{})

	assert.Equal(t, before, entries)
	assert.Equal(t, first, second)
}

func TestFilter_Empty(t *testing.T) {
	res := ledger.Filter(nil, ledger.FilterParams{})

	assert.Empty(t, res.Entries)
	assert.NotNil(t, res.Entries)
	assert.Equal(t, 0, res.Summary.TransactionCount)
	assert.True(t, res.Summary.NetBalance.IsZero())
}

func TestFilter_Params(t *testing.T) {
	rent := row("rent", "2025-01-10", "800", "0")
	rent.Category = "Rent"
	rent.InternalCode = "5200"
	rent.Description = "January rent"
	rent.ReferenceNumber = "INV-2025-001"
	rent.Reconciled = true

	other := row("other", "2025-01-15", "0", "50")
	other.EntityID = "harbor-house"
	other.Description = "Rental deposit refund"

	donation := row("donation", "2025-01-05", "0", "100")

	entries := []domain.LedgerEntry{rent, other, donation}

	tests := []struct {
		name   string
		params ledger.FilterParams
		want   []string
	}{
		{"no filters", ledger.FilterParams{}, []string{"other", "rent", "donation"}},
		{"all entities keyword", ledger.FilterParams{EntityID: ledger.AllEntities}, []string{"other", "rent", "donation"}},
		{"entity", ledger.FilterParams{EntityID: "awakenings"}, []string{"rent", "donation"}},
		{"category prefix", ledger.FilterParams{CategoryCode: "5"}, []string{"rent"}},
		{"reconciled only", ledger.FilterParams{Reconciled: ledger.ReconciledOnly}, []string{"rent"}},
		{"unreconciled only", ledger.FilterParams{Reconciled: ledger.Unreconciled}, []string{"other", "donation"}},
		{"date from inclusive", ledger.FilterParams{DateFrom: domain.MustParseDate("2025-01-10")}, []string{"other", "rent"}},
		{"date to inclusive", ledger.FilterParams{DateTo: domain.MustParseDate("2025-01-10")}, []string{"rent", "donation"}},
		{"search description case-insensitive", ledger.FilterParams{SearchTerm: "JANUARY"}, []string{"rent"}},
		{"search reference", ledger.FilterParams{SearchTerm: "inv-2025"}, []string{"rent"}},
		{"search code", ledger.FilterParams{SearchTerm: "5200"}, []string{"rent"}},
		{"search category", ledger.FilterParams{SearchTerm: "donat"}, []string{"other", "donation"}},
		{"search substring", ledger.FilterParams{SearchTerm: "rent"}, []string{"other", "rent"}},
		{"search keeps surrounding spaces", ledger.FilterParams{SearchTerm: " rent"}, []string{"rent"}},
		{"whitespace search is a literal term", ledger.FilterParams{SearchTerm: "   "}, []string{}},
		{"no match", ledger.FilterParams{SearchTerm: "zzz"}, []string{}},
		{"unknown entity", ledger.FilterParams{EntityID: "nobody"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ledger.Filter(entries, tt.params)
			assert.Equal(t, tt.want, ids(res.Entries))
			assert.Equal(t, len(tt.want), res.Summary.TransactionCount)
		})
	}
}

func TestFilter_UnknownEntityHasZeroSummary(t *testing.T) {
	entries := []domain.LedgerEntry{
		row("a", "2025-01-01", "0", "100"),
		row("b", "2025-01-02", "40", "0"),
	}

	res := ledger.Filter(entries, ledger.FilterParams{EntityID: "nobody"})

	assert.Empty(t, res.Entries)
	assert.NotNil(t, res.Entries)
	assert.Zero(t, res.Summary.TransactionCount)
	assert.True(t, res.Summary.TotalDebits.IsZero())
	assert.True(t, res.Summary.TotalCredits.IsZero())
	assert.True(t, res.Summary.NetBalance.IsZero())
}

func TestFilter_BalanceIsRelativeToVisibleWindow(t *testing.T) {
	entries := []domain.LedgerEntry{
		row("a", "2025-01-01", "0", "100"),
		row("b", "2025-01-02", "0", "50"),
	}

	res := ledger.Filter(entries, ledger.FilterParams{DateFrom: domain.MustParseDate("2025-01-02")})

	require.Len(t, res.Entries, 1)
	assert.Equal(t, "50.00", domain.FormatAmount(res.Entries[0].Balance))
}

func TestParseReconciledFilter(t *testing.T) {
	for in, want := range map[string]ledger.ReconciledFilter{
		"":             ledger.ReconciledAll,
		"all":          ledger.ReconciledAll,
		"Reconciled":   ledger.ReconciledOnly,
		"unreconciled": ledger.Unreconciled,
	} {
		got, err := ledger.ParseReconciledFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ledger.ParseReconciledFilter("maybe")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
