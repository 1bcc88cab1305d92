// Package seed generates deterministic demo captures and posts them through
// the journal service.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/nonprofit_ledger/internal/core/ports/services"
	"github.com/SscSPs/nonprofit_ledger/internal/dto"
	"github.com/SscSPs/nonprofit_ledger/internal/middleware"
)

// DefaultEntities are the nonprofits demo data is spread across.
var DefaultEntities = []string{"awakenings", "harbor-house", "northside-food-bank"}

var (
	payers  = []string{"Jane Donor", "Community Foundation", "Riverside Church", "A. Patel", "Lopez Family Trust", "Anonymous"}
	vendors = []string{"Office Depot", "City Utilities", "Green Grocers", "Linen Supply Co", "Metro Transit", "Print Shop"}
)

// Options controls the generated data set.
type Options struct {
	Count    int
	Seed     uint64
	Entities []string
	Start    domain.Date // First possible entry date
	Days     int         // Entry dates fall in [Start, Start+Days)
}

func (o Options) withDefaults() Options {
	if o.Count <= 0 {
		o.Count = 50
	}
	if len(o.Entities) == 0 {
		o.Entities = DefaultEntities
	}
	if o.Start.IsZero() {
		o.Start = domain.NewDate(2025, 1, 1)
	}
	if o.Days <= 0 {
		o.Days = 90
	}
	return o
}

// Generate builds capture requests against the active revenue and expense
// accounts of chart. The same options always yield the same requests, ordered
// by date.
func Generate(chart *domain.ChartOfAccounts, opts Options) ([]dto.PostCaptureRequest, error) {
	opts = opts.withDefaults()

	var revenue, expense []domain.Account
	for _, acc := range chart.Accounts() {
		if !acc.IsActive {
			continue
		}
		switch acc.Type {
		case domain.Revenue:
			revenue = append(revenue, acc)
		case domain.Expense:
			expense = append(expense, acc)
		}
	}
	if len(revenue) == 0 || len(expense) == 0 {
		return nil, fmt.Errorf("chart of accounts needs at least one active revenue and one active expense account")
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	out := make([]dto.PostCaptureRequest, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		req := dto.PostCaptureRequest{
			ID:       fmt.Sprintf("demo-%04d", i+1),
			Date:     opts.Start.AddDays(rng.IntN(opts.Days)),
			EntityID: opts.Entities[rng.IntN(len(opts.Entities))],
		}
		switch roll := rng.IntN(100); {
		case roll < 45:
			acc := revenue[rng.IntN(len(revenue))]
			req.Type = domain.SourceCheckDeposit
			req.AccountCode = acc.Code
			req.Amount = cents(rng, 2500, 250000)
			req.Counterparty = payers[rng.IntN(len(payers))]
			req.ReferenceNumber = fmt.Sprintf("CHK-%04d", 1000+i)
			req.Memo = acc.Name
		default:
			acc := expense[rng.IntN(len(expense))]
			req.Type = domain.SourceReimbursement
			if roll >= 80 {
				req.Type = domain.SourceExpense
			}
			req.AccountCode = acc.Code
			req.Amount = cents(rng, 500, 60000)
			req.Counterparty = vendors[rng.IntN(len(vendors))]
			req.ReferenceNumber = fmt.Sprintf("RCPT-%04d", 1000+i)
			req.Memo = acc.Name
		}
		out = append(out, req)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// cents returns a random amount in [lo, hi) cents at currency scale.
func cents(rng *rand.Rand, lo, hi int64) decimal.Decimal {
	return decimal.New(lo+rng.Int64N(hi-lo), -domain.CurrencyScale)
}

// Post sends every request through the journal service and returns how many
// entries were posted. Captures already in the store are skipped, so seeding a
// persistent store again posts nothing new. Any other failure stops the run.
func Post(ctx context.Context, journals portssvc.JournalWriterSvc, requests []dto.PostCaptureRequest, userID string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	posted, skipped := 0, 0
	for _, req := range requests {
		if _, err := journals.PostCapture(ctx, req, userID); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				skipped++
				continue
			}
			return posted, fmt.Errorf("failed to post demo capture %s: %w", req.ID, err)
		}
		posted++
	}
	logger.Info("Demo data seeded", slog.Int("entries", posted), slog.Int("already_posted", skipped))
	return posted, nil
}
