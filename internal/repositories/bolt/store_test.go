package bolt_test

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/nonprofit_ledger/internal/apperrors"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/repositories/bolt"
)

var (
	cash     = domain.Account{Code: "1000", Name: "Cash", Type: domain.Asset, IsActive: true}
	supplies = domain.Account{Code: "5100", Name: "Program Supplies", Type: domain.Expense, IsActive: true}
	posted0  = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
)

func reimbursement(id, entity, date, amount string, createdAt time.Time) domain.JournalEntry {
	amt := decimal.RequireFromString(amount)
	return domain.JournalEntry{
		ID:          id,
		EntityID:    entity,
		EntryDate:   domain.MustParseDate(date),
		Description: "Reimbursement to Sam Vendor",
		Status:      domain.Posted,
		SourceType:  domain.SourceReimbursement,
		SourceID:    "cap-" + id,
		CreatedAt:   createdAt,
		CreatedBy:   "system",
		PostedAt:    &createdAt,
		PostedBy:    "system",
		Lines: []domain.JournalEntryLine{
			{ID: id + "-1", LineNumber: 1, Account: supplies, DebitAmount: amt, CreditAmount: decimal.Zero},
			{ID: id + "-2", LineNumber: 2, Account: cash, DebitAmount: decimal.Zero, CreditAmount: amt},
		},
	}
}

var _ = Describe("Store", func() {
	var (
		ctx   context.Context
		dbDir string
		store *bolt.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		dbDir = GinkgoT().TempDir()
		var err error
		store, err = bolt.Open(filepath.Join(dbDir, "ledger.db"))
		Expect(err).NotTo(HaveOccurred())
		Expect(store.SaveAccounts(ctx, []domain.Account{supplies, cash})).To(Succeed())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("accounts", func() {
		It("lists accounts in code order", func() {
			accounts, err := store.ListAccounts(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(accounts).To(HaveLen(2))
			Expect(accounts[0].Code).To(Equal("1000"))
			Expect(accounts[1].Code).To(Equal("5100"))
		})

		It("upserts by code", func() {
			renamed := supplies
			renamed.Name = "Supplies"
			Expect(store.SaveAccounts(ctx, []domain.Account{renamed})).To(Succeed())

			acc, err := store.FindAccountByCode(ctx, "5100")
			Expect(err).NotTo(HaveOccurred())
			Expect(acc.Name).To(Equal("Supplies"))
		})

		It("reports unknown codes as not found", func() {
			_, err := store.FindAccountByCode(ctx, "7777")
			Expect(err).To(MatchError(apperrors.ErrNotFound))
		})
	})

	Describe("Post", func() {
		var (
			entry  domain.JournalEntry
			result *domain.JournalEntry
			err    error
		)

		BeforeEach(func() {
			entry = reimbursement("je-1", "awakenings", "2025-04-01", "42.50", posted0)
		})

		JustBeforeEach(func() {
			result, err = store.Post(ctx, entry)
		})

		When("the entry is balanced", func() {
			It("stores it", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(result.ID).To(Equal("je-1"))

				found, findErr := store.FindJournalByID(ctx, "je-1")
				Expect(findErr).NotTo(HaveOccurred())
				Expect(found.EntryDate.String()).To(Equal("2025-04-01"))
				Expect(found.Lines).To(HaveLen(2))
				Expect(domain.FormatAmount(found.Lines[0].DebitAmount)).To(Equal("42.50"))
				Expect(found.Lines[1].Account.Code).To(Equal("1000"))
				Expect(found.CreatedAt.Equal(posted0)).To(BeTrue())
			})

			It("survives reopening the file", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(store.Close()).To(Succeed())

				reopened, openErr := bolt.Open(filepath.Join(dbDir, "ledger.db"))
				Expect(openErr).NotTo(HaveOccurred())
				store = reopened

				posted, listErr := store.ListPostedJournals(ctx, "all")
				Expect(listErr).NotTo(HaveOccurred())
				Expect(posted).To(HaveLen(1))
			})
		})

		When("the entry is unbalanced", func() {
			BeforeEach(func() {
				entry.Lines[1].CreditAmount = decimal.RequireFromString("40.00")
			})

			It("rejects it with a validation error", func() {
				Expect(err).To(MatchError(apperrors.ErrValidation))
			})
		})

		When("the ID already exists", func() {
			BeforeEach(func() {
				_, firstErr := store.Post(ctx, entry)
				Expect(firstErr).NotTo(HaveOccurred())
			})

			It("rejects it as a duplicate", func() {
				Expect(err).To(MatchError(apperrors.ErrDuplicate))
			})
		})

		When("the source record was already posted", func() {
			BeforeEach(func() {
				first := reimbursement("je-0", "awakenings", "2025-04-01", "42.50", posted0)
				first.SourceID = entry.SourceID
				_, firstErr := store.Post(ctx, first)
				Expect(firstErr).NotTo(HaveOccurred())
			})

			It("rejects the second entry and keeps its lines out of the index", func() {
				Expect(err).To(MatchError(apperrors.ErrDuplicate))
				Expect(err.Error()).To(ContainSubstring("je-0"))

				_, findErr := store.FindJournalByID(ctx, "je-1")
				Expect(findErr).To(MatchError(apperrors.ErrNotFound))
				Expect(store.SetLineReconciled(ctx, "je-1-1", true)).To(MatchError(apperrors.ErrNotFound))
			})

			It("keeps the source reserved after reopening and voiding", func() {
				_, voidErr := store.VoidJournal(ctx, "je-0", "treasurer", posted0)
				Expect(voidErr).NotTo(HaveOccurred())
				Expect(store.Close()).To(Succeed())

				reopened, openErr := bolt.Open(filepath.Join(dbDir, "ledger.db"))
				Expect(openErr).NotTo(HaveOccurred())
				store = reopened

				retry := reimbursement("je-2", "awakenings", "2025-04-01", "42.50", posted0)
				retry.SourceID = entry.SourceID
				_, retryErr := store.Post(ctx, retry)
				Expect(retryErr).To(MatchError(apperrors.ErrDuplicate))
			})
		})

		When("the entry has no source record", func() {
			BeforeEach(func() {
				entry.SourceID = ""
				manual := reimbursement("je-0", "awakenings", "2025-04-01", "42.50", posted0)
				manual.SourceID = ""
				_, firstErr := store.Post(ctx, manual)
				Expect(firstErr).NotTo(HaveOccurred())
			})

			It("stores it", func() {
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Describe("listing", func() {
		BeforeEach(func() {
			for i, date := range []string{"2025-04-01", "2025-04-02", "2025-04-03"} {
				_, err := store.Post(ctx, reimbursement("je-"+date, "awakenings", date, "10.00", posted0.Add(time.Duration(i)*time.Minute)))
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := store.Post(ctx, reimbursement("je-harbor", "harbor-house", "2025-04-05", "5.00", posted0.Add(time.Hour)))
			Expect(err).NotTo(HaveOccurred())
		})

		It("pages newest first", func() {
			page, next, err := store.ListJournals(ctx, "awakenings", 2, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(2))
			Expect(page[0].ID).To(Equal("je-2025-04-03"))
			Expect(next).NotTo(BeNil())

			page, next, err = store.ListJournals(ctx, "awakenings", 2, next)
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(1))
			Expect(page[0].ID).To(Equal("je-2025-04-01"))
			Expect(next).To(BeNil())
		})

		It("returns posted entries in posting order", func() {
			posted, err := store.ListPostedJournals(ctx, "all")
			Expect(err).NotTo(HaveOccurred())
			Expect(posted).To(HaveLen(4))
			Expect(posted[0].ID).To(Equal("je-2025-04-01"))
			Expect(posted[3].ID).To(Equal("je-harbor"))
		})

		It("excludes voided entries from posted listings", func() {
			voided, err := store.VoidJournal(ctx, "je-2025-04-02", "treasurer", posted0.Add(2*time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(voided.Status).To(Equal(domain.Voided))

			posted, err := store.ListPostedJournals(ctx, "awakenings")
			Expect(err).NotTo(HaveOccurred())
			Expect(posted).To(HaveLen(2))

			_, err = store.VoidJournal(ctx, "je-2025-04-02", "treasurer", posted0)
			Expect(err).To(MatchError(apperrors.ErrValidation))
		})
	})

	Describe("reconciliation", func() {
		BeforeEach(func() {
			_, err := store.Post(ctx, reimbursement("je-1", "awakenings", "2025-04-01", "42.50", posted0))
			Expect(err).NotTo(HaveOccurred())
		})

		It("toggles the flag of known lines", func() {
			Expect(store.SetLineReconciled(ctx, "je-1-2", true)).To(Succeed())
			lines, err := store.ReconciledLines(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(HaveKey("je-1-2"))

			Expect(store.SetLineReconciled(ctx, "je-1-2", false)).To(Succeed())
			lines, err = store.ReconciledLines(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(lines).To(BeEmpty())
		})

		It("rejects unknown lines", func() {
			Expect(store.SetLineReconciled(ctx, "nope", true)).To(MatchError(apperrors.ErrNotFound))
		})
	})
})
