package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/SscSPs/nonprofit_ledger/internal/chart"
	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/core/services"
	"github.com/SscSPs/nonprofit_ledger/internal/dto"
	"github.com/SscSPs/nonprofit_ledger/internal/repositories/memory"
)

const cliActor = "ledgerctl"

func newBuildCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a journal entry from a capture",
		Long: `Build the balanced two-line journal entry for a captured check deposit,
reimbursement or expense and print it as JSON. Nothing is stored.`,
		Example: `  # Check deposit credited to donations
  ledgerctl build --type check-deposit --amount 250.00 --date 2025-01-10 --account 4000 --entity awakenings

  # Expense against a custom chart of accounts
  ledgerctl build --type expense --amount 42.10 --account 5100 --entity harbor-house --chart chart.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBuild(cmd)
		},
	}

	cmd.Flags().String("type", "", "Capture type: check-deposit, reimbursement or expense")
	cmd.Flags().String("amount", "", "Positive amount with at most two decimals")
	cmd.Flags().String("date", "", "Entry date (YYYY-MM-DD, default: today)")
	cmd.Flags().String("account", "", "Counter account code")
	cmd.Flags().String("entity", "", "Entity the entry belongs to")
	cmd.Flags().String("counterparty", "", "Donor, payee or vendor")
	cmd.Flags().String("memo", "", "Line memo")
	cmd.Flags().String("description", "", "Entry description (default: derived from the capture)")
	cmd.Flags().String("reference", "", "Check or receipt number")
	cmd.Flags().String("chart", "", "Chart of accounts YAML file (default: $CHART_OF_ACCOUNTS_PATH, then the built-in chart)")
	for _, name := range []string{"type", "amount", "account", "entity"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *app) runBuild(cmd *cobra.Command) error {
	log := a.log.With().Str("component", "build").Logger()
	flags := cmd.Flags()

	typ, _ := flags.GetString("type")
	amountStr, _ := flags.GetString("amount")
	dateStr, _ := flags.GetString("date")
	coaPath := chartPath(cmd)

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return fmt.Errorf("invalid --amount %q: %w", amountStr, err)
	}
	date := domain.DateOf(time.Now().UTC())
	if dateStr != "" {
		if date, err = domain.ParseDate(dateStr); err != nil {
			return fmt.Errorf("invalid --date %q, use YYYY-MM-DD: %w", dateStr, err)
		}
	}

	coa, err := chart.Load(coaPath)
	if err != nil {
		return err
	}
	log.Debug().Int("accounts", coa.Len()).Str("chart", coaPath).Msg("Chart of accounts loaded")

	req := dto.PostCaptureRequest{
		Type:   domain.SourceType(typ),
		Amount: amount,
		Date:   date,
	}
	req.AccountCode, _ = flags.GetString("account")
	req.EntityID, _ = flags.GetString("entity")
	req.Counterparty, _ = flags.GetString("counterparty")
	req.Memo, _ = flags.GetString("memo")
	req.Description, _ = flags.GetString("description")
	req.ReferenceNumber, _ = flags.GetString("reference")

	ctx := serviceContext(context.Background(), a.log, a.errOut)
	svc := services.NewServiceContainer(memory.NewRepositoryProvider())
	if err := svc.Account.SyncChart(ctx, coa); err != nil {
		return err
	}
	entry, err := svc.Journal.PostCapture(ctx, req, cliActor)
	if err != nil {
		return err
	}

	log.Info().Str("journal_id", entry.ID).Str("amount", domain.FormatAmount(entry.Amount())).Msg("Journal entry built")
	return writeJSON(cmd.OutOrStdout(), dto.ToJournalResponse(entry))
}
