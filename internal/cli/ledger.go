package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
	"github.com/SscSPs/nonprofit_ledger/internal/dto"
)

func newLedgerCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Filter a ledger file and compute running balances",
		Long: `Read a JSON array of ledger rows, apply the filters and print the rows
newest first with running balances and totals.`,
		Example: `  # Unreconciled cash rows for one entity as CSV
  ledgerctl ledger --file ledger.json --entity awakenings --category 1000 --reconciled unreconciled --format csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runLedger(cmd)
		},
	}

	cmd.Flags().String("file", "", "JSON file of ledger rows")
	cmd.Flags().String("entity", "", "Entity ID, or all")
	cmd.Flags().String("category", "", "GL code prefix")
	cmd.Flags().String("reconciled", "", "all, reconciled or unreconciled")
	cmd.Flags().String("from", "", "Inclusive start date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Inclusive end date (YYYY-MM-DD)")
	cmd.Flags().String("search", "", "Case-insensitive match on description, reference, category or code")
	cmd.Flags().String("format", formatJSON, "Output format: json or csv")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) runLedger(cmd *cobra.Command) error {
	log := a.log.With().Str("component", "ledger").Logger()
	flags := cmd.Flags()

	path, _ := flags.GetString("file")
	format, _ := flags.GetString("format")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read ledger file: %w", err)
	}
	var entries []domain.LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse ledger file %s: %w", path, err)
	}

	query := dto.LedgerQueryParams{}
	query.EntityID, _ = flags.GetString("entity")
	query.CategoryCode, _ = flags.GetString("category")
	query.Reconciled, _ = flags.GetString("reconciled")
	query.DateFrom, _ = flags.GetString("from")
	query.DateTo, _ = flags.GetString("to")
	query.Search, _ = flags.GetString("search")
	params, err := query.ToFilterParams()
	if err != nil {
		return err
	}

	result := ledger.Filter(entries, params)
	log.Info().
		Int("rows_read", len(entries)).
		Int("rows_visible", result.Summary.TransactionCount).
		Msg("Ledger filtered")
	return writeLedger(cmd.OutOrStdout(), result, format)
}
