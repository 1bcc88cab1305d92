package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/SscSPs/nonprofit_ledger/internal/core/ledger"
	"github.com/SscSPs/nonprofit_ledger/internal/dto"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeLedger prints a ledger result as JSON or as CSV with a totals row.
func writeLedger(w io.Writer, result ledger.Result, format string) error {
	switch format {
	case formatJSON:
		return writeJSON(w, dto.ToLedgerResponse(&result))
	case formatCSV:
		table := ledger.ToTable(result)
		cw := csv.NewWriter(w)
		if err := cw.Write(table.Headers); err != nil {
			return err
		}
		return cw.WriteAll(append(table.Rows, ledger.SummaryRow(result.Summary)))
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, formatJSON, formatCSV)
	}
}
