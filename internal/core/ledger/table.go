package ledger

import (
	"strconv"

	"github.com/SscSPs/nonprofit_ledger/internal/core/domain"
)

// Table is the (headers, rows) shape export serializers consume.
type Table struct {
	Headers []string
	Rows    [][]string
}

// TableHeaders names the exported ledger columns in order.
var TableHeaders = []string{
	"Date", "Reference", "Entity", "GL Code", "Category", "Description",
	"Source", "Debit", "Credit", "Balance", "Reconciled",
}

// ToTable projects a filtered ledger into display order rows with amounts
// formatted at currency scale.
func ToTable(r Result) Table {
	rows := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		rows = append(rows, []string{
			e.Date.String(),
			e.ReferenceNumber,
			e.EntityID,
			e.InternalCode,
			e.Category,
			e.Description,
			e.Source,
			domain.FormatAmount(e.Debit),
			domain.FormatAmount(e.Credit),
			domain.FormatAmount(e.Balance),
			strconv.FormatBool(e.Reconciled),
		})
	}
	headers := make([]string, len(TableHeaders))
	copy(headers, TableHeaders)
	return Table{Headers: headers, Rows: rows}
}

// SummaryRow renders totals as a trailing row aligned with TableHeaders.
func SummaryRow(s domain.LedgerSummary) []string {
	return []string{
		"", "", "", "", "", "Totals (" + strconv.Itoa(s.TransactionCount) + " transactions)",
		"", domain.FormatAmount(s.TotalDebits), domain.FormatAmount(s.TotalCredits),
		domain.FormatAmount(s.NetBalance), "",
	}
}
