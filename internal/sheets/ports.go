package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound spreadsheet adapters. Each export replaces the previous
// contents of its sheet, so running one twice is harmless.
type (
	TransactionExporter interface {
		ExportTransactions(ctx context.Context, rows []core.ExportRow) (rangeRef string, err error)
	}

	SummaryExporter interface {
		ExportYearly(ctx context.Context, year int, rows []core.SummaryRow) (rangeRef string, err error)
	}

	// Exporter is what the ledger worker needs.
	Exporter interface {
		TransactionExporter
		SummaryExporter
	}
)

// Header rows written above the data.
var (
	TransactionHeader = []string{"ID", "Type", "Amount", "Date", "Category"}
	SummaryHeader     = []string{"Month", "Income", "Expense", "Saved", "Achieved", "Status"}
)

// TransactionValues lays out rows in TransactionHeader order.
func TransactionValues(rows []core.ExportRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{r.ID, r.Type, r.Amount, r.Date, r.Category})
	}
	return out
}

// SummaryValues lays out rows in SummaryHeader order.
func SummaryValues(rows []core.SummaryRow) [][]any {
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, []any{r.Month, r.Income, r.Expense, r.Saved, r.Percent, r.Status})
	}
	return out
}
