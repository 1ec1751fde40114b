package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

// Recorder keeps the last export of each sheet in memory. It stands in for
// Google Sheets in development and tests.
type Recorder struct {
	mu           sync.Mutex
	transactions []core.ExportRow
	yearly       map[int][]core.SummaryRow
	exports      int
}

var _ ports.Exporter = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{yearly: make(map[int][]core.SummaryRow)}
}

// ExportTransactions replaces the recorded transaction rows.
func (r *Recorder) ExportTransactions(_ context.Context, rows []core.ExportRow) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append([]core.ExportRow(nil), rows...)
	r.exports++
	return fmt.Sprintf("mem:transactions:%d", len(rows)), nil
}

// ExportYearly replaces the recorded summary of year.
func (r *Recorder) ExportYearly(_ context.Context, year int, rows []core.SummaryRow) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.yearly[year] = append([]core.SummaryRow(nil), rows...)
	r.exports++
	return fmt.Sprintf("mem:summary:%d:%d", year, len(rows)), nil
}

// Transactions returns a copy of the last exported transaction rows.
func (r *Recorder) Transactions() []core.ExportRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.ExportRow(nil), r.transactions...)
}

// Yearly returns a copy of the last exported summary of year.
func (r *Recorder) Yearly(year int) []core.SummaryRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.SummaryRow(nil), r.yearly[year]...)
}

// Exports counts successful export calls.
func (r *Recorder) Exports() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exports
}
