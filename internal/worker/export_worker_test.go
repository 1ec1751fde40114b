package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/sheets/memory"
	"fintrack/internal/storage"
)

func newTrackers(t *testing.T) (writer, reader *services.Tracker) {
	t.Helper()
	store := storage.NewMemoryStore(nil)
	clock := core.FixedClock(core.NewDate(2024, 3, 15))
	cfg := services.TrackerConfig{Store: store, Clock: clock, IDs: &core.SequentialIDs{}, Logger: log.Discard()}
	writer = services.OpenTracker(context.Background(), cfg)
	reader = services.NewTracker(services.TrackerConfig{Store: store, Clock: clock, Logger: log.Discard()})
	return writer, reader
}

func TestExportWorkerExportsFromStore(t *testing.T) {
	ctx := context.Background()
	writer, reader := newTrackers(t)

	mustAdd := func(typ core.TransactionType, cat string, cents int64, d core.Date) {
		t.Helper()
		if _, err := writer.AddTransaction(ctx, services.TransactionInput{Type: typ, Category: cat, Amount: core.Cents(cents), Date: d}); err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
	}
	mustAdd(core.Income, "salary", 500000, core.NewDate(2024, 3, 1))
	mustAdd(core.Expense, "food", 1250, core.NewDate(2024, 3, 2))
	mustAdd(core.Expense, "food", 900, core.NewDate(2023, 12, 30))

	rec := memory.New()
	w := NewExportWorker(reader, rec, time.Second)

	err := w.HandleLedgerChanged(ctx, amqp.NewLedgerChangedMessage("add_transaction", 3, writer.Counts()))
	if err != nil {
		t.Fatalf("HandleLedgerChanged: %v", err)
	}

	rows := rec.Transactions()
	if len(rows) != 3 {
		t.Fatalf("exported %d transactions, want 3", len(rows))
	}
	if rows[0].Category != "💼 Salary" || rows[0].Amount != "5000.00" {
		t.Errorf("first row = %+v", rows[0])
	}

	if got := rec.Yearly(2024); len(got) != 12 {
		t.Errorf("2024 summary has %d rows, want 12", len(got))
	} else if got[2].Income != "5000.00" || got[2].Expense != "12.50" {
		t.Errorf("March row = %+v", got[2])
	}
	if got := rec.Yearly(2023); len(got) != 12 || got[11].Expense != "9.00" {
		t.Errorf("2023 summary = %+v", got)
	}
	if rec.Exports() != 3 {
		t.Errorf("Exports() = %d, want 3", rec.Exports())
	}
}

func TestExportWorkerExportsCurrentYearWhenEmpty(t *testing.T) {
	_, reader := newTrackers(t)
	rec := memory.New()

	if err := NewExportWorker(reader, rec, 0).Export(context.Background()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(rec.Transactions()) != 0 {
		t.Errorf("Transactions() = %v", rec.Transactions())
	}
	if len(rec.Yearly(2024)) != 12 {
		t.Errorf("Yearly(2024) = %v", rec.Yearly(2024))
	}
}

type failingExporter struct{ *memory.Recorder }

func (failingExporter) ExportYearly(context.Context, int, []core.SummaryRow) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestExportWorkerReportsExporterErrors(t *testing.T) {
	_, reader := newTrackers(t)
	w := NewExportWorker(reader, failingExporter{memory.New()}, time.Second)

	err := w.Export(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := err.Error(); got != "export 2024 summary: quota exceeded" {
		t.Errorf("error = %q", got)
	}
}

func TestExportWorkerSkipsUnchangedSheets(t *testing.T) {
	ctx := context.Background()
	writer, reader := newTrackers(t)
	rec := memory.New()
	w := NewExportWorker(reader, rec, time.Second)

	if err := w.Export(ctx); err != nil {
		t.Fatal(err)
	}
	if rec.Exports() != 2 {
		t.Fatalf("first export wrote %d sheets, want 2", rec.Exports())
	}

	if err := w.Export(ctx); err != nil {
		t.Fatal(err)
	}
	if rec.Exports() != 2 {
		t.Errorf("unchanged ledger rewrote sheets: %d", rec.Exports())
	}

	if _, err := writer.AddTransaction(ctx, services.TransactionInput{
		Type: core.Expense, Category: "food", Amount: core.Cents(500), Date: core.NewDate(2024, 3, 3),
	}); err != nil {
		t.Fatal(err)
	}
	if err := w.Export(ctx); err != nil {
		t.Fatal(err)
	}
	if rec.Exports() != 4 {
		t.Errorf("changed ledger wrote %d sheets in total, want 4", rec.Exports())
	}
}
