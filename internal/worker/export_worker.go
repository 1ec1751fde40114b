// Package worker holds the background jobs that mirror the ledger elsewhere.
package worker

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/sheets"
)

const (
	// maxConcurrentExports bounds parallel sheet writes per export run.
	maxConcurrentExports = 4

	exportLogSize = 64
	exportLogTTL  = time.Hour
)

// ExportWorker rewrites the spreadsheet copy of the ledger from the store.
// It never writes to the store itself.
type ExportWorker struct {
	tracker  *services.Tracker
	exporter sheets.Exporter
	timeout  time.Duration
	sent     *cache.ExportLog
	logger   *log.Logger
}

func NewExportWorker(tracker *services.Tracker, exporter sheets.Exporter, timeout time.Duration) *ExportWorker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ExportWorker{
		tracker:  tracker,
		exporter: exporter,
		timeout:  timeout,
		sent:     cache.NewExportLog(exportLogSize, exportLogTTL),
		logger:   log.ForComponent(log.ComponentWorker),
	}
}

// HandleLedgerChanged processes a change notification from AMQP.
func (w *ExportWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	w.logger.InfoContext(ctx, "Processing ledger change",
		log.FieldOperation, msg.Op,
		log.FieldRevision, msg.Revision,
		"transactions", msg.Counts.Transactions)

	return w.Export(ctx)
}

// Export reloads the ledger and rewrites the transaction sheet and one
// summary sheet per year that has activity, plus the current year.
func (w *ExportWorker) Export(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	w.tracker.Load(ctx)

	rows := w.tracker.ExportRows()
	years := w.years()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentExports)

	g.Go(func() error {
		return w.once(gctx, "transactions", rows, func() (string, error) {
			ref, err := w.exporter.ExportTransactions(gctx, rows)
			if err != nil {
				return "", fmt.Errorf("export transactions: %w", err)
			}
			return ref, nil
		})
	})

	for _, year := range years {
		summary := w.tracker.SummaryRows(year)
		g.Go(func() error {
			return w.once(gctx, fmt.Sprintf("summary:%d", year), summary, func() (string, error) {
				ref, err := w.exporter.ExportYearly(gctx, year, summary)
				if err != nil {
					return "", fmt.Errorf("export %d summary: %w", year, err)
				}
				return ref, nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		w.logger.ErrorContext(ctx, "Export failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
		return err
	}

	w.logger.InfoContext(ctx, "Export completed",
		log.FieldOperation, log.OpExport,
		log.FieldCount, len(rows),
		"years", len(years),
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// once runs export unless rows match what the sheet last received.
func (w *ExportWorker) once(ctx context.Context, sheet string, rows any, export func() (string, error)) error {
	fp, err := cache.Fingerprint(rows)
	if err != nil {
		return fmt.Errorf("fingerprint %s: %w", sheet, err)
	}
	if w.sent.Unchanged(sheet, fp) {
		w.logger.DebugContext(ctx, "Sheet unchanged, skipping", "sheet", sheet)
		return nil
	}
	ref, err := export()
	if err != nil {
		w.sent.Forget(sheet)
		return err
	}
	w.sent.Record(sheet, fp)
	w.logger.DebugContext(ctx, "Sheet exported", "sheet", sheet, log.FieldSheetsRef, ref)
	return nil
}

func (w *ExportWorker) years() []int {
	years := []int{w.tracker.Today().Year()}
	for _, t := range w.tracker.Transactions() {
		if !slices.Contains(years, t.Date.Year()) {
			years = append(years, t.Date.Year())
		}
	}
	slices.Sort(years)
	return years
}
