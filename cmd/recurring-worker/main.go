package main

import (
	"context"
	"os"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentRecurring)
	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// Materialized transactions are published like any other change
	tracker, res, err := cli.OpenTracker(context.Background(), cfg, true)
	if err != nil {
		logger.Error("Failed to open ledger", log.FieldError, err)
		os.Exit(1)
	}

	loc, _ := cfg.Location()
	scheduler := worker.NewRecurringScheduler(tracker, loc)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		scheduler.Stop()
		if err := res.Close(); err != nil {
			logger.Error("Failed to close backend", log.FieldError, err)
		}
	})

	logger.Info("Running initial recurring materialization")
	if n, err := scheduler.RunOnce(ctx); err != nil {
		logger.Error("Initial materialization failed", log.FieldError, err)
	} else {
		logger.Info("Initial materialization complete", log.FieldCount, n)
	}

	id, err := scheduler.Schedule(ctx, cfg.RecurringSchedule)
	if err != nil {
		logger.Error("Failed to schedule materialization", log.FieldError, err)
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("Recurring materialization scheduled",
		"schedule", cfg.RecurringSchedule,
		"next_run", scheduler.Next(id).Format(time.RFC3339))

	cli.WaitForShutdown(ctx, done)
}
