package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

var logLevel = flag.String("log-level", "warn", "Log level written to stderr (debug, info, warn, error)")

// ledger is an open tracker and the resources behind it.
type ledger struct {
	*services.Tracker
	cfg   *config.Config
	close func()
}

// openLedger loads configuration and the persisted ledger, then books any
// recurring transactions that fell due since the last run. Mutations are
// published on the change feed when AMQP is configured.
func openLedger(ctx context.Context) (*ledger, error) {
	logger := cli.SetupLogger(*logLevel, log.ComponentCLI)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tracker, res, err := cli.OpenTracker(ctx, cfg, true)
	if err != nil {
		return nil, err
	}
	// every command sees recurring transactions booked up to today
	if n, err := tracker.MaterializeDue(ctx); err != nil {
		logger.Warn("Failed to book due recurring transactions", log.FieldError, err)
	} else if n > 0 {
		logger.Info("Booked due recurring transactions", log.FieldCount, n)
	}
	return &ledger{
		Tracker: tracker,
		cfg:     cfg,
		close: func() {
			if err := res.Close(); err != nil {
				logger.Warn("Failed to close backend", log.FieldError, err)
			}
		},
	}, nil
}

// withLedger opens the ledger, runs fn and maps its error to an exit status.
func withLedger(ctx context.Context, fn func(*ledger) error) subcommands.ExitStatus {
	l, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer l.close()

	if err := fn(l); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if core.IsValidation(err) || errUsage(err) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func errUsage(err error) bool {
	var u usageError
	return errors.As(err, &u)
}

// oneArg returns the single positional argument named what.
func oneArg(f *flag.FlagSet, what string) (string, error) {
	if f.NArg() != 1 {
		return "", usagef("expected exactly one %s", what)
	}
	return f.Arg(0), nil
}

func parseAmount(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, core.Invalid("amount", err)
	}
	return core.Cents(cents), nil
}

// parseDate reads YYYY-MM-DD; empty means today.
func parseDate(s string, today core.Date) (core.Date, error) {
	if s == "" {
		return today, nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, core.Invalid("date", err)
	}
	return d, nil
}

// parseMonth reads YYYY-MM; empty means the month of today.
func parseMonth(s string, today core.Date) (core.MonthKey, error) {
	if s == "" {
		return today.MonthKey(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return core.MonthKey{}, core.Invalid("month", core.ErrInvalidMonth)
	}
	return core.MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

func parseType(s string) (core.TransactionType, error) {
	t := core.TransactionType(s)
	if !t.Valid() {
		return "", core.Invalid("type", core.ErrInvalidType)
	}
	return t, nil
}

func usageFailure(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitUsageError
}
