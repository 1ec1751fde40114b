package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type recurringCmd struct{}

func (*recurringCmd) Name() string     { return "recurring" }
func (*recurringCmd) Synopsis() string { return "list recurring templates" }
func (*recurringCmd) Usage() string {
	return `fintrack recurring

  Templates are created with "fintrack add -repeat weekly|monthly".
`
}
func (*recurringCmd) SetFlags(*flag.FlagSet) {}

func (c *recurringCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		fmt.Println(renderTemplates(l.Templates(), l.CategoryLabel))
		return nil
	})
}

type rmRecurringCmd struct{}

func (*rmRecurringCmd) Name() string     { return "rm-recurring" }
func (*rmRecurringCmd) Synopsis() string { return "stop a recurring template" }
func (*rmRecurringCmd) Usage() string {
	return `fintrack rm-recurring <id>

  Transactions already booked from the template are kept.
`
}
func (*rmRecurringCmd) SetFlags(*flag.FlagSet) {}

func (c *rmRecurringCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "template id")
	if err != nil {
		return usageFailure(err)
	}
	return withLedger(ctx, func(l *ledger) error {
		if err := l.RemoveRecurring(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Removed recurring template %s\n", id)
		return nil
	})
}

type materializeCmd struct {
	date string
}

func (*materializeCmd) Name() string     { return "materialize" }
func (*materializeCmd) Synopsis() string { return "book every recurring transaction that is due" }
func (*materializeCmd) Usage() string {
	return `fintrack materialize [-date YYYY-MM-DD]

  Safe to run repeatedly; occurrences already booked are skipped.
`
}

func (c *materializeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Book occurrences up to this date (defaults to today)")
}

func (c *materializeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		asOf, err := parseDate(c.date, l.Today())
		if err != nil {
			return err
		}
		n, err := l.MaterializeDueAt(ctx, asOf)
		if err != nil {
			return err
		}
		fmt.Printf("Booked %d recurring transaction(s) up to %s\n", n, asOf)
		return nil
	})
}
