package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type networthCmd struct{}

func (*networthCmd) Name() string     { return "networth" }
func (*networthCmd) Synopsis() string { return "list net worth snapshots" }
func (*networthCmd) Usage() string {
	return `fintrack networth
`
}
func (*networthCmd) SetFlags(*flag.FlagSet) {}

func (c *networthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		fmt.Println(renderNetWorth(l.NetWorthEntries(), l.NetWorth()))
		return nil
	})
}

type addNetworthCmd struct {
	date   string
	assets string
	liab   string
}

func (*addNetworthCmd) Name() string     { return "add-networth" }
func (*addNetworthCmd) Synopsis() string { return "record assets and liabilities on a date" }
func (*addNetworthCmd) Usage() string {
	return `fintrack add-networth [-date YYYY-MM-DD] [-assets <amount>] [-liab <amount>]
`
}

func (c *addNetworthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Snapshot date (defaults to today)")
	f.StringVar(&c.assets, "assets", "0", "Total assets")
	f.StringVar(&c.liab, "liab", "0", "Total liabilities")
}

// parseBalance accepts zero, unlike transaction amounts.
func parseBalance(field, s string) (core.Money, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil || d.IsNegative() {
		return core.Money{}, core.Invalid(field, core.ErrInvalidAmount)
	}
	return core.FromDecimal(d), nil
}

func (c *addNetworthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		date, err := parseDate(c.date, l.Today())
		if err != nil {
			return err
		}
		assets, err := parseBalance("assets", c.assets)
		if err != nil {
			return err
		}
		liab, err := parseBalance("liabilities", c.liab)
		if err != nil {
			return err
		}
		e, err := l.AddNetWorth(ctx, services.NetWorthInput{Date: date, Assets: assets, Liab: liab})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s: net %s on %s\n", e.ID, e.Assets.Sub(e.Liab).Display(), e.Date)
		return nil
	})
}

type rmNetworthCmd struct{}

func (*rmNetworthCmd) Name() string     { return "rm-networth" }
func (*rmNetworthCmd) Synopsis() string { return "delete a net worth snapshot" }
func (*rmNetworthCmd) Usage() string {
	return `fintrack rm-networth <id>
`
}
func (*rmNetworthCmd) SetFlags(*flag.FlagSet) {}

func (c *rmNetworthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "entry id")
	if err != nil {
		return usageFailure(err)
	}
	return withLedger(ctx, func(l *ledger) error {
		if err := l.RemoveNetWorth(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", id)
		return nil
	})
}
