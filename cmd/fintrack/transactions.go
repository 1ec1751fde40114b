package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type addCmd struct {
	typ      string
	category string
	amount   string
	date     string
	repeat   string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income or expense" }
func (*addCmd) Usage() string {
	return `fintrack add -amount <amount> [-type expense|income] [-category <id>] [-date YYYY-MM-DD] [-repeat weekly|monthly]

  Adds a transaction. With -repeat, also creates a recurring template that
  books the same transaction every week or month from the given date.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", string(core.Expense), "Transaction type (expense, income)")
	f.StringVar(&c.category, "category", core.CategoryOther, "Category id")
	f.StringVar(&c.amount, "amount", "", "Amount, e.g. 12.50")
	f.StringVar(&c.date, "date", "", "Date (defaults to today)")
	f.StringVar(&c.repeat, "repeat", "", "Repeat interval (weekly, monthly)")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		typ, err := parseType(c.typ)
		if err != nil {
			return err
		}
		amount, err := parseAmount(c.amount)
		if err != nil {
			return err
		}
		date, err := parseDate(c.date, l.Today())
		if err != nil {
			return err
		}

		if c.repeat != "" {
			tpl, seed, err := l.AddRecurring(ctx, services.TemplateInput{
				Type: typ, Category: c.category, Amount: amount, StartDate: date,
				Interval: core.RepetitionInterval(c.repeat),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Added %s and recurring template %s (%s)\n", seed.ID, tpl.ID, tpl.Interval)
			return nil
		}

		txn, err := l.AddTransaction(ctx, services.TransactionInput{
			Type: typ, Category: c.category, Amount: amount, Date: date,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s: %s %s in %s on %s\n", txn.ID, typeLabel(txn.Type), txn.Amount.Display(), l.CategoryLabel(txn.Category), txn.Date)
		return nil
	})
}

type editCmd struct {
	typ      string
	category string
	amount   string
	date     string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change fields of a transaction" }
func (*editCmd) Usage() string {
	return `fintrack edit [-type expense|income] [-category <id>] [-amount <amount>] [-date YYYY-MM-DD] <id>

  Replaces only the fields given as flags.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "", "New transaction type")
	f.StringVar(&c.category, "category", "", "New category id")
	f.StringVar(&c.amount, "amount", "", "New amount")
	f.StringVar(&c.date, "date", "", "New date")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "transaction id")
	if err != nil {
		return usageFailure(err)
	}
	return withLedger(ctx, func(l *ledger) error {
		var patch services.TransactionPatch
		if c.typ != "" {
			typ, err := parseType(c.typ)
			if err != nil {
				return err
			}
			patch.Type = &typ
		}
		if c.category != "" {
			patch.Category = &c.category
		}
		if c.amount != "" {
			amount, err := parseAmount(c.amount)
			if err != nil {
				return err
			}
			patch.Amount = &amount
		}
		if c.date != "" {
			date, err := parseDate(c.date, l.Today())
			if err != nil {
				return err
			}
			patch.Date = &date
		}

		txn, err := l.EditTransaction(ctx, id, patch)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s: %s %s in %s on %s\n", txn.ID, typeLabel(txn.Type), txn.Amount.Display(), l.CategoryLabel(txn.Category), txn.Date)
		return nil
	})
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a transaction" }
func (*rmCmd) Usage() string {
	return `fintrack rm <id>
`
}
func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "transaction id")
	if err != nil {
		return usageFailure(err)
	}
	return withLedger(ctx, func(l *ledger) error {
		if err := l.RemoveTransaction(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", id)
		return nil
	})
}

type listCmd struct {
	sort   string
	filter string
	head   int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list transactions with a running balance" }
func (*listCmd) Usage() string {
	return `fintrack list [-sort date-desc|date-asc|amount-desc|amount-asc|category-asc|category-desc] [-filter all|income|expense] [-head <n>]
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sort, "sort", "date-desc", "Sort key and direction")
	f.StringVar(&c.filter, "filter", "all", "Transaction type filter")
	f.IntVar(&c.head, "head", 0, "Show only the first N rows")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts, err := services.ParseViewOptions(c.sort, c.filter)
	if err != nil {
		return usageFailure(err)
	}
	return withLedger(ctx, func(l *ledger) error {
		rows := l.View(opts)
		if c.head > 0 && len(rows) > c.head {
			rows = rows[:c.head]
		}
		fmt.Println(renderTransactions(rows, l.CategoryLabel))
		return nil
	})
}
