package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"fintrack/internal/services"
)

type emisCmd struct{}

func (*emisCmd) Name() string     { return "emis" }
func (*emisCmd) Synopsis() string { return "list EMIs with their due status" }
func (*emisCmd) Usage() string {
	return `fintrack emis
`
}
func (*emisCmd) SetFlags(*flag.FlagSet) {}

func (c *emisCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		fmt.Println(renderEmis(l.Emis()))
		return nil
	})
}

type addEmiCmd struct {
	title  string
	amount string
	due    string
}

func (*addEmiCmd) Name() string     { return "add-emi" }
func (*addEmiCmd) Synopsis() string { return "record an installment to pay" }
func (*addEmiCmd) Usage() string {
	return `fintrack add-emi -title <title> -amount <amount> -due YYYY-MM-DD
`
}

func (c *addEmiCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.title, "title", "", "What the installment is for")
	f.StringVar(&c.amount, "amount", "", "Installment amount")
	f.StringVar(&c.due, "due", "", "Due date (defaults to today)")
}

func (c *addEmiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		amount, err := parseAmount(c.amount)
		if err != nil {
			return err
		}
		due, err := parseDate(c.due, l.Today())
		if err != nil {
			return err
		}
		emi, err := l.AddEmi(ctx, services.EmiInput{Title: c.title, Amount: amount, DueDate: due})
		if err != nil {
			return err
		}
		fmt.Printf("Added EMI %s: %s %s due %s\n", emi.ID, emi.Title, emi.Amount.Display(), emi.DueDate)
		return nil
	})
}

type payEmiCmd struct {
	undo bool
}

func (*payEmiCmd) Name() string     { return "pay-emi" }
func (*payEmiCmd) Synopsis() string { return "mark an EMI paid (or unpaid with -undo)" }
func (*payEmiCmd) Usage() string {
	return `fintrack pay-emi [-undo] <id>

  Paying books one expense in the emi category dated today. Undoing removes it.
`
}

func (c *payEmiCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.undo, "undo", false, "Mark the EMI unpaid instead")
}

func (c *payEmiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "EMI id")
	if err != nil {
		return usageFailure(err)
	}
	return withLedger(ctx, func(l *ledger) error {
		if c.undo {
			emi, err := l.MarkEmiUnpaid(ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("EMI %s marked unpaid\n", emi.ID)
			return nil
		}
		emi, err := l.MarkEmiPaid(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("EMI %s paid on %s\n", emi.ID, emi.PaidDate)
		return nil
	})
}

type rmEmiCmd struct{}

func (*rmEmiCmd) Name() string     { return "rm-emi" }
func (*rmEmiCmd) Synopsis() string { return "delete an EMI and its payment transaction" }
func (*rmEmiCmd) Usage() string {
	return `fintrack rm-emi <id>
`
}
func (*rmEmiCmd) SetFlags(*flag.FlagSet) {}

func (c *rmEmiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "EMI id")
	if err != nil {
		return usageFailure(err)
	}
	return withLedger(ctx, func(l *ledger) error {
		if err := l.DeleteEmi(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Removed EMI %s\n", id)
		return nil
	})
}
