package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type goalCmd struct {
	set   string
	clear bool
}

func (*goalCmd) Name() string     { return "goal" }
func (*goalCmd) Synopsis() string { return "show, set or clear the monthly savings goal" }
func (*goalCmd) Usage() string {
	return `fintrack goal [-set <amount> | -clear]
`
}

func (c *goalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.set, "set", "", "New monthly savings goal")
	f.BoolVar(&c.clear, "clear", false, "Remove the goal")
}

func (c *goalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.set != "" && c.clear {
		return usageFailure(usagef("-set and -clear cannot be used together"))
	}
	return withLedger(ctx, func(l *ledger) error {
		switch {
		case c.clear:
			if err := l.ClearGoal(ctx); err != nil {
				return err
			}
			fmt.Println("Monthly goal cleared")
		case c.set != "":
			goal, err := parseAmount(c.set)
			if err != nil {
				return err
			}
			if err := l.SetGoal(ctx, goal); err != nil {
				return err
			}
			fmt.Printf("Monthly goal set to %s\n", goal.Display())
		default:
			if goal, ok := l.Goal(); ok {
				fmt.Printf("Monthly goal: %s\n", goal.Display())
			} else {
				fmt.Println("No monthly goal set")
			}
		}
		return nil
	})
}

type monthlyCmd struct {
	month string
}

func (*monthlyCmd) Name() string     { return "monthly" }
func (*monthlyCmd) Synopsis() string { return "income, expense and top categories of a month" }
func (*monthlyCmd) Usage() string {
	return `fintrack monthly [-month YYYY-MM]
`
}

func (c *monthlyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month to report on (defaults to the current month)")
}

func (c *monthlyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		k, err := parseMonth(c.month, l.Today())
		if err != nil {
			return err
		}
		fmt.Print(renderMonthly(k, l.MonthlyTotals(k), l.TopExpenseCategories(k), l.CategoryLabel))
		return nil
	})
}

type yearlyCmd struct {
	year int
}

func (*yearlyCmd) Name() string     { return "yearly" }
func (*yearlyCmd) Synopsis() string { return "month by month totals of a year" }
func (*yearlyCmd) Usage() string {
	return `fintrack yearly [-year YYYY]

  Shows goal achievement per month when a monthly goal is set.
`
}

func (c *yearlyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Year to report on (defaults to the current year)")
}

func (c *yearlyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		year := c.year
		if year == 0 {
			year = l.Today().Year()
		}
		fmt.Println(renderSummary(year, l.SummaryRows(year)))
		return nil
	})
}

type insightsCmd struct {
	year int
}

func (*insightsCmd) Name() string     { return "insights" }
func (*insightsCmd) Synopsis() string { return "review the year against the savings goal" }
func (*insightsCmd) Usage() string {
	return `fintrack insights [-year YYYY]
`
}

func (c *insightsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", 0, "Year to review (defaults to the current year)")
}

func (c *insightsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		year := c.year
		if year == 0 {
			year = l.Today().Year()
		}
		in, ok := l.Insights(year)
		if !ok {
			fmt.Println("Set a monthly goal first: fintrack goal -set <amount>")
			return nil
		}
		fmt.Println(renderInsights(in, l.CategoryLabel))
		return nil
	})
}

type dashboardCmd struct{}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "headline numbers, recent months and EMIs due" }
func (*dashboardCmd) Usage() string {
	return `fintrack dashboard
`
}
func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (c *dashboardCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		fmt.Println(renderDashboard(l.Widgets(), l.Charts(), l.Emis(), l.CategoryLabel))
		return nil
	})
}
