// Command fintrack is the command-line front end of the personal ledger.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"fintrack/internal/cli"
)

func main() {
	cli.LoadEnvFile()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "transactions")
	c.Register(&editCmd{}, "transactions")
	c.Register(&rmCmd{}, "transactions")
	c.Register(&listCmd{}, "transactions")

	c.Register(&categoriesCmd{}, "categories")
	c.Register(&addCategoryCmd{}, "categories")
	c.Register(&editCategoryCmd{}, "categories")
	c.Register(&rmCategoryCmd{}, "categories")

	c.Register(&emisCmd{}, "emis")
	c.Register(&addEmiCmd{}, "emis")
	c.Register(&payEmiCmd{}, "emis")
	c.Register(&rmEmiCmd{}, "emis")

	c.Register(&recurringCmd{}, "recurring")
	c.Register(&rmRecurringCmd{}, "recurring")
	c.Register(&materializeCmd{}, "recurring")

	c.Register(&networthCmd{}, "net worth")
	c.Register(&addNetworthCmd{}, "net worth")
	c.Register(&rmNetworthCmd{}, "net worth")

	c.Register(&goalCmd{}, "reports")
	c.Register(&monthlyCmd{}, "reports")
	c.Register(&yearlyCmd{}, "reports")
	c.Register(&insightsCmd{}, "reports")
	c.Register(&dashboardCmd{}, "reports")

	c.Register(&backupCmd{}, "data")
	c.Register(&restoreCmd{}, "data")
	c.Register(&clearCmd{}, "data")
	c.Register(&exportCmd{}, "data")
}
