package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type categoriesCmd struct{}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list categories and how many transactions use each" }
func (*categoriesCmd) Usage() string {
	return `fintrack categories
`
}
func (*categoriesCmd) SetFlags(*flag.FlagSet) {}

func (c *categoriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		usage := make(map[string]int)
		for _, t := range l.Transactions() {
			usage[t.Category]++
		}
		fmt.Println(renderCategories(l.Categories(), usage))
		return nil
	})
}

type addCategoryCmd struct {
	icon string
}

func (*addCategoryCmd) Name() string     { return "add-category" }
func (*addCategoryCmd) Synopsis() string { return "create a category" }
func (*addCategoryCmd) Usage() string {
	return `fintrack add-category [-icon <emoji>] <name>

  The id is derived from the name, e.g. "Eating Out" becomes eating-out.
`
}

func (c *addCategoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.icon, "icon", "", "Optional icon shown before the name")
}

func (c *addCategoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	name, err := oneArg(f, "category name")
	if err != nil {
		return usageFailure(err)
	}
	return withLedger(ctx, func(l *ledger) error {
		id, err := l.AddCategory(ctx, name, c.icon)
		if err != nil {
			return err
		}
		fmt.Printf("Added category %s (%s)\n", id, l.CategoryLabel(id))
		return nil
	})
}

type editCategoryCmd struct {
	name string
	icon string
}

func (*editCategoryCmd) Name() string     { return "edit-category" }
func (*editCategoryCmd) Synopsis() string { return "rename a category or change its icon" }
func (*editCategoryCmd) Usage() string {
	return `fintrack edit-category [-name <name>] [-icon <emoji>] <id>

  The id never changes, so existing transactions keep their category.
`
}

func (c *editCategoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New display name")
	f.StringVar(&c.icon, "icon", "", "New icon")
}

func (c *editCategoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "category id")
	if err != nil {
		return usageFailure(err)
	}
	if c.name == "" && c.icon == "" {
		return usageFailure(usagef("nothing to change, pass -name or -icon"))
	}
	return withLedger(ctx, func(l *ledger) error {
		if c.name != "" {
			if err := l.RenameCategory(ctx, id, c.name); err != nil {
				return err
			}
		}
		if c.icon != "" {
			if err := l.SetCategoryIcon(ctx, id, c.icon); err != nil {
				return err
			}
		}
		fmt.Printf("Updated category %s (%s)\n", id, l.CategoryLabel(id))
		return nil
	})
}

type rmCategoryCmd struct{}

func (*rmCategoryCmd) Name() string     { return "rm-category" }
func (*rmCategoryCmd) Synopsis() string { return "delete a category, moving its transactions to other" }
func (*rmCategoryCmd) Usage() string {
	return `fintrack rm-category <id>
`
}
func (*rmCategoryCmd) SetFlags(*flag.FlagSet) {}

func (c *rmCategoryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := oneArg(f, "category id")
	if err != nil {
		return usageFailure(err)
	}
	return withLedger(ctx, func(l *ledger) error {
		n, err := l.RemoveCategory(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Removed category %s, %d transaction(s) moved to other\n", id, n)
		return nil
	})
}
