package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"fintrack/internal/backend"
	"fintrack/internal/worker"
)

type backupCmd struct {
	out string
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "write the whole ledger as a JSON document" }
func (*backupCmd) Usage() string {
	return `fintrack backup [-o <file>]
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "Output file (defaults to stdout)")
}

func (c *backupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		doc, err := l.Backup()
		if err != nil {
			return err
		}
		if c.out == "" {
			_, err = os.Stdout.Write(append(doc, '\n'))
			return err
		}
		if err := os.WriteFile(c.out, doc, 0o600); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Backup written to %s\n", c.out)
		return nil
	})
}

type restoreCmd struct {
	yes bool
}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "replace the ledger with a backup document" }
func (*restoreCmd) Usage() string {
	return `fintrack restore [-y] <file|->

  Unreadable parts of the document fall back to defaults.
`
}

func (c *restoreCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
}

func (c *restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path, err := oneArg(f, "backup file")
	if err != nil {
		return usageFailure(err)
	}
	var doc []byte
	if path == "-" {
		doc, err = io.ReadAll(os.Stdin)
	} else {
		doc, err = os.ReadFile(path)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: read backup: %v\n", err)
		return subcommands.ExitFailure
	}
	if !c.yes && path != "-" && !confirm("Replace the current ledger with "+path+"?") {
		fmt.Println("Restore cancelled")
		return subcommands.ExitSuccess
	}
	return withLedger(ctx, func(l *ledger) error {
		if err := l.Restore(ctx, doc); err != nil {
			return err
		}
		counts := l.Counts()
		fmt.Printf("Restored: %d transactions, %d EMIs, %d categories, %d recurring templates, %d net worth entries\n",
			counts.Transactions, counts.Emis, counts.Categories, counts.Recurring, counts.NetWorth)
		return nil
	})
}

type clearCmd struct {
	yes bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "delete everything and start over" }
func (*clearCmd) Usage() string {
	return `fintrack clear [-y]
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation")
}

func (c *clearCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes && !confirm("Delete all data?") {
		fmt.Println("Clear cancelled")
		return subcommands.ExitSuccess
	}
	return withLedger(ctx, func(l *ledger) error {
		if err := l.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("All data cleared")
		return nil
	})
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

type exportCmd struct{}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write transactions and yearly summaries to the spreadsheet" }
func (*exportCmd) Usage() string {
	return `fintrack export

  Uses GOOGLE_SPREADSHEET_ID and the service account credentials. Without a
  spreadsheet the export only runs in memory, which is useful as a dry run.
`
}
func (*exportCmd) SetFlags(*flag.FlagSet) {}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(ctx, func(l *ledger) error {
		bcfg, err := backend.FromAppConfig(l.cfg)
		if err != nil {
			return err
		}
		exporter, err := backend.NewFactory(nil).CreateExporter(ctx, bcfg)
		if err != nil {
			return err
		}
		if err := worker.NewExportWorker(l.Tracker, exporter, l.cfg.ExportTimeout).Export(ctx); err != nil {
			return err
		}
		fmt.Printf("Exported %d transaction(s)\n", l.Counts().Transactions)
		return nil
	})
}
