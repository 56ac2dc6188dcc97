package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/stocksim"
)

type initCmd struct {
	cash  string
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "start a new trading session" }
func (*initCmd) Usage() string {
	return `stocksim init [-cash <amount>] [-force]

  Creates the session file with its initial cash. The currency and the
  default initial cash come from the configuration.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cash, "cash", "", "Initial cash, defaults to the configured initial_cash")
	f.BoolVar(&c.force, "force", false, "Overwrite an existing session file")
}

func (c *initCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		return fail("loading configuration: %v", err)
	}
	defer a.close(ctx)

	initial := a.cfg.InitialMoney()
	if c.cash != "" {
		initial, err = stocksim.ParseMoney(c.cash, a.cfg.Currency)
		if err != nil {
			fmt.Fprintf(stderr, "Error parsing cash: %v\n", err)
			f.Usage()
			return subcommands.ExitUsageError
		}
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_EXCL
	if c.force {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	l, err := stocksim.NewLedger(initial, stocksim.WithLogger(a.logger))
	if err != nil {
		return fail("creating session: %v", err)
	}
	file, err := os.OpenFile(a.cfg.LedgerFile, flags, 0644)
	if errors.Is(err, fs.ErrExist) {
		return fail("session file %q already exists, use -force to overwrite it", a.cfg.LedgerFile)
	}
	if err != nil {
		return fail("creating session file: %v", err)
	}
	defer file.Close()

	if err := stocksim.EncodeLedger(file, l.Snapshot()); err != nil {
		return fail("writing session file: %v", err)
	}
	a.recorder.SetCash(l.Cash())
	fmt.Fprintf(stdout, "Started session %s with %s in %s\n", l.ID(), l.Cash(), a.cfg.LedgerFile)
	return subcommands.ExitSuccess
}
