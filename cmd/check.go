package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/stocksim/renderer"
)

// checkCmd replays the session file offline.
type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verify the session file and show its state" }
func (*checkCmd) Usage() string {
	return `stocksim check

  Replays every transaction of the session file, verifying that cash and
  positions never go negative, and displays the resulting state. It does not
  fetch any price.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		return fail("loading configuration: %v", err)
	}
	defer a.close(ctx)

	ledger, err := a.openLedger()
	if err != nil {
		return fail("checking session: %v", err)
	}
	printMarkdown(renderer.SnapshotMarkdown(ledger.Snapshot()))
	fmt.Fprintf(stdout, "%s is consistent: %d transactions replayed.\n", a.cfg.LedgerFile, ledger.Len())
	return subcommands.ExitSuccess
}
