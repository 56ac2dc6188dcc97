package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/etnz/stocksim/renderer"
)

// holdingCmd values the session at current prices.
type holdingCmd struct{}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the session value at current prices" }
func (*holdingCmd) Usage() string {
	return `stocksim holding

  Displays cash, positions and their current value, and the gain or loss
  against the initial cash. Every held ticker must have a current quote.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		return fail("loading configuration: %v", err)
	}
	defer a.close(ctx)

	s, err := a.session()
	if err != nil {
		return fail("opening session: %v", err)
	}
	v, err := s.Value(ctx)
	if err != nil {
		return fail("valuing session: %v", err)
	}
	printMarkdown(renderer.ValuationMarkdown(v))
	return subcommands.ExitSuccess
}
