package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/stocksim/date"
	"github.com/etnz/stocksim/renderer"
)

type historyCmd struct {
	ticker string
	period string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the daily closing prices of a stock" }
func (*historyCmd) Usage() string {
	return `stocksim history -t <ticker> [-p <period>]

  Lists the daily closing prices of <ticker> over the period ending today.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Stock ticker symbol")
	f.StringVar(&c.period, "p", "monthly", "Period (daily, weekly, monthly, quarterly, yearly)")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		fmt.Fprintln(stderr, "Error: -t flag is required.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing period: %v\n", err)
		f.Usage()
		return subcommands.ExitUsageError
	}

	a, err := setup()
	if err != nil {
		return fail("loading configuration: %v", err)
	}
	defer a.close(ctx)

	s, err := a.session()
	if err != nil {
		return fail("opening session: %v", err)
	}
	h, err := s.History(ctx, c.ticker, period)
	if err != nil {
		return fail("fetching history: %v", err)
	}
	printMarkdown(renderer.HistoryMarkdown(h))
	return subcommands.ExitSuccess
}
