package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/stocksim/renderer"
)

type quoteCmd struct {
	ticker string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "show the current price of a stock" }
func (*quoteCmd) Usage() string {
	return `stocksim quote -t <ticker>
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Stock ticker symbol")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		fmt.Fprintln(stderr, "Error: -t flag is required.")
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
	q, err := s.Quote(ctx, c.ticker)
	if err != nil {
		return fail("fetching quote: %v", err)
	}
	printMarkdown(renderer.QuoteMarkdown(q))
	return subcommands.ExitSuccess
}
