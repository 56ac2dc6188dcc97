package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/stocksim"
	"github.com/etnz/stocksim/renderer"
)

type buyCmd struct {
	ticker string
	amount string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy a stock for a cash amount at the current price" }
func (*buyCmd) Usage() string {
	return `stocksim buy -t <ticker> -a <amount>

  Spends <amount> of cash on <ticker> at its current price. The number of
  shares is fractional: amount divided by price.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Stock ticker symbol")
	f.StringVar(&c.amount, "a", "", "Cash amount to spend, in the session currency")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.amount == "" {
		fmt.Fprintln(stderr, "Error: -t and -a flags are required.")
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
	amount, err := stocksim.ParseMoney(c.amount, s.Ledger.Currency())
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing amount: %v\n", err)
		f.Usage()
		return subcommands.ExitUsageError
	}

	tx, err := s.Buy(ctx, c.ticker, amount)
	if err != nil {
		return fail("buying %s: %v", c.ticker, err)
	}
	if err := a.appendTransaction(tx); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "%s. Cash: %s\n", renderer.Transaction(tx), s.Ledger.Cash())
	return subcommands.ExitSuccess
}
