package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/stocksim"
	"github.com/etnz/stocksim/renderer"
)

type sellCmd struct {
	ticker   string
	quantity string
	all      bool
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares of a stock at the current price" }
func (*sellCmd) Usage() string {
	return `stocksim sell -t <ticker> (-q <quantity> | -all)

  Sells <quantity> shares of <ticker>, or the whole position with -all, at
  its current price.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Stock ticker symbol")
	f.StringVar(&c.quantity, "q", "", "Number of shares to sell")
	f.BoolVar(&c.all, "all", false, "Sell the whole position")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || (c.quantity == "") == !c.all {
		fmt.Fprintln(stderr, "Error: -t and exactly one of -q or -all are required.")
		f.Usage()
		return subcommands.ExitUsageError
	}
	var shares stocksim.Quantity
	if !c.all {
		var err error
		shares, err = stocksim.ParseQuantity(c.quantity)
		if err != nil {
			fmt.Fprintf(stderr, "Error parsing quantity: %v\n", err)
			f.Usage()
			return subcommands.ExitUsageError
		}
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

	var tx stocksim.Transaction
	if c.all {
		tx, err = s.SellAll(ctx, c.ticker)
	} else {
		tx, err = s.Sell(ctx, c.ticker, shares)
	}
	if err != nil {
		return fail("selling %s: %v", c.ticker, err)
	}
	if err := a.appendTransaction(tx); err != nil {
		return fail("%v", err)
	}
	fmt.Fprintf(stdout, "%s. Cash: %s\n", renderer.Transaction(tx), s.Ledger.Cash())
	return subcommands.ExitSuccess
}
