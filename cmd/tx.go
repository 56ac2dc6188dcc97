package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/stocksim"
	"github.com/etnz/stocksim/renderer"
)

type txCmd struct {
	ticker string
	head   int
	tail   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the session" }
func (*txCmd) Usage() string {
	return `stocksim tx [-t <ticker>] [-head <n>] [-tail <n>]

  Lists executed transactions in order, with options for filtering and limiting the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ticker, "t", "", "Show only transactions on this ticker.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	ticker := ""
	if p.ticker != "" {
		var err error
		if ticker, err = stocksim.NormalizeTicker(p.ticker); err != nil {
			return fail("parsing ticker: %v", err)
		}
	}

	a, err := setup()
	if err != nil {
		return fail("loading configuration: %v", err)
	}
	defer a.close(ctx)

	ledger, err := a.openLedger()
	if err != nil {
		return fail("opening session: %v", err)
	}

	var transactions []stocksim.Transaction
	for _, tx := range ledger.History() {
		if ticker == "" || tx.Ticker == ticker {
			transactions = append(transactions, tx)
		}
	}

	if p.head > 0 && len(transactions) > p.head {
		transactions = transactions[:p.head]
	}
	if p.tail > 0 && len(transactions) > p.tail {
		transactions = transactions[len(transactions)-p.tail:]
	}

	printMarkdown(renderer.TransactionsMarkdown(transactions))
	return subcommands.ExitSuccess
}
