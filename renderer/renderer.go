// Package renderer formats simulator reports as markdown.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/etnz/stocksim"
)

// quantity formats a number of shares for display.
func quantity(q stocksim.Quantity) string {
	return q.Decimal().Round(6).String()
}

// ValuationMarkdown renders a valuation: a summary and one row per position.
func ValuationMarkdown(v stocksim.Valuation) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Holdings")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Total Value"), md.Bold(v.Total.String())},
		Rows: [][]string{
			{"Cash", v.Cash.String()},
			{"Positions", v.PositionsValue().String()},
			{"Initial Cash", v.InitialCash.String()},
			{"Gain / Loss", v.GainLoss.SignedString()},
			{"Return", v.Return.SignedString()},
		},
	})

	if len(v.Positions) > 0 {
		doc.H2("Positions")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Ticker", "Quantity", "Price", "Value", "Weight"},
		}
		total, _ := v.Total.Decimal().Float64()
		for _, p := range v.Positions {
			var weight stocksim.Percent
			if total > 0 {
				value, _ := p.Value.Decimal().Float64()
				weight = stocksim.Percent(100 * value / total)
			}
			table.Rows = append(table.Rows, []string{
				p.Ticker,
				quantity(p.Quantity),
				p.Price.String(),
				p.Value.String(),
				weight.String(),
			})
		}
		doc.Table(table)
	}
	return doc.String()
}

// Transaction renders a transaction to a string.
func Transaction(tx stocksim.Transaction) string {
	switch tx.Command {
	case stocksim.CmdBuy:
		return fmt.Sprintf("Bought %s of %s at %s for %s", quantity(tx.Quantity), tx.Ticker, tx.Price, tx.Total)
	case stocksim.CmdSell:
		return fmt.Sprintf("Sold %s of %s at %s for %s", quantity(tx.Quantity), tx.Ticker, tx.Price, tx.Total)
	default:
		return string(tx.What())
	}
}

// TransactionsMarkdown renders transactions as a table.
func TransactionsMarkdown(txs []stocksim.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transactions")
	if len(txs) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"#", "Time", "Command", "Ticker", "Quantity", "Price", "Total"},
	}
	for _, tx := range txs {
		when := ""
		if !tx.AsOf.IsZero() {
			when = tx.AsOf.UTC().Format("2006-01-02 15:04")
		}
		table.Rows = append(table.Rows, []string{
			fmt.Sprint(tx.Sequence),
			when,
			string(tx.Command),
			tx.Ticker,
			quantity(tx.Quantity),
			tx.Price.String(),
			tx.Total.String(),
		})
	}
	doc.Table(table)
	return doc.String()
}

// QuoteMarkdown renders a quote.
func QuoteMarkdown(q stocksim.Quote) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Quote for %s", q.Ticker))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Price"), md.Bold(q.Price.String())},
		Rows: [][]string{
			{"As of", q.AsOf.UTC().Format("2006-01-02 15:04:05 MST")},
		},
	})
	return doc.String()
}

// HistoryMarkdown renders daily closing prices with their daily change.
func HistoryMarkdown(h stocksim.PriceHistory) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("History for %s", h.Ticker))
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Close", "Change"},
		Rows:      [][]string{},
	}
	var first, prev stocksim.Money
	for day, price := range h.Prices.Values() {
		change := "-"
		if !prev.IsZero() {
			change = percent(prev, price).SignedString()
		} else {
			first = price
		}
		table.Rows = append(table.Rows, []string{day.String(), price.String(), change})
		prev = price
	}
	doc.Table(table)
	if !first.IsZero() {
		doc.PlainText(fmt.Sprintf("Period change: %s", percent(first, prev).SignedString()))
	}
	return doc.String()
}

// percent returns the relative change from a to b.
func percent(a, b stocksim.Money) stocksim.Percent {
	ratio, _ := b.Sub(a).Decimal().Div(a.Decimal()).Float64()
	return stocksim.Percent(100 * ratio)
}

// SnapshotMarkdown renders a ledger state without prices.
func SnapshotMarkdown(s stocksim.Snapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Session")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Session"), md.Bold(s.Session.String())},
		Rows: [][]string{
			{"Initial Cash", s.InitialCash.String()},
			{"Cash", s.Cash.String()},
			{"Transactions", fmt.Sprint(len(s.Transactions))},
		},
	})
	if tickers := s.Tickers(); len(tickers) > 0 {
		doc.H2("Positions")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Ticker", "Quantity"},
		}
		for _, t := range tickers {
			table.Rows = append(table.Rows, []string{t, quantity(s.Holdings[t])})
		}
		doc.Table(table)
	}
	return doc.String()
}
