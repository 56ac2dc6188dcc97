package stocksim

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/stocksim/date"
)

// NormalizeTicker returns the canonical form of a ticker symbol: trimmed and
// upper cased. An empty ticker is an ErrInvalidInput.
func NormalizeTicker(ticker string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return "", fmt.Errorf("%w: ticker is missing", ErrInvalidInput)
	}
	return t, nil
}

// Quote is a price observation for one ticker at one instant.
//
// A Quote is supplied by the caller for a single ledger operation, it is never
// cached by the ledger.
type Quote struct {
	Ticker string
	Price  Money // price per unit
	AsOf   time.Time
}

// NewQuote creates a Quote for ticker at price.
func NewQuote(ticker string, price Money, asOf time.Time) Quote {
	return Quote{Ticker: ticker, Price: price, AsOf: asOf}
}

func (q Quote) String() string {
	return fmt.Sprintf("%s %s as of %s", q.Ticker, q.Price, q.AsOf.Format(time.RFC3339))
}

// PriceHistory is a chronological series of closing prices for one ticker.
type PriceHistory struct {
	Ticker string
	Prices date.History[Money]
}

// PricePoint is the closing price of a ticker on a day.
type PricePoint struct {
	Date  date.Date
	Price Money
}

// Latest returns the most recent point of the series.
func (h *PriceHistory) Latest() (date.Date, Money) { return h.Prices.Latest() }

// Points returns the series as a slice, oldest first.
func (h *PriceHistory) Points() []PricePoint {
	points := make([]PricePoint, 0, h.Prices.Len())
	for day, price := range h.Prices.Values() {
		points = append(points, PricePoint{Date: day, Price: price})
	}
	return points
}

// PriceOracle supplies market prices.
//
// Both methods block on I/O, they must be called before any ledger operation
// and never while holding ledger state. Implementations report any failure to
// supply a price as ErrQuoteUnavailable.
type PriceOracle interface {
	// FetchQuote returns the current price of ticker.
	FetchQuote(ctx context.Context, ticker string) (Quote, error)
	// FetchHistory returns the daily closing prices of ticker over the period ending today.
	FetchHistory(ctx context.Context, ticker string, period date.Period) (PriceHistory, error)
}
