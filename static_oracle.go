package stocksim

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/etnz/stocksim/date"
)

// StaticOracle is a PriceOracle backed by a fixed table of prices.
//
// It serves offline sessions and tests. Every known ticker has a flat history
// at its current price.
type StaticOracle struct {
	mu     sync.RWMutex
	prices map[string]Money
	now    func() time.Time
}

// NewStaticOracle creates an oracle from a ticker to price table. Tickers are
// normalized and every price must be positive.
func NewStaticOracle(prices map[string]Money) (*StaticOracle, error) {
	o := &StaticOracle{prices: make(map[string]Money, len(prices)), now: time.Now}
	for _, ticker := range slices.Sorted(maps.Keys(prices)) {
		if err := o.SetPrice(ticker, prices[ticker]); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// SetPrice sets the current price of ticker.
func (o *StaticOracle) SetPrice(ticker string, price Money) error {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return err
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price of %s must be positive, got %s", ErrInvalidInput, t, price)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prices[t] = price
	return nil
}

// Remove forgets ticker, subsequent fetches are unavailable.
func (o *StaticOracle) Remove(ticker string) {
	t, _ := NormalizeTicker(ticker)
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.prices, t)
}

func (o *StaticOracle) price(ticker string) (string, Money, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return "", Money{}, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.prices[t]
	if !ok {
		return t, Money{}, fmt.Errorf("%w: no price for %s", ErrQuoteUnavailable, t)
	}
	return t, p, nil
}

// FetchQuote implements PriceOracle.
func (o *StaticOracle) FetchQuote(ctx context.Context, ticker string) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, fmt.Errorf("%w: %w", ErrQuoteUnavailable, err)
	}
	t, p, err := o.price(ticker)
	if err != nil {
		return Quote{}, err
	}
	return NewQuote(t, p, o.now()), nil
}

// FetchHistory implements PriceOracle.
func (o *StaticOracle) FetchHistory(ctx context.Context, ticker string, period date.Period) (PriceHistory, error) {
	if err := ctx.Err(); err != nil {
		return PriceHistory{}, fmt.Errorf("%w: %w", ErrQuoteUnavailable, err)
	}
	t, p, err := o.price(ticker)
	if err != nil {
		return PriceHistory{}, err
	}
	h := PriceHistory{Ticker: t}
	r, err := period.Lookback(date.FromTime(o.now()))
	if err != nil {
		return PriceHistory{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	for day := r.From; !day.After(r.To); day = day.Add(1) {
		h.Prices.Append(day, p)
	}
	return h, nil
}
