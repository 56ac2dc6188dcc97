package stocksim

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PositionValue is the value of one position at a quoted price.
type PositionValue struct {
	Ticker   string
	Quantity Quantity
	Price    Money
	Value    Money
}

// Valuation is the worth of a ledger at a set of quoted prices.
type Valuation struct {
	Cash        Money
	InitialCash Money
	Positions   []PositionValue // sorted by ticker
	Total       Money           // Cash plus the value of all positions.
	GainLoss    Money           // Total minus InitialCash.
	Return      Percent         // GainLoss relative to InitialCash.
}

// PositionsValue returns the sum of all positions values.
func (v Valuation) PositionsValue() Money {
	return v.Total.Sub(v.Cash)
}

// Valuate computes the value of a snapshot at the given prices.
//
// Every held ticker must have a price in quotes, otherwise it fails with a
// *QuoteMissingError. Prices for tickers that are not held are ignored. The
// snapshot is not modified.
func Valuate(s Snapshot, quotes map[string]Money) (Valuation, error) {
	v := Valuation{
		Cash:        s.Cash,
		InitialCash: s.InitialCash,
		Total:       s.Cash,
		Positions:   make([]PositionValue, 0, len(s.Holdings)),
	}
	for _, ticker := range s.Tickers() {
		price, ok := quotes[ticker]
		if !ok {
			return Valuation{}, &QuoteMissingError{Ticker: ticker}
		}
		if !price.sameCurrency(s.Currency) {
			return Valuation{}, fmt.Errorf("%w: price of %s is in %s, ledger is in %s", ErrInvalidInput, ticker, price.Currency(), s.Currency)
		}
		if !price.IsPositive() {
			return Valuation{}, fmt.Errorf("%w: price of %s must be positive, got %s", ErrInvalidInput, ticker, price)
		}
		price = price.WithCurrency(s.Currency)
		qty := s.Holdings[ticker]
		value := price.Mul(qty)
		v.Positions = append(v.Positions, PositionValue{Ticker: ticker, Quantity: qty, Price: price, Value: value})
		v.Total = v.Total.Add(value)
	}
	v.GainLoss = v.Total.Sub(s.InitialCash)
	if s.InitialCash.IsPositive() {
		ratio, _ := v.GainLoss.Decimal().Div(s.InitialCash.Decimal()).Mul(decimal.NewFromInt(100)).Float64()
		v.Return = Percent(ratio)
	}
	return v, nil
}
