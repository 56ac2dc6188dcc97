package stocksim

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an exact amount in a currency.
//
// A Money with no currency is "weak": it takes the currency of the amounts it
// is combined with. Rounding to the currency fraction only happens in String.
type Money struct {
	value decimal.Decimal // major units
	cur   string          // ISO 4217 code
}

// M creates a Money.
func M[T number](value T, currency string) Money {
	return Money{value: toDecimal(value), cur: currency}
}

// ParseMoney parses a decimal string, e.g. "1000.50", as an amount in currency.
func ParseMoney(value, currency string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return M(d, currency), nil
}

// String formats m with the currency symbol and fraction, e.g. "$1,234.50".
func (m Money) String() string {
	if m.cur == "" {
		return m.value.StringFixed(2)
	}
	// unknown codes get a bare currency, Currency is never nil.
	c := money.New(0, m.cur).Currency()
	minor := m.value.Shift(int32(c.Fraction)).Round(0).IntPart()
	return c.Formatter().Format(minor)
}

// SignedString is String with an explicit sign, zero is "-".
func (m Money) SignedString() string {
	switch {
	case m.value.IsZero():
		return "-"
	case m.value.IsPositive():
		return "+" + m.String()
	default:
		return m.String()
	}
}

func (m Money) Currency() string            { return m.cur }
func (m Money) Decimal() decimal.Decimal    { return m.value }
func (m Money) Equal(n Money) bool          { return m.cur == n.cur && m.value.Equal(n.value) }
func (m Money) IsZero() bool                { return m.value.IsZero() }
func (m Money) IsPositive() bool            { return m.value.IsPositive() }
func (m Money) IsNegative() bool            { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool       { return m.value.LessThan(n.value) }
func (m Money) Mul(q Quantity) Money        { return Money{value: m.value.Mul(q.value), cur: m.cur} }
func (m Money) Add(n Money) Money           { return Money{value: m.value.Add(n.value), cur: combine(m, n)} }
func (m Money) Sub(n Money) Money           { return Money{value: m.value.Sub(n.value), cur: combine(m, n)} }
func (m Money) WithCurrency(c string) Money { return Money{value: m.value, cur: c} }

// DivPrice returns the quantity of units at price that m buys.
//
// The division is carried at decimal.DivisionPrecision digits.
func (m Money) DivPrice(price Money) Quantity { return Quantity{value: m.value.Div(price.value)} }

// sameCurrency reports whether m can be combined with an amount in currency c.
func (m Money) sameCurrency(c string) bool { return m.cur == "" || c == "" || m.cur == c }

// combine returns the currency of a binary operation on a and b. It panics on
// a mismatch: callers check currencies first.
func combine(a, b Money) string {
	if !a.sameCurrency(b.cur) {
		panic("currency mismatch " + a.cur + " != " + b.cur)
	}
	if a.cur == "" {
		return b.cur
	}
	return a.cur
}
