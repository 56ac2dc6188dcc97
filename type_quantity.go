package stocksim

import "github.com/shopspring/decimal"

// number is the set of values accepted by the M and Q constructors.
type number interface {
	int | int32 | int64 | uint | uint32 | uint64 | float32 | float64 | decimal.Decimal
}

func toDecimal[T number](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	}
	panic("unsupported number type")
}

// Quantity is a number of shares. Fractional shares are allowed and kept exact.
type Quantity struct {
	value decimal.Decimal
}

// Q creates a Quantity.
func Q[T number](value T) Quantity { return Quantity{value: toDecimal(value)} }

// ParseQuantity parses a decimal string, e.g. "2.5".
func ParseQuantity(value string) (Quantity, error) {
	d, err := decimal.NewFromString(value)
	return Quantity{value: d}, err
}

func (q Quantity) Decimal() decimal.Decimal { return q.value }
func (q Quantity) Equal(o Quantity) bool    { return q.value.Equal(o.value) }
func (q Quantity) LessThan(o Quantity) bool { return q.value.LessThan(o.value) }
func (q Quantity) Add(o Quantity) Quantity  { return Quantity{value: q.value.Add(o.value)} }
func (q Quantity) Sub(o Quantity) Quantity  { return Quantity{value: q.value.Sub(o.value)} }
func (q Quantity) IsZero() bool             { return q.value.IsZero() }
func (q Quantity) IsPositive() bool         { return q.value.IsPositive() }
func (q Quantity) IsNegative() bool         { return q.value.IsNegative() }
func (q Quantity) String() string           { return q.value.String() }

// Quantities are plain JSON numbers.
func (q Quantity) MarshalJSON() ([]byte, error)     { return q.value.MarshalJSON() }
func (q *Quantity) UnmarshalJSON(data []byte) error { return q.value.UnmarshalJSON(data) }
