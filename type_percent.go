package stocksim

import (
	"fmt"
	"math"
)

// Percent is a ratio in percent, e.g. 4.5 for 4.5%. It is a float: only
// derived for display, never stored in the ledger.
type Percent float64

// Equal compares at a precision of 1e-4 percent.
func (p Percent) Equal(q Percent) bool { return math.Abs(float64(p-q)) < 1e-4 }

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", float64(p)) }

// SignedString is String with an explicit sign, values rounding to zero are "-".
func (p Percent) SignedString() string {
	if math.Abs(float64(p)) < 0.005 {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", float64(p))
}
