package stocksim

import (
	"testing"
	"time"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// NO is a helper for test to create money from const wit no currency set
func NO(v float64) Money { return M(v, "") }

var testTime = time.Date(2025, time.August, 1, 15, 30, 0, 0, time.UTC)

// quote is a helper for test to create a USD quote.
func quote(ticker string, price float64) Quote {
	return NewQuote(ticker, USD(price), testTime)
}

// newTestLedger creates a USD ledger or fails the test.
func newTestLedger(t testing.TB, cash float64, opts ...Option) *Ledger {
	t.Helper()
	l, err := NewLedger(USD(cash), opts...)
	if err != nil {
		t.Fatalf("NewLedger(%v) returned an unexpected error: %v", cash, err)
	}
	return l
}

// recordingObserver records the notifications of a ledger.
type recordingObserver struct {
	executed []Transaction
	cash     []Money
	rejected []error
}

func (o *recordingObserver) Executed(tx Transaction, cash Money) {
	o.executed = append(o.executed, tx)
	o.cash = append(o.cash, cash)
}

func (o *recordingObserver) Rejected(command CommandType, err error) {
	o.rejected = append(o.rejected, err)
}
