package stocksim

import (
	"errors"
	"fmt"
)

// Error kinds returned by the ledger, the valuation and the price oracles.
// They are always returned wrapped with context, test them with errors.Is.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrQuoteUnavailable   = errors.New("quote unavailable")
	ErrQuoteMissing       = errors.New("quote missing")
)

// QuoteMissingError reports a held ticker that has no quote in a valuation batch.
type QuoteMissingError struct {
	Ticker string
}

func (e *QuoteMissingError) Error() string {
	return fmt.Sprintf("%v for %s", ErrQuoteMissing, e.Ticker)
}

// Is makes errors.Is(err, ErrQuoteMissing) true.
func (e *QuoteMissingError) Is(target error) bool { return target == ErrQuoteMissing }

// Reason returns a short, stable label for the error kind of err, suitable as a
// metric label.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInsufficientShares):
		return "insufficient_shares"
	case errors.Is(err, ErrQuoteUnavailable):
		return "quote_unavailable"
	case errors.Is(err, ErrQuoteMissing):
		return "quote_missing"
	default:
		return "other"
	}
}

