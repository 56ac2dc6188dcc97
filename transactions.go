package stocksim

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CommandType is a typed string for identifying ledger records.
type CommandType string

// Command types used for identifying records.
const (
	CmdInit CommandType = "init"
	CmdBuy  CommandType = "buy"
	CmdSell CommandType = "sell"
)

// Transaction is the immutable record of an executed buy or sell.
type Transaction struct {
	Command  CommandType // CmdBuy or CmdSell.
	Sequence uint64      // Sequence is assigned by the ledger, starting at 1.
	AsOf     time.Time   // AsOf is the time of the quote used to execute.
	Ticker   string
	Quantity Quantity // Quantity of shares bought or sold, always positive.
	Price    Money    // Price per unit as quoted at execution time.
	Total    Money    // Total is the cash debited (buy) or credited (sell).
}

// NewBuy creates a Buy transaction.
func NewBuy(seq uint64, asOf time.Time, ticker string, quantity Quantity, price, total Money) Transaction {
	return Transaction{Command: CmdBuy, Sequence: seq, AsOf: asOf, Ticker: ticker, Quantity: quantity, Price: price, Total: total}
}

// NewSell creates a Sell transaction.
func NewSell(seq uint64, asOf time.Time, ticker string, quantity Quantity, price, total Money) Transaction {
	return Transaction{Command: CmdSell, Sequence: seq, AsOf: asOf, Ticker: ticker, Quantity: quantity, Price: price, Total: total}
}

// What returns the command type of the transaction.
func (t Transaction) What() CommandType { return t.Command }

// Currency returns the currency of the transaction amounts.
func (t Transaction) Currency() string { return t.Total.Currency() }

// Equal reports whether t and o record the same execution.
func (t Transaction) Equal(o Transaction) bool {
	return t.Command == o.Command &&
		t.Sequence == o.Sequence &&
		t.AsOf.Equal(o.AsOf) &&
		t.Ticker == o.Ticker &&
		t.Quantity.Equal(o.Quantity) &&
		t.Price.Equal(o.Price) &&
		t.Total.Equal(o.Total)
}

func (t Transaction) String() string {
	switch t.Command {
	case CmdBuy:
		return fmt.Sprintf("#%d bought %s %s at %s for %s", t.Sequence, t.Quantity, t.Ticker, t.Price, t.Total)
	case CmdSell:
		return fmt.Sprintf("#%d sold %s %s at %s for %s", t.Sequence, t.Quantity, t.Ticker, t.Price, t.Total)
	default:
		return fmt.Sprintf("#%d %s", t.Sequence, t.Command)
	}
}

// Validate checks the intrinsic consistency of a recorded transaction, it
// does not check it against any ledger state.
func (t Transaction) Validate() error {
	if t.Command != CmdBuy && t.Command != CmdSell {
		return fmt.Errorf("%w: unsupported command %q", ErrInvalidInput, t.Command)
	}
	if t.Sequence == 0 {
		return fmt.Errorf("%w: %s transaction has no sequence", ErrInvalidInput, t.Command)
	}
	if ticker, err := NormalizeTicker(t.Ticker); err != nil {
		return err
	} else if ticker != t.Ticker {
		return fmt.Errorf("%w: ticker %q is not normalized", ErrInvalidInput, t.Ticker)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: %s transaction quantity must be positive, got %s", ErrInvalidInput, t.Command, t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("%w: %s transaction price must be positive, got %s", ErrInvalidInput, t.Command, t.Price)
	}
	if !t.Total.IsPositive() {
		return fmt.Errorf("%w: %s transaction total must be positive, got %s", ErrInvalidInput, t.Command, t.Total)
	}
	if t.Price.Currency() != t.Total.Currency() {
		return fmt.Errorf("%w: price currency %s does not match total currency %s", ErrInvalidInput, t.Price.Currency(), t.Total.Currency())
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Append("command", t.Command)
	w.Append("sequence", t.Sequence)
	if !t.AsOf.IsZero() {
		w.Append("asOf", t.AsOf.UTC().Format(time.RFC3339Nano))
	}
	w.Append("ticker", t.Ticker)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price.value)
	w.Append("total", t.Total.value)
	w.Optional("currency", t.Currency())
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
// It handles the custom structure where amounts and currency are separate fields.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Command  CommandType     `json:"command"`
		Sequence uint64          `json:"sequence"`
		AsOf     time.Time       `json:"asOf"`
		Ticker   string          `json:"ticker"`
		Quantity Quantity        `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
		Total    decimal.Decimal `json:"total"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction{
		Command:  temp.Command,
		Sequence: temp.Sequence,
		AsOf:     temp.AsOf,
		Ticker:   temp.Ticker,
		Quantity: temp.Quantity,
		Price:    M(temp.Price, temp.Currency),
		Total:    M(temp.Total, temp.Currency),
	}
	return nil
}
