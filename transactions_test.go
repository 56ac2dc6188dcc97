package stocksim

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestTransaction_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		tx      Transaction
		wantErr error
	}{
		{name: "buy", tx: NewBuy(1, testTime, "AAPL", Q(1), USD(10), USD(10))},
		{name: "sell", tx: NewSell(2, testTime, "AAPL", Q(1), USD(10), USD(10))},
		{name: "no sequence", tx: NewBuy(0, testTime, "AAPL", Q(1), USD(10), USD(10)), wantErr: ErrInvalidInput},
		{name: "init", tx: Transaction{Command: CmdInit, Sequence: 1}, wantErr: ErrInvalidInput},
		{name: "lower case ticker", tx: NewBuy(1, testTime, "aapl", Q(1), USD(10), USD(10)), wantErr: ErrInvalidInput},
		{name: "zero quantity", tx: NewSell(1, testTime, "AAPL", Q(0), USD(10), USD(10)), wantErr: ErrInvalidInput},
		{name: "negative price", tx: NewSell(1, testTime, "AAPL", Q(1), USD(-10), USD(10)), wantErr: ErrInvalidInput},
		{name: "mixed currencies", tx: NewBuy(1, testTime, "AAPL", Q(1), USD(10), EUR(10)), wantErr: ErrInvalidInput},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.tx.Validate(); !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTransaction_JSON(t *testing.T) {
	tx := NewBuy(7, testTime, "AAPL", Q(M(1, "").DivPrice(USD(3)).Decimal()), USD(3), USD(1))
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("json.Marshal() returned an unexpected error: %v", err)
	}
	var got Transaction
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json.Unmarshal(%s) returned an unexpected error: %v", data, err)
	}
	if !got.Equal(tx) {
		t.Errorf("decoded %v, want %v", got, tx)
	}
}

func TestTransaction_String(t *testing.T) {
	tx := NewSell(3, testTime, "AAPL", Q(2), USD(10.5), USD(21))
	if got, want := tx.String(), "#3 sold 2 AAPL at $10.50 for $21.00"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
