package stocksim

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEncodeTransaction(t *testing.T) {
	testCases := []struct {
		name string
		tx   Transaction
		want string
	}{
		{
			name: "buy",
			tx:   NewBuy(1, testTime, "AAPL", Q(10), USD(100), USD(1000)),
			want: `{"command":"buy","sequence":1,"asOf":"2025-08-01T15:30:00Z","ticker":"AAPL","quantity":10,"price":100,"total":1000,"currency":"USD"}` + "\n",
		},
		{
			name: "sell",
			tx:   NewSell(2, testTime.AddDate(0, 0, 1), "GOOG", Q(0.5), USD(150.25), USD(75.125)),
			want: `{"command":"sell","sequence":2,"asOf":"2025-08-02T15:30:00Z","ticker":"GOOG","quantity":0.5,"price":150.25,"total":75.125,"currency":"USD"}` + "\n",
		},
		{
			name: "without time",
			tx:   NewBuy(3, time.Time{}, "MSFT", Q(2), USD(10), USD(20)),
			want: `{"command":"buy","sequence":3,"ticker":"MSFT","quantity":2,"price":10,"total":20,"currency":"USD"}` + "\n",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeTransaction(&buf, tc.tx); err != nil {
				t.Fatalf("EncodeTransaction() returned an unexpected error: %v", err)
			}
			if got := buf.String(); got != tc.want {
				t.Errorf("EncodeTransaction() =\n%s\nwant:\n%s", got, tc.want)
			}
		})
	}
}

func TestEncodeDecodeLedger(t *testing.T) {
	session := uuid.MustParse("0b6f2c5e-3d5a-4d36-9a51-2f5d7c1b9e11")
	l := newTestLedger(t, 10000, WithSession(session))
	if _, err := l.Buy("AAPL", USD(1000), quote("AAPL", 3)); err != nil {
		t.Fatalf("Buy() returned an unexpected error: %v", err)
	}
	if _, err := l.Buy("GOOG", USD(250.5), quote("GOOG", 100.2)); err != nil {
		t.Fatalf("Buy() returned an unexpected error: %v", err)
	}
	if _, err := l.SellAll("AAPL", quote("AAPL", 3.5)); err != nil {
		t.Fatalf("SellAll() returned an unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, l.Snapshot()); err != nil {
		t.Fatalf("EncodeLedger() returned an unexpected error: %v", err)
	}
	firstLine, _, _ := strings.Cut(buf.String(), "\n")
	if want := `{"command":"init","session":"0b6f2c5e-3d5a-4d36-9a51-2f5d7c1b9e11","currency":"USD","cash":10000}`; firstLine != want {
		t.Errorf("EncodeLedger() first line = %s, want %s", firstLine, want)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
	}
	if decoded.ID() != session {
		t.Errorf("decoded session = %v, want %v", decoded.ID(), session)
	}
	if !sameSnapshot(decoded.Snapshot(), l.Snapshot()) {
		t.Errorf("decoded ledger = %+v, want %+v", decoded.Snapshot(), l.Snapshot())
	}
	for i, tx := range decoded.History() {
		if want := l.Snapshot().Transactions[i]; !tx.Equal(want) {
			t.Errorf("decoded transaction %d = %v, want %v", i, tx, want)
		}
	}
}

func sameSnapshot(a, b Snapshot) bool {
	if !a.Cash.Equal(b.Cash) || !a.InitialCash.Equal(b.InitialCash) || a.Currency != b.Currency {
		return false
	}
	if len(a.Holdings) != len(b.Holdings) || len(a.Transactions) != len(b.Transactions) {
		return false
	}
	for ticker, qty := range a.Holdings {
		if !qty.Equal(b.Holdings[ticker]) {
			return false
		}
	}
	return true
}

func TestDecodeLedger(t *testing.T) {
	const header = `{"command":"init","session":"0b6f2c5e-3d5a-4d36-9a51-2f5d7c1b9e11","currency":"USD","cash":1000}`
	testCases := []struct {
		name     string
		jsonl    string
		wantErr  error
		wantCash Money
		wantLen  int
	}{
		{
			name: "valid with blank lines and an idempotent duplicate",
			jsonl: header + `

{"command":"buy","sequence":1,"ticker":"AAPL","quantity":5,"price":100,"total":500,"currency":"USD"}
{"command":"buy","sequence":1,"ticker":"AAPL","quantity":5,"price":100,"total":500,"currency":"USD"}
{"command":"sell","sequence":2,"ticker":"AAPL","quantity":2,"price":120,"total":240,"currency":"USD"}
`,
			wantCash: USD(740),
			wantLen:  2,
		},
		{
			name:    "no init record",
			jsonl:   `{"command":"buy","sequence":1,"ticker":"AAPL","quantity":5,"price":100,"total":500,"currency":"USD"}`,
			wantErr: errors.New("before the init record"),
		},
		{
			name:    "empty",
			jsonl:   "",
			wantErr: ErrInvalidInput,
		},
		{
			name: "over spending",
			jsonl: header + `
{"command":"buy","sequence":1,"ticker":"AAPL","quantity":50,"price":100,"total":5000,"currency":"USD"}`,
			wantErr: ErrInsufficientFunds,
		},
		{
			name: "selling more than held",
			jsonl: header + `
{"command":"sell","sequence":1,"ticker":"AAPL","quantity":1,"price":100,"total":100,"currency":"USD"}`,
			wantErr: ErrInsufficientShares,
		},
		{
			name: "unknown command",
			jsonl: header + `
{"command":"dividend","sequence":1}`,
			wantErr: errors.New("unknown transaction command"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := DecodeLedger(strings.NewReader(tc.jsonl))
			if tc.wantErr != nil {
				if err == nil {
					t.Fatalf("DecodeLedger() succeeded, want error %v", tc.wantErr)
				}
				if !errors.Is(err, tc.wantErr) && !strings.Contains(err.Error(), tc.wantErr.Error()) {
					t.Fatalf("DecodeLedger() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
			}
			if !l.Cash().Equal(tc.wantCash) {
				t.Errorf("Cash() = %v, want %v", l.Cash(), tc.wantCash)
			}
			if l.Len() != tc.wantLen {
				t.Errorf("Len() = %d, want %d", l.Len(), tc.wantLen)
			}
		})
	}
}

func TestDecodeLedger_ObserverSeesOnlyNewTrades(t *testing.T) {
	const jsonl = `{"command":"init","session":"0b6f2c5e-3d5a-4d36-9a51-2f5d7c1b9e11","currency":"USD","cash":1000}
{"command":"buy","sequence":1,"ticker":"AAPL","quantity":5,"price":100,"total":500,"currency":"USD"}`
	obs := &recordingObserver{}
	l, err := DecodeLedger(strings.NewReader(jsonl), WithObserver(obs))
	if err != nil {
		t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
	}
	if len(obs.executed) != 0 {
		t.Errorf("observer saw replayed transactions: %v", obs.executed)
	}
	if _, err := l.Sell("AAPL", Q(1), quote("AAPL", 100)); err != nil {
		t.Fatalf("Sell() returned an unexpected error: %v", err)
	}
	if len(obs.executed) != 1 {
		t.Errorf("observer saw %d executions, want 1", len(obs.executed))
	}
}
