package tracing

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"


	"github.com/etnz/stocksim"
)

func TestSetup(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup(&buf)
	if err != nil {
		t.Fatalf("Setup() returned an unexpected error: %v", err)
	}

	oracle, err := stocksim.NewStaticOracle(map[string]stocksim.Money{"AAPL": stocksim.M(100, "USD")})
	if err != nil {
		t.Fatalf("NewStaticOracle() returned an unexpected error: %v", err)
	}
	l, err := stocksim.NewLedger(stocksim.M(1000, "USD"))
	if err != nil {
		t.Fatalf("NewLedger() returned an unexpected error: %v", err)
	}
	s := stocksim.NewSession(l, oracle)
	s.QuoteTimeout = time.Second
	if _, err := s.Buy(context.Background(), "AAPL", stocksim.M(100, "USD")); err != nil {
		t.Fatalf("Buy() returned an unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown() returned an unexpected error: %v", err)
	}

	out := buf.String()
	for _, span := range []string{"stocksim.Buy", "stocksim.FetchQuote"} {
		if !strings.Contains(out, span) {
			t.Errorf("exported spans do not contain %s:\n%s", span, out)
		}
	}
}
