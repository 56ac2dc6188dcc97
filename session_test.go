package stocksim

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/stocksim/date"
)

func newTestSession(t *testing.T, prices map[string]Money) (*Session, *StaticOracle) {
	t.Helper()
	oracle, err := NewStaticOracle(prices)
	require.NoError(t, err)
	return NewSession(newTestLedger(t, 10000), oracle), oracle
}

// failingOracle returns err for every request.
type failingOracle struct {
	err   error
	calls atomic.Int32
}

func (o *failingOracle) FetchQuote(ctx context.Context, ticker string) (Quote, error) {
	o.calls.Add(1)
	return Quote{}, o.err
}

func (o *failingOracle) FetchHistory(ctx context.Context, ticker string, period date.Period) (PriceHistory, error) {
	o.calls.Add(1)
	return PriceHistory{}, o.err
}

// blockingOracle waits for the context to be done.
type blockingOracle struct{}

func (blockingOracle) FetchQuote(ctx context.Context, ticker string) (Quote, error) {
	<-ctx.Done()
	return Quote{}, ctx.Err()
}

func (blockingOracle) FetchHistory(ctx context.Context, ticker string, period date.Period) (PriceHistory, error) {
	<-ctx.Done()
	return PriceHistory{}, ctx.Err()
}

func TestSession_BuySellValue(t *testing.T) {
	s, oracle := newTestSession(t, map[string]Money{"AAPL": USD(100), "GOOG": USD(200)})
	ctx := context.Background()

	tx, err := s.Buy(ctx, "aapl", USD(1000))
	require.NoError(t, err)
	assert.Equal(t, "AAPL", tx.Ticker)
	assert.True(t, tx.Quantity.Equal(Q(10)), "quantity %v", tx.Quantity)

	_, err = s.Buy(ctx, "GOOG", USD(2000))
	require.NoError(t, err)

	require.NoError(t, oracle.SetPrice("AAPL", USD(120)))
	v, err := s.Value(ctx)
	require.NoError(t, err)
	assert.True(t, v.Total.Equal(USD(10200)), "total %v", v.Total)
	assert.True(t, v.GainLoss.Equal(USD(200)), "gain %v", v.GainLoss)

	tx, err = s.Sell(ctx, "AAPL", Q(5))
	require.NoError(t, err)
	assert.True(t, tx.Total.Equal(USD(600)), "proceeds %v", tx.Total)

	tx, err = s.SellAll(ctx, "GOOG")
	require.NoError(t, err)
	assert.True(t, tx.Quantity.Equal(Q(10)), "quantity %v", tx.Quantity)
	assert.Equal(t, 4, s.Ledger.Len())
	assert.Len(t, s.Ledger.Holdings(), 1)
}

func TestSession_QuoteUnavailable(t *testing.T) {
	oracle := &failingOracle{err: errors.New("connection refused")}
	s := NewSession(newTestLedger(t, 10000), oracle)
	ctx := context.Background()

	_, err := s.Buy(ctx, "AAPL", USD(100))
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
	_, err = s.Value(ctx)
	assert.NoError(t, err, "an empty ledger needs no quote")
	_, err = s.History(ctx, "AAPL", date.Monthly)
	assert.ErrorIs(t, err, ErrQuoteUnavailable)

	assert.True(t, s.Ledger.Cash().Equal(USD(10000)))
	assert.Zero(t, s.Ledger.Len())
}

func TestSession_ValueNeedsEveryQuote(t *testing.T) {
	s, oracle := newTestSession(t, map[string]Money{"AAPL": USD(100)})
	ctx := context.Background()
	_, err := s.Buy(ctx, "AAPL", USD(100))
	require.NoError(t, err)

	oracle.Remove("AAPL")
	_, err = s.Value(ctx)
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
}

func TestSession_InvalidInputSkipsOracle(t *testing.T) {
	oracle := &failingOracle{err: errors.New("unreachable")}
	s := NewSession(newTestLedger(t, 10000), oracle)
	ctx := context.Background()

	_, err := s.Buy(ctx, "AAPL", USD(0))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Sell(ctx, "AAPL", Q(-1))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.SellAll(ctx, "AAPL")
	assert.ErrorIs(t, err, ErrInsufficientShares)
	_, err = s.Quote(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.History(ctx, "AAPL", date.Period(42))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, oracle.calls.Load())
}

func TestSession_QuoteTimeout(t *testing.T) {
	s := NewSession(newTestLedger(t, 10000), blockingOracle{})
	s.QuoteTimeout = 10 * time.Millisecond

	start := time.Now()
	_, err := s.Buy(context.Background(), "AAPL", USD(100))
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSession_History(t *testing.T) {
	s, _ := newTestSession(t, map[string]Money{"AAPL": USD(100)})
	h, err := s.History(context.Background(), "AAPL", date.Weekly)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", h.Ticker)
	assert.Equal(t, 8, h.Prices.Len())
	_, last := h.Latest()
	assert.True(t, last.Equal(USD(100)))
}
