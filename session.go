package stocksim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/etnz/stocksim/date"
)

// DefaultQuoteTimeout bounds a single price oracle call.
const DefaultQuoteTimeout = 10 * time.Second

// Session binds a ledger to a price oracle.
//
// Prices are always fetched before the ledger is touched, so a slow or failing
// oracle never holds the ledger lock and never leaves a partial effect.
type Session struct {
	Ledger       *Ledger
	Oracle       PriceOracle
	QuoteTimeout time.Duration // zero means no timeout.
	Logger       *zap.Logger

	tracer trace.Tracer
}

// NewSession creates a session with the default quote timeout and no logging.
func NewSession(ledger *Ledger, oracle PriceOracle) *Session {
	return &Session{
		Ledger:       ledger,
		Oracle:       oracle,
		QuoteTimeout: DefaultQuoteTimeout,
		Logger:       zap.NewNop(),
		tracer:       otel.Tracer("github.com/etnz/stocksim"),
	}
}

func (s *Session) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Session) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if s.tracer == nil {
		s.tracer = otel.Tracer("github.com/etnz/stocksim")
	}
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// end records err on span and ends it.
func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, Reason(err))
	}
	span.End()
}

// oracleContext applies the quote timeout.
func (s *Session) oracleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.QuoteTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.QuoteTimeout)
}

// unavailable makes sure an oracle failure is reported as ErrQuoteUnavailable.
func unavailable(ticker string, err error) error {
	if errors.Is(err, ErrQuoteUnavailable) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrQuoteUnavailable, ticker, err)
}

// Quote fetches the current quote of ticker.
func (s *Session) Quote(ctx context.Context, ticker string) (q Quote, err error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return Quote{}, err
	}
	ctx, span := s.start(ctx, "stocksim.FetchQuote", attribute.String("ticker", t))
	defer func() { end(span, err) }()

	ctx, cancel := s.oracleContext(ctx)
	defer cancel()
	q, err = s.Oracle.FetchQuote(ctx, t)
	if err != nil {
		err = unavailable(t, err)
		s.logger().Warn("quote unavailable", zap.String("ticker", t), zap.Error(err))
		return Quote{}, err
	}
	span.SetAttributes(attribute.String("price", q.Price.Decimal().String()))
	return q, nil
}

// History fetches the daily closing prices of ticker over period.
func (s *Session) History(ctx context.Context, ticker string, period date.Period) (h PriceHistory, err error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return PriceHistory{}, err
	}
	if !period.Valid() {
		return PriceHistory{}, fmt.Errorf("%w: unknown period %d", ErrInvalidInput, int(period))
	}
	ctx, span := s.start(ctx, "stocksim.FetchHistory", attribute.String("ticker", t), attribute.String("period", period.String()))
	defer func() { end(span, err) }()

	ctx, cancel := s.oracleContext(ctx)
	defer cancel()
	h, err = s.Oracle.FetchHistory(ctx, t, period)
	if err != nil {
		err = unavailable(t, err)
		s.logger().Warn("price history unavailable", zap.String("ticker", t), zap.Stringer("period", period), zap.Error(err))
		return PriceHistory{}, err
	}
	return h, nil
}

// Buy fetches a quote for ticker and spends amount on it.
func (s *Session) Buy(ctx context.Context, ticker string, amount Money) (tx Transaction, err error) {
	ctx, span := s.start(ctx, "stocksim.Buy", attribute.String("ticker", ticker), attribute.String("amount", amount.Decimal().String()))
	defer func() { end(span, err) }()

	// Reject invalid input before spending an oracle call.
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: buy amount must be positive, got %s", ErrInvalidInput, amount)
	}
	q, err := s.Quote(ctx, ticker)
	if err != nil {
		return Transaction{}, err
	}
	return s.Ledger.Buy(ticker, amount, q)
}

// Sell fetches a quote for ticker and sells shares of it.
func (s *Session) Sell(ctx context.Context, ticker string, shares Quantity) (tx Transaction, err error) {
	ctx, span := s.start(ctx, "stocksim.Sell", attribute.String("ticker", ticker), attribute.String("quantity", shares.String()))
	defer func() { end(span, err) }()

	if !shares.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: sell quantity must be positive, got %s", ErrInvalidInput, shares)
	}
	q, err := s.Quote(ctx, ticker)
	if err != nil {
		return Transaction{}, err
	}
	return s.Ledger.Sell(ticker, shares, q)
}

// SellAll fetches a quote for ticker and sells the whole position.
func (s *Session) SellAll(ctx context.Context, ticker string) (tx Transaction, err error) {
	ctx, span := s.start(ctx, "stocksim.SellAll", attribute.String("ticker", ticker))
	defer func() { end(span, err) }()

	if s.Ledger.Position(ticker).IsZero() {
		return Transaction{}, fmt.Errorf("%w: no position in %s", ErrInsufficientShares, ticker)
	}
	q, err := s.Quote(ctx, ticker)
	if err != nil {
		return Transaction{}, err
	}
	return s.Ledger.SellAll(ticker, q)
}

// Value fetches a quote for every held ticker and values the ledger.
//
// Quotes are fetched for a snapshot taken first, so the valuation is
// consistent even if trades happen meanwhile.
func (s *Session) Value(ctx context.Context) (v Valuation, err error) {
	ctx, span := s.start(ctx, "stocksim.Value")
	defer func() { end(span, err) }()

	snap := s.Ledger.Snapshot()
	quotes := make(map[string]Money, len(snap.Holdings))
	for _, ticker := range snap.Tickers() {
		q, err := s.Quote(ctx, ticker)
		if err != nil {
			return Valuation{}, err
		}
		quotes[ticker] = q.Price
	}
	return Valuate(snap, quotes)
}
