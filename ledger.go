package stocksim

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Observer is notified after every ledger operation, outside of the ledger lock.
type Observer interface {
	// Executed is called with the appended transaction and the resulting cash balance.
	Executed(tx Transaction, cash Money)
	// Rejected is called when an operation failed and left the ledger unchanged.
	Rejected(command CommandType, err error)
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used to trace executions and rejections.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(l *Ledger) { l.observer = o }
}

// WithSession sets the session identifier, by default a random one is used.
func WithSession(id uuid.UUID) Option {
	return func(l *Ledger) { l.id = id }
}

// Ledger owns the cash balance, the holdings and the append-only transaction
// log of one simulation session.
//
// All mutations are serialized: each operation validates its preconditions and
// applies its effects under the same lock, so it is either fully applied or not
// at all. Reads observe a consistent state.
type Ledger struct {
	mu           sync.RWMutex
	id           uuid.UUID
	currency     string
	initial      Money
	cash         Money
	holdings     map[string]Quantity // never holds a zero or negative quantity
	transactions []Transaction

	logger   *zap.Logger
	observer Observer
}

// NewLedger creates a ledger with an initial cash balance and no holdings.
//
// The currency of initial is the single currency of the ledger.
func NewLedger(initial Money, opts ...Option) (*Ledger, error) {
	if initial.Currency() == "" {
		return nil, fmt.Errorf("%w: initial cash has no currency", ErrInvalidInput)
	}
	if initial.IsNegative() {
		return nil, fmt.Errorf("%w: initial cash must not be negative, got %s", ErrInvalidInput, initial)
	}
	l := &Ledger{
		id:           uuid.New(),
		currency:     initial.Currency(),
		initial:      initial,
		cash:         initial,
		holdings:     make(map[string]Quantity),
		transactions: make([]Transaction, 0),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	return l, nil
}

// ID returns the session identifier of the ledger.
func (l *Ledger) ID() uuid.UUID { return l.id }

// Currency returns the ledger currency.
func (l *Ledger) Currency() string { return l.currency }

// InitialCash returns the cash balance the ledger was created with.
func (l *Ledger) InitialCash() Money { return l.initial }

// Cash returns the current cash balance.
func (l *Ledger) Cash() Money {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cash
}

// Position returns the quantity held for ticker, zero if none.
func (l *Ledger) Position(ticker string) Quantity {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return Quantity{}
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.holdings[t]
}

// Holdings returns a copy of the holdings.
func (l *Ledger) Holdings() map[string]Quantity {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.holdings)
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.transactions)
}

// History returns an iterator that yields each transaction in append order.
//
// The iterator is restartable and covers the transactions present when History
// was called, later appends are not visible to it.
func (l *Ledger) History() iter.Seq2[int, Transaction] {
	l.mu.RLock()
	// The log is append-only: the elements of this slice are never written again.
	txs := l.transactions[:len(l.transactions):len(l.transactions)]
	l.mu.RUnlock()
	return func(yield func(int, Transaction) bool) {
		for i, tx := range txs {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Snapshot returns a consistent read-only copy of the ledger state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{
		Session:      l.id,
		Currency:     l.currency,
		InitialCash:  l.initial,
		Cash:         l.cash,
		Holdings:     maps.Clone(l.holdings),
		Transactions: slices.Clone(l.transactions),
	}
}

// Valuation values the ledger at the given prices, see Valuate.
func (l *Ledger) Valuation(quotes map[string]Money) (Valuation, error) {
	return Valuate(l.Snapshot(), quotes)
}

// Buy spends amount of cash on ticker at the quoted price.
//
// The number of shares bought is amount divided by the quoted price. It fails
// with ErrInsufficientFunds if amount exceeds the cash balance, and with
// ErrInvalidInput if amount or price is not positive or if the quote is for
// another ticker.
func (l *Ledger) Buy(ticker string, amount Money, quote Quote) (Transaction, error) {
	tx, cash, err := l.buy(ticker, amount, quote)
	l.report(CmdBuy, tx, cash, err)
	return tx, err
}

func (l *Ledger) buy(ticker string, amount Money, quote Quote) (Transaction, Money, error) {
	t, price, err := l.checkQuote(ticker, quote)
	if err != nil {
		return Transaction{}, Money{}, err
	}
	if !amount.sameCurrency(l.currency) {
		return Transaction{}, Money{}, fmt.Errorf("%w: amount currency %s does not match ledger currency %s", ErrInvalidInput, amount.Currency(), l.currency)
	}
	amount = amount.WithCurrency(l.currency)
	if !amount.IsPositive() {
		return Transaction{}, Money{}, fmt.Errorf("%w: buy amount must be positive, got %s", ErrInvalidInput, amount)
	}
	shares := amount.DivPrice(price)
	if !shares.IsPositive() {
		return Transaction{}, Money{}, fmt.Errorf("%w: buy amount %s is too small at price %s", ErrInvalidInput, amount, price)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cash.LessThan(amount) {
		return Transaction{}, Money{}, fmt.Errorf("%w: cannot buy %s of %s, cash balance is %s", ErrInsufficientFunds, amount, t, l.cash)
	}
	tx := NewBuy(l.nextSequence(), quote.AsOf, t, shares, price, amount)
	l.apply(tx)
	return tx, l.cash, nil
}

// Sell sells shares of ticker at the quoted price.
//
// It fails with ErrInsufficientShares if ticker is not held or if the position
// is smaller than shares, and with ErrInvalidInput if shares is not positive or
// if the quote is for another ticker. A position sold down to zero is removed.
func (l *Ledger) Sell(ticker string, shares Quantity, quote Quote) (Transaction, error) {
	tx, cash, err := l.sell(ticker, &shares, quote)
	l.report(CmdSell, tx, cash, err)
	return tx, err
}

// SellAll sells the whole position in ticker at the quoted price.
func (l *Ledger) SellAll(ticker string, quote Quote) (Transaction, error) {
	tx, cash, err := l.sell(ticker, nil, quote)
	l.report(CmdSell, tx, cash, err)
	return tx, err
}

// sell sells shares, or the whole position when shares is nil.
func (l *Ledger) sell(ticker string, shares *Quantity, quote Quote) (Transaction, Money, error) {
	t, price, err := l.checkQuote(ticker, quote)
	if err != nil {
		return Transaction{}, Money{}, err
	}
	if shares != nil && !shares.IsPositive() {
		return Transaction{}, Money{}, fmt.Errorf("%w: sell quantity must be positive, got %s", ErrInvalidInput, shares)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	pos, held := l.holdings[t]
	if !held {
		return Transaction{}, Money{}, fmt.Errorf("%w: no position in %s", ErrInsufficientShares, t)
	}
	qty := pos
	if shares != nil {
		qty = *shares
	}
	if pos.LessThan(qty) {
		return Transaction{}, Money{}, fmt.Errorf("%w: cannot sell %s of %s, position is only %s", ErrInsufficientShares, qty, t, pos)
	}
	tx := NewSell(l.nextSequence(), quote.AsOf, t, qty, price, price.Mul(qty))
	l.apply(tx)
	return tx, l.cash, nil
}

// Apply appends an already executed transaction, typically read back from a
// log, re-checking it against the current state.
//
// Sequences make Apply idempotent: a transaction whose sequence is already in
// the ledger is skipped (applied is false) if it is identical to the recorded
// one, and rejected otherwise. A sequence that is not the next one is rejected.
func (l *Ledger) Apply(tx Transaction) (applied bool, err error) {
	var cash Money
	applied, cash, err = l.applyRecord(tx)
	if applied || err != nil {
		l.report(tx.Command, tx, cash, err)
	}
	return applied, err
}

func (l *Ledger) applyRecord(tx Transaction) (bool, Money, error) {
	if err := tx.Validate(); err != nil {
		return false, Money{}, err
	}
	if tx.Currency() != l.currency {
		return false, Money{}, fmt.Errorf("%w: transaction #%d currency %s does not match ledger currency %s", ErrInvalidInput, tx.Sequence, tx.Currency(), l.currency)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	n := uint64(len(l.transactions))
	switch {
	case tx.Sequence <= n:
		if recorded := l.transactions[tx.Sequence-1]; recorded.Equal(tx) {
			return false, l.cash, nil
		}
		return false, Money{}, fmt.Errorf("%w: transaction #%d conflicts with the recorded one", ErrInvalidInput, tx.Sequence)
	case tx.Sequence > n+1:
		return false, Money{}, fmt.Errorf("%w: transaction #%d is out of sequence, next is #%d", ErrInvalidInput, tx.Sequence, n+1)
	}

	switch tx.Command {
	case CmdBuy:
		if l.cash.LessThan(tx.Total) {
			return false, Money{}, fmt.Errorf("%w: transaction #%d spends %s, cash balance is %s", ErrInsufficientFunds, tx.Sequence, tx.Total, l.cash)
		}
	case CmdSell:
		if pos := l.holdings[tx.Ticker]; pos.LessThan(tx.Quantity) {
			return false, Money{}, fmt.Errorf("%w: transaction #%d sells %s of %s, position is only %s", ErrInsufficientShares, tx.Sequence, tx.Quantity, tx.Ticker, pos)
		}
	}
	l.apply(tx)
	return true, l.cash, nil
}

// checkQuote validates the ticker and the quote of a trade request.
func (l *Ledger) checkQuote(ticker string, quote Quote) (string, Money, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return "", Money{}, err
	}
	qt, err := NormalizeTicker(quote.Ticker)
	if err != nil {
		return "", Money{}, fmt.Errorf("%w: quote has no ticker", ErrInvalidInput)
	}
	if qt != t {
		return "", Money{}, fmt.Errorf("%w: quote is for %s, not %s", ErrInvalidInput, qt, t)
	}
	if !quote.Price.sameCurrency(l.currency) {
		return "", Money{}, fmt.Errorf("%w: quote currency %s does not match ledger currency %s", ErrInvalidInput, quote.Price.Currency(), l.currency)
	}
	price := quote.Price.WithCurrency(l.currency)
	if !price.IsPositive() {
		return "", Money{}, fmt.Errorf("%w: quoted price of %s must be positive, got %s", ErrInvalidInput, t, price)
	}
	return t, price, nil
}

// nextSequence must be called with the lock held.
func (l *Ledger) nextSequence() uint64 { return uint64(len(l.transactions)) + 1 }

// apply mutates the state for a checked transaction. It must be called with the lock held.
func (l *Ledger) apply(tx Transaction) {
	switch tx.Command {
	case CmdBuy:
		l.cash = l.cash.Sub(tx.Total)
		l.holdings[tx.Ticker] = l.holdings[tx.Ticker].Add(tx.Quantity)
	case CmdSell:
		l.cash = l.cash.Add(tx.Total)
		if remaining := l.holdings[tx.Ticker].Sub(tx.Quantity); remaining.IsZero() {
			delete(l.holdings, tx.Ticker)
		} else {
			l.holdings[tx.Ticker] = remaining
		}
	}
	l.transactions = append(l.transactions, tx)
}

// report logs and notifies the outcome of an operation. It must be called without the lock.
func (l *Ledger) report(command CommandType, tx Transaction, cash Money, err error) {
	if err != nil {
		l.logger.Info("transaction rejected",
			zap.String("session", l.id.String()),
			zap.String("command", string(command)),
			zap.String("reason", Reason(err)),
			zap.Error(err))
		if l.observer != nil {
			l.observer.Rejected(command, err)
		}
		return
	}
	l.logger.Debug("transaction executed",
		zap.String("session", l.id.String()),
		zap.Uint64("sequence", tx.Sequence),
		zap.String("command", string(tx.Command)),
		zap.String("ticker", tx.Ticker),
		zap.Stringer("quantity", tx.Quantity),
		zap.Stringer("price", tx.Price),
		zap.Stringer("total", tx.Total),
		zap.Stringer("cash", cash))
	if l.observer != nil {
		l.observer.Executed(tx, cash)
	}
}

