package stocksim

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Replay rebuilds a ledger from its initial cash and its transaction log.
//
// Every transaction is re-checked with Apply, so a log that would have driven
// cash or a position negative is rejected. The observer, if any, is attached
// after the log is replayed: replayed transactions are not new executions.
func Replay(initial Money, session uuid.UUID, txs []Transaction, opts ...Option) (*Ledger, error) {
	l, err := NewLedger(initial, append(slices.Clip(opts), WithSession(session))...)
	if err != nil {
		return nil, err
	}
	observer := l.observer
	l.observer = nil
	for _, tx := range txs {
		if _, err := l.Apply(tx); err != nil {
			return nil, fmt.Errorf("replaying transaction #%d: %w", tx.Sequence, err)
		}
	}
	l.observer = observer
	return l, nil
}
