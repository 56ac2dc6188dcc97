package stocksim

import (
	"iter"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Snapshot is a read-only, consistent view of a ledger.
//
// It is the boundary used to render or persist a session: none of its fields
// are ever written again by the ledger.
type Snapshot struct {
	Session      uuid.UUID
	Currency     string
	InitialCash  Money
	Cash         Money
	Holdings     map[string]Quantity
	Transactions []Transaction
}

// Tickers returns the held tickers in alphabetical order.
func (s Snapshot) Tickers() []string {
	return slices.Sorted(maps.Keys(s.Holdings))
}

// History returns an iterator over the transactions of the snapshot.
func (s Snapshot) History() iter.Seq2[int, Transaction] {
	return slices.All(s.Transactions)
}
