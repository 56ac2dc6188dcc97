// Package stocksim simulates trading a stock portfolio with fake cash at real
// market prices.
//
// The core types are:
//   - Ledger: the cash balance, the positions and the append-only list of
//     executed transactions of one session. A buy spends a cash amount for a
//     fractional number of shares, a sell receives cash for a number of
//     shares. Cash and positions never go negative and a rejected trade has
//     no effect.
//   - Valuation: the value of a ledger snapshot at a batch of quotes, with the
//     gain or loss against the initial cash.
//   - PriceOracle: the boundary to market data. Quotes are always fetched
//     before the ledger is touched, see Session.
//
// Ledgers are persisted as JSONL, an init record followed by one record per
// transaction, and rebuilt by replaying the transactions (see DecodeLedger).
//
// This package is the foundation of the `stocksim` command-line tool.
package stocksim
