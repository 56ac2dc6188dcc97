package stocksim

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// initCmd is the first record of an encoded ledger.
type initCmd struct {
	Command  CommandType     `json:"command"`
	Session  uuid.UUID       `json:"session"`
	Currency string          `json:"currency"`
	Cash     decimal.Decimal `json:"cash"`
}

func (c initCmd) MarshalJSON() ([]byte, error) {
	var w recordWriter
	w.Append("command", CmdInit)
	w.Append("session", c.Session)
	w.Append("currency", c.Currency)
	w.Append("cash", c.Cash)
	return w.MarshalJSON()
}

// DecodeLedger reads a ledger from a stream of JSONL data.
//
// The first record must be an init record carrying the session, the currency
// and the initial cash. Every following record is a transaction re-applied in
// order, see Replay. Empty lines are skipped.
func DecodeLedger(r io.Reader, opts ...Option) (*Ledger, error) {
	scanner := bufio.NewScanner(r)
	var (
		header  *initCmd
		txs     []Transaction
		lineNum int
	)
	for scanner.Scan() {
		lineNum++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %d %q: %w", lineNum, string(lineBytes), err)
		}

		switch identifier.Command {
		case CmdInit:
			if header != nil {
				return nil, fmt.Errorf("line %d: duplicate init record", lineNum)
			}
			header = new(initCmd)
			if err := json.Unmarshal(lineBytes, header); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		case CmdBuy, CmdSell:
			if header == nil {
				return nil, fmt.Errorf("line %d: transaction before the init record", lineNum)
			}
			var tx Transaction
			if err := json.Unmarshal(lineBytes, &tx); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
			txs = append(txs, tx)
		default:
			return nil, fmt.Errorf("line %d: unknown transaction command: %q", lineNum, identifier.Command)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	if header == nil {
		return nil, fmt.Errorf("%w: ledger has no init record", ErrInvalidInput)
	}
	return Replay(M(header.Cash, header.Currency), header.Session, txs, opts...)
}

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger writes a ledger snapshot to w in JSONL format: an init record
// followed by the transactions in sequence order.
func EncodeLedger(w io.Writer, s Snapshot) error {
	data, err := json.Marshal(initCmd{Session: s.Session, Currency: s.Currency, Cash: s.InitialCash.Decimal()})
	if err != nil {
		return fmt.Errorf("failed to marshal init record: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write init record: %w", err)
	}
	for _, tx := range s.Transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
