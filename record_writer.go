package stocksim

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// recordWriter builds a JSONL record with its fields in insertion order, so
// that session files stay stable and diffable. Its zero value is ready to use.
type recordWriter struct {
	buf bytes.Buffer
	err error
}

// Append adds key with its JSON encoded value.
func (w *recordWriter) Append(key string, value any) *recordWriter {
	if w.err != nil {
		return w
	}
	data, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}
	if w.buf.Len() > 0 {
		w.buf.WriteByte(',')
	}
	k, _ := json.Marshal(key)
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(data)
	return w
}

// Optional is Append, skipped when value is the zero value of its type.
func (w *recordWriter) Optional(key string, value any) *recordWriter {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON returns the record built so far, or the first error met.
func (w *recordWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.buf.Len()+2)
	out = append(out, '{')
	out = append(out, w.buf.Bytes()...)
	return append(out, '}'), nil
}
