// Package history captures calculator history as immutable snapshots that
// can be serialized to plain records and restored later.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"decimal-calculator/internal/calculator"
	"decimal-calculator/internal/observability"

	"go.uber.org/zap"
)

// Record keys of a serialized Memento.
const (
	KeyHistory   = "history"
	KeyTimestamp = "timestamp"
)

// MissingKeyError reports a memento record without one of its required
// keys. It is distinct from calculator.OperationError, which covers
// malformed values.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing key %q", e.Key)
}

// Memento is a snapshot of an ordered calculation history taken at a point
// in time.
type Memento struct {
	history   []calculator.Calculation
	timestamp time.Time
}

// New snapshots calcs at the current time.
func New(calcs []calculator.Calculation) Memento {
	return NewAt(calcs, time.Now())
}

// NewAt snapshots calcs at the given time. The slice is copied.
func NewAt(calcs []calculator.Calculation, timestamp time.Time) Memento {
	history := make([]calculator.Calculation, len(calcs))
	copy(history, calcs)
	return Memento{history: history, timestamp: timestamp}
}

// History returns a copy of the snapshot, oldest first.
func (m Memento) History() []calculator.Calculation {
	out := make([]calculator.Calculation, len(m.history))
	copy(out, m.history)
	return out
}

func (m Memento) Len() int             { return len(m.history) }
func (m Memento) Timestamp() time.Time { return m.timestamp }

// Equal reports whether both snapshots hold equal calculations in the same
// order and were taken at the same instant.
func (m Memento) Equal(other Memento) bool {
	if !m.timestamp.Equal(other.timestamp) || len(m.history) != len(other.history) {
		return false
	}
	for i := range m.history {
		if !m.history[i].Equal(other.history[i]) {
			return false
		}
	}
	return true
}

// ToRecord serializes the snapshot, delegating each entry to
// calculator.Calculation.ToRecord.
func (m Memento) ToRecord() calculator.Record {
	history := make([]calculator.Record, 0, len(m.history))
	for _, calc := range m.history {
		history = append(history, calc.ToRecord())
	}

	return calculator.Record{
		KeyHistory:   history,
		KeyTimestamp: calculator.FormatTimestamp(m.timestamp),
	}
}

// FromRecord restores a snapshot. Absent keys yield *MissingKeyError;
// malformed values yield *calculator.OperationError.
func FromRecord(rec calculator.Record) (Memento, error) {
	rawHistory, ok := rec[KeyHistory]
	if !ok {
		return Memento{}, &MissingKeyError{Key: KeyHistory}
	}
	rawTimestamp, ok := rec[KeyTimestamp]
	if !ok {
		return Memento{}, &MissingKeyError{Key: KeyTimestamp}
	}

	entries, err := historyEntries(rawHistory)
	if err != nil {
		return Memento{}, invalidData(err)
	}

	history := make([]calculator.Calculation, 0, len(entries))
	for i, entry := range entries {
		calc, err := calculator.FromRecord(entry)
		if err != nil {
			return Memento{}, fmt.Errorf("history entry %d: %w", i, err)
		}
		history = append(history, calc)
	}

	s, ok := rawTimestamp.(string)
	if !ok {
		return Memento{}, invalidData(fmt.Errorf("timestamp must be a string, got %T", rawTimestamp))
	}
	ts, err := calculator.ParseTimestamp(s)
	if err != nil {
		return Memento{}, invalidData(err)
	}

	observability.Logger.Debug("memento restored",
		zap.Int("entries", len(history)),
		zap.Time("timestamp", ts),
	)

	return Memento{history: history, timestamp: ts}, nil
}

// historyEntries accepts the list shapes a record can carry: records built
// in process and the []any produced by encoding/json.
func historyEntries(raw any) ([]calculator.Record, error) {
	switch v := raw.(type) {
	case []calculator.Record:
		return v, nil
	case []map[string]any:
		out := make([]calculator.Record, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, nil
	case []any:
		out := make([]calculator.Record, len(v))
		for i, item := range v {
			switch m := item.(type) {
			case calculator.Record:
				out[i] = m
			case map[string]any:
				out[i] = m
			default:
				return nil, fmt.Errorf("history entry %d must be a record, got %T", i, item)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("history must be a list, got %T", raw)
	}
}

func invalidData(err error) error {
	return &calculator.OperationError{
		Message: fmt.Sprintf("%s: %v", calculator.ErrInvalidData, err),
		Err:     calculator.ErrInvalidData,
	}
}

func (m Memento) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToRecord())
}

func (m *Memento) UnmarshalJSON(data []byte) error {
	var rec calculator.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return invalidData(err)
	}

	restored, err := FromRecord(rec)
	if err != nil {
		return err
	}
	*m = restored
	return nil
}
