package history

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"decimal-calculator/internal/calculator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalc(t *testing.T, op calculator.Operation, a, b int64) calculator.Calculation {
	t.Helper()
	calc, err := calculator.New(op, decimal.NewFromInt(a), decimal.NewFromInt(b))
	require.NoError(t, err)
	return calc
}

func TestNewKeepsHistoryAndStampsTime(t *testing.T) {
	before := time.Now()
	calc := newCalc(t, calculator.Addition, 1, 2)

	m := New([]calculator.Calculation{calc})

	require.Equal(t, 1, m.Len())
	assert.True(t, m.History()[0].Equal(calc))
	assert.False(t, m.Timestamp().Before(before))
}

func TestMementoIsIsolatedFromCallerSlices(t *testing.T) {
	calcs := []calculator.Calculation{newCalc(t, calculator.Addition, 1, 2)}
	m := New(calcs)

	calcs[0] = newCalc(t, calculator.Subtraction, 9, 1)
	assert.Equal(t, calculator.Addition, m.History()[0].Operation())

	got := m.History()
	got[0] = newCalc(t, calculator.Multiplication, 3, 3)
	assert.Equal(t, calculator.Addition, m.History()[0].Operation())
}

func TestToRecord(t *testing.T) {
	calc1 := newCalc(t, calculator.Addition, 10, 5)
	calc2 := newCalc(t, calculator.Subtraction, 20, 3)
	m := New([]calculator.Calculation{calc1, calc2})

	want := calculator.Record{
		"history":   []calculator.Record{calc1.ToRecord(), calc2.ToRecord()},
		"timestamp": m.Timestamp().Format(time.RFC3339Nano),
	}
	assert.Equal(t, want, m.ToRecord())
}

func TestToRecordEmptyHistory(t *testing.T) {
	m := New(nil)

	want := calculator.Record{
		"history":   []calculator.Record{},
		"timestamp": m.Timestamp().Format(time.RFC3339Nano),
	}
	assert.Equal(t, want, m.ToRecord())
}

func TestFromRecord(t *testing.T) {
	now := time.Now()
	rec := calculator.Record{
		"history": []any{
			map[string]any{"operation": "Addition", "operand1": "1", "operand2": "2", "result": "3", "timestamp": now.Format(time.RFC3339Nano)},
		},
		"timestamp": now.Format(time.RFC3339Nano),
	}

	m, err := FromRecord(rec)
	require.NoError(t, err)

	require.Equal(t, 1, m.Len())
	assert.True(t, m.History()[0].Result().Equal(decimal.NewFromInt(3)))
	assert.True(t, m.Timestamp().Equal(now))
}

func TestFromRecordEmptyHistory(t *testing.T) {
	rec := calculator.Record{"history": []any{}, "timestamp": "2024-03-01T12:30:45.123456"}

	m, err := FromRecord(rec)
	require.NoError(t, err)

	assert.Empty(t, m.History())
	assert.True(t, m.Timestamp().Equal(time.Date(2024, 3, 1, 12, 30, 45, 123456000, time.Local)))
}

func TestFromRecordMissingKey(t *testing.T) {
	tests := []struct {
		name string
		rec  calculator.Record
		key  string
	}{
		{"missing timestamp", calculator.Record{"history": []any{}}, "timestamp"},
		{"missing history", calculator.Record{"timestamp": "2024-03-01T12:30:45Z"}, "history"},
		{"empty record", calculator.Record{}, "history"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromRecord(tc.rec)

			var keyErr *MissingKeyError
			require.ErrorAs(t, err, &keyErr)
			assert.Equal(t, tc.key, keyErr.Key)

			var opErr *calculator.OperationError
			assert.False(t, errors.As(err, &opErr), "missing structure must not be an OperationError")
		})
	}
}

func TestFromRecordRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name string
		rec  calculator.Record
	}{
		{"history not a list", calculator.Record{"history": "nope", "timestamp": "2024-03-01T12:30:45Z"}},
		{"history entry not a record", calculator.Record{"history": []any{42}, "timestamp": "2024-03-01T12:30:45Z"}},
		{"bad timestamp", calculator.Record{"history": []any{}, "timestamp": "noon"}},
		{"timestamp not a string", calculator.Record{"history": []any{}, "timestamp": 12}},
		{"bad entry", calculator.Record{
			"history":   []any{map[string]any{"operation": "Addition", "operand1": "x", "operand2": "2", "result": "3", "timestamp": "2024-03-01T12:30:45Z"}},
			"timestamp": "2024-03-01T12:30:45Z",
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromRecord(tc.rec)
			assert.ErrorIs(t, err, calculator.ErrInvalidData)
		})
	}
}

func TestRecordRoundTripPreservesOrder(t *testing.T) {
	m := New([]calculator.Calculation{
		newCalc(t, calculator.Power, 2, 8),
		newCalc(t, calculator.Division, 1, 3),
		newCalc(t, calculator.Root, 81, 2),
		newCalc(t, calculator.Multiplication, -4, 5),
	})

	restored, err := FromRecord(m.ToRecord())
	require.NoError(t, err)

	assert.True(t, restored.Equal(m))
	for i, calc := range restored.History() {
		assert.Equal(t, m.History()[i].Operation(), calc.Operation(), "entry %d", i)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	m := New([]calculator.Calculation{
		newCalc(t, calculator.Addition, 10, 5),
		newCalc(t, calculator.Subtraction, 20, 3),
	})

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var restored Memento
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.True(t, restored.Equal(m))
}

func TestUnmarshalJSONMissingKey(t *testing.T) {
	var m Memento
	err := json.Unmarshal([]byte(`{"history": []}`), &m)

	var keyErr *MissingKeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "timestamp", keyErr.Key)
}

func TestEqual(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calc := newCalc(t, calculator.Addition, 1, 1)

	a := NewAt([]calculator.Calculation{calc}, ts)

	assert.True(t, a.Equal(NewAt([]calculator.Calculation{calc}, ts)))
	assert.False(t, a.Equal(NewAt([]calculator.Calculation{calc}, ts.Add(time.Second))))
	assert.False(t, a.Equal(NewAt(nil, ts)))
	assert.False(t, a.Equal(NewAt([]calculator.Calculation{newCalc(t, calculator.Addition, 1, 2)}, ts)))
}
