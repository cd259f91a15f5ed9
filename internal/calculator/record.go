package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"decimal-calculator/internal/observability"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Record is the plain key-value form used at the serialization boundary.
type Record map[string]any

// Record keys of a serialized Calculation.
const (
	KeyOperation = "operation"
	KeyOperand1  = "operand1"
	KeyOperand2  = "operand2"
	KeyResult    = "result"
	KeyTimestamp = "timestamp"
)

// naive ISO-8601 layouts carry no zone and are read in local time.
var naiveTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// FormatTimestamp renders t as ISO-8601 (RFC 3339 with nanoseconds).
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO-8601 timestamps.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveTimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}

// ToRecord serializes c with decimals in canonical form ("2", not "2.0").
func (c Calculation) ToRecord() Record {
	return Record{
		KeyOperation: string(c.operation),
		KeyOperand1:  c.operand1.String(),
		KeyOperand2:  c.operand2.String(),
		KeyResult:    c.result.String(),
		KeyTimestamp: FormatTimestamp(c.timestamp),
	}
}

// FromRecord rebuilds a Calculation from its record. The operation is
// evaluated again; when the recomputed result differs from the stored one a
// warning is logged and the stored result is kept.
func FromRecord(rec Record) (Calculation, error) {
	fields := make(map[string]string, 5)
	for _, key := range []string{KeyOperation, KeyOperand1, KeyOperand2, KeyResult, KeyTimestamp} {
		raw, ok := rec[key]
		if !ok {
			return Calculation{}, newOperationErrorf(ErrInvalidData, "missing key %q", key)
		}
		s, ok := raw.(string)
		if !ok {
			return Calculation{}, newOperationErrorf(ErrInvalidData, "%s must be a string, got %T", key, raw)
		}
		fields[key] = s
	}

	operand1, err := decimal.NewFromString(fields[KeyOperand1])
	if err != nil {
		return Calculation{}, newOperationErrorf(ErrInvalidData, "%v", err)
	}
	operand2, err := decimal.NewFromString(fields[KeyOperand2])
	if err != nil {
		return Calculation{}, newOperationErrorf(ErrInvalidData, "%v", err)
	}
	stored, err := decimal.NewFromString(fields[KeyResult])
	if err != nil {
		return Calculation{}, newOperationErrorf(ErrInvalidData, "%v", err)
	}
	ts, err := ParseTimestamp(fields[KeyTimestamp])
	if err != nil {
		return Calculation{}, newOperationErrorf(ErrInvalidData, "%v", err)
	}

	calc, err := NewAt(Operation(fields[KeyOperation]), operand1, operand2, ts)
	if err != nil {
		return Calculation{}, err
	}

	if !calc.result.Equal(stored) {
		observability.Logger.Warn(
			fmt.Sprintf("Loaded calculation result %s differs from computed result %s", stored, calc.result),
			zap.String("operation", string(calc.operation)),
			zap.String("stored", stored.String()),
			zap.String("computed", calc.result.String()),
		)
		mismatchCounter.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("operation", string(calc.operation))))
	}
	calc.result = stored

	return calc, nil
}

func (c Calculation) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToRecord())
}

func (c *Calculation) UnmarshalJSON(data []byte) error {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return newOperationErrorf(ErrInvalidData, "%v", err)
	}

	calc, err := FromRecord(rec)
	if err != nil {
		return err
	}
	*c = calc
	return nil
}
