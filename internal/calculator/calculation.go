package calculator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Calculation is one evaluated binary operation. The zero value is not
// meaningful; build one with New, NewAt or FromRecord. Values are immutable
// and safe to copy and share.
type Calculation struct {
	operation Operation
	operand1  decimal.Decimal
	operand2  decimal.Decimal
	result    decimal.Decimal
	timestamp time.Time
}

// New validates and evaluates op on the operands, stamping the current time.
func New(op Operation, operand1, operand2 decimal.Decimal) (Calculation, error) {
	return NewAt(op, operand1, operand2, time.Now())
}

// NewAt is New with an explicit timestamp.
func NewAt(op Operation, operand1, operand2 decimal.Decimal, timestamp time.Time) (Calculation, error) {
	result, err := compute(op, operand1, operand2)
	if err != nil {
		return Calculation{}, err
	}

	return Calculation{
		operation: op,
		operand1:  operand1,
		operand2:  operand2,
		result:    result,
		timestamp: timestamp,
	}, nil
}

func (c Calculation) Operation() Operation      { return c.operation }
func (c Calculation) Operand1() decimal.Decimal { return c.operand1 }
func (c Calculation) Operand2() decimal.Decimal { return c.operand2 }
func (c Calculation) Result() decimal.Decimal   { return c.result }
func (c Calculation) Timestamp() time.Time      { return c.timestamp }

// FormatResult renders the result in fixed-point notation with exactly
// precision digits after the decimal point, rounding halves away from zero.
func (c Calculation) FormatResult(precision int32) string {
	if precision < 0 {
		precision = 0
	}
	return c.result.StringFixed(precision)
}

// Equal compares operation, operands and result numerically. Timestamps
// are ignored.
func (c Calculation) Equal(other Calculation) bool {
	return c.operation == other.operation &&
		c.operand1.Equal(other.operand1) &&
		c.operand2.Equal(other.operand2) &&
		c.result.Equal(other.result)
}

// EqualAny is the untyped form of Equal for callers holding an any. Values
// that are not a Calculation compare unequal.
func (c Calculation) EqualAny(v any) bool {
	switch other := v.(type) {
	case Calculation:
		return c.Equal(other)
	case *Calculation:
		return other != nil && c.Equal(*other)
	default:
		return false
	}
}

// String renders the calculation as "Addition(10, 5) = 15".
func (c Calculation) String() string {
	return fmt.Sprintf("%s(%s, %s) = %s", c.operation, c.operand1, c.operand2, c.result)
}

// GoString implements fmt.GoStringer for %#v.
func (c Calculation) GoString() string {
	return fmt.Sprintf("Calculation(operation='%s', operand1=%s, operand2=%s, result=%s, timestamp=%s)",
		c.operation, c.operand1, c.operand2, c.result, FormatTimestamp(c.timestamp))
}
