package calculator

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by OperationError. Match them with errors.Is.
var (
	ErrDivisionByZero    = errors.New("Division by zero is not allowed")
	ErrNegativeExponent  = errors.New("Negative exponents are not supported")
	ErrNegativeRoot      = errors.New("Cannot calculate root of negative number")
	ErrUnknownOperation  = errors.New("Unknown operation")
	ErrInvalidData       = errors.New("Invalid calculation data")
	ErrCalculationFailed = errors.New("Calculation failed")
)

// OperationError is the single error kind returned by this package. Message
// is the human readable text; Err is one of the sentinel causes above.
type OperationError struct {
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	return e.Message
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func newOperationError(cause error) *OperationError {
	return &OperationError{Message: cause.Error(), Err: cause}
}

// newOperationErrorf prefixes the sentinel's text to a detail, as in
// "Unknown operation: Modulo".
func newOperationErrorf(cause error, format string, args ...any) *OperationError {
	return &OperationError{
		Message: fmt.Sprintf("%s: %s", cause.Error(), fmt.Sprintf(format, args...)),
		Err:     cause,
	}
}
