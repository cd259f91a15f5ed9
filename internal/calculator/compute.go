package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	// DivisionPlaces is the number of significant digits kept by inexact
	// results (quotients, irrational roots, fractional powers). Results of at
	// least one keep this many places after the decimal point. Halves round
	// away from zero.
	DivisionPlaces int32 = 28

	// MaxExponent bounds integer exponents and root degrees.
	MaxExponent int64 = 100000

	// maxPlaces bounds the decimal places any single result may need.
	maxPlaces int64 = 1_000_000

	// Roots are computed on a mantissa scaled into [1, 10). Newton's method
	// iterates at rootWorkPlaces and the result is checked for an exact value
	// at rootSnapPlaces before falling back to DivisionPlaces.
	rootWorkPlaces    int32 = 34
	rootSnapPlaces    int32 = 24
	rootPowDigits     int32 = 42
	maxRootIterations       = 100

	// maxSnapDigits caps the size of the exact power computed when checking
	// whether a root is exact.
	maxSnapDigits int64 = 20000
)

var (
	one = decimal.NewFromInt(1)

	errZerothRoot       = errors.New("zeroth root is undefined")
	errZeroNegativeRoot = errors.New("division by zero")
	errRootNoConverge   = errors.New("root did not converge")
)

// powerFn is swapped in tests to exercise failure normalization.
var powerFn = power

// compute applies op to a and b. Every failure, including a panic raised
// by the decimal routines, comes back as *OperationError.
func compute(op Operation, a, b decimal.Decimal) (result decimal.Decimal, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = decimal.Zero
			err = newOperationErrorf(ErrCalculationFailed, "%v", r)
		}
	}()

	switch op {
	case Addition:
		return a.Add(b), nil
	case Subtraction:
		return a.Sub(b), nil
	case Multiplication:
		return a.Mul(b), nil
	case Division:
		if b.IsZero() {
			return decimal.Zero, newOperationError(ErrDivisionByZero)
		}
		q, err := divide(a, b)
		if err != nil {
			return decimal.Zero, newOperationErrorf(ErrCalculationFailed, "%v", err)
		}
		return q, nil
	case Power:
		if b.IsNegative() {
			return decimal.Zero, newOperationError(ErrNegativeExponent)
		}
		r, err := powerFn(a, b)
		if err != nil {
			return decimal.Zero, newOperationErrorf(ErrCalculationFailed, "%v", err)
		}
		return r, nil
	case Root:
		if a.IsNegative() {
			return decimal.Zero, newOperationError(ErrNegativeRoot)
		}
		r, err := root(a, b)
		if err != nil {
			return decimal.Zero, newOperationErrorf(ErrCalculationFailed, "%v", err)
		}
		return r, nil
	default:
		return decimal.Zero, newOperationErrorf(ErrUnknownOperation, "%s", op)
	}
}

// divide returns a/b for a non-zero b, rounded to DivisionPlaces significant
// digits.
func divide(a, b decimal.Decimal) (decimal.Decimal, error) {
	places, err := significantPlaces(adjustedExponent(a) - adjustedExponent(b))
	if err != nil {
		return decimal.Zero, err
	}
	return a.DivRound(b, places), nil
}

// power raises base to a non-negative exponent. Integer exponents are exact.
func power(base, exp decimal.Decimal) (decimal.Decimal, error) {
	if exp.IsInteger() {
		n, err := boundedInt(exp)
		if err != nil {
			return decimal.Zero, err
		}
		return intPow(base, n), nil
	}
	if base.IsZero() {
		return decimal.Zero, nil
	}
	return fractionalPow(base, exp)
}

// root returns the degree-th root of a non-negative x.
func root(x, degree decimal.Decimal) (decimal.Decimal, error) {
	if degree.IsZero() {
		return decimal.Zero, errZerothRoot
	}
	if x.IsZero() {
		if degree.IsNegative() {
			return decimal.Zero, errZeroNegativeRoot
		}
		return decimal.Zero, nil
	}
	if !degree.IsInteger() {
		places, err := significantPlaces(-adjustedExponent(degree))
		if err != nil {
			return decimal.Zero, err
		}
		return fractionalPow(x, one.DivRound(degree, places+rootWorkPlaces-DivisionPlaces))
	}

	n, err := boundedInt(degree.Abs())
	if err != nil {
		return decimal.Zero, err
	}
	r, err := nthRoot(x, n)
	if err != nil {
		return decimal.Zero, err
	}
	if degree.IsNegative() {
		return divide(one, r)
	}
	return r, nil
}

// fractionalPow handles non-integer exponents of a positive base. The
// working precision follows the expected magnitude of the result so small
// results keep their significant digits.
func fractionalPow(base, exp decimal.Decimal) (decimal.Decimal, error) {
	adj := adjustedExponent(base)
	mantissa := base.Shift(-int32(adj)).InexactFloat64()
	magnitude := exp.InexactFloat64() * (float64(adj) + math.Log10(mantissa))
	if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return decimal.Zero, fmt.Errorf("power %s^%s out of range", base, exp)
	}

	places, err := significantPlaces(int64(math.Floor(magnitude)) - 1)
	if err != nil {
		return decimal.Zero, err
	}
	r, err := base.PowWithPrecision(exp, places)
	if err != nil {
		return decimal.Zero, err
	}
	return r.Round(places), nil
}

// significantPlaces returns the decimal places that keep DivisionPlaces
// significant digits for a value whose leading digit sits at 10^adj.
func significantPlaces(adj int64) (int32, error) {
	places := int64(DivisionPlaces)
	if adj < 0 {
		places -= adj
	}
	if places > maxPlaces {
		return 0, fmt.Errorf("result needs %d decimal places (max %d)", places, maxPlaces)
	}
	return int32(places), nil
}

// adjustedExponent is the power of ten of the leading digit of d.
func adjustedExponent(d decimal.Decimal) int64 {
	return int64(d.Exponent()) + int64(d.NumDigits()) - 1
}

func boundedInt(d decimal.Decimal) (int64, error) {
	if d.GreaterThan(decimal.NewFromInt(MaxExponent)) {
		return 0, fmt.Errorf("exponent %s too large (max %d)", d, MaxExponent)
	}
	return d.IntPart(), nil
}

// intPow computes base^n for n >= 0 by repeated squaring.
func intPow(base decimal.Decimal, n int64) decimal.Decimal {
	return intPowRounded(base, n, 0)
}

// intPowRounded is intPow with every intermediate product rounded to digits
// significant digits. A zero digits keeps every product exact.
func intPowRounded(base decimal.Decimal, n int64, digits int32) decimal.Decimal {
	round := func(d decimal.Decimal) decimal.Decimal {
		if digits == 0 || d.IsZero() {
			return d
		}
		return d.Round(digits - 1 - int32(adjustedExponent(d)))
	}

	result := one
	for n > 0 {
		if n&1 == 1 {
			result = round(result.Mul(base))
		}
		n >>= 1
		if n > 0 {
			base = round(base.Mul(base))
		}
	}
	return result
}

// nthRoot returns x^(1/n) for x > 0, n >= 1. x is split into m * 10^(k*n)
// with m in [1, 10^n), so the root is rootOf(m) * 10^k and Newton's method
// only ever runs on a value in [1, 10). When the approximation rounds to a
// value whose n-th power is exactly m, that value is used, so perfect powers
// have exact roots.
func nthRoot(x decimal.Decimal, n int64) (decimal.Decimal, error) {
	if n == 1 {
		return x, nil
	}

	k := floorDiv(adjustedExponent(x), n)
	m := x.Shift(int32(-k * n))

	r, err := mantissaRoot(m, n)
	if err != nil {
		return decimal.Zero, err
	}

	if exact := trimZeros(r.Round(rootSnapPlaces)); int64(exact.NumDigits())*n <= maxSnapDigits && intPow(exact, n).Equal(m) {
		return exact.Shift(int32(k)), nil
	}
	return r.Round(DivisionPlaces).Shift(int32(k)), nil
}

// mantissaRoot runs Newton's iteration for m^(1/n) with m in [1, 10^n).
func mantissaRoot(m decimal.Decimal, n int64) (decimal.Decimal, error) {
	guess := initialRootGuess(m, n)
	nd := decimal.NewFromInt(n)
	nm1 := decimal.NewFromInt(n - 1)
	tolerance := decimal.New(1, -(rootWorkPlaces - 2))

	for i := 0; i < maxRootIterations; i++ {
		next := nm1.Mul(guess).
			Add(m.DivRound(intPowRounded(guess, n-1, rootPowDigits), rootWorkPlaces)).
			DivRound(nd, rootWorkPlaces)
		if next.Sub(guess).Abs().LessThanOrEqual(tolerance) {
			return next, nil
		}
		guess = next
	}
	return decimal.Zero, fmt.Errorf("%w after %d iterations", errRootNoConverge, maxRootIterations)
}

// initialRootGuess estimates m^(1/n) from log10(m), which stays in float64
// range for any m in [1, 10^n).
func initialRootGuess(m decimal.Decimal, n int64) decimal.Decimal {
	adj := adjustedExponent(m)
	mantissa := m.Shift(-int32(adj)).InexactFloat64()
	g := math.Pow(10, (float64(adj)+math.Log10(mantissa))/float64(n))
	if math.IsNaN(g) || math.IsInf(g, 0) || g <= 0 {
		return one
	}
	return decimal.NewFromFloat(g)
}

func trimZeros(d decimal.Decimal) decimal.Decimal {
	return decimal.RequireFromString(d.String())
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
