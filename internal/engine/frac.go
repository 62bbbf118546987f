package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"
)

// DefaultFractionBase is the default denominator used by frac (1/64ths).
const DefaultFractionBase = 64

// Fraction is a value expressed as an integer part plus a reduced fraction.
type Fraction struct {
	Value       float64
	Base        int
	Integer     int64
	Numerator   int64
	Denominator int64
}

// String renders the mixed number, e.g. "1 3/4". A zero numerator renders
// the integer alone.
func (f Fraction) String() string {
	if f.Numerator == 0 {
		return strconv.FormatInt(f.Integer, 10)
	}
	return fmt.Sprintf("%d %d/%d", f.Integer, f.Numerator, f.Denominator)
}

// ToFraction splits v into floor(v) and a remainder rounded to the nearest
// 1/base, reduced by the greatest common divisor. A remainder that rounds up
// to a whole carries into the integer part.
func ToFraction(v float64, base int) Fraction {
	integer := math.Floor(v)
	remainder := v - integer
	num := int64(math.Floor(remainder*float64(base) + 0.5))
	den := int64(base)

	if num >= den {
		integer++
		num = 0
	}
	if num == 0 {
		den = 1
	} else {
		g := gcd(num, den)
		num /= g
		den /= g
	}

	return Fraction{
		Value:       v,
		Base:        base,
		Integer:     int64(integer),
		Numerator:   num,
		Denominator: den,
	}
}

// Fraction converts the top of the stack. Read-only.
func (e *Engine) Fraction(base int) (Fraction, error) {
	if base <= 0 {
		return Fraction{}, NewMalformedError("fraction base must be a positive integer, got %d", base)
	}
	top, err := e.primary.Peek()
	if err != nil {
		return Fraction{}, NewDepthError("frac", 1, 0)
	}
	// The integer part must fit in an int64.
	if math.IsNaN(top) || top < math.MinInt64 || top >= math.MaxInt64 {
		return Fraction{}, NewMalformedError("cannot express %s as a fraction", formatValue(top))
	}
	return ToFraction(top, base), nil
}

func (e *Engine) cmdFraction(_ context.Context, cmd Command) (Result, error) {
	base := DefaultFractionBase
	if cmd.Arg != "" {
		n, err := strconv.Atoi(cmd.Arg)
		if err != nil {
			return Result{}, NewMalformedError("fraction base must be a positive integer: '%s'", cmd.Arg)
		}
		base = n
	}

	f, err := e.Fraction(base)
	if err != nil {
		return Result{}, err
	}
	e.logger.Debug("fraction", "value", f.Value, "base", base, "numerator", f.Numerator, "denominator", f.Denominator)
	return Result{Report: []string{
		fmt.Sprintf("Fraction (1/%d): %s is approximately '%s'", base, formatValue(f.Value), f.String()),
	}}, nil
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
