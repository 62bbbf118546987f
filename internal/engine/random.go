package engine

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

// RandSource draws uniformly distributed integers. IntN draws from [0, n);
// Uint64 draws from the full 64-bit range and serves ranges too wide for int.
// *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
	Uint64() uint64
}

// defaultRand uses the auto-seeded top-level generator.
type defaultRand struct{}

func (defaultRand) IntN(n int) int { return rand.IntN(n) }
func (defaultRand) Uint64() uint64 { return rand.Uint64() }

const (
	defaultRandLow  = 1
	defaultRandHigh = 100
	defaultRolls    = 1
	defaultDieSides = 6

	// maxRolls bounds a single dice command.
	maxRolls = 10000
)

// cmdRandom pushes one integer drawn uniformly from [low, high], inclusive.
func (e *Engine) cmdRandom(_ context.Context, cmd Command) (Result, error) {
	low, high := defaultRandLow, defaultRandHigh
	if cmd.Arg != "" {
		fields := strings.Fields(cmd.Arg)
		if len(fields) != 2 {
			return Result{}, NewMalformedError("rand takes a low and a high value: '%s'", cmd.Arg)
		}
		var errLow, errHigh error
		low, errLow = strconv.Atoi(fields[0])
		high, errHigh = strconv.Atoi(fields[1])
		if errLow != nil || errHigh != nil {
			return Result{}, NewMalformedError("error parsing low and high parameters: '%s'", cmd.Arg)
		}
	}
	if low > high {
		return Result{}, NewMalformedError("low value %d must be less than or equal to high value %d", low, high)
	}

	n := e.drawBetween(low, high)
	e.logger.Debug("random number", "low", low, "high", high, "value", n)

	e.snapshot()
	e.primary.Push(float64(n))
	return Result{}, nil
}

// drawBetween returns an integer in [low, high], low <= high. The span is
// taken in uint64 so ranges wider than math.MaxInt do not overflow.
func (e *Engine) drawBetween(low, high int) int {
	span := uint64(high) - uint64(low)
	if span < math.MaxInt {
		return low + e.rng.IntN(int(span)+1)
	}
	// The span covers at least half of the uint64 range, so rejection
	// accepts a draw with probability of at least one half.
	for {
		if v := e.rng.Uint64(); v <= span {
			return int(uint64(low) + v)
		}
	}
}

// cmdDice rolls a Y-sided die X times (XdY) and pushes each roll.
func (e *Engine) cmdDice(_ context.Context, cmd Command) (Result, error) {
	rolls, sides := defaultRolls, defaultDieSides
	if cmd.Arg != "" {
		parts := strings.Split(strings.ToLower(cmd.Arg), "d")
		if len(parts) != 2 {
			return Result{}, NewMalformedError("dice format is XdY, e.g. 3d6: '%s'", cmd.Arg)
		}
		var errRolls, errSides error
		rolls, errRolls = strconv.Atoi(strings.TrimSpace(parts[0]))
		sides, errSides = strconv.Atoi(strings.TrimSpace(parts[1]))
		if errRolls != nil || errSides != nil {
			return Result{}, NewMalformedError("error parsing die and rolls: '%s'", cmd.Arg)
		}
	}
	if sides <= 0 {
		return Result{}, NewMalformedError("die must have greater than zero sides")
	}
	if rolls < 1 {
		return Result{}, NewMalformedError("you have to specify at least 1 roll")
	}
	if rolls > maxRolls {
		return Result{}, NewMalformedError("too many rolls %d: at most %d per command", rolls, maxRolls)
	}

	e.snapshot()
	for i := 0; i < rolls; i++ {
		e.primary.Push(float64(e.rng.IntN(sides) + 1))
	}
	e.logger.Debug("dice rolled", "rolls", rolls, "sides", sides)
	return Result{}, nil
}
