package engine

import (
	"context"
	"math"
	"strconv"
)

// constants are pushed by name.
var constants = map[string]float64{
	"pi":    math.Pi,
	"phi":   math.Phi,
	"euler": math.E,
}

// functions replace the top value with f(top). Trigonometry is in radians.
var functions = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"log":   math.Log,
	"log10": math.Log10,
	"abs":   math.Abs,
	"int":   math.Trunc,
}

type statistic struct {
	min int
	f   func(vals []float64) float64
}

// statistics consume the whole stack and push one result.
var statistics = map[string]statistic{
	"sum":  {1, sum},
	"mean": {1, mean},
	"avg":  {1, mean},
	"sd":   {2, stddev},
	"min":  {1, minimum},
	"max":  {1, maximum},
}

// apply computes line2 <op> line1, where line1 was the top of the stack.
// IEEE semantics are preserved: division by zero yields ±Inf or NaN.
func apply(op byte, line2, line1 float64) float64 {
	switch op {
	case '+':
		return line2 + line1
	case '-':
		return line2 - line1
	case '*':
		return line2 * line1
	case '/':
		return line2 / line1
	case '^':
		return math.Pow(line2, line1)
	case '%':
		return math.Mod(line2, line1)
	}
	return math.NaN()
}

func (e *Engine) cmdOperator(_ context.Context, cmd Command) (Result, error) {
	if n := e.primary.Len(); n < 2 {
		return Result{}, NewDepthError(string(cmd.Op), 2, n)
	}
	e.snapshot()
	e.binary(cmd.Op)
	return Result{}, nil
}

// binary pops line1 (top) and line2 and pushes line2 <op> line1.
// The caller has verified the stack holds at least two values.
func (e *Engine) binary(op byte) {
	vals, err := e.primary.PopN(2)
	if err != nil {
		return
	}
	line1, line2 := vals[0], vals[1]
	result := apply(op, line2, line1)
	e.primary.Push(result)
	e.logger.Debug("operator applied", "op", string(op), "line2", line2, "line1", line1, "result", result)
}

func (e *Engine) cmdNumber(_ context.Context, cmd Command) (Result, error) {
	v, err := parseNumber(cmd.Arg)
	if err != nil {
		return Result{}, err
	}
	e.snapshot()
	e.primary.Push(v)
	return Result{}, nil
}

// cmdNumOp pushes the number and applies the trailing operator as one
// undoable step.
func (e *Engine) cmdNumOp(_ context.Context, cmd Command) (Result, error) {
	if n := e.primary.Len(); n < 1 {
		return Result{}, NewDepthError(cmd.Input, 2, n+1)
	}
	v, err := parseNumber(cmd.Arg)
	if err != nil {
		return Result{}, err
	}
	e.snapshot()
	e.primary.Push(v)
	e.binary(cmd.Op)
	return Result{}, nil
}

func (e *Engine) cmdConstant(_ context.Context, cmd Command) (Result, error) {
	v, ok := constants[cmd.Name]
	if !ok {
		return Result{}, newUnrecognizedError(cmd.Input)
	}
	e.snapshot()
	e.primary.Push(v)
	return Result{}, nil
}

func (e *Engine) cmdFunction(_ context.Context, cmd Command) (Result, error) {
	f, ok := functions[cmd.Name]
	if !ok {
		return Result{}, newUnrecognizedError(cmd.Input)
	}
	return Result{}, e.applyUnary(cmd.Name, f)
}

// applyUnary replaces the top value with f(top).
func (e *Engine) applyUnary(name string, f func(float64) float64) error {
	top, err := e.primary.Peek()
	if err != nil {
		return NewDepthError(name, 1, 0)
	}
	e.snapshot()
	_, _ = e.primary.Pop()
	result := f(top)
	e.primary.Push(result)
	e.logger.Debug("function applied", "name", name, "arg", top, "result", result)
	return nil
}

func (e *Engine) cmdStats(_ context.Context, cmd Command) (Result, error) {
	st, ok := statistics[cmd.Name]
	if !ok {
		return Result{}, newUnrecognizedError(cmd.Input)
	}
	if n := e.primary.Len(); n < st.min {
		return Result{}, NewDepthError(cmd.Name, st.min, n)
	}
	vals := e.primary.Values()
	result := st.f(vals)

	e.snapshot()
	e.primary.Clear()
	e.primary.Push(result)
	e.logger.Debug("statistic applied", "name", cmd.Name, "count", len(vals), "result", result)
	return Result{}, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, NewMalformedError("not a number: '%s'", s)
	}
	return v, nil
}

func sum(vals []float64) float64 {
	var total float64
	for _, v := range vals {
		total += v
	}
	return total
}

func mean(vals []float64) float64 {
	return sum(vals) / float64(len(vals))
}

// stddev is the sample standard deviation.
func stddev(vals []float64) float64 {
	m := mean(vals)
	var sq float64
	for _, v := range vals {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)-1))
}

func minimum(vals []float64) float64 {
	out := vals[0]
	for _, v := range vals[1:] {
		out = math.Min(out, v)
	}
	return out
}

func maximum(vals []float64) float64 {
	out := vals[0]
	for _, v := range vals[1:] {
		out = math.Max(out, v)
	}
	return out
}
