package engine

import (
	"context"
	"strconv"
	"strings"
)

func (e *Engine) cmdClear(_ context.Context, _ Command) (Result, error) {
	e.snapshot()
	e.primary.Clear()
	e.logger.Debug("stack cleared")
	return Result{ClearScreen: true}, nil
}

// cmdDelete removes a line from the stack. Lines are 1-based from the top;
// with no argument the top line is deleted.
func (e *Engine) cmdDelete(_ context.Context, cmd Command) (Result, error) {
	line := 1
	if cmd.Arg != "" {
		n, err := strconv.Atoi(cmd.Arg)
		if err != nil {
			return Result{}, NewMalformedError("line number provided can not be deleted: '%s'", cmd.Arg)
		}
		line = n
	}

	size := e.primary.Len()
	if size == 0 {
		return Result{}, NewDepthError("d", 1, 0)
	}
	if line < 1 || line > size {
		return Result{}, NewIndexError("line number", line, 1, size)
	}

	e.snapshot()
	if err := e.primary.DeleteItem(line - 1); err != nil {
		return Result{}, err
	}
	e.logger.Debug("line deleted", "line", line)
	return Result{}, nil
}

// cmdSwapStacks exchanges the primary and secondary stacks.
func (e *Engine) cmdSwapStacks(_ context.Context, _ Command) (Result, error) {
	e.snapshot()
	e.primary, e.secondary = e.secondary, e.primary
	e.activeSlot = 3 - e.activeSlot
	e.logger.Debug("stacks swapped", "active", e.activeSlot)
	return Result{}, nil
}

// cmdSwapElements swaps two 1-based lines; with no argument the top two.
func (e *Engine) cmdSwapElements(_ context.Context, cmd Command) (Result, error) {
	a, b := 1, 2
	if cmd.Arg != "" {
		fields := strings.Fields(cmd.Arg)
		if len(fields) != 2 {
			return Result{}, NewMalformedError("swap needs two line numbers: '%s'", cmd.Arg)
		}
		var errA, errB error
		a, errA = strconv.Atoi(fields[0])
		b, errB = strconv.Atoi(fields[1])
		if errA != nil || errB != nil {
			return Result{}, NewMalformedError("error parsing line numbers for stack swap: '%s'", cmd.Arg)
		}
	}

	size := e.primary.Len()
	for _, n := range []int{a, b} {
		if n < 1 || n > size {
			return Result{}, NewIndexError("element", n, 1, size)
		}
	}

	e.snapshot()
	if err := e.primary.SwapItems(a-1, b-1); err != nil {
		return Result{}, err
	}
	e.logger.Debug("elements swapped", "a", a, "b", b)
	return Result{}, nil
}

func (e *Engine) cmdFlipSign(_ context.Context, _ Command) (Result, error) {
	return Result{}, e.applyUnary("f", func(v float64) float64 { return -v })
}

func (e *Engine) cmdCopy(_ context.Context, _ Command) (Result, error) {
	top, err := e.primary.Peek()
	if err != nil {
		return Result{}, NewDepthError("copy", 1, 0)
	}
	e.snapshot()
	e.primary.Push(top)
	return Result{}, nil
}
