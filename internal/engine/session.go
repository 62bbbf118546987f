package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/roach88/rpncalc/internal/stack"
)

func (e *Engine) cmdDebug(_ context.Context, _ Command) (Result, error) {
	e.debug = !e.debug
	if e.level != nil {
		if e.debug {
			e.level.Set(slog.LevelDebug)
		} else {
			e.level.Set(slog.LevelInfo)
		}
	}
	if e.debug {
		return Result{Report: []string{"Debug Enabled"}}, nil
	}
	return Result{Report: []string{"Debug Disabled"}}, nil
}

// cmdLoad saves the current stacks, switches to the named stack and loads it.
// The new record is written back immediately so the name exists in the store
// from its first load. Undo history does not carry across stacks.
func (e *Engine) cmdLoad(ctx context.Context, cmd Command) (Result, error) {
	if strings.TrimSpace(cmd.Arg) == "" {
		return Result{}, NewMalformedError("a stack name is required: 'load <name>'")
	}
	name := NormalizeName(cmd.Arg)

	if err := e.save(ctx); err != nil {
		return Result{}, newStorageError(fmt.Sprintf("save stack %q", e.stackName), err)
	}

	p, s, err := e.store.Load(ctx, name)
	if err != nil {
		return Result{}, newStorageError(fmt.Sprintf("load stack %q", name), err)
	}
	if err := e.store.Save(ctx, name, p, s); err != nil {
		return Result{}, newStorageError(fmt.Sprintf("save stack %q", name), err)
	}

	e.logger.Debug("switching stack", "from", e.stackName, "to", name)
	e.stackName = name
	e.primary = stack.New(p...)
	e.secondary = stack.New(s...)
	e.activeSlot = 1
	e.history.Clear()

	return Result{}, nil
}

func (e *Engine) cmdVersion(_ context.Context, _ Command) (Result, error) {
	return Result{Report: []string{"Version: v" + strings.TrimPrefix(e.version, "v")}}, nil
}

func (e *Engine) cmdHelp(_ context.Context, _ Command) (Result, error) {
	return Result{ShowHelp: true}, nil
}

func (e *Engine) cmdExit(_ context.Context, _ Command) (Result, error) {
	e.logger.Debug("exiting command loop")
	return Result{Exit: true}, nil
}

// cmdListUndo lists undo snapshots, most recent first. Read-only.
func (e *Engine) cmdListUndo(_ context.Context, _ Command) (Result, error) {
	snaps := e.history.Snapshots()
	if len(snaps) == 0 {
		return Result{Report: []string{"Undo history is empty"}}, nil
	}
	lines := make([]string, 0, len(snaps))
	for i, s := range snaps {
		lines = append(lines, fmt.Sprintf("%02d:  %s", i+1, formatValues(s.Values())))
	}
	return Result{Report: lines}, nil
}

func (e *Engine) cmdUndo(_ context.Context, _ Command) (Result, error) {
	prev, ok := e.history.Pop()
	if !ok {
		return Result{}, newUndoExhaustedError()
	}
	e.primary = prev
	e.logger.Debug("undo applied", "remaining", e.history.Len())
	return Result{}, nil
}

func (e *Engine) cmdListStacks(ctx context.Context, _ Command) (Result, error) {
	names, err := e.store.ListNames(ctx)
	if err != nil {
		return Result{}, newStorageError("list stacks", err)
	}
	if len(names) == 0 {
		return Result{Report: []string{"No saved stacks"}}, nil
	}
	lines := make([]string, 0, len(names))
	for i, name := range names {
		marker := ""
		if name == e.stackName {
			marker = " (current)"
		}
		lines = append(lines, fmt.Sprintf("%02d:  %s%s", i+1, name, marker))
	}
	return Result{Report: lines}, nil
}

func (e *Engine) cmdAlign(_ context.Context, cmd Command) (Result, error) {
	al, ok := parseAlign(cmd.Arg)
	if !ok {
		return Result{}, NewMalformedError("alignment must be 'l'eft, 'r'ight or 'd'ecimal, got '%s'", cmd.Arg)
	}
	e.align = al
	return Result{}, nil
}

func (e *Engine) cmdBlank(_ context.Context, _ Command) (Result, error) {
	return Result{}, nil
}

func (e *Engine) cmdUnknown(_ context.Context, cmd Command) (Result, error) {
	return Result{}, newUnrecognizedError(cmd.Input)
}

func parseAlign(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left":
		return AlignLeft, true
	case "r", "right":
		return AlignRight, true
	case "d", "decimal":
		return AlignDecimal, true
	}
	return "", false
}

// formatValue renders a value for report lines.
func formatValue(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	if abs >= 1e15 || (abs != 0 && abs < 1e-6) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatValues renders a push-order slice as "[1, 2, 3]".
func formatValues(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatValue(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
