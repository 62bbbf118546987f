package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// MemoryBank is a fixed-size array of optional values, independent of the
// stacks. Slots are numbered from 0.
type MemoryBank struct {
	slots []memorySlot
}

type memorySlot struct {
	value float64
	set   bool
}

// NewMemoryBank creates a bank with size empty slots.
// A size below 1 falls back to DefaultMemorySlots.
func NewMemoryBank(size int) *MemoryBank {
	if size < 1 {
		size = DefaultMemorySlots
	}
	return &MemoryBank{slots: make([]memorySlot, size)}
}

// Size returns the number of slots.
func (m *MemoryBank) Size() int {
	return len(m.slots)
}

// Get returns the value in slot i and whether the slot holds one.
func (m *MemoryBank) Get(i int) (float64, bool) {
	if i < 0 || i >= len(m.slots) || !m.slots[i].set {
		return 0, false
	}
	return m.slots[i].value, true
}

// Set stores v in slot i. Returns false if i is out of range.
func (m *MemoryBank) Set(i int, v float64) bool {
	if i < 0 || i >= len(m.slots) {
		return false
	}
	m.slots[i] = memorySlot{value: v, set: true}
	return true
}

// Clear empties slot i. Returns false if i is out of range.
func (m *MemoryBank) Clear(i int) bool {
	if i < 0 || i >= len(m.slots) {
		return false
	}
	m.slots[i] = memorySlot{}
	return true
}

// cmdMemory handles "mem [slot] add|clr|clear|copy|recall|show|list".
// The slot defaults to 0.
func (e *Engine) cmdMemory(_ context.Context, cmd Command) (Result, error) {
	fields := strings.Fields(cmd.Arg)
	slot := 0
	if len(fields) > 0 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			slot = n
			fields = fields[1:]
		}
	}
	if len(fields) != 1 {
		return Result{}, NewMalformedError("error parsing mem command: 'mem %s'", cmd.Arg)
	}
	if slot < 0 || slot >= e.memory.Size() {
		return Result{}, NewIndexError("memory slot", slot, 0, e.memory.Size()-1)
	}

	switch sub := strings.ToLower(fields[0]); sub {
	case "add":
		top, err := e.primary.Peek()
		if err != nil {
			return Result{}, NewDepthError("mem add", 1, 0)
		}
		e.memory.Set(slot, top)
		e.logger.Debug("memory stored", "slot", slot, "value", top)
		return Result{}, nil

	case "clr", "clear":
		e.memory.Clear(slot)
		e.logger.Debug("memory cleared", "slot", slot)
		return Result{}, nil

	case "copy", "recall":
		v, ok := e.memory.Get(slot)
		if !ok {
			return Result{}, newEmptySlotError(slot)
		}
		e.snapshot()
		e.primary.Push(v)
		return Result{}, nil

	case "show", "list":
		lines := make([]string, 0, e.memory.Size())
		for i := 0; i < e.memory.Size(); i++ {
			if v, ok := e.memory.Get(i); ok {
				lines = append(lines, fmt.Sprintf("Slot #%d: %s", i, formatValue(v)))
			} else {
				lines = append(lines, fmt.Sprintf("Slot #%d: empty", i))
			}
		}
		return Result{Report: lines}, nil

	default:
		return Result{}, NewMalformedError("unknown memory command: '%s'", fields[0])
	}
}
