package stack

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when a value is requested from an empty stack.
var ErrEmpty = errors.New("stack is empty")

// IndexError reports a position outside the stack.
// Index is 0-based counting from the top.
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for stack of size %d", e.Index, e.Size)
}

// Stack is an ordered sequence of float64 values with stack semantics.
//
// Position 0 is the top: the last value pushed and the first popped.
// Internally the top lives at the end of the slice so Push and Pop are
// amortized O(1).
//
// INVARIANT: a method that returns an error leaves the stack exactly as it
// was before the call.
type Stack struct {
	items []float64
}

// New creates a stack holding values in push order (the last value is the top).
func New(values ...float64) *Stack {
	items := make([]float64, len(values))
	copy(items, values)
	return &Stack{items: items}
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the stack holds no values.
func (s *Stack) IsEmpty() bool {
	return len(s.items) == 0
}

// Push places v on top of the stack.
func (s *Stack) Push(v float64) {
	s.items = append(s.items, v)
}

// Pop removes and returns the top value.
func (s *Stack) Pop() (float64, error) {
	if len(s.items) == 0 {
		return 0, ErrEmpty
	}
	last := len(s.items) - 1
	v := s.items[last]
	s.items = s.items[:last]
	return v, nil
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (float64, error) {
	if len(s.items) == 0 {
		return 0, ErrEmpty
	}
	return s.items[len(s.items)-1], nil
}

// Get returns the value at position i, counting from the top (0 = top).
func (s *Stack) Get(i int) (float64, error) {
	pos, err := s.position(i)
	if err != nil {
		return 0, err
	}
	return s.items[pos], nil
}

// PopN removes the top n values and returns them top-first.
// Either all n values are removed or none are.
func (s *Stack) PopN(n int) ([]float64, error) {
	if n < 0 || n > len(s.items) {
		return nil, &IndexError{Index: n - 1, Size: len(s.items)}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = s.items[len(s.items)-1-i]
	}
	s.items = s.items[:len(s.items)-n]
	return out, nil
}

// DeleteItem removes the value at position i (0 = top), preserving the
// relative order of the remaining values.
func (s *Stack) DeleteItem(i int) error {
	pos, err := s.position(i)
	if err != nil {
		return err
	}
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	return nil
}

// SwapItems exchanges the values at positions i and j (0 = top).
// Swapping a position with itself is a no-op.
func (s *Stack) SwapItems(i, j int) error {
	pi, err := s.position(i)
	if err != nil {
		return err
	}
	pj, err := s.position(j)
	if err != nil {
		return err
	}
	s.items[pi], s.items[pj] = s.items[pj], s.items[pi]
	return nil
}

// Clear removes every value.
func (s *Stack) Clear() {
	s.items = s.items[:0]
}

// Clone returns a deep copy that shares no storage with s.
func (s *Stack) Clone() *Stack {
	return New(s.items...)
}

// Values returns a copy of the values in push order (top last).
func (s *Stack) Values() []float64 {
	out := make([]float64, len(s.items))
	copy(out, s.items)
	return out
}

// TopDown returns a copy of the values with the top first.
func (s *Stack) TopDown() []float64 {
	out := make([]float64, len(s.items))
	for i, v := range s.items {
		out[len(s.items)-1-i] = v
	}
	return out
}

// Equal reports whether both stacks hold the same values in the same order.
// NaN values compare equal to each other so that snapshots round-trip.
func (s *Stack) Equal(other *Stack) bool {
	if other == nil || len(s.items) != len(other.items) {
		return false
	}
	for i, v := range s.items {
		w := other.items[i]
		if v != w && !(v != v && w != w) {
			return false
		}
	}
	return true
}

// String renders the stack bottom to top, e.g. "[1 2 3]".
func (s *Stack) String() string {
	return fmt.Sprint(s.items)
}

// position converts a top-relative index into a slice index.
func (s *Stack) position(i int) (int, error) {
	if i < 0 || i >= len(s.items) {
		return 0, &IndexError{Index: i, Size: len(s.items)}
	}
	return len(s.items) - 1 - i, nil
}
