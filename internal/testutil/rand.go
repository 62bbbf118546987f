package testutil

import "sync"

// SequenceRand is a deterministic random source for tests.
//
// IntN returns the configured draws in order, each reduced modulo n so it
// always lies in [0, n). Uint64 returns the same draws converted to uint64,
// so a negative draw lands at the top of the range. After the last draw the sequence wraps around.
// An empty sequence always returns 0.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequenceRand struct {
	mu    sync.Mutex
	draws []int
	idx   int
	calls int
}

// NewSequenceRand creates a source returning draws in order.
//
// Example:
//
//	r := NewSequenceRand(2, 5)
//	r.IntN(6) // 2
//	r.IntN(6) // 5
//	r.IntN(6) // 2 (wrapped)
func NewSequenceRand(draws ...int) *SequenceRand {
	d := make([]int, len(draws))
	copy(d, draws)
	return &SequenceRand{draws: d}
}

// IntN returns the next draw reduced into [0, n).
// Panics if n <= 0, matching math/rand/v2.
func (r *SequenceRand) IntN(n int) int {
	if n <= 0 {
		panic("invalid argument to IntN")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if len(r.draws) == 0 {
		return 0
	}
	v := r.draws[r.idx%len(r.draws)]
	r.idx++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Uint64 returns the next draw converted to uint64.
func (r *SequenceRand) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if len(r.draws) == 0 {
		return 0
	}
	v := r.draws[r.idx%len(r.draws)]
	r.idx++
	return uint64(v)
}

// Calls returns how many draws have been taken.
func (r *SequenceRand) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Reset rewinds the sequence to its first draw.
func (r *SequenceRand) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idx = 0
	r.calls = 0
}
