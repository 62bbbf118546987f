package testutil

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceRand_ReturnsDrawsInOrder(t *testing.T) {
	r := NewSequenceRand(2, 5, 0)

	assert.Equal(t, 2, r.IntN(6))
	assert.Equal(t, 5, r.IntN(6))
	assert.Equal(t, 0, r.IntN(6))
	assert.Equal(t, 3, r.Calls())
}

func TestSequenceRand_Wraps(t *testing.T) {
	r := NewSequenceRand(1, 2)

	assert.Equal(t, 1, r.IntN(10))
	assert.Equal(t, 2, r.IntN(10))
	assert.Equal(t, 1, r.IntN(10), "sequence wraps after the last draw")
}

func TestSequenceRand_ReducesIntoRange(t *testing.T) {
	r := NewSequenceRand(7, -1)

	assert.Equal(t, 1, r.IntN(6))
	assert.Equal(t, 5, r.IntN(6), "negative draws are folded into [0, n)")
}

func TestSequenceRand_Uint64(t *testing.T) {
	r := NewSequenceRand(3, -1)

	assert.Equal(t, uint64(3), r.Uint64())
	assert.Equal(t, uint64(math.MaxUint64), r.Uint64())
	assert.Equal(t, 2, r.Calls())
}

func TestSequenceRand_Empty(t *testing.T) {
	r := NewSequenceRand()
	assert.Equal(t, 0, r.IntN(100))
}

func TestSequenceRand_PanicsOnNonPositive(t *testing.T) {
	r := NewSequenceRand(1)
	assert.Panics(t, func() { r.IntN(0) })
}

func TestSequenceRand_Reset(t *testing.T) {
	r := NewSequenceRand(4, 8)
	r.IntN(10)
	r.IntN(10)

	r.Reset()
	assert.Equal(t, 0, r.Calls())
	assert.Equal(t, 4, r.IntN(10))
}

func TestSequenceRand_ThreadSafe(t *testing.T) {
	r := NewSequenceRand(1, 2, 3)
	const goroutines = 50

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := r.IntN(3)
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, 3)
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, r.Calls())
}
