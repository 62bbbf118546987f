package stack

// History is a last-in-first-out record of whole-stack snapshots used for undo.
//
// Snapshots are stored as clones, so later mutation of the stack that was
// pushed never changes what Pop returns.
type History struct {
	snapshots []*Stack
	limit     int
}

// NewHistory creates an undo history holding at most limit snapshots.
// A limit of 0 means unbounded. When a bounded history is full, the oldest
// snapshot is evicted.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// Push records a copy of s as the most recent snapshot.
func (h *History) Push(s *Stack) {
	if h.limit > 0 && len(h.snapshots) >= h.limit {
		h.snapshots = h.snapshots[1:]
	}
	h.snapshots = append(h.snapshots, s.Clone())
}

// Pop removes and returns the most recent snapshot.
// Returns false when the history is empty.
func (h *History) Pop() (*Stack, bool) {
	if len(h.snapshots) == 0 {
		return nil, false
	}
	last := len(h.snapshots) - 1
	s := h.snapshots[last]
	h.snapshots[last] = nil
	h.snapshots = h.snapshots[:last]
	return s, true
}

// Len returns the number of snapshots held.
func (h *History) Len() int {
	return len(h.snapshots)
}

// Snapshots returns copies of all snapshots, most recent first.
func (h *History) Snapshots() []*Stack {
	out := make([]*Stack, 0, len(h.snapshots))
	for i := len(h.snapshots) - 1; i >= 0; i-- {
		out = append(out, h.snapshots[i].Clone())
	}
	return out
}

// Clear drops every snapshot.
func (h *History) Clear() {
	h.snapshots = nil
}
