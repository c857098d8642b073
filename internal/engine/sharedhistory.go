package engine

import "sync/atomic"

// SharedHistory is a from/to history table shared across all Lazy-SMP
// workers, so a cutoff found by one worker's thread immediately sharpens
// move ordering for every other worker searching the same position tree.
// Entries are plain atomics rather than a mutex-guarded table: history is a
// heuristic, so the occasional torn read under contention is harmless.
type SharedHistory struct {
	scores [64][64]atomic.Int32
}

// NewSharedHistory creates an empty shared history table.
func NewSharedHistory() *SharedHistory {
	return &SharedHistory{}
}

// Get returns the current shared history score for a from/to pair.
func (sh *SharedHistory) Get(from, to int) int {
	return int(sh.scores[from][to].Load())
}

// Update adds bonus to the shared history score for a from/to pair,
// clamping to prevent unbounded growth over a long search.
func (sh *SharedHistory) Update(from, to, bonus int) {
	v := sh.scores[from][to].Add(int32(bonus))
	if v > 400000 {
		sh.scores[from][to].Store(400000)
	} else if v < -400000 {
		sh.scores[from][to].Store(-400000)
	}
}

// Clear resets all shared history scores.
func (sh *SharedHistory) Clear() {
	for i := range sh.scores {
		for j := range sh.scores[i] {
			sh.scores[i][j].Store(0)
		}
	}
}
