package engine

import (
	"sync/atomic"

	"github.com/hailam/chessplay/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// PVTable stores the principal variation as a triangular array: pv[ply][i]
// holds the move at position i of the line rooted at ply, with length[ply]
// giving the valid prefix. When a move raises alpha, negamax copies the
// child's suffix up into the row for ply.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher is a single-threaded search handle used for Multi-PV analysis:
// each additional line is found by excluding the moves already reported at
// the root and re-running iterative deepening. It is backed by its own
// Worker so it shares the exact search routine (and TT) the Lazy-SMP workers
// use, rather than duplicating search logic.
type Searcher struct {
	worker *Worker
}

// NewSearcher creates a Searcher with a dedicated Worker sharing the given
// transposition table and history tables.
func NewSearcher(tt *TranspositionTable, pawnTable *PawnTable, sharedHistory *SharedHistory, stopFlag *atomic.Bool) *Searcher {
	return &Searcher{
		worker: NewWorker(-1, tt, pawnTable, sharedHistory, stopFlag),
	}
}

// Reset resets the underlying worker for a new search.
func (s *Searcher) Reset() {
	s.worker.Reset()
}

// SetExcludedMoves excludes the given root moves, used to find the Nth PV
// after the first N-1 have already been reported.
func (s *Searcher) SetExcludedMoves(moves []board.Move) {
	s.worker.SetExcludedMoves(moves)
}

// SetRootHistory sets the game history hashes for repetition detection.
func (s *Searcher) SetRootHistory(hashes []uint64) {
	s.worker.SetRootHistory(hashes)
}

// Search runs one iteration of the worker's search at the given depth over
// a dedicated copy of pos and returns the best move and its score.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.worker.InitSearch(pos.Copy())
	return s.worker.SearchDepth(depth, -Infinity, Infinity)
}

// IsStopped reports whether the search was aborted.
func (s *Searcher) IsStopped() bool {
	return s.worker.stopped()
}

// Stop requests abort of the in-progress search.
func (s *Searcher) Stop() {
	s.worker.stopFlag.Store(true)
}

// ClearOrderer clears move-ordering heuristics (killers/counters/history).
func (s *Searcher) ClearOrderer() {
	s.worker.orderer.Clear()
}

// GetPV returns the principal variation from the last completed search.
func (s *Searcher) GetPV() []board.Move {
	return s.worker.GetPV()
}
