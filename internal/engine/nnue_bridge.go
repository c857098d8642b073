package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// nnueEvaluate returns the NNUE evaluation for the worker's current position,
// from the side to move's perspective.
func (w *Worker) nnueEvaluate() int {
	return w.nnueEval.Evaluate(w.pos)
}

// nnuePush saves the accumulator state before MakeMove, mirroring the
// search's undo stack.
func (w *Worker) nnuePush() {
	if w.useNNUE && w.nnueEval != nil {
		w.nnueEval.Push()
	}
}

// nnueUpdate brings the accumulator up to date for the position that resulted
// from MakeMove, using the dirty-piece list MakeMove recorded on undo. Call
// immediately after MakeMove succeeds.
func (w *Worker) nnueUpdate(undo *board.UndoInfo) {
	if w.useNNUE && w.nnueEval != nil {
		w.nnueEval.Update(w.pos, &undo.NNUEChanges)
	}
}

// nnuePop restores the accumulator state saved by the matching nnuePush,
// called after UnmakeMove.
func (w *Worker) nnuePop() {
	if w.useNNUE && w.nnueEval != nil {
		w.nnueEval.Pop()
	}
}

// resetNNUEAccumulators clears the worker's accumulator stack, forcing a
// full recompute on the next evaluate() call. Used when a new search starts.
func (w *Worker) resetNNUEAccumulators() {
	if w.nnueEval != nil {
		w.nnueEval.Reset()
	}
}
