//go:build !classical

// This file backs the default (non-classical) build: a minimal material
// count, used only until an NNUE network is loaded via Engine.LoadNNUE.
// Once loaded, Worker.evaluate dispatches to the NNUE accumulator instead
// of ever calling these functions; they exist so the engine still produces
// a legal evaluation before a network file is supplied.
package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

const tempoBonus = 10

// Evaluate returns a material-only evaluation from the side to move's
// perspective, as negamax expects. It is the fallback used by the default
// build before an NNUE network has been loaded; see internal/nnue for the
// evaluator actually used once one is.
func Evaluate(pos *board.Position) int {
	score := EvaluateMaterial(pos)
	if pos.SideToMove == board.Black {
		score = -score
	}
	return score + tempoBonus
}

// EvaluateWithPawnTable mirrors Evaluate's signature for callers that cache
// pawn-structure scores under the classical build; the material-only
// fallback has no pawn structure term, so the table is unused here.
func EvaluateWithPawnTable(pos *board.Position, pawnTable *PawnTable) int {
	return Evaluate(pos)
}
