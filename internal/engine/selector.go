package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// selectorStage enumerates the stages a Selector advances through. There is
// no fall-through: each call to Next loops until a stage yields a move or
// the machine reaches stageDone.
type selectorStage uint8

const (
	stageTT selectorStage = iota
	stageGenCaptures
	stageCaptures
	stageGenQuiets
	stageQuiets
	stageLate
	stageGenEvasions
	stageEvasions
	stageDone
)

// Selector yields moves for one search node lazily, one at a time, in the
// order the search wants to try them: the transposition move first, then
// winning captures and queen promotions by MVV/LVA, then quiets by
// killer/counter/history score, and finally the deferred losing captures
// and under-promotions in FIFO order. In check it switches to scored
// evasions. Generation is staged so a node that cuts off on the TT move or
// an early capture never pays for quiet generation at all.
//
// Yielded moves are pseudo-legal (except the TT move, which the caller
// validates before construction); the caller filters with IsPseudoLegal.
type Selector struct {
	pos          *board.Position
	orderer      *MoveOrderer
	ttMove       board.Move
	prevMove     board.Move
	ply          int
	capturesOnly bool
	inCheck      bool

	stage  selectorStage
	moves  board.MoveList
	scores []int
	idx    int

	// Deferred under-promotions and SEE-losing captures, yielded last.
	late    board.MoveList
	lateIdx int
}

// NewSelector prepares a selector for the current node. ttMove must already
// have been validated against the position (IsValid + IsPseudoLegal) or be
// NoMove. With capturesOnly set, the quiet stage is skipped entirely, which
// is what quiescence wants; check evasions are still generated in full.
func NewSelector(pos *board.Position, orderer *MoveOrderer, ttMove, prevMove board.Move, ply int, capturesOnly bool) *Selector {
	return &Selector{
		pos:          pos,
		orderer:      orderer,
		ttMove:       ttMove,
		prevMove:     prevMove,
		ply:          ply,
		capturesOnly: capturesOnly,
		inCheck:      pos.InCheck(),
		stage:        stageTT,
	}
}

// Next returns the next move to try, or NoMove when exhausted.
func (s *Selector) Next() board.Move {
	for {
		switch s.stage {
		case stageTT:
			s.stage = stageGenCaptures
			if s.ttMove == board.NoMove {
				continue
			}
			// Captures-only callers still take a quiet TT move when in
			// check: evasions include quiets.
			if s.capturesOnly && !s.inCheck && s.ttMove.IsQuiet() {
				continue
			}
			return s.ttMove

		case stageGenCaptures:
			if s.inCheck {
				s.stage = stageGenEvasions
				continue
			}
			s.moves.Clear()
			s.pos.GenCaptures(&s.moves)
			s.scores = s.orderer.ScoreMoves(s.pos, &s.moves, s.ply, s.ttMove)
			s.idx = 0
			s.stage = stageCaptures

		case stageCaptures:
			if s.idx >= s.moves.Len() {
				s.stage = stageGenQuiets
				continue
			}
			PickMove(&s.moves, s.scores, s.idx)
			m := s.moves.Get(s.idx)
			s.idx++
			if m == s.ttMove {
				continue
			}
			if m.IsPromotion() && m.Promotion() != board.Queen {
				s.late.Add(m)
				continue
			}
			if m.IsCapture() && SEE(s.pos, m) < 0 {
				s.late.Add(m)
				continue
			}
			return m

		case stageGenQuiets:
			if s.capturesOnly {
				s.stage = stageLate
				continue
			}
			s.moves.Clear()
			s.pos.GenQuiets(&s.moves)
			s.scores = s.orderer.ScoreMovesWithCounter(s.pos, &s.moves, s.ply, s.ttMove, s.prevMove)
			s.idx = 0
			s.stage = stageQuiets

		case stageQuiets:
			if s.idx >= s.moves.Len() {
				s.stage = stageLate
				continue
			}
			PickMove(&s.moves, s.scores, s.idx)
			m := s.moves.Get(s.idx)
			s.idx++
			if m == s.ttMove {
				continue
			}
			return m

		case stageLate:
			if s.lateIdx >= s.late.Len() {
				s.stage = stageDone
				continue
			}
			m := s.late.Get(s.lateIdx)
			s.lateIdx++
			return m

		case stageGenEvasions:
			s.moves.Clear()
			s.pos.GenCheckEvasions(&s.moves)
			s.scores = s.orderer.ScoreMoves(s.pos, &s.moves, s.ply, s.ttMove)
			s.idx = 0
			s.stage = stageEvasions

		case stageEvasions:
			if s.idx >= s.moves.Len() {
				s.stage = stageDone
				continue
			}
			PickMove(&s.moves, s.scores, s.idx)
			m := s.moves.Get(s.idx)
			s.idx++
			if m == s.ttMove {
				continue
			}
			return m

		default:
			return board.NoMove
		}
	}
}
