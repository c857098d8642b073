package nnue

import "github.com/hailam/chessplay/internal/board"

// Accumulator stores the accumulated hidden layer values for incremental updates.
// Each side has its own accumulator from its perspective.
type Accumulator struct {
	// Hidden layer values for white and black perspectives
	// Stored as int16 for quantized arithmetic
	White [L1Size]int16
	Black [L1Size]int16

	// Track if accumulator is computed
	Computed bool
}

// AccumulatorStack manages accumulators during search. Each ply owns its own
// Accumulator value; Push clones the current top so the new ply starts from
// its parent's state and can be updated incrementally in place.
type AccumulatorStack struct {
	stack [128]Accumulator // One per ply
	top   int
}

// NewAccumulatorStack creates a new accumulator stack.
func NewAccumulatorStack() *AccumulatorStack {
	return &AccumulatorStack{}
}

// Push saves current accumulator state.
func (s *AccumulatorStack) Push() {
	if s.top < 127 {
		s.stack[s.top+1] = s.stack[s.top]
		s.top++
	}
}

// Pop restores previous accumulator state.
func (s *AccumulatorStack) Pop() {
	if s.top > 0 {
		s.top--
	}
}

// Current returns the current accumulator.
func (s *AccumulatorStack) Current() *Accumulator {
	return &s.stack[s.top]
}

// Reset resets the stack to initial state.
func (s *AccumulatorStack) Reset() {
	s.top = 0
	s.stack[0].Computed = false
}

// ComputeFull computes the accumulator from scratch for a position.
func (acc *Accumulator) ComputeFull(pos *board.Position, net *Network) {
	whiteFeatures, blackFeatures := GetActiveFeatures(pos)

	copy(acc.White[:], net.L1Bias[:])
	copy(acc.Black[:], net.L1Bias[:])

	for _, idx := range whiteFeatures {
		if idx >= 0 && idx < HalfKPSize {
			for i := 0; i < L1Size; i++ {
				acc.White[i] += net.L1Weights[idx][i]
			}
		}
	}

	for _, idx := range blackFeatures {
		if idx >= 0 && idx < HalfKPSize {
			for i := 0; i < L1Size; i++ {
				acc.Black[i] += net.L1Weights[idx][i]
			}
		}
	}

	acc.Computed = true
}

// UpdateIncremental brings the current accumulator (already holding the
// parent ply's values, via Push) up to date for pos using the dirty-piece
// list MakeMove recorded for the move that produced pos. A king move (or an
// uncomputed parent) forces a full recomputation; otherwise only the
// touched squares' features are added or removed, so the cost is
// proportional to the changed pieces, not to all pieces.
func (acc *Accumulator) UpdateIncremental(pos *board.Position, changes *board.NNUEChangeList, net *Network) {
	if !acc.Computed || changes.KingMoved() {
		acc.ComputeFull(pos, net)
		return
	}

	whiteAdd, whiteRem, blackAdd, blackRem := changedIndices(changes, pos.KingSquare[board.White], pos.KingSquare[board.Black])

	for _, idx := range whiteRem {
		for i := 0; i < L1Size; i++ {
			acc.White[i] -= net.L1Weights[idx][i]
		}
	}
	for _, idx := range blackRem {
		for i := 0; i < L1Size; i++ {
			acc.Black[i] -= net.L1Weights[idx][i]
		}
	}
	for _, idx := range whiteAdd {
		for i := 0; i < L1Size; i++ {
			acc.White[i] += net.L1Weights[idx][i]
		}
	}
	for _, idx := range blackAdd {
		for i := 0; i < L1Size; i++ {
			acc.Black[i] += net.L1Weights[idx][i]
		}
	}
}
