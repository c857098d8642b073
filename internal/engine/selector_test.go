package engine

import (
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

// drainSelector collects every move a selector yields, in order.
func drainSelector(sel *Selector) []board.Move {
	var out []board.Move
	for m := sel.Next(); m != board.NoMove; m = sel.Next() {
		out = append(out, m)
	}
	return out
}

// TestSelectorYieldsTTMoveFirst checks that a validated transposition move
// is the first move out of the selector and is never repeated later.
func TestSelectorYieldsTTMoveFirst(t *testing.T) {
	pos, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	ttMove, err := board.ParseMove("e2e4", pos)
	if err != nil {
		t.Fatal(err)
	}

	sel := NewSelector(pos, NewMoveOrderer(), ttMove, board.NoMove, 0, false)
	yielded := drainSelector(sel)

	if len(yielded) == 0 || yielded[0] != ttMove {
		t.Fatalf("expected TT move %v first, got %v", ttMove, yielded)
	}
	for i, m := range yielded[1:] {
		if m == ttMove {
			t.Fatalf("TT move yielded again at position %d", i+1)
		}
	}
}

// TestSelectorCoversAllLegalMoves checks that across its stages the selector
// yields a superset of the legal moves and no duplicates, in several
// structurally distinct positions.
func TestSelectorCoversAllLegalMoves(t *testing.T) {
	fens := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
		"4k3/8/8/8/4N2b/8/8/4K3 w - - 0 1", // in check: king steps and knight blocks
	}
	for _, fen := range fens {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		sel := NewSelector(pos, NewMoveOrderer(), board.NoMove, board.NoMove, 0, false)
		yielded := drainSelector(sel)

		seen := make(map[board.Move]bool, len(yielded))
		for _, m := range yielded {
			if seen[m] {
				t.Errorf("position %q: move %v yielded twice", fen, m)
			}
			seen[m] = true
		}

		var legal board.MoveList
		pos.GenerateLegalMoves(&legal)
		for i := 0; i < legal.Len(); i++ {
			if !seen[legal.Get(i)] {
				t.Errorf("position %q: legal move %v never yielded", fen, legal.Get(i))
			}
		}
	}
}

// TestSelectorDefersLosingCaptures checks the staging order: a capture that
// loses material outright is yielded after the quiet moves, not among the
// early captures.
func TestSelectorDefersLosingCaptures(t *testing.T) {
	// Qxd5 wins a pawn but the pawn is defended by the e6 pawn: SEE < 0.
	pos, err := board.ParseFEN("4k3/8/4p3/3p4/8/3Q4/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	losing, err := board.ParseMove("d3d5", pos)
	if err != nil {
		t.Fatal(err)
	}
	if SEE(pos, losing) >= 0 {
		t.Fatalf("expected Qxd5 to be SEE-losing, got %d", SEE(pos, losing))
	}

	sel := NewSelector(pos, NewMoveOrderer(), board.NoMove, board.NoMove, 0, false)
	yielded := drainSelector(sel)

	idx := -1
	firstQuiet := -1
	for i, m := range yielded {
		if m == losing {
			idx = i
		}
		if firstQuiet == -1 && m.IsQuiet() {
			firstQuiet = i
		}
	}
	if idx == -1 {
		t.Fatal("losing capture never yielded")
	}
	if firstQuiet == -1 || idx < firstQuiet {
		t.Fatalf("losing capture yielded at %d, before first quiet at %d", idx, firstQuiet)
	}
}

// TestSelectorCapturesOnlySkipsQuiets checks quiescence mode: no quiet move
// is yielded when the side to move is not in check.
func TestSelectorCapturesOnlySkipsQuiets(t *testing.T) {
	pos, err := board.ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -")
	if err != nil {
		t.Fatal(err)
	}

	sel := NewSelector(pos, NewMoveOrderer(), board.NoMove, board.NoMove, 0, true)
	for _, m := range drainSelector(sel) {
		if m.IsQuiet() {
			t.Errorf("captures-only selector yielded quiet move %v", m)
		}
	}
}
