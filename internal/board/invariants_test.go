package board

import (
	"reflect"
	"testing"
)

// invariantFENs is a handful of structurally distinct positions (quiet
// middlegame, castling rights on both sides, an en passant target, and a
// position with pins) exercised by the round-trip and zobrist invariant
// tests below.
var invariantFENs = []string{
	StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
	"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
}

// TestMakeUnmakeRoundTrip checks that MakeMove followed by UnmakeMove
// restores the position byte-for-byte, including zobrist keys,
// pawn key, ep square, castling rights, fifty-move counter and history.
func TestMakeUnmakeRoundTrip(t *testing.T) {
	for _, fen := range invariantFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		var moves MoveList
		pos.GenerateLegalMoves(&moves)

		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			before := pos.Copy()

			undo := pos.MakeMove(m)
			pos.UnmakeMove(m, undo)

			if !reflect.DeepEqual(before, pos) {
				t.Fatalf("position %q, move %v: round trip mismatch\nbefore: %+v\nafter:  %+v", fen, m, before, pos)
			}
		}
	}
}

// TestZobristIncrementalMatchesScratch checks that the incrementally
// maintained hash after any sequence of MakeMove/UnmakeMove
// equals a from-scratch recomputation.
func TestZobristIncrementalMatchesScratch(t *testing.T) {
	for _, fen := range invariantFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		if got, want := pos.Hash, pos.ComputeHash(); got != want {
			t.Fatalf("position %q: initial hash %x != scratch %x", fen, got, want)
		}

		var walk func(p *Position, depth int)
		walk = func(p *Position, depth int) {
			if depth == 0 {
				return
			}
			var moves MoveList
			p.GenerateLegalMoves(&moves)
			for i := 0; i < moves.Len(); i++ {
				m := moves.Get(i)
				undo := p.MakeMove(m)
				if got, want := p.Hash, p.ComputeHash(); got != want {
					t.Fatalf("position %q, move %v: incremental hash %x != scratch %x", fen, m, got, want)
				}
				walk(p, depth-1)
				p.UnmakeMove(m, undo)
			}
		}
		walk(pos, 3)
	}
}

// TestIsValidAcceptsGeneratedMoves checks that IsValid and IsLegal both
// accept every move the generator emits.
func TestIsValidAcceptsGeneratedMoves(t *testing.T) {
	for _, fen := range invariantFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		var moves MoveList
		pos.GenerateLegalMoves(&moves)
		for i := 0; i < moves.Len(); i++ {
			m := moves.Get(i)
			if !pos.IsValid(m) {
				t.Errorf("position %q: generated move %v rejected by IsValid", fen, m)
			}
			if !pos.IsLegal(m) {
				t.Errorf("position %q: generated move %v rejected by IsLegal", fen, m)
			}
		}
	}
}

// TestIsValidRejectsArbitraryMoveWords checks that a move word not among
// the generated moves for the position never passes IsValid, whatever its
// bit pattern decodes to. 200,000 pseudo-random 32-bit words are tried
// against the generated set of each test position.
func TestIsValidRejectsArbitraryMoveWords(t *testing.T) {
	for _, fen := range invariantFENs {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		var generated MoveList
		if pos.InCheck() {
			pos.GenCheckEvasions(&generated)
		} else {
			pos.GenCaptures(&generated)
			pos.GenQuiets(&generated)
		}

		// A deterministic xorshift walk over the move-word space; seeds
		// chosen so from/to/type/piece fields all vary.
		word := uint32(0x9E3779B9)
		for i := 0; i < 200000; i++ {
			word ^= word << 13
			word ^= word >> 17
			word ^= word << 5
			m := Move(word)
			if generated.Contains(m) {
				continue
			}
			if pos.IsValid(m) {
				t.Fatalf("position %q: arbitrary move word %#x (%v, type %d) passed IsValid", fen, word, m, m.Type())
			}
		}
	}
}

// TestIsLegalRejectsIllegalMoves checks that IsLegal rejects moves that leave the mover's own king in check even though
// they are otherwise well-formed move words.
func TestIsLegalRejectsIllegalMoves(t *testing.T) {
	// King on a1, attacked by a rook on h1 along the back rank; stepping to
	// b1 stays on the attacked rank and is illegal.
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/K6r w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if m := NewMove(A1, B1, King); pos.IsLegal(m) {
		t.Errorf("king move along an attacked rank should be illegal, got legal: %v", m)
	}
	if m := NewMove(A1, A2, King); !pos.IsLegal(m) {
		t.Errorf("king move off the attacked rank should be legal, got illegal: %v", m)
	}

	// A rook pinned to its own king along the a-file cannot step off that
	// file, even onto an empty square, but may still move along it.
	pinned, err := ParseFEN("r3k3/8/8/8/8/8/R7/K7 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if m := NewMove(A2, B2, Rook); pinned.IsLegal(m) {
		t.Errorf("pinned rook moving off the pin file should be illegal, got legal: %v", m)
	}
	if m := NewMove(A2, A3, Rook); !pinned.IsLegal(m) {
		t.Errorf("pinned rook moving along the pin file should be legal, got illegal: %v", m)
	}
}
