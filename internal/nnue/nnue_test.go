package nnue

import (
	"strings"
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

func newTestNetwork() *Network {
	net := NewNetwork()
	net.InitRandom(42)
	return net
}

// TestIncrementalMatchesScratch checks that evaluation returns
// the same score through the incremental update path as through a
// from-scratch recomputation, across a short sequence of moves.
func TestIncrementalMatchesScratch(t *testing.T) {
	net := newTestNetwork()

	pos, err := board.ParseFEN(board.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	ev := NewEvaluatorForNetwork(net)
	ev.Refresh(pos)

	for ply := 0; ply < 8; ply++ {
		var moves board.MoveList
		pos.GenerateLegalMoves(&moves)
		if moves.Len() == 0 {
			break
		}
		m := moves.Get(ply % moves.Len())

		ev.Push()
		undo := pos.MakeMove(m)
		changes := undo.NNUEChanges
		ev.Update(pos, &changes)

		incremental := ev.Evaluate(pos)

		scratch := NewEvaluatorForNetwork(net)
		scratch.Refresh(pos)
		fromScratch := scratch.Evaluate(pos)

		if incremental != fromScratch {
			t.Fatalf("ply %d: incremental eval %d != from-scratch eval %d (move %v)", ply, incremental, fromScratch, m)
		}
	}
}

// mirrorFEN reflects a FEN vertically and swaps piece colors, side to move,
// castling rights and the en passant square — the "other side's view of the
// same position" used by TestEvaluateMirrorSymmetry.
func mirrorFEN(fen string) string {
	fields := strings.Fields(fen)
	ranks := strings.Split(fields[0], "/")
	mirroredRanks := make([]string, len(ranks))
	for i, r := range ranks {
		mirroredRanks[len(ranks)-1-i] = swapPieceCase(r)
	}

	side := "b"
	if fields[1] == "b" {
		side = "w"
	}

	castle := "-"
	if fields[2] != "-" {
		var b strings.Builder
		for _, c := range fields[2] {
			switch c {
			case 'K':
				b.WriteByte('k')
			case 'Q':
				b.WriteByte('q')
			case 'k':
				b.WriteByte('K')
			case 'q':
				b.WriteByte('Q')
			}
		}
		castle = b.String()
	}

	ep := "-"
	if fields[3] != "-" {
		file := fields[3][0]
		rank := int(fields[3][1] - '0')
		mirroredRank := byte('0' + (9 - rank))
		ep = string(file) + string(mirroredRank)
	}

	result := strings.Join(mirroredRanks, "/") + " " + side + " " + castle + " " + ep
	if len(fields) > 4 {
		result += " " + strings.Join(fields[4:], " ")
	}
	return result
}

func swapPieceCase(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		case c >= 'A' && c <= 'Z':
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

// TestEvaluateMirrorSymmetry checks mirror symmetry. The HalfKP feature
// formula is defined relative to each perspective's own/opponent pieces,
// so swapping colors and mirroring the board exactly
// swaps which accumulator plays the "side to move" role; the resulting
// score is identical for any weight set, not only a symmetrically trained
// one, which makes this test unconditional rather than gated.
func TestEvaluateMirrorSymmetry(t *testing.T) {
	net := newTestNetwork()

	positions := []string{
		board.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"8/8/8/4k3/8/4N3/4K3/8 w - - 0 1",
	}

	for _, fen := range positions {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		mirrored, err := board.ParseFEN(mirrorFEN(fen))
		if err != nil {
			t.Fatalf("ParseFEN(mirrorFEN(%q)=%q): %v", fen, mirrorFEN(fen), err)
		}

		ev := NewEvaluatorForNetwork(net)
		ev.Refresh(pos)
		score := ev.Evaluate(pos)

		mirroredEv := NewEvaluatorForNetwork(net)
		mirroredEv.Refresh(mirrored)
		mirroredScore := mirroredEv.Evaluate(mirrored)

		if score != mirroredScore {
			t.Errorf("position %q: evaluate=%d, mirrored evaluate=%d (mirrored FEN %q)", fen, score, mirroredScore, mirrorFEN(fen))
		}
	}
}
