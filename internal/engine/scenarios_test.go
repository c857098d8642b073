package engine

import (
	"testing"
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// TestEndgameC6C7Conversion checks that from a simple
// king-and-pawn endgame with a clear winning push, the engine must find it
// and recognize its size at sufficient depth.
func TestEndgameC6C7Conversion(t *testing.T) {
	pos, err := board.ParseFEN("2k5/8/1pP1K3/1P6/8/8/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	eng := NewEngine(16)
	results := eng.SearchMultiPV(pos, SearchLimits{
		Depth:    12,
		MoveTime: 10 * time.Second,
	})
	if len(results) == 0 {
		t.Fatal("SearchMultiPV returned no results")
	}

	best := results[0]
	wantMove := board.NewMove(board.C6, board.C7, board.Pawn)
	if best.Move != wantMove {
		t.Errorf("best move = %s, want c6c7", best.Move.String())
	}
	if best.Score < 800 {
		t.Errorf("score = %d, want >= 800cp", best.Score)
	}
}

// TestMateInTwo checks that a forced mate within two
// plies must be found (and reported with a mate score) at shallow depth.
func TestMateInTwo(t *testing.T) {
	pos, err := board.ParseFEN("r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	eng := NewEngine(16)
	results := eng.SearchMultiPV(pos, SearchLimits{
		Depth:    4,
		MoveTime: 5 * time.Second,
	})
	if len(results) == 0 {
		t.Fatal("SearchMultiPV returned no results")
	}

	best := results[0]
	if best.Move == board.NoMove {
		t.Fatal("no move returned for a position with a forced mate")
	}
	if best.Score < MateScore-100 {
		t.Errorf("score = %d, want a mate score (> %d)", best.Score, MateScore-100)
	}
}

// TestKNKDraw checks that a king-and-knight-vs-king
// position, which has insufficient material for either side to mate, must
// always score as a draw.
func TestKNKDraw(t *testing.T) {
	pos, err := board.ParseFEN("8/8/8/4k3/8/4N3/4K3/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.IsInsufficientMaterial() {
		t.Fatal("test position should be recognized as insufficient material")
	}

	eng := NewEngine(16)
	for depth := 1; depth <= 6; depth++ {
		results := eng.SearchMultiPV(pos, SearchLimits{
			Depth:    depth,
			MoveTime: time.Second,
		})
		if len(results) == 0 {
			continue
		}
		if got := results[0].Score; got != 0 {
			t.Errorf("depth %d: score = %d, want 0 (K+N+K is a draw)", depth, got)
		}
	}
}

// TestRepetitionDraw checks that repeating a position within the search
// window scores as a draw.
func TestRepetitionDraw(t *testing.T) {
	pos := board.NewPosition()
	pos.SetSearchRoot()

	// A knight shuffle, rather than a king shuffle, so castling rights (part
	// of the hash) are never disturbed. The position after 1.Nf3 comes back
	// at ply 5, the first repetition inside the search, and IsDraw reports
	// it. The return to the starting position at ply 4 is not reported:
	// History holds only post-move hashes, so the root position is not in it.
	cycle := []board.Move{
		board.NewMove(board.G1, board.F3, board.Knight),
		board.NewMove(board.G8, board.F6, board.Knight),
		board.NewMove(board.F3, board.G1, board.Knight),
		board.NewMove(board.F6, board.G8, board.Knight),
	}
	shuffle := append(append([]board.Move{}, cycle...), cycle[0])

	var undos []board.UndoInfo
	for i, m := range shuffle {
		undos = append(undos, pos.MakeMove(m))
		if i < len(shuffle)-1 && pos.IsDraw() {
			t.Fatalf("position should not be a draw yet after %d plies", i+1)
		}
	}

	if !pos.IsDraw() {
		t.Error("position repeated within the search window should be a draw")
	}

	for i := len(shuffle) - 1; i >= 0; i-- {
		pos.UnmakeMove(shuffle[i], undos[i])
	}
}

// tacticalPositions are sharp positions with one clearly-best move, used by
// TestThreadScalingDoesNotRegress to compare single- and multi-threaded search.
var tacticalPositions = []string{
	"r1bqkb1r/pppp1Qpp/2n2n2/4p3/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"2k5/8/1pP1K3/1P6/8/8/8/8 w - - 0 1",
	"rnbqkb1r/pp1p1ppp/2p2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 0 1",
	"6k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1",
}

// TestThreadScalingDoesNotRegress checks that raising
// the worker count must not make the engine's root score worse on tactical
// positions (same or better terminal score within the aspiration window).
func TestThreadScalingDoesNotRegress(t *testing.T) {
	if testing.Short() {
		t.Skip("multi-threaded scaling comparison is slow; skipped with -short")
	}

	savedWorkers := NumWorkers
	defer func() { NumWorkers = savedWorkers }()

	limits := SearchLimits{Depth: 8, MoveTime: 3 * time.Second}

	// runSearch drives the Lazy-SMP path and reports the move and the score
	// from the deepest completed iteration via the info callback.
	runSearch := func(workers int, fen string) (board.Move, int, bool) {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		NumWorkers = workers
		eng := NewEngine(16)
		var lastScore int
		var reported bool
		eng.OnInfo = func(info SearchInfo) {
			lastScore = info.Score
			reported = true
		}
		move := eng.SearchWithLimits(pos, limits)
		return move, lastScore, reported && move != board.NoMove
	}

	for _, fen := range tacticalPositions {
		_, oneScore, oneOK := runSearch(1, fen)
		_, fourScore, fourOK := runSearch(4, fen)

		if !oneOK || !fourOK {
			t.Errorf("%q: missing results (1-thread ok=%v, 4-thread ok=%v)", fen, oneOK, fourOK)
			continue
		}

		const aspirationWindow = 50 // cp
		if fourScore < oneScore-aspirationWindow {
			t.Errorf("%q: 4-thread score %d regressed past aspiration window vs 1-thread score %d",
				fen, fourScore, oneScore)
		}
	}
}
