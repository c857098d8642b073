package engine

import (
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

func TestTTStoreAndProbeRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)

	hash := uint64(0x1234567890ABCDEF)
	move := board.NewMove(board.E2, board.E4, board.Pawn)

	tt.Store(hash, 8, 123, TTExact, move, true)

	entry, ok := tt.Probe(hash)
	if !ok {
		t.Fatal("expected probe hit after store")
	}
	if entry.BestMove != move {
		t.Errorf("BestMove = %v, want %v", entry.BestMove, move)
	}
	if int(entry.Score) != 123 {
		t.Errorf("Score = %d, want 123", entry.Score)
	}
	if entry.Flag != TTExact {
		t.Errorf("Flag = %v, want TTExact", entry.Flag)
	}
	if entry.Depth != 8 {
		t.Errorf("Depth = %d, want 8", entry.Depth)
	}
}

func TestTTProbeMissOnDifferentKey(t *testing.T) {
	tt := NewTranspositionTable(1)

	bucketHash := uint64(0x1111111111111111)
	tt.Store(bucketHash, 4, 10, TTExact, board.NoMove, false)

	// Same bucket index, different key fragment (upper 32 bits) must miss.
	collidingKeyHash := (bucketHash & 0x00000000FFFFFFFF) | (uint64(0xDEADBEEF) << 32)
	if _, ok := tt.Probe(collidingKeyHash); ok {
		t.Error("expected probe miss for a different key fragment in the same bucket")
	}
}

func TestTTStorePreservesMoveOnNoMoveUpdate(t *testing.T) {
	tt := NewTranspositionTable(1)

	hash := uint64(0xAAAABBBBCCCCDDDD)
	move := board.NewMove(board.G1, board.F3, board.Knight)

	tt.Store(hash, 6, 50, TTExact, move, false)
	// A later store for the same key with no move should keep the existing one.
	tt.Store(hash, 6, 55, TTUpperBound, board.NoMove, false)

	entry, ok := tt.Probe(hash)
	if !ok {
		t.Fatal("expected probe hit")
	}
	if entry.BestMove != move {
		t.Errorf("BestMove = %v, want preserved %v", entry.BestMove, move)
	}
	if int(entry.Score) != 55 {
		t.Errorf("Score = %d, want updated value 55", entry.Score)
	}
}

func TestTTReplacementPrefersStaleRecord(t *testing.T) {
	tt := NewTranspositionTable(1)

	// All four records in a bucket get distinct keys so none collides,
	// then we bump the age and expect the next store to land on a stale
	// slot rather than evicting the deepest still-current record.
	baseIdx := uint64(7)
	keys := make([]uint64, ttBucketSize)
	for i := 0; i < ttBucketSize; i++ {
		keys[i] = (uint64(i+1) << 32) | baseIdx
		tt.Store(keys[i], 10+i, 0, TTExact, board.NoMove, false)
	}

	tt.NewSearch() // age++

	newKey := (uint64(99) << 32) | baseIdx
	tt.Store(newKey, 1, 42, TTExact, board.NoMove, false)

	if _, ok := tt.Probe(newKey); !ok {
		t.Fatal("expected the new entry to have been stored")
	}

	// At least one of the original (now-stale) keys should have been evicted.
	stillPresent := 0
	for _, k := range keys {
		if _, ok := tt.Probe(k); ok {
			stillPresent++
		}
	}
	if stillPresent == ttBucketSize {
		t.Error("expected a stale record to be replaced, but all original records survived")
	}
}

func TestTTClear(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0x1)
	tt.Store(hash, 5, 1, TTExact, board.NoMove, false)

	tt.Clear()

	if _, ok := tt.Probe(hash); ok {
		t.Error("expected probe miss after Clear")
	}
}
