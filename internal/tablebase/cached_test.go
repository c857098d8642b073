package tablebase

import (
	"testing"

	"github.com/hailam/chessplay/internal/board"
)

// countingProber counts how many times the underlying Probe is invoked,
// so tests can assert the badger-backed cache actually avoids re-probing.
type countingProber struct {
	calls  int
	result ProbeResult
}

func (c *countingProber) Probe(pos *board.Position) ProbeResult {
	c.calls++
	return c.result
}

func (c *countingProber) ProbeRoot(pos *board.Position) RootResult {
	return RootResult{Found: false}
}

func (c *countingProber) MaxPieces() int { return 7 }
func (c *countingProber) Available() bool { return true }

func TestCachedProberHitsCache(t *testing.T) {
	inner := &countingProber{result: ProbeResult{Found: true, WDL: WDLWin, DTZ: 12}}

	cp, err := NewCachedProber(inner, "")
	if err != nil {
		t.Fatalf("NewCachedProber: %v", err)
	}
	defer cp.Close()

	pos := board.NewPosition()

	first := cp.Probe(pos)
	if !first.Found || first.WDL != WDLWin || first.DTZ != 12 {
		t.Fatalf("unexpected first probe result: %+v", first)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 underlying call, got %d", inner.calls)
	}

	second := cp.Probe(pos)
	if second != first {
		t.Fatalf("cached result mismatch: %+v vs %+v", first, second)
	}
	if inner.calls != 1 {
		t.Fatalf("expected cache hit to avoid underlying call, got %d calls", inner.calls)
	}

	if hr := cp.HitRate(); hr <= 0 {
		t.Fatalf("expected positive hit rate, got %f", hr)
	}
}

func TestCachedProberClear(t *testing.T) {
	inner := &countingProber{result: ProbeResult{Found: true, WDL: WDLDraw}}

	cp, err := NewCachedProber(inner, "")
	if err != nil {
		t.Fatalf("NewCachedProber: %v", err)
	}
	defer cp.Close()

	pos := board.NewPosition()
	cp.Probe(pos)

	if err := cp.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	cp.Probe(pos)
	if inner.calls != 2 {
		t.Fatalf("expected clear to force a re-probe, got %d calls", inner.calls)
	}
}
