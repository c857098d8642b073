package tablebase

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync/atomic"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/hailam/chessplay/internal/board"
)

// CachedProber wraps another prober with a persistent on-disk cache backed
// by badger, so repeated probes of the same position (common across
// iterative-deepening re-searches and Lazy-SMP workers) survive process
// restarts instead of re-hitting the underlying oracle every time.
type CachedProber struct {
	inner Prober
	db    *badger.DB

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedProber creates a cached prober wrapping the given prober, storing
// its cache under dir. An empty dir uses an ephemeral in-memory badger
// instance (useful for tests or when no persistence is desired).
func NewCachedProber(inner Prober, dir string) (*CachedProber, error) {
	opts := badger.DefaultOptions(dir)
	opts = opts.WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &CachedProber{inner: inner, db: db}, nil
}

// NewCachedLichessProber creates a cached Lichess prober with its cache
// rooted under baseDir/tablebase-cache.
func NewCachedLichessProber(baseDir string) (*CachedProber, error) {
	dir := ""
	if baseDir != "" {
		dir = filepath.Join(baseDir, "tablebase-cache")
	}
	return NewCachedProber(NewLichessProber(), dir)
}

func cacheKey(hash uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, hash)
	return key
}

func encodeProbeResult(r ProbeResult) []byte {
	buf := make([]byte, 6)
	if r.Found {
		buf[0] = 1
	}
	buf[1] = byte(r.WDL + 2) // WDL ranges roughly [-2,2]; shift to stay unsigned-friendly
	binary.BigEndian.PutUint32(buf[2:], uint32(int32(r.DTZ)))
	return buf
}

func decodeProbeResult(buf []byte) ProbeResult {
	if len(buf) < 6 {
		return ProbeResult{}
	}
	return ProbeResult{
		Found: buf[0] == 1,
		WDL:   WDL(int(buf[1]) - 2),
		DTZ:   int(int32(binary.BigEndian.Uint32(buf[2:]))),
	}
}

func (cp *CachedProber) Probe(pos *board.Position) ProbeResult {
	key := cacheKey(pos.Hash)

	var cached ProbeResult
	found := false
	err := cp.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			cached = decodeProbeResult(val)
			found = true
			return nil
		})
	})
	if err == nil && found {
		cp.hits.Add(1)
		return cached
	}

	cp.misses.Add(1)
	result := cp.inner.Probe(pos)

	_ = cp.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, encodeProbeResult(result))
	})

	return result
}

func (cp *CachedProber) ProbeRoot(pos *board.Position) RootResult {
	// Root probing is not cached (needs move info).
	return cp.inner.ProbeRoot(pos)
}

func (cp *CachedProber) MaxPieces() int {
	return cp.inner.MaxPieces()
}

func (cp *CachedProber) Available() bool {
	return cp.inner.Available()
}

// HitRate returns the cache hit rate as a percentage.
func (cp *CachedProber) HitRate() float64 {
	hits := cp.hits.Load()
	total := hits + cp.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Clear drops every cached entry.
func (cp *CachedProber) Clear() error {
	cp.hits.Store(0)
	cp.misses.Store(0)
	return cp.db.DropAll()
}

// Close releases the underlying badger database.
func (cp *CachedProber) Close() error {
	return cp.db.Close()
}
