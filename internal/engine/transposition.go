package engine

import (
	"github.com/hailam/chessplay/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// ttBucketSize is the number of records per bucket.
const ttBucketSize = 4

// TTEntry represents one record in the transposition table.
type TTEntry struct {
	Key      uint32     // Upper 32 bits of Zobrist hash for verification
	BestMove board.Move // Best move found
	Score    int16      // Score (bounded by flag)
	Depth    int8       // Search depth
	Flag     TTFlag     // Type of bound
	Age      uint8      // Generation for replacement
	IsPV     bool       // Entry was stored from a PV node (widens re-search windows)
	valid    bool       // Record has been written at least once
}

// ttBucket holds the 4 records sharing one hash index.
type ttBucket struct {
	records [ttBucketSize]TTEntry
}

// TranspositionTable is a lock-free, bucketed hash table for search results.
// Concurrent readers/writers may race; a torn read at worst produces a
// record whose key fragment or move fails validation downstream.
type TranspositionTable struct {
	buckets []ttBucket
	size    uint64 // number of buckets
	mask    uint64
	age     uint8

	// Statistics
	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a transposition table with the given size in MB.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	bucketSize := uint64(ttBucketSize * 16) // 4 records, ~16 bytes each
	numBuckets := (uint64(sizeMB) * 1024 * 1024) / bucketSize

	numBuckets = roundDownToPowerOf2(numBuckets)
	if numBuckets == 0 {
		numBuckets = 1
	}

	return &TranspositionTable{
		buckets: make([]ttBucket, numBuckets),
		size:    numBuckets,
		mask:    numBuckets - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// Probe looks up a position in the transposition table.
// Returns the entry and true if found, otherwise returns empty entry and false.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++

	bucket := &tt.buckets[hash&tt.mask]
	key32 := uint32(hash >> 32)

	for i := range bucket.records {
		r := bucket.records[i]
		if r.valid && r.Key == key32 {
			tt.hits++
			return r, true
		}
	}

	return TTEntry{}, false
}

// Store saves a position in the transposition table, choosing the target
// record within the bucket by priority: (1) same-key
// match, (2) a stale record (different age) with the smallest depth,
// (3) the smallest-depth record overall.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move, isPV bool) {
	bucket := &tt.buckets[hash&tt.mask]
	key32 := uint32(hash >> 32)

	target := -1
	for i := range bucket.records {
		if bucket.records[i].valid && bucket.records[i].Key == key32 {
			target = i
			break
		}
	}

	if target == -1 {
		staleIdx, staleDepth := -1, int8(127)
		minIdx, minDepth := 0, int8(127)
		for i := range bucket.records {
			r := &bucket.records[i]
			if !r.valid {
				staleIdx = i
				break
			}
			if r.Age != tt.age && r.Depth < staleDepth {
				staleIdx, staleDepth = i, r.Depth
			}
			if r.Depth < minDepth {
				minIdx, minDepth = i, r.Depth
			}
		}
		if staleIdx != -1 {
			target = staleIdx
		} else {
			target = minIdx
		}
	}

	r := &bucket.records[target]

	move := bestMove
	if move == board.NoMove && r.valid && r.Key == key32 && r.BestMove != board.NoMove {
		move = r.BestMove
	}

	r.valid = true
	r.Key = key32
	r.BestMove = move
	r.Score = int16(score)
	r.Depth = int8(depth)
	r.Flag = flag
	r.Age = tt.age
	r.IsPV = isPV
}

// NewSearch increments the age counter for a new search.
// This helps with replacement decisions.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

// Clear zeroes the whole table. Safe to call before any search begins.
func (tt *TranspositionTable) Clear() {
	for i := range tt.buckets {
		tt.buckets[i] = ttBucket{}
	}
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	sampleSize := uint64(1000)
	if sampleSize > tt.size {
		sampleSize = tt.size
	}

	used := 0
	total := 0
	for i := uint64(0); i < sampleSize; i++ {
		for _, r := range tt.buckets[i].records {
			total++
			if r.valid && r.Age == tt.age {
				used++
			}
		}
	}
	if total == 0 {
		return 0
	}

	return (used * 1000) / total
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of buckets in the table.
func (tt *TranspositionTable) Size() uint64 {
	return tt.size
}

// AdjustScoreFromTT adjusts a score read from the transposition table.
// Mate scores need to be adjusted based on ply distance.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the transposition table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
