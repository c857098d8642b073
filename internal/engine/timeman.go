package engine

import (
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// UCILimits contains UCI time control parameters.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each color)
	Inc       [2]time.Duration // winc, binc (increment per move)
	MovesToGo int              // moves until next time control (0 = sudden death)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
	Depth     int              // maximum search depth
	Nodes     uint64           // maximum nodes to search
	Infinite  bool             // search until stopped
	Ponder    bool             // ponder mode
}

// maxTimeReserve is the hard-deadline buffer withheld from the usable time
// budget: 10% of the remaining clock, capped at
// one second, so a slow iteration never runs the clock to zero.
const maxTimeReserve = time.Second

// TimeManager handles time allocation for searches. optimumTime bounds when
// iterative deepening stops starting new iterations; maximumTime is the
// hard abort deadline for the iteration in flight.
type TimeManager struct {
	optimumTime time.Duration // normal_time: target time for this move
	maximumTime time.Duration // extended_time: hard deadline for the running iteration
	startTime   time.Time     // When search started

	dropCounter int // consecutive iterations with a significant score drop
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init initializes the time manager for a new search.
// ply is the current game ply (half-move number).
func (tm *TimeManager) Init(limits UCILimits, us board.Color, ply int) {
	tm.startTime = time.Now()
	tm.dropCounter = 0

	// Fixed move time mode
	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}

	// Infinite or depth-limited mode
	if limits.Infinite || (limits.Time[us] == 0 && limits.MoveTime == 0) {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	// Reserve a buffer below the hard deadline (10% of the clock, capped at
	// 1s) before any of it is budgeted for this move.
	reserve := timeLeft / 10
	if reserve > maxTimeReserve {
		reserve = maxTimeReserve
	}
	usable := timeLeft - reserve
	if usable < 0 {
		usable = 0
	}

	// Estimate moves to go
	mtg := limits.MovesToGo
	if mtg == 0 {
		// Sudden death: estimate moves remaining based on game phase
		// Early game: more moves expected, late game: fewer
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
		if mtg > 50 {
			mtg = 50
		}
	}

	// Base time per move (simple division)
	baseTime := usable / time.Duration(mtg)

	// Add most of the increment
	baseTime += inc * 9 / 10

	// Use baseTime directly as the optimum
	// No aggressive scaling - we need time to search!
	tm.optimumTime = baseTime

	// Slight reduction for very early moves (give some buffer)
	if ply < 8 {
		tm.optimumTime = baseTime * 85 / 100
	}

	// Maximum time: 5x optimum or 80% of the reserved-usable budget,
	// whichever is smaller.
	maxFromOptimum := tm.optimumTime * 5
	maxFromUsable := usable * 8 / 10

	if maxFromOptimum < maxFromUsable {
		tm.maximumTime = maxFromOptimum
	} else {
		tm.maximumTime = maxFromUsable
	}

	// The reserved buffer is itself the hard ceiling: never schedule past it.
	if tm.maximumTime > usable {
		tm.maximumTime = usable
	}

	// Minimum times
	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// OptimumTime returns the target time for this move.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the maximum time allowed.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// ShouldStop returns true if we should stop searching.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.maximumTime
}

// PastOptimum returns true if we've exceeded the optimum time.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}

// AdjustForStability adjusts time allocation based on best move stability.
// If the best move hasn't changed for several depths, we can stop earlier.
// stability: number of consecutive depths with same best move
func (tm *TimeManager) AdjustForStability(stability int) {
	if stability >= 6 {
		// Very stable: use only 40% of optimum
		tm.optimumTime = tm.optimumTime * 40 / 100
	} else if stability >= 4 {
		// Stable: use only 60% of optimum
		tm.optimumTime = tm.optimumTime * 60 / 100
	} else if stability >= 2 {
		// Somewhat stable: use 80% of optimum
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}

// AdjustForInstability increases time when best move keeps changing.
// changes: number of best move changes in recent depths
func (tm *TimeManager) AdjustForInstability(changes int) {
	if changes >= 4 {
		// Very unstable: use 200% of optimum (up to maximum)
		tm.optimumTime = tm.optimumTime * 200 / 100
		if tm.optimumTime > tm.maximumTime {
			tm.optimumTime = tm.maximumTime
		}
	} else if changes >= 2 {
		// Unstable: use 150% of optimum
		tm.optimumTime = tm.optimumTime * 150 / 100
		if tm.optimumTime > tm.maximumTime {
			tm.optimumTime = tm.maximumTime
		}
	}
}

// scoreDropMinorCp and scoreDropMajorCp are the score-drop thresholds:
// iterative deepening spends more time once the score falls by at least the
// minor threshold from the previous completed iteration, and resets its
// internal drop counter once the fall reaches the major threshold (a drop
// that large means the position just got worse, not that the search is
// merely noisy around a stable score).
const (
	scoreDropMinorCp = 20
	scoreDropMajorCp = 40
)

// AdjustForScoreDrop extends the optimum time when the completed iteration's
// score fell significantly from the previous one. dropCp is previousScore - currentScore for the side to move (positive
// means the position got worse). Returns true if the drop reset the internal
// counter (a large enough fall that "things got worse" should no longer be
// treated as accumulating noise).
func (tm *TimeManager) AdjustForScoreDrop(dropCp int) bool {
	if dropCp < scoreDropMinorCp {
		tm.dropCounter = 0
		return false
	}

	tm.dropCounter++
	extended := tm.optimumTime * 130 / 100
	if extended > tm.maximumTime {
		extended = tm.maximumTime
	}
	tm.optimumTime = extended

	if dropCp >= scoreDropMajorCp {
		tm.dropCounter = 0
		return true
	}
	return false
}
