package engine

// Search feature toggles. Collected here so any single technique can be
// switched off for isolation testing without touching negamax/quiescence.
const (
	EnableRFP             = true
	EnableRazoring        = true
	EnableNMP             = true
	EnableProbcut         = true
	EnableMulticut        = true
	EnableFutilityPruning = true
	EnableSEEPruning      = true
	EnableLMP             = true
	EnableHistoryPruning  = true
	EnableHindsightDepth  = true
	EnableThreatExt       = true
	EnableSingularExt     = true
)

// Pruning and extension tuning constants, Stockfish-style magic numbers
// adapted to this engine's depth/ply ranges.
const (
	probcutDepth  = 5
	multicutDepth = 6

	multicutMoves    = 6
	multicutRequired = 3

	historyPruningThreshold = -2000

	threatExtensionMinDepth  = 5
	threatExtensionThreshold = RookValue

	// lazyEvalMargin gates the cheap material-only pre-check in quiescence:
	// if material alone already clears or misses the window by this much,
	// skip the full evaluation.
	lazyEvalMargin = 1300
)

// lmpThreshold is the Late Move Pruning move-count table indexed by depth.
var lmpThreshold = [8]int{0, 5, 8, 13, 20, 29, 40, 53}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
