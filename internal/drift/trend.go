package drift

import (
	"context"
	"fmt"

	"github.com/seoward/seoward/internal/storage"
	"github.com/seoward/seoward/internal/types"
)

// Classifier distinguishes persistent drift from transient noise by
// looking back across recent completed crawl runs.
//
// It re-derives each run's indicator state from that run's own request
// log rather than from stored verdicts, so the classification reflects
// what was true at each point in time, not current page state.
type Classifier struct {
	store  storage.Storage
	window int
}

// ClassifierConfig holds trend classifier configuration
type ClassifierConfig struct {
	Store storage.Storage

	// Window is how many completed runs to examine. Strict: fewer
	// completed runs than this yields TrendUnknown.
	// Default: 3
	Window int
}

// NewClassifier creates a new trend classifier
func NewClassifier(cfg *ClassifierConfig) (*Classifier, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	window := cfg.Window
	if window == 0 {
		window = 3
	}
	if window < 2 {
		return nil, fmt.Errorf("window must be at least 2 (got %d)", window)
	}
	return &Classifier{store: cfg.Store, window: window}, nil
}

// Classify labels an indicator's recurrence across the lookback window.
// All runs unsafe means persistent; any safe run means transient; less
// history than the window means unknown.
//
// Zombie always classifies as unknown: orphan state is a property of
// the current link graph and is not captured in per-run request logs.
func (c *Classifier) Classify(ctx context.Context, siteID, indicator string) (types.TrendLabel, error) {
	switch indicator {
	case types.IndicatorGhost, types.IndicatorState:
	case types.IndicatorZombie:
		return types.TrendUnknown, nil
	default:
		return types.TrendUnknown, fmt.Errorf("unknown drift indicator: %s", indicator)
	}

	runs, err := c.store.RecentCompletedRuns(ctx, siteID, c.window)
	if err != nil {
		return types.TrendUnknown, fmt.Errorf("failed to load run history for site %s: %w", siteID, err)
	}
	if len(runs) < c.window {
		return types.TrendUnknown, nil
	}

	unsafeRuns := 0
	for _, run := range runs {
		stats, err := c.store.RunRequestStats(ctx, run.ID)
		if err != nil {
			return types.TrendUnknown, fmt.Errorf("failed to load stats for run %s: %w", run.ID, err)
		}
		if runUnsafe(indicator, stats) {
			unsafeRuns++
		}
	}

	if unsafeRuns == c.window {
		return types.TrendPersistent, nil
	}
	return types.TrendTransient, nil
}

// runUnsafe applies the detector's non-SAFE threshold for an indicator
// to one historical run's request log.
func runUnsafe(indicator string, stats *types.RequestStats) bool {
	if stats.Total == 0 {
		return false
	}
	switch indicator {
	case types.IndicatorGhost:
		return float64(stats.ErrorCount)/float64(stats.Total) > 0
	case types.IndicatorState:
		return float64(stats.NonOKCount)/float64(stats.Total) > stateDriftingRatio
	}
	return false
}
