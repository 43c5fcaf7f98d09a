// Package drift detects structural and technical decay for a site.
//
// Three named indicators are computed from current page state:
//
//   - ghost: pages whose last observed status is an error (>= 400)
//   - zombie: orphaned non-home pages
//   - state: pages with a known status other than 200
//
// Each indicator compares its ratio against fixed thresholds using
// strict comparison (a ratio exactly at a threshold does not trip it).
// Zombie deliberately has no CRITICAL tier; that asymmetry is policy,
// not an oversight.
package drift

import (
	"context"
	"fmt"

	"github.com/seoward/seoward/internal/storage"
	"github.com/seoward/seoward/internal/types"
)

// Indicator thresholds, expressed as ratios of all known pages.
const (
	ghostCriticalRatio = 0.10
	zombieWarningRatio = 0.05
	stateCriticalRatio = 0.05
	stateDriftingRatio = 0.01
)

// Detector computes drift reports from the operational store.
type Detector struct {
	store storage.Storage
}

// Config holds detector configuration
type Config struct {
	Store storage.Storage
}

// NewDetector creates a new drift detector
func NewDetector(cfg *Config) (*Detector, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	return &Detector{store: cfg.Store}, nil
}

// Evaluate computes all indicators for a site and aggregates a report.
func (d *Detector) Evaluate(ctx context.Context, siteID string) (*types.DriftReport, error) {
	stats, err := d.store.PageStats(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load page stats for site %s: %w", siteID, err)
	}

	indicators := map[string]types.DriftIndicator{
		types.IndicatorGhost:  ghostIndicator(stats),
		types.IndicatorZombie: zombieIndicator(stats),
		types.IndicatorState:  stateIndicator(stats),
	}

	return &types.DriftReport{
		Status:     aggregateStatus(indicators),
		Indicators: indicators,
	}, nil
}

// aggregateStatus derives the report status from indicator severities
// only. Any-match, not first-match: indicator order never affects the
// result.
func aggregateStatus(indicators map[string]types.DriftIndicator) types.Severity {
	anyUnsafe := false
	for _, ind := range indicators {
		if ind.Severity == types.SeverityCritical {
			return types.SeverityCritical
		}
		if ind.Severity != types.SeveritySafe {
			anyUnsafe = true
		}
	}
	if anyUnsafe {
		return types.SeverityDrifting
	}
	return types.SeveritySafe
}

func ghostIndicator(stats *types.PageStats) types.DriftIndicator {
	ratio := pageRatio(stats.ErrorStatus, stats.Total)
	severity := types.SeveritySafe
	switch {
	case ratio > ghostCriticalRatio:
		severity = types.SeverityCritical
	case ratio > 0:
		severity = types.SeverityWarning
	}
	return types.DriftIndicator{Count: stats.ErrorStatus, Severity: severity}
}

// zombieIndicator uses all pages as the denominator, unlike the
// structure dimension which only considers non-home pages.
func zombieIndicator(stats *types.PageStats) types.DriftIndicator {
	ratio := pageRatio(stats.OrphanedNonHome, stats.Total)
	severity := types.SeveritySafe
	if ratio > zombieWarningRatio {
		severity = types.SeverityWarning
	}
	return types.DriftIndicator{Count: stats.OrphanedNonHome, Severity: severity}
}

// stateIndicator only counts pages with a known, non-200 status.
// Never-crawled pages are excluded rather than presumed unhealthy.
func stateIndicator(stats *types.PageStats) types.DriftIndicator {
	ratio := pageRatio(stats.KnownNonOK, stats.Total)
	severity := types.SeveritySafe
	switch {
	case ratio > stateCriticalRatio:
		severity = types.SeverityCritical
	case ratio > stateDriftingRatio:
		severity = types.SeverityDrifting
	}
	return types.DriftIndicator{Count: stats.KnownNonOK, Severity: severity}
}

func pageRatio(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
