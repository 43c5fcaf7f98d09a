// Package metrics computes the four health dimension scores for a site
// from its raw observation data: the latest crawl run's request log,
// the current page table, and the open compliance findings.
//
// Every dimension is computed independently from its own queries; there
// is no shared mutable state between them, so callers may reorder or
// parallelize the computations freely.
package metrics

import (
	"context"
	"fmt"
	"math"

	"github.com/seoward/seoward/internal/config"
	"github.com/seoward/seoward/internal/storage"
	"github.com/seoward/seoward/internal/types"
)

// Aggregator computes dimension scores from the operational store.
type Aggregator struct {
	store   storage.Storage
	weights config.Weights
}

// Config holds aggregator configuration
type Config struct {
	Store   storage.Storage
	Weights config.Weights
}

// NewAggregator creates a new dimension score aggregator
func NewAggregator(cfg *Config) (*Aggregator, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if math.Abs(cfg.Weights.Sum()-1.0) > 1e-9 {
		return nil, fmt.Errorf("dimension weights must sum to 1.0 (got %g)", cfg.Weights.Sum())
	}

	return &Aggregator{
		store:   cfg.Store,
		weights: cfg.Weights,
	}, nil
}

// Collect computes all four dimension scores for a site.
func (a *Aggregator) Collect(ctx context.Context, siteID string) (map[string]types.DimensionScore, error) {
	stability, err := a.Stability(ctx, siteID)
	if err != nil {
		return nil, err
	}
	compliance, err := a.Compliance(ctx, siteID)
	if err != nil {
		return nil, err
	}
	content, err := a.Content(ctx, siteID)
	if err != nil {
		return nil, err
	}
	structure, err := a.Structure(ctx, siteID)
	if err != nil {
		return nil, err
	}

	return map[string]types.DimensionScore{
		types.DimensionStability:  stability,
		types.DimensionCompliance: compliance,
		types.DimensionContent:    content,
		types.DimensionStructure:  structure,
	}, nil
}

// Stability scores the most recent completed crawl run: 70% success
// rate, 30% latency. No completed run, or a run with an empty request
// log, scores 0 (fail-safe, not "unknown").
func (a *Aggregator) Stability(ctx context.Context, siteID string) (types.DimensionScore, error) {
	dim := types.DimensionScore{
		Weight:  a.weights.Stability,
		Metrics: map[string]float64{},
	}

	run, err := a.store.LatestCompletedRun(ctx, siteID)
	if err != nil {
		return dim, fmt.Errorf("failed to load latest run for site %s: %w", siteID, err)
	}
	if run == nil {
		return dim, nil
	}

	stats, err := a.store.RunRequestStats(ctx, run.ID)
	if err != nil {
		return dim, fmt.Errorf("failed to load request stats for site %s: %w", siteID, err)
	}
	if stats.Total == 0 {
		return dim, nil
	}

	successRate := float64(stats.Successful) / float64(stats.Total)
	latency := latencyScore(stats.AvgResponseMs)

	dim.Score = clamp(int(math.Round(successRate*100*0.7 + float64(latency)*0.3)))
	dim.Metrics["success_rate"] = successRate
	dim.Metrics["avg_response_ms"] = stats.AvgResponseMs
	dim.Metrics["latency_score"] = float64(latency)
	dim.Metrics["requests"] = float64(stats.Total)
	return dim, nil
}

// latencyScore maps average response time to a step score.
func latencyScore(avgMs float64) int {
	switch {
	case avgMs < 200:
		return 100
	case avgMs < 500:
		return 90
	case avgMs < 1000:
		return 70
	case avgMs < 2000:
		return 50
	default:
		return 0
	}
}

// Compliance scores open findings: each critical costs 5 points, each
// high costs 2, floored at 0.
func (a *Aggregator) Compliance(ctx context.Context, siteID string) (types.DimensionScore, error) {
	dim := types.DimensionScore{
		Weight:  a.weights.Compliance,
		Metrics: map[string]float64{},
	}

	counts, err := a.store.OpenFindingCounts(ctx, siteID)
	if err != nil {
		return dim, fmt.Errorf("failed to load finding counts for site %s: %w", siteID, err)
	}

	penalty := counts.Critical*5 + counts.High*2
	score := 100 - penalty
	if score < 0 {
		score = 0
	}

	dim.Score = score
	dim.Metrics["critical_open"] = float64(counts.Critical)
	dim.Metrics["high_open"] = float64(counts.High)
	dim.Metrics["penalty"] = float64(penalty)
	return dim, nil
}

// Content scores metadata coverage: 60% title coverage, 40% h1
// coverage. A site with zero known pages scores 0.
func (a *Aggregator) Content(ctx context.Context, siteID string) (types.DimensionScore, error) {
	dim := types.DimensionScore{
		Weight:  a.weights.Content,
		Metrics: map[string]float64{},
	}

	stats, err := a.store.PageStats(ctx, siteID)
	if err != nil {
		return dim, fmt.Errorf("failed to load page stats for site %s: %w", siteID, err)
	}
	if stats.Total == 0 {
		return dim, nil
	}

	metaRate := float64(stats.WithTitle) / float64(stats.Total)
	h1Rate := float64(stats.WithH1) / float64(stats.Total)

	dim.Score = clamp(int(math.Round(metaRate*60 + h1Rate*40)))
	dim.Metrics["meta_rate"] = metaRate
	dim.Metrics["h1_rate"] = h1Rate
	dim.Metrics["total_pages"] = float64(stats.Total)
	return dim, nil
}

// Structure scores internal linking over non-homepage pages only.
// Zero eligible pages scores 100: nothing to measure means nothing to
// penalize, the opposite default from Stability and Content.
func (a *Aggregator) Structure(ctx context.Context, siteID string) (types.DimensionScore, error) {
	dim := types.DimensionScore{
		Weight:  a.weights.Structure,
		Metrics: map[string]float64{},
	}

	stats, err := a.store.PageStats(ctx, siteID)
	if err != nil {
		return dim, fmt.Errorf("failed to load page stats for site %s: %w", siteID, err)
	}
	if stats.NonHome == 0 {
		dim.Score = 100
		return dim, nil
	}

	orphanRate := float64(stats.OrphanedNonHome) / float64(stats.NonHome)
	score := int(math.Round(100 - orphanRate*100))
	if score < 0 {
		score = 0
	}

	dim.Score = clamp(score)
	dim.Metrics["orphan_rate"] = orphanRate
	dim.Metrics["orphaned"] = float64(stats.OrphanedNonHome)
	dim.Metrics["eligible_pages"] = float64(stats.NonHome)
	return dim, nil
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
