// Package confidence estimates how much to trust the health and drift
// numbers for a site. Scores are a blend of crawl coverage (how much
// of the known site the latest run actually visited) and run history
// depth (how many completed runs back the numbers up).
package confidence

import (
	"context"
	"fmt"
	"math"

	"github.com/seoward/seoward/internal/storage"
	"github.com/seoward/seoward/internal/types"
)

// Model assesses observation confidence from the operational store.
type Model struct {
	store storage.Storage
}

// Config holds confidence model configuration
type Config struct {
	Store storage.Storage
}

// NewModel creates a new confidence model
func NewModel(cfg *Config) (*Model, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	return &Model{store: cfg.Store}, nil
}

// Assess computes the confidence assessment for a site.
func (m *Model) Assess(ctx context.Context, siteID string) (*types.ConfidenceAssessment, error) {
	pageStats, err := m.store.PageStats(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load page stats for site %s: %w", siteID, err)
	}

	pagesCrawled := 0
	run, err := m.store.LatestCompletedRun(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest run for site %s: %w", siteID, err)
	}
	if run != nil {
		pagesCrawled = run.PagesCrawled
	}

	runCount, err := m.store.CompletedRunCount(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to count runs for site %s: %w", siteID, err)
	}

	crawlFactor := crawlFactor(pagesCrawled, pageStats.Total)
	historyFactor := historyFactor(runCount)
	score := int(math.Round(crawlFactor*50 + historyFactor*50))

	assessment := &types.ConfidenceAssessment{
		Score:   score,
		Level:   levelForScore(score),
		Reasons: []string{},
	}

	// Reasons accumulate; they are not mutually exclusive.
	if crawlFactor < 0.5 {
		assessment.Reasons = append(assessment.Reasons,
			"Latest crawl covered a small sample of the known site")
	}
	if historyFactor < 0.6 {
		assessment.Reasons = append(assessment.Reasons,
			"Limited crawl run history")
	}
	if score < 50 {
		assessment.Reasons = append(assessment.Reasons,
			"Insufficient data for a reliable assessment")
	}

	return assessment, nil
}

// crawlFactor is coverage of the known page set, capped at 1. With
// zero known pages, any crawled page counts as full coverage and none
// as zero: an undiscovered site earns no confidence for free.
func crawlFactor(pagesCrawled, totalPages int) float64 {
	if totalPages == 0 {
		if pagesCrawled > 0 {
			return 1
		}
		return 0
	}
	factor := float64(pagesCrawled) / float64(totalPages)
	if factor > 1 {
		return 1
	}
	return factor
}

// historyFactor rewards run depth at 20 points per completed run,
// reaching full weight at 5 runs.
func historyFactor(runCount int) float64 {
	points := runCount * 20
	if points > 100 {
		points = 100
	}
	return float64(points) / 100
}

func levelForScore(score int) types.ConfidenceLevel {
	switch {
	case score >= 80:
		return types.ConfidenceHigh
	case score >= 50:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}
