// Package health combines the four dimension scores into a single
// 0-100 composite with a letter grade. Grade thresholds live here and
// nowhere else.
package health

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/seoward/seoward/internal/metrics"
	"github.com/seoward/seoward/internal/types"
)

// Scorer computes composite health scores.
type Scorer struct {
	agg *metrics.Aggregator
}

// Config holds scorer configuration
type Config struct {
	Aggregator *metrics.Aggregator
}

// NewScorer creates a new health scorer
func NewScorer(cfg *Config) (*Scorer, error) {
	if cfg.Aggregator == nil {
		return nil, fmt.Errorf("aggregator is required")
	}
	return &Scorer{agg: cfg.Aggregator}, nil
}

// Evaluate computes a fresh health score for a site. Deterministic:
// identical observation data always yields an identical score and
// grade; only GeneratedAt varies.
func (s *Scorer) Evaluate(ctx context.Context, siteID string) (*types.HealthScore, error) {
	dims, err := s.agg.Collect(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect dimensions for site %s: %w", siteID, err)
	}
	return Compose(dims), nil
}

// Compose builds a health score from already-computed dimensions.
func Compose(dims map[string]types.DimensionScore) *types.HealthScore {
	weighted := 0.0
	for _, dim := range dims {
		weighted += float64(dim.Score) * dim.Weight
	}
	score := int(math.Round(weighted))

	return &types.HealthScore{
		Score:       score,
		Grade:       GradeForScore(score),
		GeneratedAt: time.Now(),
		Dimensions:  dims,
	}
}

// GradeForScore maps a composite score to its letter grade.
func GradeForScore(score int) types.Grade {
	switch {
	case score >= 90:
		return types.GradeA
	case score >= 80:
		return types.GradeB
	case score >= 70:
		return types.GradeC
	case score >= 60:
		return types.GradeD
	default:
		return types.GradeF
	}
}
