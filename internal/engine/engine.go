// Package engine wires the health, drift, confidence, explanation,
// readiness, and authority components behind the surface the rest of
// the system consumes: GetHealth, GetDrift, GetReadiness, CanPerform,
// and InvalidateCache.
//
// Health and drift results are cached per site with a fixed TTL.
// Every evaluation runs synchronously in the caller's unit of work;
// the engine spawns no goroutines of its own.
package engine

import (
	"context"
	"fmt"

	"github.com/seoward/seoward/internal/authority"
	"github.com/seoward/seoward/internal/cache"
	"github.com/seoward/seoward/internal/confidence"
	"github.com/seoward/seoward/internal/config"
	"github.com/seoward/seoward/internal/drift"
	"github.com/seoward/seoward/internal/explain"
	"github.com/seoward/seoward/internal/health"
	"github.com/seoward/seoward/internal/metrics"
	"github.com/seoward/seoward/internal/readiness"
	"github.com/seoward/seoward/internal/storage"
	"github.com/seoward/seoward/internal/types"
)

// runHistoryDepth is how many recent completed runs the health report
// carries for display.
const runHistoryDepth = 5

// HealthReport is the full result of a health evaluation.
type HealthReport struct {
	Health      *types.HealthScore          `json:"health"`
	Drift       *types.DriftReport          `json:"drift"`
	Confidence  *types.ConfidenceAssessment `json:"confidence"`
	Trends      map[string]types.TrendLabel `json:"trends"`
	Explanation *types.Explanation          `json:"explanation"`
	Runs        []*types.CrawlRun           `json:"runs"`
}

// Engine is the health and gating engine facade.
type Engine struct {
	store      storage.Storage
	settings   config.EngineConfig
	scorer     *health.Scorer
	detector   *drift.Detector
	classifier *drift.Classifier
	model      *confidence.Model
	results    *cache.Cache
	gate       *authority.Gate
}

// Config holds engine configuration
type Config struct {
	Store    storage.Storage
	Settings config.EngineConfig
}

// New creates a fully wired engine
func New(cfg *Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine settings: %w", err)
	}

	agg, err := metrics.NewAggregator(&metrics.Config{
		Store:   cfg.Store,
		Weights: cfg.Settings.Weights,
	})
	if err != nil {
		return nil, err
	}
	scorer, err := health.NewScorer(&health.Config{Aggregator: agg})
	if err != nil {
		return nil, err
	}
	detector, err := drift.NewDetector(&drift.Config{Store: cfg.Store})
	if err != nil {
		return nil, err
	}
	classifier, err := drift.NewClassifier(&drift.ClassifierConfig{
		Store:  cfg.Store,
		Window: cfg.Settings.TrendWindow,
	})
	if err != nil {
		return nil, err
	}
	model, err := confidence.NewModel(&confidence.Config{Store: cfg.Store})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store:      cfg.Store,
		settings:   cfg.Settings,
		scorer:     scorer,
		detector:   detector,
		classifier: classifier,
		model:      model,
		results:    cache.New(cfg.Settings.CacheTTL()),
	}

	gate, err := authority.NewGate(&authority.Config{
		Store:      cfg.Store,
		Confidence: e,
		Settings:   cfg.Settings.Authority,
	})
	if err != nil {
		return nil, err
	}
	e.gate = gate

	return e, nil
}

// GetHealth returns the cached or freshly computed health report for a
// site. Internal faults propagate to the caller; read paths have no
// safety-critical default to fall back on.
func (e *Engine) GetHealth(ctx context.Context, siteID string) (*HealthReport, error) {
	value, err := e.results.Do(cache.Key(siteID, cache.KindHealth), func() (interface{}, error) {
		return e.computeHealth(ctx, siteID)
	})
	if err != nil {
		return nil, err
	}
	return value.(*HealthReport), nil
}

func (e *Engine) computeHealth(ctx context.Context, siteID string) (*HealthReport, error) {
	// Drift goes through its own cache entry; a health miss may reuse
	// a still-valid drift result.
	driftReport, err := e.GetDrift(ctx, siteID)
	if err != nil {
		return nil, err
	}

	healthScore, err := e.scorer.Evaluate(ctx, siteID)
	if err != nil {
		return nil, err
	}

	conf, err := e.model.Assess(ctx, siteID)
	if err != nil {
		return nil, err
	}

	trends := map[string]types.TrendLabel{}
	for _, indicator := range []string{types.IndicatorGhost, types.IndicatorState} {
		label, err := e.classifier.Classify(ctx, siteID, indicator)
		if err != nil {
			return nil, err
		}
		trends[indicator] = label
	}

	runs, err := e.store.RecentCompletedRuns(ctx, siteID, runHistoryDepth)
	if err != nil {
		return nil, err
	}

	return &HealthReport{
		Health:      healthScore,
		Drift:       driftReport,
		Confidence:  conf,
		Trends:      trends,
		Explanation: explain.Build(healthScore, driftReport, conf, trends),
		Runs:        runs,
	}, nil
}

// GetDrift returns the cached or freshly computed drift report.
func (e *Engine) GetDrift(ctx context.Context, siteID string) (*types.DriftReport, error) {
	value, err := e.results.Do(cache.Key(siteID, cache.KindDrift), func() (interface{}, error) {
		return e.detector.Evaluate(ctx, siteID)
	})
	if err != nil {
		return nil, err
	}
	return value.(*types.DriftReport), nil
}

// GetReadiness applies the readiness rules to the current health and
// drift state.
func (e *Engine) GetReadiness(ctx context.Context, siteID string) (*types.ReadinessVerdict, error) {
	report, err := e.GetHealth(ctx, siteID)
	if err != nil {
		return nil, err
	}
	findings, err := e.store.OpenFindingCounts(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return readiness.Evaluate(report.Health, report.Drift, findings), nil
}

// Confidence implements authority.ConfidenceSource on top of the
// cached health report.
func (e *Engine) Confidence(ctx context.Context, siteID string) (*types.ConfidenceAssessment, error) {
	report, err := e.GetHealth(ctx, siteID)
	if err != nil {
		return nil, err
	}
	return report.Confidence, nil
}

// CanPerform gates a requested action. Every call, allowed or denied,
// is recorded in the decision ledger.
func (e *Engine) CanPerform(ctx context.Context, req *authority.Request) bool {
	return e.gate.CanPerform(ctx, req)
}

// InvalidateCache drops the cached health and drift results for a
// site. Collaborators call this after committing any mutation gated
// through CanPerform, so later gate checks see fresh numbers.
func (e *Engine) InvalidateCache(siteID string) {
	e.results.ForgetSite(siteID)
}
