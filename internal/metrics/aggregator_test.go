package metrics

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoward/seoward/internal/config"
	"github.com/seoward/seoward/internal/storage"
	"github.com/seoward/seoward/internal/types"
)

func newTestAggregator(t *testing.T) (*Aggregator, storage.Storage) {
	t.Helper()
	store, err := storage.NewStorage(context.Background(), &storage.Config{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.UpsertSite(context.Background(), &types.Site{
		ID: "site-1", Domain: "example.com",
	}))

	agg, err := NewAggregator(&Config{
		Store:   store,
		Weights: config.DefaultEngineConfig().Weights,
	})
	require.NoError(t, err)
	return agg, store
}

func seedCompletedRun(t *testing.T, store storage.Storage, runID string, statuses []int, responseMs int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.StartCrawlRun(ctx, &types.CrawlRun{ID: runID, SiteID: "site-1"}))
	for i, status := range statuses {
		require.NoError(t, store.RecordRequest(ctx, &types.RequestLogEntry{
			RunID:          runID,
			URL:            fmt.Sprintf("https://example.com/p%d", i),
			StatusCode:     status,
			ResponseTimeMs: responseMs,
		}))
	}
	require.NoError(t, store.CompleteCrawlRun(ctx, runID, len(statuses)))
}

func TestNewAggregator_Validation(t *testing.T) {
	_, err := NewAggregator(&Config{Weights: config.DefaultEngineConfig().Weights})
	assert.Error(t, err, "missing store")

	store, err := storage.NewStorage(context.Background(), &storage.Config{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = NewAggregator(&Config{
		Store:   store,
		Weights: config.Weights{Stability: 0.5, Compliance: 0.5, Content: 0.5, Structure: 0.5},
	})
	assert.Error(t, err, "weights must sum to 1.0")
}

func TestStability_NoRun(t *testing.T) {
	agg, _ := newTestAggregator(t)

	dim, err := agg.Stability(context.Background(), "site-1")
	require.NoError(t, err)
	assert.Equal(t, 0, dim.Score)
	assert.Equal(t, 0.3, dim.Weight)
}

func TestStability_EmptyRequestLog(t *testing.T) {
	agg, store := newTestAggregator(t)
	seedCompletedRun(t, store, "run-1", nil, 0)

	dim, err := agg.Stability(context.Background(), "site-1")
	require.NoError(t, err)
	assert.Equal(t, 0, dim.Score)
}

func TestStability_Scoring(t *testing.T) {
	agg, store := newTestAggregator(t)

	// 9 of 10 succeed at 100ms avg: 0.9*100*0.7 + 100*0.3 = 93
	statuses := []int{200, 200, 200, 200, 200, 200, 200, 200, 200, 500}
	seedCompletedRun(t, store, "run-1", statuses, 100)

	dim, err := agg.Stability(context.Background(), "site-1")
	require.NoError(t, err)
	assert.Equal(t, 93, dim.Score)
	assert.InDelta(t, 0.9, dim.Metrics["success_rate"], 0.001)
	assert.Equal(t, 100.0, dim.Metrics["latency_score"])
}

func TestStability_UsesLatestRunOnly(t *testing.T) {
	agg, store := newTestAggregator(t)

	seedCompletedRun(t, store, "run-old", []int{500, 500, 500, 500}, 3000)
	seedCompletedRun(t, store, "run-new", []int{200, 200, 200, 200}, 100)

	dim, err := agg.Stability(context.Background(), "site-1")
	require.NoError(t, err)
	assert.Equal(t, 100, dim.Score)
}

func TestLatencyScore(t *testing.T) {
	tests := []struct {
		avgMs float64
		want  int
	}{
		{50, 100},
		{199.9, 100},
		{200, 90},
		{499, 90},
		{500, 70},
		{999, 70},
		{1000, 50},
		{1999, 50},
		{2000, 0},
		{5000, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%gms", tt.avgMs), func(t *testing.T) {
			assert.Equal(t, tt.want, latencyScore(tt.avgMs))
		})
	}
}

func TestCompliance_Scoring(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	// No findings: perfect score
	dim, err := agg.Compliance(ctx, "site-1")
	require.NoError(t, err)
	assert.Equal(t, 100, dim.Score)

	// 3 critical and 2 high: 100 - (15 + 4) = 81
	for i := 0; i < 3; i++ {
		require.NoError(t, store.RecordFinding(ctx, &types.Finding{
			ID: fmt.Sprintf("fc-%d", i), SiteID: "site-1",
			Severity: types.FindingCritical, Rule: "broken-link",
		}))
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, store.RecordFinding(ctx, &types.Finding{
			ID: fmt.Sprintf("fh-%d", i), SiteID: "site-1",
			Severity: types.FindingHigh, Rule: "duplicate-title",
		}))
	}
	dim, err = agg.Compliance(ctx, "site-1")
	require.NoError(t, err)
	assert.Equal(t, 81, dim.Score)
	assert.Equal(t, 3.0, dim.Metrics["critical_open"])
	assert.Equal(t, 2.0, dim.Metrics["high_open"])
}

func TestCompliance_FloorsAtZero(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, store.RecordFinding(ctx, &types.Finding{
			ID: fmt.Sprintf("f-%d", i), SiteID: "site-1",
			Severity: types.FindingCritical, Rule: "broken-link",
		}))
	}
	dim, err := agg.Compliance(ctx, "site-1")
	require.NoError(t, err)
	assert.Equal(t, 0, dim.Score)
}

func TestContent_ZeroPages(t *testing.T) {
	agg, _ := newTestAggregator(t)

	dim, err := agg.Content(context.Background(), "site-1")
	require.NoError(t, err)
	assert.Equal(t, 0, dim.Score)
}

func TestContent_Scoring(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	// 4 pages: 3 with titles (0.75), 2 with h1 (0.5)
	// 0.75*60 + 0.5*40 = 65
	pages := []*types.Page{
		{ID: "p1", SiteID: "site-1", Path: "/", Title: "Home", H1Count: 1, IsHome: true},
		{ID: "p2", SiteID: "site-1", Path: "/a", Title: "A", H1Count: 1},
		{ID: "p3", SiteID: "site-1", Path: "/b", Title: "B", H1Count: 0},
		{ID: "p4", SiteID: "site-1", Path: "/c", Title: "", H1Count: 0},
	}
	for _, p := range pages {
		require.NoError(t, store.UpsertPage(ctx, p))
	}

	dim, err := agg.Content(ctx, "site-1")
	require.NoError(t, err)
	assert.Equal(t, 65, dim.Score)
	assert.InDelta(t, 0.75, dim.Metrics["meta_rate"], 0.001)
	assert.InDelta(t, 0.5, dim.Metrics["h1_rate"], 0.001)
}

func TestStructure_ZeroEligiblePages(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	// Only a homepage: nothing to measure, nothing to penalize
	require.NoError(t, store.UpsertPage(ctx, &types.Page{
		ID: "p1", SiteID: "site-1", Path: "/", Title: "Home", IsHome: true,
	}))

	dim, err := agg.Structure(ctx, "site-1")
	require.NoError(t, err)
	assert.Equal(t, 100, dim.Score)
}

func TestStructure_OrphanPenalty(t *testing.T) {
	agg, store := newTestAggregator(t)
	ctx := context.Background()

	// 4 non-home pages, 1 orphaned: 100 - 25 = 75
	require.NoError(t, store.UpsertPage(ctx, &types.Page{
		ID: "home", SiteID: "site-1", Path: "/", IsHome: true,
	}))
	for i := 0; i < 4; i++ {
		require.NoError(t, store.UpsertPage(ctx, &types.Page{
			ID:       fmt.Sprintf("p-%d", i),
			SiteID:   "site-1",
			Path:     fmt.Sprintf("/p%d", i),
			IsOrphan: i == 0,
		}))
	}

	dim, err := agg.Structure(ctx, "site-1")
	require.NoError(t, err)
	assert.Equal(t, 75, dim.Score)
	assert.InDelta(t, 0.25, dim.Metrics["orphan_rate"], 0.001)
}

func TestCollect_AllDimensions(t *testing.T) {
	agg, _ := newTestAggregator(t)

	dims, err := agg.Collect(context.Background(), "site-1")
	require.NoError(t, err)
	require.Len(t, dims, 4)

	sum := 0.0
	for _, dim := range dims {
		sum += dim.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
