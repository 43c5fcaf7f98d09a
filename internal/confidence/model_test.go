package confidence

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoward/seoward/internal/storage"
	"github.com/seoward/seoward/internal/types"
)

func newTestModel(t *testing.T) (*Model, storage.Storage) {
	t.Helper()
	store, err := storage.NewStorage(context.Background(), &storage.Config{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.UpsertSite(context.Background(), &types.Site{
		ID: "site-1", Domain: "example.com",
	}))

	model, err := NewModel(&Config{Store: store})
	require.NoError(t, err)
	return model, store
}

func seedPageCount(t *testing.T, store storage.Storage, count int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		require.NoError(t, store.UpsertPage(ctx, &types.Page{
			ID:     fmt.Sprintf("p-%d", i),
			SiteID: "site-1",
			Path:   fmt.Sprintf("/p%d", i),
		}))
	}
}

func seedRuns(t *testing.T, store storage.Storage, count, pagesCrawled int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < count; i++ {
		runID := fmt.Sprintf("run-%d", i)
		require.NoError(t, store.StartCrawlRun(ctx, &types.CrawlRun{ID: runID, SiteID: "site-1"}))
		require.NoError(t, store.CompleteCrawlRun(ctx, runID, pagesCrawled))
		time.Sleep(2 * time.Millisecond)
	}
}

func TestNewModel_RequiresStore(t *testing.T) {
	_, err := NewModel(&Config{})
	assert.Error(t, err)
}

func TestAssess_NoData(t *testing.T) {
	model, _ := newTestModel(t)

	got, err := model.Assess(context.Background(), "site-1")
	require.NoError(t, err)

	assert.Equal(t, 0, got.Score)
	assert.Equal(t, types.ConfidenceLow, got.Level)
	// All three reasons apply to a cold site
	assert.Len(t, got.Reasons, 3)
}

func TestAssess_FullCoverageDeepHistory(t *testing.T) {
	model, store := newTestModel(t)
	seedPageCount(t, store, 10)
	seedRuns(t, store, 5, 10)

	got, err := model.Assess(context.Background(), "site-1")
	require.NoError(t, err)

	assert.Equal(t, 100, got.Score)
	assert.Equal(t, types.ConfidenceHigh, got.Level)
	assert.Empty(t, got.Reasons)
}

func TestAssess_PartialCoverage(t *testing.T) {
	model, store := newTestModel(t)
	seedPageCount(t, store, 10)
	// 4 of 10 pages crawled (0.4), 5 runs (1.0): 0.4*50 + 50 = 70
	seedRuns(t, store, 5, 4)

	got, err := model.Assess(context.Background(), "site-1")
	require.NoError(t, err)

	assert.Equal(t, 70, got.Score)
	assert.Equal(t, types.ConfidenceMedium, got.Level)
	require.Len(t, got.Reasons, 1)
	assert.Contains(t, got.Reasons[0], "small sample")
}

func TestAssess_ShallowHistory(t *testing.T) {
	model, store := newTestModel(t)
	seedPageCount(t, store, 10)
	// Full coverage, 2 runs (0.4): 50 + 0.4*50 = 70
	seedRuns(t, store, 2, 10)

	got, err := model.Assess(context.Background(), "site-1")
	require.NoError(t, err)

	assert.Equal(t, 70, got.Score)
	require.Len(t, got.Reasons, 1)
	assert.Contains(t, got.Reasons[0], "history")
}

func TestAssess_ZeroKnownPages(t *testing.T) {
	model, store := newTestModel(t)
	// No pages discovered yet, but one run crawled something:
	// crawl factor is 1 by the zero-pages edge rule
	seedRuns(t, store, 1, 3)

	got, err := model.Assess(context.Background(), "site-1")
	require.NoError(t, err)

	// 1.0*50 + 0.2*50 = 60
	assert.Equal(t, 60, got.Score)
	assert.Equal(t, types.ConfidenceMedium, got.Level)
}

func TestAssess_CoverageCappedAtFull(t *testing.T) {
	model, store := newTestModel(t)
	seedPageCount(t, store, 5)
	// Crawled more pages than currently known (pages were pruned since)
	seedRuns(t, store, 5, 20)

	got, err := model.Assess(context.Background(), "site-1")
	require.NoError(t, err)
	assert.Equal(t, 100, got.Score)
}

func TestCrawlFactor_Monotonic(t *testing.T) {
	// Non-decreasing in coverage with the page count fixed
	prev := -1.0
	for crawled := 0; crawled <= 20; crawled++ {
		f := crawlFactor(crawled, 20)
		assert.GreaterOrEqual(t, f, prev)
		prev = f
	}
}

func TestHistoryFactor_Monotonic(t *testing.T) {
	prev := -1.0
	for runs := 0; runs <= 10; runs++ {
		f := historyFactor(runs)
		assert.GreaterOrEqual(t, f, prev)
		prev = f
	}
	assert.Equal(t, 1.0, historyFactor(5))
	assert.Equal(t, 1.0, historyFactor(50))
}
