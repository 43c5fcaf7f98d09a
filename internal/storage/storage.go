package storage

import (
	"context"

	"github.com/seoward/seoward/internal/storage/sqlite"
	"github.com/seoward/seoward/internal/types"
)

// Storage defines the interface for the operational store backing the
// health and gating engine. Observation tables (sites, crawl runs,
// request logs, pages, findings) are written by external collaborators
// (crawl collector, compliance auditor) and read by the aggregators.
// The decision log is append-only: there is deliberately no update or
// delete operation for it.
type Storage interface {
	// Sites
	UpsertSite(ctx context.Context, site *types.Site) error
	GetSite(ctx context.Context, id string) (*types.Site, error)
	ListSites(ctx context.Context) ([]*types.Site, error)

	// Crawl runs (crawl collector write surface)
	StartCrawlRun(ctx context.Context, run *types.CrawlRun) error
	CompleteCrawlRun(ctx context.Context, runID string, pagesCrawled int) error
	FailCrawlRun(ctx context.Context, runID string) error
	RecordRequest(ctx context.Context, entry *types.RequestLogEntry) error

	// Crawl run reads (aggregators)
	LatestCompletedRun(ctx context.Context, siteID string) (*types.CrawlRun, error)
	RecentCompletedRuns(ctx context.Context, siteID string, limit int) ([]*types.CrawlRun, error)
	CompletedRunCount(ctx context.Context, siteID string) (int, error)
	RunRequestStats(ctx context.Context, runID string) (*types.RequestStats, error)

	// Pages
	UpsertPage(ctx context.Context, page *types.Page) error
	PageStats(ctx context.Context, siteID string) (*types.PageStats, error)

	// Findings (compliance auditor surface)
	RecordFinding(ctx context.Context, finding *types.Finding) error
	ResolveFinding(ctx context.Context, findingID string) error
	OpenFindingCounts(ctx context.Context, siteID string) (*types.FindingCounts, error)

	// Decision ledger (append-only)
	AppendDecision(ctx context.Context, entry *types.DecisionLogEntry) error
	ListDecisions(ctx context.Context, filter types.DecisionFilter) ([]*types.DecisionLogEntry, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".seoward/seoward.db",
	}
}

// NewStorage creates a storage backend from the given config.
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return sqlite.New(cfg.Path)
}

// Compile-time check that the sqlite backend satisfies the interface.
var _ Storage = (*sqlite.Store)(nil)
