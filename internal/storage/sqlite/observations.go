package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/seoward/seoward/internal/types"
)

// StartCrawlRun records the start of a new crawl run
func (s *Store) StartCrawlRun(ctx context.Context, run *types.CrawlRun) error {
	if run.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if run.SiteID == "" {
		return fmt.Errorf("run site_id is required")
	}
	if run.Status == "" {
		run.Status = types.RunRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crawl_runs (id, site_id, status, started_at, pages_crawled)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.SiteID, run.Status, run.StartedAt, run.PagesCrawled)
	if err != nil {
		return fmt.Errorf("failed to start crawl run %s: %w", run.ID, err)
	}
	return nil
}

// CompleteCrawlRun marks a run completed and records its crawled-page count
func (s *Store) CompleteCrawlRun(ctx context.Context, runID string, pagesCrawled int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE crawl_runs
		SET status = ?, completed_at = ?, pages_crawled = ?
		WHERE id = ? AND status = ?
	`, types.RunCompleted, time.Now(), pagesCrawled, runID, types.RunRunning)
	if err != nil {
		return fmt.Errorf("failed to complete crawl run %s: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check completion of run %s: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("crawl run %s is not running", runID)
	}
	return nil
}

// FailCrawlRun marks a run failed. Failed runs never count toward
// run history or trend classification.
func (s *Store) FailCrawlRun(ctx context.Context, runID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE crawl_runs SET status = ?, completed_at = ? WHERE id = ?
	`, types.RunFailed, time.Now(), runID)
	if err != nil {
		return fmt.Errorf("failed to fail crawl run %s: %w", runID, err)
	}
	return nil
}

// RecordRequest appends a request observation to a run's log
func (s *Store) RecordRequest(ctx context.Context, entry *types.RequestLogEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("request run_id is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO request_logs (run_id, url, status_code, response_time_ms, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.RunID, entry.URL, entry.StatusCode, entry.ResponseTimeMs, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record request for run %s: %w", entry.RunID, err)
	}
	return nil
}

// LatestCompletedRun returns the most recent completed run for a site,
// or nil when the site has no completed runs yet.
func (s *Store) LatestCompletedRun(ctx context.Context, siteID string) (*types.CrawlRun, error) {
	runs, err := s.RecentCompletedRuns(ctx, siteID, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

// RecentCompletedRuns returns up to limit completed runs, newest first
func (s *Store) RecentCompletedRuns(ctx context.Context, siteID string, limit int) ([]*types.CrawlRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, status, started_at, completed_at, pages_crawled
		FROM crawl_runs
		WHERE site_id = ? AND status = ?
		ORDER BY completed_at DESC, started_at DESC
		LIMIT ?
	`, siteID, types.RunCompleted, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed runs for site %s: %w", siteID, err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*types.CrawlRun
	for rows.Next() {
		run := &types.CrawlRun{}
		var completedAt sql.NullTime
		if err := rows.Scan(&run.ID, &run.SiteID, &run.Status, &run.StartedAt, &completedAt, &run.PagesCrawled); err != nil {
			return nil, fmt.Errorf("failed to scan crawl run: %w", err)
		}
		if completedAt.Valid {
			run.CompletedAt = &completedAt.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CompletedRunCount returns how many completed runs a site has
func (s *Store) CompletedRunCount(ctx context.Context, siteID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM crawl_runs WHERE site_id = ? AND status = ?",
		siteID, types.RunCompleted,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed runs for site %s: %w", siteID, err)
	}
	return count, nil
}

// RunRequestStats summarizes a run's request log in one query
func (s *Store) RunRequestStats(ctx context.Context, runID string) (*types.RequestStats, error) {
	stats := &types.RequestStats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status_code = 200 THEN 1 ELSE 0 END), 0),
		       COALESCE(AVG(response_time_ms), 0),
		       COALESCE(SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status_code != 200 THEN 1 ELSE 0 END), 0)
		FROM request_logs
		WHERE run_id = ?
	`, runID).Scan(&stats.Total, &stats.Successful, &stats.AvgResponseMs, &stats.ErrorCount, &stats.NonOKCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate request stats for run %s: %w", runID, err)
	}
	return stats, nil
}

// UpsertPage inserts or updates the current state of a page,
// keyed by (site_id, path)
func (s *Store) UpsertPage(ctx context.Context, page *types.Page) error {
	if page.ID == "" {
		return fmt.Errorf("page id is required")
	}
	if page.SiteID == "" {
		return fmt.Errorf("page site_id is required")
	}

	var lastStatus sql.NullInt64
	if page.LastStatus != nil {
		lastStatus = sql.NullInt64{Int64: int64(*page.LastStatus), Valid: true}
	}
	var lastSeen sql.NullTime
	if page.LastSeenAt != nil {
		lastSeen = sql.NullTime{Time: *page.LastSeenAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (id, site_id, url, path, title, h1_count, is_home, is_orphan, last_status, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(site_id, path) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			h1_count = excluded.h1_count,
			is_home = excluded.is_home,
			is_orphan = excluded.is_orphan,
			last_status = excluded.last_status,
			last_seen_at = excluded.last_seen_at
	`, page.ID, page.SiteID, page.URL, page.Path, page.Title, page.H1Count,
		boolToInt(page.IsHome), boolToInt(page.IsOrphan), lastStatus, lastSeen)
	if err != nil {
		return fmt.Errorf("failed to upsert page %s: %w", page.Path, err)
	}
	return nil
}

// PageStats summarizes the current page table for a site in one query
func (s *Store) PageStats(ctx context.Context, siteID string) (*types.PageStats, error) {
	stats := &types.PageStats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_home = 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN title != '' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN h1_count > 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN is_orphan = 1 AND is_home = 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN last_status >= 400 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN last_status IS NOT NULL AND last_status != 200 THEN 1 ELSE 0 END), 0)
		FROM pages
		WHERE site_id = ?
	`, siteID).Scan(&stats.Total, &stats.NonHome, &stats.WithTitle, &stats.WithH1,
		&stats.OrphanedNonHome, &stats.ErrorStatus, &stats.KnownNonOK)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate page stats for site %s: %w", siteID, err)
	}
	return stats, nil
}

// RecordFinding inserts a new compliance finding
func (s *Store) RecordFinding(ctx context.Context, finding *types.Finding) error {
	if finding.ID == "" {
		return fmt.Errorf("finding id is required")
	}
	if finding.SiteID == "" {
		return fmt.Errorf("finding site_id is required")
	}
	if finding.Status == "" {
		finding.Status = types.FindingOpen
	}
	if finding.CreatedAt.IsZero() {
		finding.CreatedAt = time.Now()
	}

	var pageID sql.NullString
	if finding.PageID != nil {
		pageID = sql.NullString{String: *finding.PageID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO findings (id, site_id, page_id, severity, rule, detail, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, finding.ID, finding.SiteID, pageID, finding.Severity, finding.Rule,
		finding.Detail, finding.Status, finding.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record finding %s: %w", finding.ID, err)
	}
	return nil
}

// ResolveFinding marks a finding resolved
func (s *Store) ResolveFinding(ctx context.Context, findingID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE findings SET status = ?, resolved_at = ? WHERE id = ? AND status = ?
	`, types.FindingResolved, time.Now(), findingID, types.FindingOpen)
	if err != nil {
		return fmt.Errorf("failed to resolve finding %s: %w", findingID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check resolution of finding %s: %w", findingID, err)
	}
	if n == 0 {
		return fmt.Errorf("finding %s not found or already resolved", findingID)
	}
	return nil
}

// OpenFindingCounts returns open finding counts by severity
func (s *Store) OpenFindingCounts(ctx context.Context, siteID string) (*types.FindingCounts, error) {
	counts := &types.FindingCounts{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN severity = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN severity = ? THEN 1 ELSE 0 END), 0)
		FROM findings
		WHERE site_id = ? AND status = ?
	`, types.FindingCritical, types.FindingHigh, siteID, types.FindingOpen,
	).Scan(&counts.Critical, &counts.High)
	if err != nil {
		return nil, fmt.Errorf("failed to count open findings for site %s: %w", siteID, err)
	}
	return counts, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
