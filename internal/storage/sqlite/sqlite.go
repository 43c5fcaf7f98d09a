package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/seoward/seoward/internal/types"
)

// Store implements the engine's storage interface using SQLite
type Store struct {
	db *sql.DB
}

// New creates a new SQLite storage backend
func New(path string) (*Store, error) {
	if path != ":memory:" {
		// Ensure directory exists
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertSite inserts or updates a site record
func (s *Store) UpsertSite(ctx context.Context, site *types.Site) error {
	if err := site.Validate(); err != nil {
		return fmt.Errorf("invalid site: %w", err)
	}
	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sites (id, domain, name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET domain = excluded.domain, name = excluded.name
	`, site.ID, site.Domain, site.Name, site.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert site %s: %w", site.ID, err)
	}
	return nil
}

// GetSite retrieves a site by ID
func (s *Store) GetSite(ctx context.Context, id string) (*types.Site, error) {
	site := &types.Site{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, domain, name, created_at FROM sites WHERE id = ?", id,
	).Scan(&site.ID, &site.Domain, &site.Name, &site.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("site not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site %s: %w", id, err)
	}
	return site, nil
}

// ListSites returns all sites ordered by creation time
func (s *Store) ListSites(ctx context.Context) ([]*types.Site, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, domain, name, created_at FROM sites ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sites []*types.Site
	for rows.Next() {
		site := &types.Site{}
		if err := rows.Scan(&site.ID, &site.Domain, &site.Name, &site.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}
