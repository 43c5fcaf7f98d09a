package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/seoward/seoward/internal/types"
)

// AppendDecision writes one decision ledger row. The ledger is
// append-only: this is the only write operation the store exposes for
// decision_log. The class is recorded as supplied, valid or not; the
// ledger reflects what the gate was actually asked.
func (s *Store) AppendDecision(ctx context.Context, entry *types.DecisionLogEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("decision id is required")
	}
	if entry.SiteID == "" {
		return fmt.Errorf("decision site_id is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	payloadJSON, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal decision payload: %w", err)
	}

	var actorID sql.NullString
	if entry.ActorID != nil {
		actorID = sql.NullString{String: *entry.ActorID, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decision_log (id, site_id, actor_id, action_class, action_type, status, reason, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.SiteID, actorID, entry.ActionClass, entry.ActionType,
		entry.Status, entry.Reason, string(payloadJSON), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append decision (site=%s, action=%s): %w",
			entry.SiteID, entry.ActionType, err)
	}
	return nil
}

// ListDecisions retrieves ledger entries matching the given filter,
// most recent first
func (s *Store) ListDecisions(ctx context.Context, filter types.DecisionFilter) ([]*types.DecisionLogEntry, error) {
	query := `
		SELECT id, site_id, actor_id, action_class, action_type, status, reason, payload, created_at
		FROM decision_log
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.SiteID != "" {
		query += " AND site_id = ?"
		args = append(args, filter.SiteID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*types.DecisionLogEntry
	for rows.Next() {
		entry := &types.DecisionLogEntry{}
		var actorID sql.NullString
		var payloadJSON string
		if err := rows.Scan(&entry.ID, &entry.SiteID, &actorID, &entry.ActionClass,
			&entry.ActionType, &entry.Status, &entry.Reason, &payloadJSON, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision entry: %w", err)
		}
		if actorID.Valid {
			entry.ActorID = &actorID.String
		}
		if payloadJSON != "" && payloadJSON != "null" {
			if err := json.Unmarshal([]byte(payloadJSON), &entry.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal decision payload: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
