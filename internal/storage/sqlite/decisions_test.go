package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seoward/seoward/internal/types"
)

func TestAppendDecision_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	actor := "user-7"
	entry := &types.DecisionLogEntry{
		ID:          "d-1",
		SiteID:      "site-1",
		ActorID:     &actor,
		ActionClass: types.ClassB,
		ActionType:  "meta_update",
		Status:      types.StatusAllowed,
		Reason:      "all checks passed",
		Payload: map[string]interface{}{
			"path":  "/pricing",
			"title": "New pricing",
		},
	}
	require.NoError(t, store.AppendDecision(ctx, entry))

	entries, err := store.ListDecisions(ctx, types.DecisionFilter{SiteID: "site-1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, "d-1", got.ID)
	require.NotNil(t, got.ActorID)
	assert.Equal(t, "user-7", *got.ActorID)
	assert.Equal(t, types.ClassB, got.ActionClass)
	assert.Equal(t, types.StatusAllowed, got.Status)
	assert.Equal(t, "all checks passed", got.Reason)
	// Payload is serialized unchanged
	assert.Equal(t, "/pricing", got.Payload["path"])
	assert.Equal(t, "New pricing", got.Payload["title"])
	assert.False(t, got.CreatedAt.IsZero())
}

func TestAppendDecision_SystemActor(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entry := &types.DecisionLogEntry{
		ID:          "d-1",
		SiteID:      "site-1",
		ActionClass: types.ClassA,
		ActionType:  "sitemap_generate",
		Status:      types.StatusDenied,
		Reason:      "confidence below threshold",
	}
	require.NoError(t, store.AppendDecision(ctx, entry))

	entries, err := store.ListDecisions(ctx, types.DecisionFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].ActorID)
}

func TestAppendDecision_Validation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.AppendDecision(ctx, &types.DecisionLogEntry{
		SiteID: "site-1", ActionClass: types.ClassA, Status: types.StatusDenied,
	})
	assert.Error(t, err, "missing id")

	err = store.AppendDecision(ctx, &types.DecisionLogEntry{
		ID: "d-1", ActionClass: types.ClassA, Status: types.StatusDenied,
	})
	assert.Error(t, err, "missing site")

	// An unrecognized class is still recorded: the ledger reflects what
	// the gate was asked, and the gate itself denies unknown classes.
	err = store.AppendDecision(ctx, &types.DecisionLogEntry{
		ID: "d-x", SiteID: "site-1", ActionClass: "X", Status: types.StatusDenied,
	})
	assert.NoError(t, err)
}

func TestListDecisions_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	seed := []struct {
		id     string
		site   string
		status types.ActionStatus
	}{
		{"d-1", "site-1", types.StatusAllowed},
		{"d-2", "site-1", types.StatusDenied},
		{"d-3", "site-2", types.StatusDenied},
		{"d-4", "site-1", types.StatusDenied},
	}
	for i, s := range seed {
		require.NoError(t, store.AppendDecision(ctx, &types.DecisionLogEntry{
			ID:          s.id,
			SiteID:      s.site,
			ActionClass: types.ClassA,
			ActionType:  "redirect_create",
			Status:      s.status,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := store.ListDecisions(ctx, types.DecisionFilter{SiteID: "site-1"})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	// Most recent first
	assert.Equal(t, "d-4", entries[0].ID)

	entries, err = store.ListDecisions(ctx, types.DecisionFilter{
		SiteID: "site-1",
		Status: types.StatusDenied,
	})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = store.ListDecisions(ctx, types.DecisionFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "d-4", entries[0].ID)
}
