// Package authority gates every mutating action in the system. A
// requested action carries a class (A autonomous, B human-required, C
// forbidden) and is evaluated against an ordered, fail-fast chain of
// checks. Every call writes exactly one decision ledger entry,
// allowed or denied, including on internal error.
package authority

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seoward/seoward/internal/config"
	"github.com/seoward/seoward/internal/storage"
	"github.com/seoward/seoward/internal/types"
)

// ConfidenceSource supplies the current confidence assessment for a
// site, normally backed by the engine's result cache.
type ConfidenceSource interface {
	Confidence(ctx context.Context, siteID string) (*types.ConfidenceAssessment, error)
}

// Gate evaluates action requests.
type Gate struct {
	store      storage.Storage
	confidence ConfidenceSource
	settings   config.AuthorityConfig
}

// Config holds authority gate configuration. The kill switch and
// confidence threshold are injected here rather than read from
// ambient state, so tests can vary them freely.
type Config struct {
	Store      storage.Storage
	Confidence ConfidenceSource
	Settings   config.AuthorityConfig
}

// NewGate creates a new authority gate
func NewGate(cfg *Config) (*Gate, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if cfg.Confidence == nil {
		return nil, fmt.Errorf("confidence source is required")
	}
	return &Gate{
		store:      cfg.Store,
		confidence: cfg.Confidence,
		settings:   cfg.Settings,
	}, nil
}

// Request describes one action a collaborator wants to perform.
type Request struct {
	SiteID     string
	Class      types.ActionClass
	ActionType string
	Payload    map[string]interface{}
	Actor      *string // nil = system
}

// CanPerform decides whether the requested action may proceed.
// Callers must treat false as a hard stop. The decision, with its
// reason and the payload serialized unchanged, is always recorded in
// the decision ledger; the boolean is the only thing returned here.
//
// The gate never panics past this boundary: internal faults become
// denials with the fault message as the recorded reason.
func (g *Gate) CanPerform(ctx context.Context, req *Request) bool {
	status, reason := g.evaluate(ctx, req)

	entry := &types.DecisionLogEntry{
		ID:          uuid.New().String(),
		SiteID:      req.SiteID,
		ActorID:     req.Actor,
		ActionClass: req.Class,
		ActionType:  req.ActionType,
		Status:      status,
		Reason:      reason,
		Payload:     req.Payload,
		CreatedAt:   time.Now(),
	}
	if err := g.store.AppendDecision(ctx, entry); err != nil {
		// An allow that cannot be recorded is not an allow. The ledger
		// is the only durability guarantee for gate decisions.
		return false
	}

	return status == types.StatusAllowed
}

// evaluate runs the check chain. The first failing check determines
// the reason; later checks do not run.
func (g *Gate) evaluate(ctx context.Context, req *Request) (status types.ActionStatus, reason string) {
	defer func() {
		if r := recover(); r != nil {
			status = types.StatusDenied
			reason = fmt.Sprintf("internal error: %v", r)
		}
	}()

	// 1. Global kill switch
	if !g.settings.Enabled {
		return types.StatusDenied, "Authority globally disabled"
	}

	if !req.Class.IsValid() {
		return types.StatusDenied, fmt.Sprintf("unknown action class: %s", req.Class)
	}

	// 2. Forbidden class
	if req.Class == types.ClassC {
		return types.StatusDenied, "Class C actions are forbidden"
	}

	// 3. Sanctuary rule: the homepage is off limits to any gated
	// mutation. A missing path counts as empty and is denied.
	path, _ := req.Payload["path"].(string)
	if path == "/" || path == "" {
		return types.StatusDenied, "Sanctuary rule: the site root cannot be modified"
	}

	// 4. Confidence gate
	conf, err := g.confidence.Confidence(ctx, req.SiteID)
	if err != nil {
		return types.StatusDenied, err.Error()
	}
	if conf.Score < g.settings.MinConfidence {
		return types.StatusDenied, fmt.Sprintf("Confidence %d is below the required %d",
			conf.Score, g.settings.MinConfidence)
	}

	// 5. Class A is autonomous once everything above passed
	if req.Class == types.ClassA {
		return types.StatusAllowed, "All authority checks passed"
	}

	// 6. Class B requires a human actor. Actor presence is treated as
	// implicit approval; there is no approval queue.
	if req.Actor == nil || *req.Actor == "" {
		return types.StatusDenied, "Class B actions require a human actor"
	}
	return types.StatusAllowed, "Human actor present; approved"
}
