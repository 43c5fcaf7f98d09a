package types

import (
	"fmt"
	"time"
)

// Severity classifies how far a drift indicator has moved from the safe
// baseline. DriftReport.Status uses the same scale but never takes the
// WARNING value (a WARNING indicator surfaces as a DRIFTING report).
type Severity string

const (
	SeveritySafe     Severity = "SAFE"
	SeverityWarning  Severity = "WARNING"
	SeverityDrifting Severity = "DRIFTING"
	SeverityCritical Severity = "CRITICAL"
)

// IsValid checks if the severity value is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeveritySafe, SeverityWarning, SeverityDrifting, SeverityCritical:
		return true
	}
	return false
}

// Dimension names used as keys in HealthScore.Dimensions.
const (
	DimensionStability  = "stability"
	DimensionCompliance = "compliance"
	DimensionContent    = "content"
	DimensionStructure  = "structure"
)

// Drift indicator names used as keys in DriftReport.Indicators.
const (
	IndicatorGhost  = "ghost"
	IndicatorZombie = "zombie"
	IndicatorState  = "state"
)

// DimensionScore is an immutable snapshot of one health dimension.
// Metrics carries the raw numbers the score was derived from so that
// downstream consumers (explanations, CLI output) don't re-query.
type DimensionScore struct {
	Score   int                `json:"score"`
	Weight  float64            `json:"weight"`
	Metrics map[string]float64 `json:"metrics"`
}

// Grade is the letter grade derived from a health score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// HealthScore is the weighted composite of the four dimension scores.
// Created fresh on every non-cached evaluation and never mutated.
type HealthScore struct {
	Score       int                       `json:"score"`
	Grade       Grade                     `json:"grade"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Dimensions  map[string]DimensionScore `json:"dimensions"`
}

// DriftIndicator is the count and severity for one named indicator.
type DriftIndicator struct {
	Count    int      `json:"count"`
	Severity Severity `json:"severity"`
}

// DriftReport aggregates the per-indicator results for a site.
type DriftReport struct {
	Status     Severity                  `json:"status"`
	Indicators map[string]DriftIndicator `json:"indicators"`
}

// ConfidenceLevel buckets a confidence score.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// ConfidenceAssessment estimates how trustworthy the health and drift
// numbers are, from crawl coverage and run history depth.
type ConfidenceAssessment struct {
	Score   int             `json:"score"`
	Level   ConfidenceLevel `json:"level"`
	Reasons []string        `json:"reasons"`
}

// Explanation is the human-readable reading of a health evaluation.
// Purely derived; it has no lifecycle of its own.
type Explanation struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
	Summary  string   `json:"summary"`
}

// ReadinessVerdict is the binary fit-for-autonomy decision with the
// full list of blockers that produced it.
type ReadinessVerdict struct {
	Ready    bool     `json:"ready"`
	Blockers []string `json:"blockers"`
	Message  string   `json:"message"`
}

// TrendLabel classifies recurrence of a drift indicator across recent runs.
type TrendLabel string

const (
	TrendPersistent TrendLabel = "persistent"
	TrendTransient  TrendLabel = "transient"
	TrendUnknown    TrendLabel = "unknown_limited_history"
)

// Label returns the display form of a trend classification.
func (t TrendLabel) Label() string {
	switch t {
	case TrendPersistent:
		return "Persistent"
	case TrendTransient:
		return "Transient"
	default:
		return "Unknown/Limited History"
	}
}

// ActionClass classifies a requested mutation.
type ActionClass string

const (
	// ClassA actions are safe for autonomous execution.
	ClassA ActionClass = "A"
	// ClassB actions require a human actor.
	ClassB ActionClass = "B"
	// ClassC actions are forbidden and never automatable.
	ClassC ActionClass = "C"
)

// IsValid checks if the action class value is valid
func (c ActionClass) IsValid() bool {
	switch c {
	case ClassA, ClassB, ClassC:
		return true
	}
	return false
}

// ActionStatus is the terminal status of an authority decision.
type ActionStatus string

const (
	StatusAllowed ActionStatus = "ALLOWED"
	StatusDenied  ActionStatus = "DENIED"
	StatusError   ActionStatus = "ERROR"
	// StatusPendingApproval is reserved for a future approval queue.
	// The current gate never produces it: a present actor is treated as
	// implicit approval for class B actions.
	StatusPendingApproval ActionStatus = "PENDING_APPROVAL"
)

// DecisionLogEntry is one append-only row in the decision ledger.
// Exactly one entry is written per authority gate call, allowed or
// denied. Entries are never updated or deleted; corrections are new
// entries.
type DecisionLogEntry struct {
	ID          string                 `json:"id"`
	SiteID      string                 `json:"site_id"`
	ActorID     *string                `json:"actor_id,omitempty"` // nil = system
	ActionClass ActionClass            `json:"action_class"`
	ActionType  string                 `json:"action_type"`
	Status      ActionStatus           `json:"status"`
	Reason      string                 `json:"reason"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// Site is a managed website under observation.
type Site struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the site has valid field values
func (s *Site) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("site id is required")
	}
	if s.Domain == "" {
		return fmt.Errorf("site domain is required")
	}
	return nil
}

// RunStatus is the lifecycle state of a crawl run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// CrawlRun is one crawl of a site, recorded by the crawl collector.
type CrawlRun struct {
	ID           string     `json:"id"`
	SiteID       string     `json:"site_id"`
	Status       RunStatus  `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	PagesCrawled int        `json:"pages_crawled"`
}

// RequestLogEntry is one request observed during a crawl run.
type RequestLogEntry struct {
	ID             int64     `json:"id"`
	RunID          string    `json:"run_id"`
	URL            string    `json:"url"`
	StatusCode     int       `json:"status_code"`
	ResponseTimeMs int       `json:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// Page is the current known state of one discovered page.
// LastStatus is nil for pages that have never been crawled.
type Page struct {
	ID         string     `json:"id"`
	SiteID     string     `json:"site_id"`
	URL        string     `json:"url"`
	Path       string     `json:"path"`
	Title      string     `json:"title,omitempty"`
	H1Count    int        `json:"h1_count"`
	IsHome     bool       `json:"is_home"`
	IsOrphan   bool       `json:"is_orphan"`
	LastStatus *int       `json:"last_status,omitempty"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// FindingSeverity classifies a compliance finding.
type FindingSeverity string

const (
	FindingCritical FindingSeverity = "critical"
	FindingHigh     FindingSeverity = "high"
	FindingMedium   FindingSeverity = "medium"
	FindingLow      FindingSeverity = "low"
)

// FindingStatus is the lifecycle state of a finding.
type FindingStatus string

const (
	FindingOpen     FindingStatus = "open"
	FindingResolved FindingStatus = "resolved"
)

// Finding is one compliance issue raised by the compliance auditor.
type Finding struct {
	ID         string          `json:"id"`
	SiteID     string          `json:"site_id"`
	PageID     *string         `json:"page_id,omitempty"`
	Severity   FindingSeverity `json:"severity"`
	Rule       string          `json:"rule"`
	Detail     string          `json:"detail,omitempty"`
	Status     FindingStatus   `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	ResolvedAt *time.Time      `json:"resolved_at,omitempty"`
}

// RequestStats summarizes one crawl run's request log.
type RequestStats struct {
	Total         int     `json:"total"`
	Successful    int     `json:"successful"` // status 200
	AvgResponseMs float64 `json:"avg_response_ms"`
	ErrorCount    int     `json:"error_count"`  // status >= 400
	NonOKCount    int     `json:"non_ok_count"` // status != 200
}

// PageStats summarizes the current page table for a site.
type PageStats struct {
	Total           int `json:"total"`
	NonHome         int `json:"non_home"`
	WithTitle       int `json:"with_title"`
	WithH1          int `json:"with_h1"`
	OrphanedNonHome int `json:"orphaned_non_home"`
	ErrorStatus     int `json:"error_status"` // last status >= 400
	KnownNonOK      int `json:"known_non_ok"` // last status known and != 200
}

// FindingCounts is the number of open findings by severity.
type FindingCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
}

// DecisionFilter narrows a decision ledger read.
type DecisionFilter struct {
	SiteID string       // empty = all sites
	Status ActionStatus // empty = all statuses
	Limit  int          // 0 = no limit
}
