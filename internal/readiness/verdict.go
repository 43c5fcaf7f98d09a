// Package readiness decides whether a site is fit for higher-autonomy
// operation. Blocking rules are evaluated independently and all
// applicable blockers are collected; the verdict never short-circuits,
// so operators see every problem at once.
package readiness

import (
	"strings"

	"github.com/seoward/seoward/internal/types"
)

// Blocker codes.
const (
	BlockerInstability       = "Instability"
	BlockerComplianceFailure = "Compliance_Failure"
	BlockerCriticalGhost     = "DRIFT_CRITICAL_GHOST"
)

// Thresholds for the blocking rules.
const (
	minStabilityScore   = 70
	maxCriticalFindings = 10
)

var blockerMessages = map[string]string{
	BlockerInstability:       "Stability score is below the autonomy floor.",
	BlockerComplianceFailure: "Too many open critical compliance findings.",
	BlockerCriticalGhost:     "Ghost drift is at critical level.",
}

const readyMessage = "Site is ready for autonomous operation."

// Evaluate applies the blocking rules to an already-computed health
// score, drift report, and open finding counts.
func Evaluate(health *types.HealthScore, drift *types.DriftReport, findings *types.FindingCounts) *types.ReadinessVerdict {
	var blockers []string

	if health != nil {
		if stability, ok := health.Dimensions[types.DimensionStability]; ok && stability.Score < minStabilityScore {
			blockers = append(blockers, BlockerInstability)
		}
	}

	if findings != nil && findings.Critical > maxCriticalFindings {
		blockers = append(blockers, BlockerComplianceFailure)
	}

	if drift != nil {
		if ghost, ok := drift.Indicators[types.IndicatorGhost]; ok && ghost.Severity == types.SeverityCritical {
			blockers = append(blockers, BlockerCriticalGhost)
		}
	}

	verdict := &types.ReadinessVerdict{
		Ready:    len(blockers) == 0,
		Blockers: blockers,
	}
	if verdict.Ready {
		verdict.Message = readyMessage
	} else {
		messages := make([]string, 0, len(blockers))
		for _, code := range blockers {
			messages = append(messages, blockerMessages[code])
		}
		verdict.Message = strings.Join(messages, " ")
	}
	return verdict
}
