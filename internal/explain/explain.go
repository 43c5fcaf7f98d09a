// Package explain renders a health evaluation as ordered, human
// readable positive and negative factors plus a one-line summary. It
// is a pure function of the computed health, drift, confidence, and
// trend values; it performs no queries of its own.
package explain

import (
	"fmt"

	"github.com/seoward/seoward/internal/types"
)

// Factor thresholds. Chosen to match the scoring policy: numbers the
// scorer treats as degraded are called out as negatives.
const (
	fastLatencyMs     = 200
	slowLatencyMs     = 1000
	lowSuccessRate    = 0.90
	strongSuccessRate = 0.95
	strongTitleRate   = 0.90
	weakTitleRate     = 0.50
)

// Build produces the explanation for one evaluation. The trends map
// carries trend classifications keyed by indicator name; missing
// entries are treated as unknown.
func Build(health *types.HealthScore, drift *types.DriftReport, conf *types.ConfidenceAssessment, trends map[string]types.TrendLabel) *types.Explanation {
	e := &types.Explanation{
		Positive: []string{},
		Negative: []string{},
	}

	stability := health.Dimensions[types.DimensionStability]
	if avgMs, ok := stability.Metrics["avg_response_ms"]; ok {
		if avgMs < fastLatencyMs {
			e.Positive = append(e.Positive,
				fmt.Sprintf("Average response time is fast (%.0fms)", avgMs))
		} else if avgMs > slowLatencyMs {
			e.Negative = append(e.Negative,
				fmt.Sprintf("Average response time is slow (%.0fms)", avgMs))
		}
	}
	if rate, ok := stability.Metrics["success_rate"]; ok {
		if rate >= strongSuccessRate {
			e.Positive = append(e.Positive,
				fmt.Sprintf("Crawl success rate is strong (%.0f%%)", rate*100))
		} else if rate < lowSuccessRate {
			e.Negative = append(e.Negative,
				fmt.Sprintf("Crawl success rate is low (%.0f%%)", rate*100))
		}
	}

	compliance := health.Dimensions[types.DimensionCompliance]
	if critical, ok := compliance.Metrics["critical_open"]; ok {
		if critical > 0 {
			e.Negative = append(e.Negative,
				fmt.Sprintf("%.0f critical compliance findings are open", critical))
		} else {
			e.Positive = append(e.Positive, "No critical compliance findings")
		}
	}

	content := health.Dimensions[types.DimensionContent]
	if metaRate, ok := content.Metrics["meta_rate"]; ok {
		if metaRate >= strongTitleRate {
			e.Positive = append(e.Positive,
				fmt.Sprintf("Title coverage is strong (%.0f%%)", metaRate*100))
		} else if metaRate < weakTitleRate {
			e.Negative = append(e.Negative,
				fmt.Sprintf("Most pages are missing titles (%.0f%% coverage)", metaRate*100))
		}
	}

	appendDriftFactors(e, drift, trends)

	if conf != nil && conf.Level == types.ConfidenceLow {
		e.Negative = append(e.Negative,
			"Confidence in these numbers is low; crawl more of the site")
	}

	e.Summary = summarize(health.Score, drift)
	return e
}

// appendDriftFactors adds per-indicator negatives; critical ghost and
// state entries are annotated with their trend classification.
func appendDriftFactors(e *types.Explanation, drift *types.DriftReport, trends map[string]types.TrendLabel) {
	if drift == nil {
		return
	}

	if ghost, ok := drift.Indicators[types.IndicatorGhost]; ok && ghost.Severity == types.SeverityCritical {
		e.Negative = append(e.Negative,
			fmt.Sprintf("Ghost drift is critical: %d pages return errors (%s)",
				ghost.Count, trendFor(trends, types.IndicatorGhost)))
	}
	if state, ok := drift.Indicators[types.IndicatorState]; ok && state.Severity == types.SeverityCritical {
		e.Negative = append(e.Negative,
			fmt.Sprintf("State drift is critical: %d pages are in a non-200 state (%s)",
				state.Count, trendFor(trends, types.IndicatorState)))
	}
	if zombie, ok := drift.Indicators[types.IndicatorZombie]; ok && zombie.Severity != types.SeveritySafe {
		e.Negative = append(e.Negative,
			fmt.Sprintf("%d pages are orphaned with no internal links", zombie.Count))
	}

	if drift.Status == types.SeveritySafe {
		e.Positive = append(e.Positive, "No structural drift detected")
	}
}

func trendFor(trends map[string]types.TrendLabel, indicator string) string {
	if label, ok := trends[indicator]; ok {
		return label.Label()
	}
	return types.TrendUnknown.Label()
}

// summarize picks the summary line by score band, appending a drift
// clause whenever any indicator is off baseline.
func summarize(score int, drift *types.DriftReport) string {
	var summary string
	switch {
	case score >= 90:
		summary = "Site is in excellent shape."
	case score >= 70:
		summary = "Site is generally healthy with room for improvement."
	case score >= 50:
		summary = "Site health is degraded."
	default:
		summary = "Site health is critical."
	}

	if drift != nil && drift.Status != types.SeveritySafe {
		summary += " Drift detected."
	}
	return summary
}
