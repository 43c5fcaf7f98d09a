package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seoward/seoward/internal/types"
)

func healthWithStability(score int) *types.HealthScore {
	return &types.HealthScore{
		Dimensions: map[string]types.DimensionScore{
			types.DimensionStability: {Score: score},
		},
	}
}

func driftWithGhost(severity types.Severity) *types.DriftReport {
	return &types.DriftReport{
		Indicators: map[string]types.DriftIndicator{
			types.IndicatorGhost: {Severity: severity},
		},
	}
}

func TestEvaluate_Ready(t *testing.T) {
	verdict := Evaluate(
		healthWithStability(85),
		driftWithGhost(types.SeveritySafe),
		&types.FindingCounts{Critical: 2},
	)

	assert.True(t, verdict.Ready)
	assert.Empty(t, verdict.Blockers)
	assert.Equal(t, "Site is ready for autonomous operation.", verdict.Message)
}

func TestEvaluate_Instability(t *testing.T) {
	verdict := Evaluate(healthWithStability(69), nil, nil)

	assert.False(t, verdict.Ready)
	assert.Equal(t, []string{BlockerInstability}, verdict.Blockers)
}

func TestEvaluate_StabilityBoundary(t *testing.T) {
	// Exactly 70 is not a blocker; the rule is strictly below.
	verdict := Evaluate(healthWithStability(70), nil, nil)
	assert.True(t, verdict.Ready)
}

func TestEvaluate_ComplianceFailure(t *testing.T) {
	// Exactly 10 critical findings passes; the rule is strictly above.
	verdict := Evaluate(healthWithStability(90), nil, &types.FindingCounts{Critical: 10})
	assert.True(t, verdict.Ready)

	verdict = Evaluate(healthWithStability(90), nil, &types.FindingCounts{Critical: 11})
	assert.False(t, verdict.Ready)
	assert.Equal(t, []string{BlockerComplianceFailure}, verdict.Blockers)
}

func TestEvaluate_CriticalGhost(t *testing.T) {
	verdict := Evaluate(healthWithStability(90), driftWithGhost(types.SeverityCritical), nil)

	assert.False(t, verdict.Ready)
	assert.Equal(t, []string{BlockerCriticalGhost}, verdict.Blockers)

	// Warning-level ghost drift does not block
	verdict = Evaluate(healthWithStability(90), driftWithGhost(types.SeverityWarning), nil)
	assert.True(t, verdict.Ready)
}

func TestEvaluate_CollectsAllBlockers(t *testing.T) {
	verdict := Evaluate(
		healthWithStability(40),
		driftWithGhost(types.SeverityCritical),
		&types.FindingCounts{Critical: 25},
	)

	assert.False(t, verdict.Ready)
	// No short-circuit: every applicable blocker is present, in rule order
	assert.Equal(t, []string{
		BlockerInstability,
		BlockerComplianceFailure,
		BlockerCriticalGhost,
	}, verdict.Blockers)
	assert.Contains(t, verdict.Message, "Stability score")
	assert.Contains(t, verdict.Message, "critical compliance findings")
	assert.Contains(t, verdict.Message, "Ghost drift")
}

func TestEvaluate_NilInputs(t *testing.T) {
	verdict := Evaluate(nil, nil, nil)
	assert.True(t, verdict.Ready)
}
