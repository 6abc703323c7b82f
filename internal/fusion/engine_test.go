package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ghost-job-detector/internal/signals"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

func TestFuseAllSignalsPresent(t *testing.T) {
	results := map[string]types.SignalResult{
		signals.NameRuleBased:        types.OK(0.8, 0.9),
		signals.NameSemantic:         types.OK(0.6, 0.7),
		signals.NameSiteVerification: types.OK(0.2, 0.8),
	}

	score := Fuse(results, DefaultWeights())

	// 0.45*0.8 + 0.35*0.6 + 0.20*0.2 = 0.61
	assert.InDelta(t, 0.61, score.Probability, 1e-9)
	assert.InDelta(t, 0.45*0.9+0.35*0.7+0.20*0.8, score.Confidence, 1e-9)
	assert.Empty(t, score.Unavailable)

	sum := 0.0
	for _, w := range score.Applied {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestFuseRenormalizesOverUsableSubset(t *testing.T) {
	results := map[string]types.SignalResult{
		signals.NameRuleBased:        types.OK(0.8, 0.9),
		signals.NameSemantic:         types.Unavailable("no model"),
		signals.NameSiteVerification: types.OK(0.4, 0.6),
	}

	score := Fuse(results, DefaultWeights())

	// usable weight = 0.45 + 0.20 = 0.65
	require.Contains(t, score.Applied, signals.NameRuleBased)
	require.Contains(t, score.Applied, signals.NameSiteVerification)
	assert.NotContains(t, score.Applied, signals.NameSemantic)

	assert.InDelta(t, 0.45/0.65, score.Applied[signals.NameRuleBased], 1e-9)
	assert.InDelta(t, 0.20/0.65, score.Applied[signals.NameSiteVerification], 1e-9)

	expected := (0.45/0.65)*0.8 + (0.20/0.65)*0.4
	assert.InDelta(t, expected, score.Probability, 1e-9)

	assert.Equal(t, []string{signals.NameSemantic}, score.Unavailable)

	sum := 0.0
	for _, w := range score.Applied {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestFuseErroredSignalExcluded(t *testing.T) {
	results := map[string]types.SignalResult{
		signals.NameRuleBased:        types.OK(0.9, 0.8),
		signals.NameSemantic:         types.Errored("panic recovered"),
		signals.NameSiteVerification: types.Errored("transport failure"),
	}

	score := Fuse(results, DefaultWeights())

	assert.InDelta(t, 0.9, score.Probability, 1e-9)
	assert.InDelta(t, 1.0, score.Applied[signals.NameRuleBased], 1e-9)
	assert.Equal(t, []string{signals.NameSemantic, signals.NameSiteVerification}, score.Unavailable)
}

func TestFuseNoUsableSignalsReturnsNeutral(t *testing.T) {
	results := map[string]types.SignalResult{
		signals.NameRuleBased: types.Unavailable("off"),
		signals.NameSemantic:  types.Errored("boom"),
	}

	score := Fuse(results, DefaultWeights())

	assert.Equal(t, 0.5, score.Probability)
	assert.Equal(t, 0.2, score.Confidence)
	assert.Empty(t, score.Applied)
	assert.Len(t, score.Unavailable, 3)
}

func TestFuseMissingResultTreatedAsUnavailable(t *testing.T) {
	results := map[string]types.SignalResult{
		signals.NameRuleBased: types.OK(0.7, 0.8),
	}

	score := Fuse(results, DefaultWeights())

	assert.InDelta(t, 0.7, score.Probability, 1e-9)
	assert.Equal(t, []string{signals.NameSemantic, signals.NameSiteVerification}, score.Unavailable)
}

func TestFuseClampsToUnitInterval(t *testing.T) {
	results := map[string]types.SignalResult{
		signals.NameRuleBased: {Status: types.StatusOK, Probability: 1.8, Confidence: 1.2},
	}

	score := Fuse(results, Weights{signals.NameRuleBased: 1.0})

	assert.Equal(t, 1.0, score.Probability)
	assert.Equal(t, 1.0, score.Confidence)
}

func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		name        string
		probability float64
		want        types.RiskLevel
	}{
		{"well below medium", 0.10, types.RiskLow},
		{"just below medium", 0.39, types.RiskLow},
		{"medium boundary", 0.40, types.RiskMedium},
		{"between tiers", 0.55, types.RiskMedium},
		{"high boundary", 0.65, types.RiskHigh},
		{"maximum", 1.0, types.RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RiskLevelFor(tt.probability, DefaultHighRiskThreshold, DefaultMediumRiskThreshold)
			assert.Equal(t, tt.want, got)
		})
	}
}
