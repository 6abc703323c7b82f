package fusion

import "github.com/jonathan/ghost-job-detector/internal/types"

// Canonical risk-tier thresholds. Applied consistently everywhere a tier is
// derived, including after every adjustment stage.
const (
	DefaultHighRiskThreshold   = 0.65
	DefaultMediumRiskThreshold = 0.40
)

// RiskLevelFor maps a probability onto the three-tier risk scale.
func RiskLevelFor(probability, high, medium float64) types.RiskLevel {
	switch {
	case probability >= high:
		return types.RiskHigh
	case probability >= medium:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}
