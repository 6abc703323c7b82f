package types

// RiskLevel is the three-tier classification of a fused probability.
type RiskLevel string

const (
	// RiskLow means the posting looks like genuine hiring intent.
	RiskLow RiskLevel = "low"
	// RiskMedium means the posting shows mixed signals.
	RiskMedium RiskLevel = "medium"
	// RiskHigh means the posting is likely a ghost job.
	RiskHigh RiskLevel = "high"
)

// AdjustmentRecord is the audit entry for one post-fusion pipeline stage.
// Order is the position in the fixed stage chain; it is significant because
// later stages read the running probability, not only the base.
type AdjustmentRecord struct {
	Stage     string  `json:"stage"`
	Delta     float64 `json:"delta"`
	Rationale string  `json:"rationale"`
	Order     int     `json:"order"`
	Skipped   bool    `json:"skipped,omitempty"`
}

// FusionOutcome is the externally visible analysis result. Immutable once
// produced; a FusionOutcome is always producible from any well-typed
// JobFacts, even when every signal failed.
type FusionOutcome struct {
	GhostProbability float64            `json:"ghost_probability"`
	Confidence       float64            `json:"confidence"`
	RiskLevel        RiskLevel          `json:"risk_level"`
	RiskFactors      []string           `json:"risk_factors,omitempty"`
	KeyFactors       []string           `json:"key_factors,omitempty"`
	Adjustments      []AdjustmentRecord `json:"adjustments"`

	// UnavailableSignals lists signals excluded from fusion, so the layer
	// above can flag the analysis as degraded without treating it as failed.
	UnavailableSignals []string `json:"unavailable_signals,omitempty"`
}

// Degraded reports whether at least one signal was excluded from fusion.
func (o *FusionOutcome) Degraded() bool {
	return len(o.UnavailableSignals) > 0
}
