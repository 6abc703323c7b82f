package types

// SignalStatus describes whether a signal produced a usable score.
type SignalStatus string

const (
	// StatusOK means the signal evaluated successfully.
	StatusOK SignalStatus = "ok"
	// StatusUnavailable means a collaborator was down, timed out, or was
	// rate-limited. Recovered locally; never surfaced as an error.
	StatusUnavailable SignalStatus = "unavailable"
	// StatusErrored means the signal's own logic failed unexpectedly.
	// Fused identically to unavailable but logged distinctly.
	StatusErrored SignalStatus = "errored"
)

// FactorPolarity marks a factor as increasing or decreasing ghost risk.
type FactorPolarity string

const (
	// PolarityRisk marks a factor that increases ghost probability.
	PolarityRisk FactorPolarity = "risk"
	// PolarityPositive marks a legitimacy factor that decreases ghost probability.
	PolarityPositive FactorPolarity = "positive"
)

// Factor is one named observation contributing to a signal's score.
type Factor struct {
	Polarity    FactorPolarity `json:"polarity"`
	Description string         `json:"description"`
}

// SignalResult is the output of one extractor for one request. Produced
// once and never mutated afterwards.
type SignalResult struct {
	Status      SignalStatus `json:"status"`
	Probability float64      `json:"probability"`
	Confidence  float64      `json:"confidence"`
	Factors     []Factor     `json:"factors,omitempty"`
	Reason      string       `json:"reason,omitempty"` // why unavailable/errored
}

// OK builds a successful result with clamped probability and confidence.
func OK(probability, confidence float64, factors ...Factor) SignalResult {
	return SignalResult{
		Status:      StatusOK,
		Probability: Clamp(probability),
		Confidence:  Clamp(confidence),
		Factors:     factors,
	}
}

// Unavailable builds a result for a signal whose collaborator could not be
// reached. The probability is neutral so a careless caller cannot skew fusion.
func Unavailable(reason string) SignalResult {
	return SignalResult{Status: StatusUnavailable, Probability: 0.5, Reason: reason}
}

// Errored builds a result for a signal that failed inside its own logic.
func Errored(reason string) SignalResult {
	return SignalResult{Status: StatusErrored, Probability: 0.5, Reason: reason}
}

// Usable reports whether the result should participate in fusion.
func (r SignalResult) Usable() bool {
	return r.Status == StatusOK
}

// RiskFactors returns the descriptions of all risk-polarity factors.
func (r SignalResult) RiskFactors() []string {
	return r.factorsByPolarity(PolarityRisk)
}

// PositiveFactors returns the descriptions of all positive-polarity factors.
func (r SignalResult) PositiveFactors() []string {
	return r.factorsByPolarity(PolarityPositive)
}

func (r SignalResult) factorsByPolarity(p FactorPolarity) []string {
	var out []string
	for _, f := range r.Factors {
		if f.Polarity == p {
			out = append(out, f.Description)
		}
	}
	return out
}
