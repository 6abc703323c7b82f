// Package fusion combines independent signal results into one probability
// and applies the ordered post-fusion adjustment chain.
package fusion

import (
	"sort"

	"github.com/jonathan/ghost-job-detector/internal/signals"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// Weights maps signal names to their base fusion weight. Base weights sum
// to 1 when every signal is present.
type Weights map[string]float64

// DefaultWeights returns the base weighting of the fused signals.
func DefaultWeights() Weights {
	return Weights{
		signals.NameRuleBased:        0.45,
		signals.NameSemantic:         0.35,
		signals.NameSiteVerification: 0.20,
	}
}

// Neutral fallback used when zero signals are usable: scoring must still
// produce a defined result rather than divide by zero.
const (
	neutralProbability = 0.5
	neutralConfidence  = 0.2
)

// FusedScore is the output of weight-renormalized signal combination.
type FusedScore struct {
	Probability float64
	Confidence  float64
	// Applied holds the renormalized weights actually used; they sum to 1
	// over the usable subset.
	Applied Weights
	// Unavailable lists weighted signals excluded from fusion, sorted for
	// deterministic output.
	Unavailable []string
}

// Fuse combines the usable signal results under the given base weights.
// The weight of each unusable signal is redistributed proportionally across
// the remaining usable signals, preserving the relative emphasis of the
// weighting scheme.
func Fuse(results map[string]types.SignalResult, base Weights) FusedScore {
	usableSum := 0.0
	var unavailable []string

	for name, weight := range base {
		if weight <= 0 {
			continue
		}
		if result, ok := results[name]; ok && result.Usable() {
			usableSum += weight
		} else {
			unavailable = append(unavailable, name)
		}
	}
	sort.Strings(unavailable)

	if usableSum <= 0 {
		return FusedScore{
			Probability: neutralProbability,
			Confidence:  neutralConfidence,
			Applied:     Weights{},
			Unavailable: unavailable,
		}
	}

	applied := make(Weights)
	probability := 0.0
	confidence := 0.0
	for name, weight := range base {
		if weight <= 0 {
			continue
		}
		result, ok := results[name]
		if !ok || !result.Usable() {
			continue
		}
		renormalized := weight / usableSum
		applied[name] = renormalized
		probability += renormalized * result.Probability
		confidence += renormalized * result.Confidence
	}

	return FusedScore{
		Probability: types.Clamp(probability),
		Confidence:  types.Clamp(confidence),
		Applied:     applied,
		Unavailable: unavailable,
	}
}
