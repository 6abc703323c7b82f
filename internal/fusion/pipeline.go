package fusion

import (
	"fmt"
	"strings"

	"github.com/jonathan/ghost-job-detector/internal/signals"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// StageContext is the read-only input shared by all adjustment stages.
type StageContext struct {
	Facts    *types.JobFacts
	Results  map[string]types.SignalResult
	Industry *signals.IndustryClassification
}

// Adjustment is one stage's contribution: a bounded delta, a human-readable
// rationale, and any factor strings to surface. Skipped marks a stage whose
// supporting signal was unavailable; it still produces an audit record.
type Adjustment struct {
	Delta     float64
	Rationale string
	Factors   []types.Factor
	Skipped   bool
}

// Stage is one named post-fusion adjustment. Apply reads the running
// probability, which already includes earlier stages' deltas.
type Stage interface {
	Name() string
	Apply(ctx *StageContext, running float64) Adjustment
}

// Pipeline applies the fixed ordered adjustment chain and recomputes the
// risk tier after every stage so factor lists and the final tier stay
// consistent even when a late stage flips the tier.
type Pipeline struct {
	stages []Stage
	high   float64
	medium float64
}

// Result is the pipeline's contribution to the final outcome.
type Result struct {
	Probability float64
	RiskLevel   types.RiskLevel
	Adjustments []types.AdjustmentRecord
	Factors     []types.Factor
}

// NewPipeline creates the default chain: reposting, industry, reputation,
// engagement. The order is part of the contract; later stages see earlier
// deltas.
func NewPipeline(high, medium float64) *Pipeline {
	if high <= 0 {
		high = DefaultHighRiskThreshold
	}
	if medium <= 0 {
		medium = DefaultMediumRiskThreshold
	}
	return &Pipeline{
		stages: []Stage{
			repostingStage{},
			industryStage{},
			reputationStage{},
			engagementStage{},
		},
		high:   high,
		medium: medium,
	}
}

// Run applies all stages to the base probability in order.
func (p *Pipeline) Run(ctx *StageContext, baseProbability float64) Result {
	probability := types.Clamp(baseProbability)
	out := Result{
		Adjustments: make([]types.AdjustmentRecord, 0, len(p.stages)),
	}

	for i, stage := range p.stages {
		adj := stage.Apply(ctx, probability)

		record := types.AdjustmentRecord{
			Stage:     stage.Name(),
			Rationale: adj.Rationale,
			Order:     i,
			Skipped:   adj.Skipped,
		}
		if !adj.Skipped {
			record.Delta = adj.Delta
			probability = types.Clamp(probability + adj.Delta)
			out.Factors = append(out.Factors, adj.Factors...)
		}
		out.Adjustments = append(out.Adjustments, record)

		// Tier recomputed after every stage, not only at the end.
		out.RiskLevel = RiskLevelFor(probability, p.high, p.medium)
	}

	out.Probability = probability
	if len(p.stages) == 0 {
		out.RiskLevel = RiskLevelFor(probability, p.high, p.medium)
	}
	return out
}

func clampDelta(delta, bound float64) float64 {
	if delta > bound {
		return bound
	}
	if delta < -bound {
		return -bound
	}
	return delta
}

// -----------------------------------------------------------------------------
// Stages
// -----------------------------------------------------------------------------

// repostingStage translates the reposting signal's offset from neutral into
// a bounded delta on the running probability.
type repostingStage struct{}

func (repostingStage) Name() string { return signals.NameReposting }

func (repostingStage) Apply(ctx *StageContext, _ float64) Adjustment {
	result, ok := ctx.Results[signals.NameReposting]
	if !ok || !result.Usable() {
		return skipped(result)
	}

	delta := clampDelta(result.Probability-0.5, 0.35)
	rationale := "no notable reposting history"
	switch {
	case delta > 0:
		rationale = "reposting history raises ghost risk"
	case delta < 0:
		rationale = "first observed posting lowers ghost risk"
	}

	return Adjustment{Delta: delta, Rationale: rationale, Factors: result.Factors}
}

// industryStage applies industry-specific phrase and buzzword tolerances
// from the classified profile.
type industryStage struct{}

func (industryStage) Name() string { return signals.NameIndustry }

func (industryStage) Apply(ctx *StageContext, _ float64) Adjustment {
	if ctx.Industry == nil || ctx.Industry.Profile == nil {
		return Adjustment{Skipped: true, Rationale: "no industry classification; stage skipped"}
	}

	profile := ctx.Industry.Profile
	text := loweredText(ctx.Facts)

	suspicious := countMatches(text, profile.SuspiciousPhrases)
	legitimate := countMatches(text, profile.LegitimatePhrases)
	buzzwords := countMatches(text, profile.Buzzwords)

	delta := 0.05*float64(minInt(suspicious, 3)) - 0.05*float64(minInt(legitimate, 3))

	var factors []types.Factor
	if suspicious > 0 {
		factors = append(factors, types.Factor{
			Polarity:    types.PolarityRisk,
			Description: fmt.Sprintf("Posting uses phrasing flagged for the %s industry", profile.Name),
		})
	}
	if legitimate > 0 {
		factors = append(factors, types.Factor{
			Polarity:    types.PolarityPositive,
			Description: fmt.Sprintf("Posting matches legitimate %s vocabulary", profile.Name),
		})
	}

	if len(profile.Buzzwords) > 0 {
		ratio := float64(buzzwords) / float64(len(profile.Buzzwords))
		if ratio > profile.BuzzwordTolerance {
			delta += 0.05
			factors = append(factors, types.Factor{
				Polarity:    types.PolarityRisk,
				Description: fmt.Sprintf("Buzzword density above the %s industry norm", profile.Name),
			})
		}
	}

	delta = clampDelta(delta, 0.20)
	rationale := fmt.Sprintf("%s industry norms applied (margin %d)", profile.Name, ctx.Industry.Margin)
	return Adjustment{Delta: delta, Rationale: rationale, Factors: factors}
}

// reputationStage scales the company-reputation score's offset from neutral.
type reputationStage struct{}

func (reputationStage) Name() string { return signals.NameReputation }

func (reputationStage) Apply(ctx *StageContext, _ float64) Adjustment {
	result, ok := ctx.Results[signals.NameReputation]
	if !ok || !result.Usable() {
		return skipped(result)
	}

	delta := clampDelta((result.Probability-0.5)*0.3, 0.15)
	rationale := "company reputation near neutral"
	switch {
	case delta > 0:
		rationale = "poor company posting reputation raises ghost risk"
	case delta < 0:
		rationale = "clean company posting reputation lowers ghost risk"
	}
	return Adjustment{Delta: delta, Rationale: rationale, Factors: result.Factors}
}

// engagementStage scales the engagement signal's offset from neutral.
type engagementStage struct{}

func (engagementStage) Name() string { return signals.NameEngagement }

func (engagementStage) Apply(ctx *StageContext, _ float64) Adjustment {
	result, ok := ctx.Results[signals.NameEngagement]
	if !ok || !result.Usable() {
		return skipped(result)
	}

	delta := clampDelta((result.Probability-0.5)*0.2, 0.10)
	rationale := "engagement data near neutral"
	switch {
	case delta > 0:
		rationale = "absent applicant engagement raises ghost risk"
	case delta < 0:
		rationale = "observed applicant engagement lowers ghost risk"
	}
	return Adjustment{Delta: delta, Rationale: rationale, Factors: result.Factors}
}

func skipped(result types.SignalResult) Adjustment {
	rationale := "signal unavailable; stage skipped"
	if result.Reason != "" {
		rationale = fmt.Sprintf("signal unavailable (%s); stage skipped", result.Reason)
	}
	return Adjustment{Skipped: true, Rationale: rationale}
}

func loweredText(facts *types.JobFacts) string {
	if facts == nil {
		return ""
	}
	return strings.ToLower(facts.Title + " " + facts.Description)
}

func countMatches(lowered string, phrases []string) int {
	count := 0
	for _, p := range phrases {
		if p != "" && strings.Contains(lowered, strings.ToLower(p)) {
			count++
		}
	}
	return count
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
