// Package detector orchestrates signal extraction, fusion, and the
// adjustment pipeline into a single analysis entry point.
package detector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ghost-job-detector/internal/fusion"
	"github.com/jonathan/ghost-job-detector/internal/signals"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// DefaultSignalTimeout bounds each signal's evaluation independently, so a
// slow collaborator degrades one signal instead of stalling the analysis.
const DefaultSignalTimeout = 10 * time.Second

// sparseConfidenceCap limits the reported confidence when the posting
// carries no usable content.
const sparseConfidenceCap = 0.3

// Options configures a Detector. Zero values fall back to defaults.
type Options struct {
	// Extractors overrides the signal set; nil means the full default set
	// built from the remaining fields.
	Extractors []signals.Extractor

	Weights             fusion.Weights
	HighRiskThreshold   float64
	MediumRiskThreshold float64
	SignalTimeout       time.Duration
	Verbose             bool
}

// Detector runs every signal concurrently against the same immutable facts,
// fuses the weighted subset, and applies the ordered adjustment chain.
type Detector struct {
	extractors []signals.Extractor
	classifier *signals.IndustryClassifier
	weights    fusion.Weights
	pipeline   *fusion.Pipeline
	timeout    time.Duration
	verbose    bool
}

// New creates a Detector from the given options.
func New(opts Options) *Detector {
	weights := opts.Weights
	if len(weights) == 0 {
		weights = fusion.DefaultWeights()
	}
	timeout := opts.SignalTimeout
	if timeout <= 0 {
		timeout = DefaultSignalTimeout
	}

	return &Detector{
		extractors: opts.Extractors,
		classifier: signals.NewIndustryClassifier(),
		weights:    weights,
		pipeline:   fusion.NewPipeline(opts.HighRiskThreshold, opts.MediumRiskThreshold),
		timeout:    timeout,
		verbose:    opts.Verbose,
	}
}

// Analyze scores one posting. It always produces an outcome for well-formed
// facts: signal failures degrade the result instead of failing it.
func (d *Detector) Analyze(ctx context.Context, facts *types.JobFacts) (*types.FusionOutcome, error) {
	if facts == nil {
		return nil, fmt.Errorf("job facts are required")
	}

	results := d.evaluateAll(ctx, facts)
	classification := d.classifier.Classify(facts)

	fused := fusion.Fuse(results, d.weights)
	if d.verbose {
		fmt.Printf("Fused base probability: %.3f (confidence %.3f, %d signals excluded)\n",
			fused.Probability, fused.Confidence, len(fused.Unavailable))
	}

	adjusted := d.pipeline.Run(&fusion.StageContext{
		Facts:    facts,
		Results:  results,
		Industry: classification,
	}, fused.Probability)

	outcome := &types.FusionOutcome{
		GhostProbability:   adjusted.Probability,
		Confidence:         fused.Confidence,
		RiskLevel:          adjusted.RiskLevel,
		Adjustments:        adjusted.Adjustments,
		UnavailableSignals: unavailableNames(results),
	}

	risk, positive := collectFactors(results, adjusted.Factors)
	outcome.RiskFactors = risk
	outcome.KeyFactors = positive

	if facts.IsSparse() {
		if outcome.Confidence > sparseConfidenceCap {
			outcome.Confidence = sparseConfidenceCap
		}
		outcome.RiskFactors = append(outcome.RiskFactors, "Posting carries almost no content to assess")
	}

	return outcome, nil
}

// evaluateAll runs every extractor concurrently, each under its own timeout.
// The errgroup never returns an error: per-signal failures are folded into
// the result map as unavailable or errored statuses.
func (d *Detector) evaluateAll(ctx context.Context, facts *types.JobFacts) map[string]types.SignalResult {
	extractors := d.extractors
	results := make([]types.SignalResult, len(extractors))

	g, gCtx := errgroup.WithContext(ctx)
	for i, extractor := range extractors {
		g.Go(func() error {
			results[i] = d.evaluateOne(gCtx, extractor, facts)
			return nil
		})
	}
	_ = g.Wait()

	byName := make(map[string]types.SignalResult, len(extractors))
	for i, extractor := range extractors {
		byName[extractor.Name()] = results[i]
		if d.verbose {
			fmt.Printf("Signal %-20s status=%-11s probability=%.3f\n",
				extractor.Name(), results[i].Status, results[i].Probability)
		}
	}
	return byName
}

// evaluateOne bounds a single signal with the per-signal timeout. A signal
// that overruns its deadline is reported unavailable; its goroutine is left
// to finish and its late result is discarded.
func (d *Detector) evaluateOne(ctx context.Context, e signals.Extractor, facts *types.JobFacts) types.SignalResult {
	evalCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan types.SignalResult, 1)
	go func() {
		done <- signals.SafeEvaluate(evalCtx, e, facts)
	}()

	select {
	case result := <-done:
		return result
	case <-evalCtx.Done():
		return types.Unavailable(fmt.Sprintf("signal %s timed out after %s", e.Name(), d.timeout))
	}
}

// collectFactors gathers factor descriptions in the fixed fused-signal order
// followed by the pipeline's stage-ordered factors, deduplicated, so the same
// inputs always yield the same factor lists.
func collectFactors(results map[string]types.SignalResult, pipelineFactors []types.Factor) (risk, positive []string) {
	fusedOrder := []string{
		signals.NameRuleBased,
		signals.NameSemantic,
		signals.NameSiteVerification,
	}

	seen := make(map[string]bool)
	add := func(factor types.Factor) {
		if factor.Description == "" || seen[factor.Description] {
			return
		}
		seen[factor.Description] = true
		if factor.Polarity == types.PolarityRisk {
			risk = append(risk, factor.Description)
		} else {
			positive = append(positive, factor.Description)
		}
	}

	for _, name := range fusedOrder {
		result, ok := results[name]
		if !ok || !result.Usable() {
			continue
		}
		for _, factor := range result.Factors {
			add(factor)
		}
	}
	for _, factor := range pipelineFactors {
		add(factor)
	}
	return risk, positive
}

func unavailableNames(results map[string]types.SignalResult) []string {
	var names []string
	for name, result := range results {
		if !result.Usable() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
