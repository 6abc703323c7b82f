// Package signals implements the independent ghost-job signal extractors.
// Each extractor produces a bounded score, a confidence, and named factors
// from the same immutable JobFacts; any extractor may report itself
// unavailable instead of failing the whole analysis.
package signals

import (
	"context"
	"fmt"

	"github.com/jonathan/ghost-job-detector/internal/types"
)

// Canonical signal names, used as fusion weight keys and audit labels.
const (
	NameRuleBased        = "rule_based"
	NameSemantic         = "semantic"
	NameSiteVerification = "site_verification"
	NameReposting        = "reposting_pattern"
	NameIndustry         = "industry"
	NameReputation       = "company_reputation"
	NameEngagement       = "engagement"
)

// Extractor is the common capability all signals implement. Evaluate never
// returns an error: collaborator failures become status unavailable and
// internal failures become status errored.
type Extractor interface {
	Name() string
	Evaluate(ctx context.Context, facts *types.JobFacts) types.SignalResult
}

// SafeEvaluate runs an extractor and converts panics into an errored result,
// so one misbehaving signal can never abort an analysis.
func SafeEvaluate(ctx context.Context, e Extractor, facts *types.JobFacts) (result types.SignalResult) {
	defer func() {
		if r := recover(); r != nil {
			result = types.Errored(fmt.Sprintf("signal %s panicked: %v", e.Name(), r))
		}
	}()
	return e.Evaluate(ctx, facts)
}
