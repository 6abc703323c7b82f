package signals

import (
	"context"
	"fmt"

	"github.com/jonathan/ghost-job-detector/internal/company"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// ReputationProvider supplies a company's historical ghost-posting score.
// Score 1 means the company's past postings were overwhelmingly ghosts.
type ReputationProvider interface {
	CompanyReputation(ctx context.Context, canonical string) (score, confidence float64, err error)
}

// EngagementProvider supplies an applicant-engagement level for a posting.
// Level 1 means strong observed engagement (responses, interviews, hires).
type EngagementProvider interface {
	Engagement(ctx context.Context, facts *types.JobFacts) (level, confidence float64, err error)
}

// CompanyReputationSignal wraps an external reputation data provider.
// Without a provider, or for sentinel companies, it is unavailable with
// neutral effect.
type CompanyReputationSignal struct {
	provider   ReputationProvider
	normalizer *company.Normalizer
}

// NewCompanyReputationSignal creates the reputation signal.
func NewCompanyReputationSignal(provider ReputationProvider, normalizer *company.Normalizer) *CompanyReputationSignal {
	return &CompanyReputationSignal{provider: provider, normalizer: normalizer}
}

// Name implements Extractor.
func (s *CompanyReputationSignal) Name() string { return NameReputation }

// Evaluate looks up the canonical company's reputation score.
func (s *CompanyReputationSignal) Evaluate(ctx context.Context, facts *types.JobFacts) types.SignalResult {
	if s.provider == nil {
		return types.Unavailable("no reputation provider configured")
	}

	normalized := s.normalizer.Normalize(ctx, facts.Company)
	if normalized.IsUnknown() {
		return types.Unavailable("company name unusable for reputation lookup")
	}

	score, confidence, err := s.provider.CompanyReputation(ctx, normalized.Canonical)
	if err != nil {
		return types.Unavailable(fmt.Sprintf("reputation lookup failed: %v", err))
	}

	var factors []types.Factor
	switch {
	case score >= 0.7:
		factors = append(factors, types.Factor{
			Polarity:    types.PolarityRisk,
			Description: "Company has a history of likely ghost postings",
		})
	case score <= 0.3:
		factors = append(factors, types.Factor{
			Polarity:    types.PolarityPositive,
			Description: "Company has a clean posting history",
		})
	}

	return types.OK(score, confidence, factors...)
}

// EngagementSignal wraps an external engagement data provider.
type EngagementSignal struct {
	provider EngagementProvider
}

// NewEngagementSignal creates the engagement signal.
func NewEngagementSignal(provider EngagementProvider) *EngagementSignal {
	return &EngagementSignal{provider: provider}
}

// Name implements Extractor.
func (s *EngagementSignal) Name() string { return NameEngagement }

// Evaluate converts an engagement level into a ghost probability: strong
// engagement argues against a ghost posting.
func (s *EngagementSignal) Evaluate(ctx context.Context, facts *types.JobFacts) types.SignalResult {
	if s.provider == nil {
		return types.Unavailable("no engagement provider configured")
	}

	level, confidence, err := s.provider.Engagement(ctx, facts)
	if err != nil {
		return types.Unavailable(fmt.Sprintf("engagement lookup failed: %v", err))
	}

	var factors []types.Factor
	switch {
	case level >= 0.7:
		factors = append(factors, types.Factor{
			Polarity:    types.PolarityPositive,
			Description: "Strong applicant engagement observed for this posting",
		})
	case level <= 0.2:
		factors = append(factors, types.Factor{
			Polarity:    types.PolarityRisk,
			Description: "No applicant engagement observed for this posting",
		})
	}

	return types.OK(1-types.Clamp(level), confidence, factors...)
}
