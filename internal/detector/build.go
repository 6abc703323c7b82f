package detector

import (
	"time"

	"github.com/jonathan/ghost-job-detector/internal/company"
	"github.com/jonathan/ghost-job-detector/internal/fetch"
	"github.com/jonathan/ghost-job-detector/internal/llm"
	"github.com/jonathan/ghost-job-detector/internal/signals"
)

// Deps carries the external collaborators for the default signal set. Any
// nil field yields a signal that reports itself unavailable instead of an
// assembly error.
type Deps struct {
	LLM        llm.Client
	Fetcher    fetch.Client
	History    signals.HistoryStore
	Reputation signals.ReputationProvider
	Engagement signals.EngagementProvider
	Normalizer *company.Normalizer

	// DomainSpacing is the minimum interval between requests to the same
	// company domain during site verification.
	DomainSpacing time.Duration
}

// DefaultExtractors assembles the full signal set in the canonical order.
func DefaultExtractors(deps Deps) []signals.Extractor {
	normalizer := deps.Normalizer
	if normalizer == nil {
		normalizer = company.NewNormalizer(company.NewMemoryAliasStore())
	}
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewHTTPClient(fetch.DefaultTimeout)
	}
	spacing := deps.DomainSpacing
	if spacing <= 0 {
		spacing = signals.DefaultDomainSpacing
	}

	return []signals.Extractor{
		signals.NewRuleBasedHeuristic(),
		signals.NewSemanticSignal(deps.LLM),
		signals.NewCompanySiteVerification(fetcher, spacing),
		signals.NewRepostingPatternDetector(deps.History),
		signals.NewIndustryClassifier(),
		signals.NewCompanyReputationSignal(deps.Reputation, normalizer),
		signals.NewEngagementSignal(deps.Engagement),
	}
}
