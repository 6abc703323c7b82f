package signals

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/ghost-job-detector/internal/company"
	"github.com/jonathan/ghost-job-detector/internal/fetch"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// careerPaths are the conventional career-page locations probed in order.
var careerPaths = []string{"/careers", "/jobs", "/careers/jobs", "/join-us", "/about/careers"}

// boilerplatePhrases are job-page phrases whose presence marks a real
// careers page.
var boilerplatePhrases = []string{
	"apply", "open positions", "open roles", "join our team",
	"benefits", "equal opportunity",
}

// Presence scoring weights: title-keyword overlap, company-name presence,
// and boilerplate phrase count.
const (
	weightTitleOverlap    = 0.4
	weightCompanyPresence = 0.3
	weightBoilerplate     = 0.3

	verifiedScoreFloor = 0.5
	partialScoreFloor  = 0.2

	// DefaultDomainSpacing is the minimum gap between probes of the same
	// external domain. Requests inside the window short-circuit to
	// unavailable rather than blocking.
	DefaultDomainSpacing = 30 * time.Second
)

// domainGate enforces minimum spacing between requests to the same domain
// using a last-request-timestamp map, deliberately not a token bucket.
type domainGate struct {
	mu      sync.Mutex
	last    map[string]time.Time
	spacing time.Duration
	now     func() time.Time
}

func newDomainGate(spacing time.Duration, now func() time.Time) *domainGate {
	if spacing <= 0 {
		spacing = DefaultDomainSpacing
	}
	if now == nil {
		now = time.Now
	}
	return &domainGate{last: make(map[string]time.Time), spacing: spacing, now: now}
}

// allow reports whether the domain may be probed now, recording the attempt
// when permitted.
func (g *domainGate) allow(domain string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.last[domain]; ok && now.Sub(last) < g.spacing {
		return false
	}
	g.last[domain] = now
	return true
}

func (g *domainGate) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = make(map[string]time.Time)
}

// CompanySiteVerification probes a company's conventional career-page paths
// and scores whether the posting is corroborated there. It has process-wide
// lifetime so its per-domain spacing survives across requests.
type CompanySiteVerification struct {
	fetcher fetch.Client
	gate    *domainGate
}

// NewCompanySiteVerification creates the verification signal. A zero spacing
// uses DefaultDomainSpacing.
func NewCompanySiteVerification(fetcher fetch.Client, spacing time.Duration) *CompanySiteVerification {
	return &CompanySiteVerification{
		fetcher: fetcher,
		gate:    newDomainGate(spacing, nil),
	}
}

// SetClock overrides the gate clock. Test hook.
func (v *CompanySiteVerification) SetClock(now func() time.Time) {
	v.gate.now = now
}

// Reset clears the per-domain spacing windows. Test hook.
func (v *CompanySiteVerification) Reset() {
	v.gate.reset()
}

// Name implements Extractor.
func (v *CompanySiteVerification) Name() string { return NameSiteVerification }

// Evaluate derives the company domain, probes its career paths, and scores
// posting presence. Network failure yields a neutral unavailable result;
// a clean "not found" is a moderate risk signal.
func (v *CompanySiteVerification) Evaluate(ctx context.Context, facts *types.JobFacts) types.SignalResult {
	if v.fetcher == nil {
		return types.Unavailable("no fetch client configured")
	}

	domain := v.candidateDomain(facts)
	if domain == "" {
		return types.Unavailable("no candidate company domain")
	}

	if !v.gate.allow(domain) {
		return types.Unavailable(fmt.Sprintf("domain %s probed too recently", domain))
	}

	var page *fetch.Result
	networkFailures := 0
	for _, path := range careerPaths {
		result, err := v.fetcher.FetchText(ctx, "https://"+domain+path)
		if err != nil {
			if result == nil {
				networkFailures++ // transport-level failure, not a 404
			}
			continue
		}
		page = result
		break
	}

	if page == nil {
		if networkFailures == len(careerPaths) {
			return types.Unavailable(fmt.Sprintf("domain %s unreachable", domain))
		}
		return types.OK(0.65, 0.6, types.Factor{
			Polarity:    types.PolarityRisk,
			Description: "No careers page found on company domain",
		})
	}

	score := presenceScore(page.Text, facts)
	switch {
	case score >= verifiedScoreFloor:
		return types.OK(0.2, 0.8, types.Factor{
			Polarity:    types.PolarityPositive,
			Description: "Posting corroborated on company careers site",
		})
	case score >= partialScoreFloor:
		return types.OK(0.45, 0.5, types.Factor{
			Polarity:    types.PolarityPositive,
			Description: "Company careers site exists but does not list this role",
		})
	default:
		return types.OK(0.6, 0.5, types.Factor{
			Polarity:    types.PolarityRisk,
			Description: "Company careers site shows no trace of this posting",
		})
	}
}

// candidateDomain prefers the posting URL's own domain and falls back to a
// domain guessed from the suffix-stripped company name.
func (v *CompanySiteVerification) candidateDomain(facts *types.JobFacts) string {
	if domain := fetch.CompanyDomain(facts.SourceURL); domain != "" {
		return domain
	}

	key := company.NormalizeKey(facts.Company)
	if key == "" {
		return ""
	}
	return strings.ReplaceAll(key, " ", "") + ".com"
}

// presenceScore combines title-keyword overlap (40%), company-name presence
// (30%), and boilerplate phrase count (30%) into one [0,1] score.
func presenceScore(pageText string, facts *types.JobFacts) float64 {
	text := strings.ToLower(pageText)

	titleWords := significantWords(facts.Title)
	overlap := 0.0
	if len(titleWords) > 0 {
		hits := 0
		for _, w := range titleWords {
			if strings.Contains(text, w) {
				hits++
			}
		}
		overlap = float64(hits) / float64(len(titleWords))
	}

	companyPresence := 0.0
	if key := company.NormalizeKey(facts.Company); key != "" && strings.Contains(text, key) {
		companyPresence = 1.0
	}

	boilerplate := 0
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(text, phrase) {
			boilerplate++
		}
	}
	boilerplateScore := float64(boilerplate) / 3.0
	if boilerplateScore > 1 {
		boilerplateScore = 1
	}

	return types.Clamp(weightTitleOverlap*overlap +
		weightCompanyPresence*companyPresence +
		weightBoilerplate*boilerplateScore)
}

func significantWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}
