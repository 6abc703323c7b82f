package signals

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/ghost-job-detector/internal/fetch"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// Fixed deltas for the rule-based checks. Every risk delta is non-negative
// so adding a triggering condition can never lower the score.
const (
	heuristicBaseline = 0.40

	deltaUrgentTitle     = 0.15
	deltaGenericTitle    = 0.10
	deltaMissingDesc     = 0.20
	deltaShortDesc       = 0.15
	deltaVagueSalary     = 0.10
	deltaStaffingCompany = 0.12
	deltaJobBoardOnly    = 0.08
	deltaStalePosting    = 0.12

	deltaSalaryDisclosed = -0.10
	deltaDetailedDesc    = -0.08
	deltaDirectSource    = -0.10

	shortDescriptionChars    = 200
	detailedDescriptionChars = 300
	staleAfter               = 45 * 24 * time.Hour

	heuristicConfidence = 0.75
)

var urgentTitlePhrases = []string{
	"urgent", "hiring now", "immediate start", "apply now", "asap",
	"hiring immediately", "start today",
}

var genericTitlePhrases = []string{
	"various positions", "multiple openings", "general application",
	"all roles", "open application", "talent pool", "future opportunities",
}

var vagueSalaryPhrases = []string{
	"competitive salary", "competitive compensation", "salary doe",
	"compensation based on experience", "commission only", "unlimited earning",
}

var staffingKeywords = []string{
	"staffing", "consulting", "recruiting", "recruitment", "talent",
	"solutions", "agency", "consultancy",
}

var salaryRangePattern = regexp.MustCompile(`\$\s?\d`)

// RuleBasedHeuristic scores deterministic posting patterns. It is the only
// signal with no external collaborator and therefore never unavailable.
type RuleBasedHeuristic struct{}

// NewRuleBasedHeuristic creates the deterministic pattern signal.
func NewRuleBasedHeuristic() *RuleBasedHeuristic {
	return &RuleBasedHeuristic{}
}

// Name implements Extractor.
func (h *RuleBasedHeuristic) Name() string { return NameRuleBased }

// Evaluate accumulates fixed positive and negative deltas over a baseline
// and returns the clamped score with the triggered factors.
func (h *RuleBasedHeuristic) Evaluate(_ context.Context, facts *types.JobFacts) types.SignalResult {
	score := heuristicBaseline
	var factors []types.Factor

	risk := func(delta float64, description string) {
		score += delta
		factors = append(factors, types.Factor{Polarity: types.PolarityRisk, Description: description})
	}
	positive := func(delta float64, description string) {
		score += delta
		factors = append(factors, types.Factor{Polarity: types.PolarityPositive, Description: description})
	}

	title := strings.ToLower(facts.Title)
	description := strings.ToLower(facts.Description)
	companyName := strings.ToLower(facts.Company)

	if containsAny(title, urgentTitlePhrases) {
		risk(deltaUrgentTitle, "Urgent hiring language in title")
	}
	if containsAny(title, genericTitlePhrases) {
		risk(deltaGenericTitle, "Generic catch-all job title")
	}

	trimmedDesc := strings.TrimSpace(facts.Description)
	switch {
	case trimmedDesc == "":
		risk(deltaMissingDesc, "Missing job description")
	case len(trimmedDesc) < shortDescriptionChars:
		risk(deltaShortDesc, "Very short job description")
	case len(trimmedDesc) >= detailedDescriptionChars:
		positive(deltaDetailedDesc, "Detailed job description")
		if salaryRangePattern.MatchString(facts.Description) {
			positive(deltaSalaryDisclosed, "Salary range disclosed")
		}
	}

	if containsAny(description, vagueSalaryPhrases) {
		risk(deltaVagueSalary, "Vague or commission-only compensation language")
	}
	if containsAny(companyName, staffingKeywords) {
		risk(deltaStaffingCompany, "Staffing or consulting company posting")
	}

	switch fetch.DetectPlatform(facts.SourceURL) {
	case fetch.PlatformJobBoard:
		risk(deltaJobBoardOnly, "Posted on an aggregator job board, not a company source")
	case fetch.PlatformATS, fetch.PlatformCompanySite:
		positive(deltaDirectSource, "Posted via company ATS or careers site")
	}

	if facts.PostedAt != nil && time.Since(*facts.PostedAt) > staleAfter {
		risk(deltaStalePosting, "Stale posting, active for more than 45 days")
	}

	return types.OK(score, heuristicConfidence, factors...)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
