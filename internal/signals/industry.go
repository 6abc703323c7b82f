package signals

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/ghost-job-detector/internal/types"
)

// IndustryProfile carries the industry-specific vocabulary and tolerances
// consumed by the adjustment pipeline.
type IndustryProfile struct {
	Name              string
	Keywords          []string
	CompanyIndicators []string
	SuspiciousPhrases []string
	LegitimatePhrases []string
	// BuzzwordTolerance is the fraction of buzzword hits the industry
	// tolerates before they count against the posting.
	BuzzwordTolerance float64
	Buzzwords         []string
}

// IndustryClassification is the result of matching facts against the
// profile table.
type IndustryClassification struct {
	Profile    *IndustryProfile
	Score      int
	Margin     int
	Confidence float64
}

// classificationMinScore and classificationMinMargin gate how decisively a
// profile must win before its adjustments apply.
const (
	classificationMinScore  = 2
	classificationMinMargin = 2
)

// IndustryClassifier matches postings against a fixed table of industry
// profiles.
type IndustryClassifier struct {
	profiles []IndustryProfile
}

// NewIndustryClassifier creates a classifier with the default profile table.
func NewIndustryClassifier() *IndustryClassifier {
	return &IndustryClassifier{profiles: defaultIndustryProfiles()}
}

// Name implements Extractor.
func (c *IndustryClassifier) Name() string { return NameIndustry }

// Evaluate reports the classification as a neutral-probability signal; the
// real effect comes from the pipeline stage that reads the classification.
func (c *IndustryClassifier) Evaluate(_ context.Context, facts *types.JobFacts) types.SignalResult {
	classification := c.Classify(facts)
	if classification == nil {
		return types.Unavailable("no industry profile matched decisively")
	}

	result := types.OK(0.5, classification.Confidence)
	result.Reason = fmt.Sprintf("classified as %s", classification.Profile.Name)
	return result
}

// Classify returns the winning industry profile, or nil when no profile
// scores high enough or the winner's margin over the runner-up is too thin.
func (c *IndustryClassifier) Classify(facts *types.JobFacts) *IndustryClassification {
	text := strings.ToLower(facts.Title + " " + facts.Description)
	companyName := strings.ToLower(facts.Company)

	best, runnerUp := -1, 0
	var winner *IndustryProfile

	for i := range c.profiles {
		profile := &c.profiles[i]
		score := 0
		for _, kw := range profile.Keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		for _, indicator := range profile.CompanyIndicators {
			if strings.Contains(companyName, indicator) {
				score += 2
			}
		}

		if score > best {
			runnerUp = best
			best = score
			winner = profile
		} else if score > runnerUp {
			runnerUp = score
		}
	}
	if runnerUp < 0 {
		runnerUp = 0
	}

	margin := best - runnerUp
	if winner == nil || best < classificationMinScore || margin < classificationMinMargin {
		return nil
	}

	// Confidence grows with the winning margin, capped well below certainty.
	confidence := types.Clamp(0.4 + 0.1*float64(margin))
	if confidence > 0.9 {
		confidence = 0.9
	}

	return &IndustryClassification{
		Profile:    winner,
		Score:      best,
		Margin:     margin,
		Confidence: confidence,
	}
}

func defaultIndustryProfiles() []IndustryProfile {
	return []IndustryProfile{
		{
			Name:              "technology",
			Keywords:          []string{"software", "engineer", "developer", "cloud", "devops", "backend", "frontend", "api", "data pipeline", "machine learning"},
			CompanyIndicators: []string{"tech", "software", "labs", "digital", "systems"},
			SuspiciousPhrases: []string{"rockstar", "ninja", "10x engineer", "wear many hats", "work hard play hard"},
			LegitimatePhrases: []string{"tech stack", "code review", "on-call", "ci/cd", "kubernetes", "system design"},
			BuzzwordTolerance: 0.4,
			Buzzwords:         []string{"fast-paced", "dynamic", "disruptive", "synergy", "cutting-edge"},
		},
		{
			Name:              "healthcare",
			Keywords:          []string{"nurse", "clinical", "patient", "medical", "physician", "rn ", "therapist", "pharmacy"},
			CompanyIndicators: []string{"health", "medical", "clinic", "hospital", "care"},
			SuspiciousPhrases: []string{"unlimited earning potential", "no license required"},
			LegitimatePhrases: []string{"licensure", "hipaa", "per diem", "credentialing", "board certified"},
			BuzzwordTolerance: 0.2,
			Buzzwords:         []string{"fast-paced", "dynamic", "compassionate culture"},
		},
		{
			Name:              "finance",
			Keywords:          []string{"analyst", "banking", "trading", "accounting", "audit", "financial", "portfolio", "underwriting"},
			CompanyIndicators: []string{"capital", "bank", "financial", "holdings", "asset"},
			SuspiciousPhrases: []string{"no experience necessary", "six figures guaranteed", "get rich"},
			LegitimatePhrases: []string{"series 7", "cpa", "fp&a", "gaap", "reconciliation"},
			BuzzwordTolerance: 0.2,
			Buzzwords:         []string{"fast-paced", "dynamic", "results-driven"},
		},
		{
			Name:              "government",
			Keywords:          []string{"federal", "agency", "clearance", "public sector", "civil service", "municipal"},
			CompanyIndicators: []string{"department", "bureau", "city of", "state of", "county"},
			SuspiciousPhrases: []string{"immediate hire no background check"},
			LegitimatePhrases: []string{"security clearance", "gs-", "usajobs", "veterans preference"},
			BuzzwordTolerance: 0.1,
			Buzzwords:         []string{"dynamic", "fast-paced"},
		},
		{
			Name:              "sales",
			Keywords:          []string{"sales", "account executive", "business development", "quota", "pipeline", "prospecting"},
			CompanyIndicators: []string{"sales", "marketing", "media"},
			SuspiciousPhrases: []string{"commission only", "uncapped commission", "be your own boss", "unlimited income"},
			LegitimatePhrases: []string{"ote", "crm", "salesforce", "base salary plus commission"},
			BuzzwordTolerance: 0.5,
			Buzzwords:         []string{"rockstar", "hunter", "go-getter", "self-starter"},
		},
	}
}
