// Package dedup detects when a newly ingested posting duplicates one already
// stored, using weighted multi-field similarity over company-prefiltered
// candidates.
package dedup

import (
	"context"
	"math"
	"time"

	"github.com/jonathan/ghost-job-detector/internal/company"
	"github.com/jonathan/ghost-job-detector/internal/similarity"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// Field weights. Title dominates; company matching is binary on canonical
// equality because the prefilter has already normalized both sides.
const (
	titleWeight    = 0.40
	companyWeight  = 0.30
	locationWeight = 0.15
	dateWeight     = 0.15
)

// Duplicate decision thresholds. A pair whose titles and companies are equal
// after normalization needs less corroboration than a fuzzy-only match.
const (
	exactMatchThreshold = 0.6
	fuzzyMatchThreshold = 0.8
)

// Date proximity windows. Postings with both dates present decay linearly
// over a week; when the candidate's posting date is unknown its storage time
// stands in, under a looser two-week window.
const (
	postedDateWindow  = 7 * 24 * time.Hour
	createdDateWindow = 14 * 24 * time.Hour
)

// Detector scores a new posting against stored candidates.
type Detector struct {
	normalizer *company.Normalizer
}

// NewDetector creates a duplicate detector sharing the given company
// normalizer, so learned aliases influence the company prefilter.
func NewDetector(normalizer *company.Normalizer) *Detector {
	if normalizer == nil {
		normalizer = company.NewNormalizer(company.NewMemoryAliasStore())
	}
	return &Detector{normalizer: normalizer}
}

// FindDuplicate returns the first candidate, in list order, whose weighted
// similarity passes its applicable threshold, or nil when none does.
// Candidates from a different canonical company never match, regardless of
// how similar their other fields are.
func (d *Detector) FindDuplicate(ctx context.Context, facts *types.JobFacts, candidates []types.ExistingJob) *types.SimilarityScore {
	for i := range candidates {
		score := d.Score(ctx, facts, &candidates[i])
		if score == nil {
			continue
		}
		threshold := fuzzyMatchThreshold
		if score.ExactMatch {
			threshold = exactMatchThreshold
		}
		if score.WeightedScore >= threshold {
			return score
		}
	}
	return nil
}

// Score computes the weighted per-field similarity against one candidate.
// It returns nil when the companies resolve to different canonical names,
// or when either side's company is the unknown sentinel.
func (d *Detector) Score(ctx context.Context, facts *types.JobFacts, candidate *types.ExistingJob) *types.SimilarityScore {
	if !d.normalizer.SameCanonical(ctx, facts.Company, candidate.Company) {
		return nil
	}

	fields := types.FieldScores{
		Title:    similarity.Score(facts.Title, candidate.Title),
		Company:  1.0,
		Location: locationScore(facts.Location, candidate.Location),
		Date:     dateScore(facts.PostedAt, candidate),
	}

	weighted := titleWeight*fields.Title +
		companyWeight*fields.Company +
		locationWeight*fields.Location +
		dateWeight*fields.Date

	return &types.SimilarityScore{
		CandidateID:   candidate.ID,
		WeightedScore: types.Clamp(weighted),
		PerField:      fields,
		ExactMatch:    similarity.Normalize(facts.Title) == similarity.Normalize(candidate.Title),
	}
}

// locationScore treats two absent locations as agreement: remote-style
// postings frequently omit the field on both sides.
func locationScore(a, b string) float64 {
	if similarity.Normalize(a) == "" && similarity.Normalize(b) == "" {
		return 1.0
	}
	return similarity.Score(a, b)
}

// dateScore measures posting-date proximity. A new posting without a date
// gets full credit, since absence of a date must never prevent duplicate
// detection.
func dateScore(newPostedAt *time.Time, candidate *types.ExistingJob) float64 {
	if newPostedAt == nil {
		return 1.0
	}
	if candidate.PostedAt != nil {
		return linearDecay(newPostedAt.Sub(*candidate.PostedAt), postedDateWindow)
	}
	return linearDecay(newPostedAt.Sub(candidate.CreatedAt), createdDateWindow)
}

func linearDecay(gap time.Duration, window time.Duration) float64 {
	days := math.Abs(gap.Hours()) / 24
	windowDays := window.Hours() / 24
	if days >= windowDays {
		return 0
	}
	return 1 - days/windowDays
}
