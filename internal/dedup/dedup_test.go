package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ghost-job-detector/internal/types"
)

func timePtr(t time.Time) *time.Time { return &t }

func newFacts(title, company, location string, postedAt *time.Time) *types.JobFacts {
	return &types.JobFacts{
		Title:       title,
		Company:     company,
		Description: "ignored by duplicate detection",
		Location:    location,
		PostedAt:    postedAt,
	}
}

func newCandidate(title, company, location string, postedAt *time.Time) types.ExistingJob {
	created := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	return types.ExistingJob{
		ID:        uuid.New(),
		Title:     title,
		Company:   company,
		Location:  location,
		PostedAt:  postedAt,
		CreatedAt: created,
	}
}

func TestScoreIdenticalPosting(t *testing.T) {
	d := NewDetector(nil)
	posted := timePtr(time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC))

	facts := newFacts("Backend Engineer", "Acme Inc.", "Denver, CO", posted)
	candidate := newCandidate("Backend Engineer", "Acme Corporation", "Denver, CO", posted)

	score := d.Score(context.Background(), facts, &candidate)
	require.NotNil(t, score)

	assert.True(t, score.ExactMatch)
	assert.InDelta(t, 1.0, score.WeightedScore, 1e-9)
	assert.Equal(t, 1.0, score.PerField.Title)
	assert.Equal(t, 1.0, score.PerField.Company)
	assert.Equal(t, 1.0, score.PerField.Location)
	assert.Equal(t, 1.0, score.PerField.Date)
}

func TestScoreDifferentCanonicalCompanyNeverMatches(t *testing.T) {
	d := NewDetector(nil)
	posted := timePtr(time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC))

	facts := newFacts("Backend Engineer", "Acme Inc.", "Denver, CO", posted)
	candidate := newCandidate("Backend Engineer", "Globex LLC", "Denver, CO", posted)

	assert.Nil(t, d.Score(context.Background(), facts, &candidate))
	assert.Nil(t, d.FindDuplicate(context.Background(), facts, []types.ExistingJob{candidate}))
}

func TestScoreUnknownCompanySentinelNeverMatches(t *testing.T) {
	d := NewDetector(nil)

	facts := newFacts("Backend Engineer", "Unknown Company", "", nil)
	candidate := newCandidate("Backend Engineer", "Unknown Company", "", nil)

	assert.Nil(t, d.Score(context.Background(), facts, &candidate))
}

func TestFindDuplicateExactTitleUsesLowerThreshold(t *testing.T) {
	d := NewDetector(nil)
	newDate := timePtr(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	oldDate := timePtr(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

	// Same title and company, but the location moved and months passed:
	// weighted score is 0.40 + 0.30 = 0.70, above the exact threshold only.
	facts := newFacts("Backend Engineer", "Acme Inc.", "Denver, CO", newDate)
	candidate := newCandidate("Backend Engineer", "ACME", "Austin, TX", oldDate)

	match := d.FindDuplicate(context.Background(), facts, []types.ExistingJob{candidate})
	require.NotNil(t, match)
	assert.True(t, match.ExactMatch)
	assert.InDelta(t, 0.70, match.WeightedScore, 1e-9)
}

func TestFindDuplicateFuzzyTitle(t *testing.T) {
	d := NewDetector(nil)
	posted := timePtr(time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC))

	facts := newFacts("Senior Backend Engineer", "Acme Inc.", "Denver, CO", posted)
	candidate := newCandidate("Backend Engineer", "Acme Inc.", "Denver, CO", posted)

	match := d.FindDuplicate(context.Background(), facts, []types.ExistingJob{candidate})
	require.NotNil(t, match)
	assert.False(t, match.ExactMatch)
	assert.GreaterOrEqual(t, match.WeightedScore, 0.8)
}

func TestFindDuplicateFuzzyBelowThreshold(t *testing.T) {
	d := NewDetector(nil)
	posted := timePtr(time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC))

	// Disjoint titles at the same company: 0.30 + 0.15 + 0.15 = 0.60, which
	// clears neither the fuzzy threshold nor the exact path.
	facts := newFacts("Data Analyst", "Acme Inc.", "Denver, CO", posted)
	candidate := newCandidate("Office Manager", "Acme Inc.", "Denver, CO", posted)

	assert.Nil(t, d.FindDuplicate(context.Background(), facts, []types.ExistingJob{candidate}))
}

func TestFindDuplicateReturnsFirstPassingCandidate(t *testing.T) {
	d := NewDetector(nil)
	posted := timePtr(time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC))

	facts := newFacts("Backend Engineer", "Acme Inc.", "Denver, CO", posted)
	miss := newCandidate("Office Manager", "Acme Inc.", "Denver, CO", posted)
	first := newCandidate("Backend Engineer", "Acme Inc.", "Denver, CO", posted)
	second := newCandidate("Backend Engineer", "Acme Inc.", "Denver, CO", posted)

	match := d.FindDuplicate(context.Background(), facts, []types.ExistingJob{miss, first, second})
	require.NotNil(t, match)
	assert.Equal(t, first.ID, match.CandidateID)
}

func TestDateScoreMissingNewDateGetsFullCredit(t *testing.T) {
	d := NewDetector(nil)

	facts := newFacts("Backend Engineer", "Acme Inc.", "Denver, CO", nil)
	candidate := newCandidate("Backend Engineer", "Acme Inc.", "Denver, CO",
		timePtr(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	score := d.Score(context.Background(), facts, &candidate)
	require.NotNil(t, score)
	assert.Equal(t, 1.0, score.PerField.Date)
}

func TestDateScoreLinearDecay(t *testing.T) {
	d := NewDetector(nil)
	base := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		gap  time.Duration
		want float64
	}{
		{"same day", 0, 1.0},
		{"half window", 3*24*time.Hour + 12*time.Hour, 0.5},
		{"window edge", 7 * 24 * time.Hour, 0.0},
		{"beyond window", 30 * 24 * time.Hour, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := newFacts("Backend Engineer", "Acme Inc.", "Denver, CO", timePtr(base))
			candidate := newCandidate("Backend Engineer", "Acme Inc.", "Denver, CO", timePtr(base.Add(-tt.gap)))

			score := d.Score(context.Background(), facts, &candidate)
			require.NotNil(t, score)
			assert.InDelta(t, tt.want, score.PerField.Date, 1e-9)
		})
	}
}

func TestDateScoreFallsBackToStorageTime(t *testing.T) {
	d := NewDetector(nil)

	// Candidate has no posting date; its CreatedAt of Aug 10 is 7 days from
	// the new posting under the looser 14-day window.
	facts := newFacts("Backend Engineer", "Acme Inc.", "Denver, CO",
		timePtr(time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC)))
	candidate := newCandidate("Backend Engineer", "Acme Inc.", "Denver, CO", nil)

	score := d.Score(context.Background(), facts, &candidate)
	require.NotNil(t, score)
	assert.InDelta(t, 0.5, score.PerField.Date, 1e-9)
}

func TestRemotePostingsWithoutLocationsAgree(t *testing.T) {
	d := NewDetector(nil)
	posted := timePtr(time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC))

	facts := newFacts("Backend Engineer", "Acme Inc.", "", posted)
	candidate := newCandidate("Backend Engineer", "Acme Inc.", "", posted)

	score := d.Score(context.Background(), facts, &candidate)
	require.NotNil(t, score)
	assert.Equal(t, 1.0, score.PerField.Location)
}
