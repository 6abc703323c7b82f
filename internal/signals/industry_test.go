package signals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ghost-job-detector/internal/types"
)

func TestClassifyDecisiveTechnology(t *testing.T) {
	c := NewIndustryClassifier()

	classification := c.Classify(&types.JobFacts{
		Title:       "Senior Software Engineer",
		Company:     "Initech",
		Description: "Design backend services and a public api on cloud infrastructure.",
	})

	require.NotNil(t, classification)
	assert.Equal(t, "technology", classification.Profile.Name)
	assert.GreaterOrEqual(t, classification.Margin, classificationMinMargin)
	assert.InDelta(t, 0.9, classification.Confidence, 1e-9)
}

func TestClassifyCompanyIndicatorsWeighHeavier(t *testing.T) {
	c := NewIndustryClassifier()

	classification := c.Classify(&types.JobFacts{
		Title:       "Registered Nurse",
		Company:     "Mercy Health Clinic",
		Description: "Provide direct patient support on the night shift.",
	})

	require.NotNil(t, classification)
	assert.Equal(t, "healthcare", classification.Profile.Name)
}

func TestClassifyNothingMatches(t *testing.T) {
	c := NewIndustryClassifier()

	classification := c.Classify(&types.JobFacts{
		Title:       "Operations Coordinator",
		Company:     "Acme Inc.",
		Description: "Coordinate daily logistics for our warehouse team.",
	})

	assert.Nil(t, classification)
}

func TestClassifyThinMarginIsIndecisive(t *testing.T) {
	c := NewIndustryClassifier()

	// Technology scores 2 (engineer, backend) but finance scores 1 (analyst),
	// leaving a margin below the decisiveness gate.
	classification := c.Classify(&types.JobFacts{
		Title:       "Backend Engineer",
		Company:     "Acme Inc.",
		Description: "Pair with a data analyst on reporting.",
	})

	assert.Nil(t, classification)
}

func TestClassifyConfidenceGrowsWithMargin(t *testing.T) {
	c := NewIndustryClassifier()

	narrow := c.Classify(&types.JobFacts{
		Title:       "Backend Engineer",
		Company:     "Acme Inc.",
		Description: "Own a slice of the product.",
	})
	require.NotNil(t, narrow)
	assert.InDelta(t, 0.6, narrow.Confidence, 1e-9)

	wide := c.Classify(&types.JobFacts{
		Title:       "Senior Software Engineer",
		Company:     "Initech",
		Description: "Backend and frontend work across our api and cloud platform.",
	})
	require.NotNil(t, wide)
	assert.Greater(t, wide.Confidence, narrow.Confidence)
}

func TestIndustryEvaluate(t *testing.T) {
	c := NewIndustryClassifier()

	decisive := c.Evaluate(context.Background(), &types.JobFacts{
		Title:       "Senior Software Engineer",
		Company:     "Initech",
		Description: "Backend services with a public api on cloud infrastructure.",
	})
	require.Equal(t, types.StatusOK, decisive.Status)
	assert.InDelta(t, 0.5, decisive.Probability, 1e-9)
	assert.Equal(t, "classified as technology", decisive.Reason)

	indecisive := c.Evaluate(context.Background(), &types.JobFacts{
		Title:       "Operations Coordinator",
		Company:     "Acme Inc.",
		Description: "Coordinate daily logistics for our warehouse team.",
	})
	assert.Equal(t, types.StatusUnavailable, indecisive.Status)
}
