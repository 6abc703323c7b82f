package signals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ghost-job-detector/internal/llm"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Close() error { return nil }

func TestSemanticEvaluate(t *testing.T) {
	client := &fakeLLM{response: `{
		"ghost_probability": 0.8,
		"confidence": 0.7,
		"factors": [{"polarity": "risk", "description": "Vague, recycled description"}]
	}`}
	s := NewSemanticSignal(client)

	result := s.Evaluate(context.Background(), &types.JobFacts{
		Title:       "Backend Engineer",
		Company:     "Acme Inc.",
		Description: "Build Go services.",
	})

	require.Equal(t, types.StatusOK, result.Status)
	assert.InDelta(t, 0.8, result.Probability, 1e-9)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.Contains(t, result.RiskFactors(), "Vague, recycled description")
}

func TestSemanticEvaluateUnavailableWithoutClient(t *testing.T) {
	s := NewSemanticSignal(nil)

	result := s.Evaluate(context.Background(), &types.JobFacts{Title: "Backend Engineer"})
	assert.Equal(t, types.StatusUnavailable, result.Status)
}

func TestSemanticEvaluateClientFailure(t *testing.T) {
	s := NewSemanticSignal(&fakeLLM{err: errors.New("quota exceeded")})

	result := s.Evaluate(context.Background(), &types.JobFacts{Title: "Backend Engineer"})
	assert.Equal(t, types.StatusUnavailable, result.Status)
	assert.Contains(t, result.Reason, "quota exceeded")
}

func TestSemanticEvaluateRejectsMalformedResponse(t *testing.T) {
	s := NewSemanticSignal(&fakeLLM{response: "I cannot assess this posting."})

	result := s.Evaluate(context.Background(), &types.JobFacts{Title: "Backend Engineer"})
	assert.Equal(t, types.StatusUnavailable, result.Status)
}

func TestParseSemanticResponse(t *testing.T) {
	result, err := ParseSemanticResponse(`{"ghost_probability": 0.3, "confidence": 0.9}`)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, result.Probability, 1e-9)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
}

func TestParseSemanticResponseStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"ghost_probability\": 0.6, \"confidence\": 0.5}\n```"

	result, err := ParseSemanticResponse(raw)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, result.Probability, 1e-9)
}

func TestParseSemanticResponseRejectsOutOfRange(t *testing.T) {
	_, err := ParseSemanticResponse(`{"ghost_probability": 1.5, "confidence": 0.5}`)
	assert.Error(t, err)
}

func TestParseSemanticResponseRejectsMissingField(t *testing.T) {
	_, err := ParseSemanticResponse(`{"ghost_probability": 0.5}`)
	assert.Error(t, err)
}

func TestParseSemanticResponseRejectsInvalidJSON(t *testing.T) {
	_, err := ParseSemanticResponse(`{"ghost_probability": `)
	assert.Error(t, err)
}

func TestBuildSemanticPrompt(t *testing.T) {
	posted := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	prompt := buildSemanticPrompt(&types.JobFacts{
		Title:       "Backend Engineer",
		Company:     "Acme Inc.",
		Location:    "Denver, CO",
		Description: "Build Go services.",
		PostedAt:    &posted,
	})

	assert.Contains(t, prompt, "ghost_probability")
	assert.Contains(t, prompt, "Title: Backend Engineer")
	assert.Contains(t, prompt, "Location: Denver, CO")
	assert.Contains(t, prompt, "Posted: 2026-08-01")
	assert.Contains(t, prompt, "Build Go services.")
	assert.NotContains(t, prompt, "{{.Posting}}")
}
