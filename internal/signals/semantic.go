package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/ghost-job-detector/internal/llm"
	"github.com/jonathan/ghost-job-detector/internal/prompts"
	"github.com/jonathan/ghost-job-detector/internal/schemas"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// semanticResultSchema validates the model's JSON before it reaches fusion.
const semanticResultSchema = `{
  "type": "object",
  "required": ["ghost_probability", "confidence"],
  "properties": {
    "ghost_probability": {"type": "number", "minimum": 0, "maximum": 1},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "factors": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["polarity", "description"],
        "properties": {
          "polarity": {"type": "string", "enum": ["risk", "positive"]},
          "description": {"type": "string"}
        }
      }
    }
  }
}`

type semanticResponse struct {
	GhostProbability float64        `json:"ghost_probability"`
	Confidence       float64        `json:"confidence"`
	Factors          []types.Factor `json:"factors"`
}

// SemanticSignal delegates scoring to an external language model. A missing,
// timed-out, or misbehaving model is reported as unavailable and never fails
// the analysis.
type SemanticSignal struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewSemanticSignal creates the language-model-backed signal. A nil client
// yields a signal that is always unavailable.
func NewSemanticSignal(client llm.Client) *SemanticSignal {
	return &SemanticSignal{client: client, tier: llm.TierLite}
}

// Name implements Extractor.
func (s *SemanticSignal) Name() string { return NameSemantic }

// Evaluate asks the model for a schema-validated probability/confidence pair.
func (s *SemanticSignal) Evaluate(ctx context.Context, facts *types.JobFacts) types.SignalResult {
	if s.client == nil {
		return types.Unavailable("no language model configured")
	}

	raw, err := s.client.GenerateJSON(ctx, buildSemanticPrompt(facts), s.tier)
	if err != nil {
		return types.Unavailable(fmt.Sprintf("language model call failed: %v", err))
	}

	parsed, err := ParseSemanticResponse(raw)
	if err != nil {
		return types.Unavailable(fmt.Sprintf("language model response rejected: %v", err))
	}
	return parsed
}

// ParseSemanticResponse validates and decodes a raw model response into a
// SignalResult. Exposed for the HTTP layer, which may receive pre-computed
// semantic scores from an external inference service.
func ParseSemanticResponse(raw string) (types.SignalResult, error) {
	cleaned := llm.CleanJSONBlock(raw)

	if err := schemas.ValidateJSONString(semanticResultSchema, cleaned); err != nil {
		return types.SignalResult{}, err
	}

	var resp semanticResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return types.SignalResult{}, fmt.Errorf("failed to unmarshal semantic response: %w", err)
	}

	return types.OK(resp.GhostProbability, resp.Confidence, resp.Factors...), nil
}

func buildSemanticPrompt(facts *types.JobFacts) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title: %s\n", facts.Title))
	sb.WriteString(fmt.Sprintf("Company: %s\n", facts.Company))
	if facts.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", facts.Location))
	}
	if facts.PostedAt != nil {
		sb.WriteString(fmt.Sprintf("Posted: %s\n", facts.PostedAt.Format("2006-01-02")))
	}
	sb.WriteString("Description:\n\"\"\"\n")
	sb.WriteString(facts.Description)
	sb.WriteString("\n\"\"\"")

	template := prompts.MustGet("semantic.json", "assess-ghost-probability")
	return prompts.Format(template, map[string]string{"Posting": sb.String()})
}
