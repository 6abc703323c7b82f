// Package llm provides the language-model client used by the semantic
// signal. The engine treats a missing or erroring model identically to any
// other unavailable collaborator.
package llm

// ModelTier represents the capability level of a model.
type ModelTier string

const (
	// TierLite is for cheap structured scoring calls.
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning over long descriptions.
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider.
type Provider string

// Provider constants define supported LLM providers.
const (
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the detector.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini).
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a tier, falling back to lite.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
