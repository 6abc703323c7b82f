// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key for the semantic signal
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information

	// Server
	Port int `json:"port,omitempty"` // HTTP listen port for serve mode

	// Scoring
	HighRiskThreshold   float64 `json:"high_risk_threshold,omitempty"`   // Probability at or above which risk is high (0-1)
	MediumRiskThreshold float64 `json:"medium_risk_threshold,omitempty"` // Probability at or above which risk is medium (0-1)

	// Collaborator pacing
	SignalTimeoutSeconds int `json:"signal_timeout_seconds,omitempty"` // Per-signal evaluation budget
	DomainSpacingSeconds int `json:"domain_spacing_seconds,omitempty"` // Minimum spacing between requests to one company domain
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	if c.HighRiskThreshold < 0 || c.HighRiskThreshold > 1 {
		return fmt.Errorf("config error: 'high_risk_threshold' must be between 0 and 1")
	}
	if c.MediumRiskThreshold < 0 || c.MediumRiskThreshold > 1 {
		return fmt.Errorf("config error: 'medium_risk_threshold' must be between 0 and 1")
	}
	if c.HighRiskThreshold != 0 && c.MediumRiskThreshold != 0 &&
		c.MediumRiskThreshold >= c.HighRiskThreshold {
		return fmt.Errorf("config error: 'medium_risk_threshold' must be below 'high_risk_threshold'")
	}

	if c.SignalTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'signal_timeout_seconds' must be non-negative")
	}
	if c.DomainSpacingSeconds < 0 {
		return fmt.Errorf("config error: 'domain_spacing_seconds' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.HighRiskThreshold == 0 {
		result.HighRiskThreshold = defaults.HighRiskThreshold
	}
	if result.MediumRiskThreshold == 0 {
		result.MediumRiskThreshold = defaults.MediumRiskThreshold
	}
	if result.SignalTimeoutSeconds == 0 {
		result.SignalTimeoutSeconds = defaults.SignalTimeoutSeconds
	}
	if result.DomainSpacingSeconds == 0 {
		result.DomainSpacingSeconds = defaults.DomainSpacingSeconds
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
