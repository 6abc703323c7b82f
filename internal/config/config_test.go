package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"api_key": "test-key",
		"database_url": "postgres://localhost/ghostjobs",
		"port": 8080,
		"high_risk_threshold": 0.65,
		"medium_risk_threshold": 0.40,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "postgres://localhost/ghostjobs", cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 0.65, cfg.HighRiskThreshold)
	assert.Equal(t, 0.40, cfg.MediumRiskThreshold)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := writeConfigFile(t, `{not json`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero config", Config{}, false},
		{"valid thresholds", Config{HighRiskThreshold: 0.65, MediumRiskThreshold: 0.40}, false},
		{"threshold above one", Config{HighRiskThreshold: 1.2}, true},
		{"negative threshold", Config{MediumRiskThreshold: -0.1}, true},
		{"inverted thresholds", Config{HighRiskThreshold: 0.4, MediumRiskThreshold: 0.6}, true},
		{"bad port", Config{Port: 99999}, true},
		{"negative timeout", Config{SignalTimeoutSeconds: -1}, true},
		{"negative spacing", Config{DomainSpacingSeconds: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{APIKey: "from-flags"}
	defaults := Config{
		APIKey:              "from-file",
		DatabaseURL:         "postgres://localhost/ghostjobs",
		Port:                8080,
		HighRiskThreshold:   0.7,
		MediumRiskThreshold: 0.35,
		Verbose:             true,
	}

	merged := cfg.MergeWithDefaults(defaults)

	// Explicit values win; zero values fall back to the defaults.
	assert.Equal(t, "from-flags", merged.APIKey)
	assert.Equal(t, "postgres://localhost/ghostjobs", merged.DatabaseURL)
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, 0.7, merged.HighRiskThreshold)
	assert.Equal(t, 0.35, merged.MediumRiskThreshold)
	assert.True(t, merged.Verbose)
}
