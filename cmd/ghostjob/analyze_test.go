package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetAnalyzeFlags() {
	analyzeTitle = ""
	analyzeCompany = ""
	analyzeDesc = ""
	analyzeDescFile = ""
	analyzeLocation = ""
	analyzeRemote = false
	analyzePostedAt = ""
	analyzeURL = ""
}

func TestBuildFacts(t *testing.T) {
	resetAnalyzeFlags()
	analyzeTitle = "Backend Engineer"
	analyzeCompany = "Acme Inc."
	analyzeDesc = "Build Go services."
	analyzePostedAt = "2026-08-01"

	facts, err := buildFacts()
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", facts.Title)
	assert.Equal(t, "Acme Inc.", facts.Company)
	require.NotNil(t, facts.PostedAt)
	assert.Equal(t, "2026-08-01", facts.PostedAt.Format("2006-01-02"))
}

func TestBuildFactsFromDescriptionFile(t *testing.T) {
	resetAnalyzeFlags()
	path := filepath.Join(t.TempDir(), "desc.txt")
	require.NoError(t, os.WriteFile(path, []byte("Long description from file."), 0o600))

	analyzeTitle = "Backend Engineer"
	analyzeDescFile = path

	facts, err := buildFacts()
	require.NoError(t, err)
	assert.Equal(t, "Long description from file.", facts.Description)
}

func TestBuildFactsRejectsBothDescriptionSources(t *testing.T) {
	resetAnalyzeFlags()
	analyzeDesc = "inline"
	analyzeDescFile = "somewhere.txt"

	_, err := buildFacts()
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	_, err := parseDate("2026-08-01T09:30:00Z")
	assert.NoError(t, err)

	_, err = parseDate("2026-08-01")
	assert.NoError(t, err)

	_, err = parseDate("yesterday")
	assert.Error(t, err)
}
