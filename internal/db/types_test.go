package db

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ghost-job-detector/internal/types"
)

func TestCompanyKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain name", "Acme", "acme"},
		{"suffix stripped", "Acme Inc.", "acme"},
		{"stacked suffixes", "Acme Holdings Co., Ltd.", "acme holdings"},
		{"case and punctuation", "ACME, Incorporated", "acme"},
		{"empty keys to sentinel", "", types.UnknownCompanyCanonical},
		{"placeholder keys to sentinel", "Unknown Company", types.UnknownCompanyCanonical},
		{"confidential keys to sentinel", "Confidential", types.UnknownCompanyCanonical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, companyKey(tt.raw))
		})
	}
}
