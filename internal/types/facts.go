// Package types defines the shared data model for the ghost job analysis engine.
package types

import (
	"strings"
	"time"
)

// JobFacts is the immutable input to a single analysis request. It is
// constructed fresh per request by the extraction layer and carries no
// identity of its own.
type JobFacts struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Description string     `json:"description"`
	Location    string     `json:"location,omitempty"`
	Remote      bool       `json:"remote,omitempty"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
	SourceURL   string     `json:"source_url"`
}

// IsSparse reports whether the posting carries no usable content at all.
// Sparse facts are still scored, but the resulting outcome is marked
// low-confidence.
func (f *JobFacts) IsSparse() bool {
	return strings.TrimSpace(f.Title) == "" &&
		strings.TrimSpace(f.Company) == "" &&
		strings.TrimSpace(f.Description) == ""
}

// Age returns the time elapsed since the posting date, or zero if the
// posting date is unknown.
func (f *JobFacts) Age(now time.Time) time.Duration {
	if f.PostedAt == nil {
		return 0
	}
	return now.Sub(*f.PostedAt)
}

// Clamp bounds a probability or confidence value to [0,1]. Every component
// clamps at its own boundary so unbounded values never propagate.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
