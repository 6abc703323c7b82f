package types

import (
	"time"

	"github.com/google/uuid"
)

// ExistingJob is a previously stored posting handed to the duplicate
// detector by the persistence layer, already prefiltered by company.
type ExistingJob struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Company   string     `json:"company"`
	Location  string     `json:"location,omitempty"`
	PostedAt  *time.Time `json:"posted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// FieldScores breaks a duplicate-similarity score down per field.
type FieldScores struct {
	Title    float64 `json:"title"`
	Company  float64 `json:"company"`
	Location float64 `json:"location"`
	Date     float64 `json:"date"`
}

// SimilarityScore is the weighted multi-field similarity between a new
// posting and one stored candidate.
type SimilarityScore struct {
	CandidateID   uuid.UUID   `json:"candidate_id"`
	WeightedScore float64     `json:"weighted_score"`
	PerField      FieldScores `json:"per_field"`
	// ExactMatch is true when title and company are equal after
	// case/punctuation/suffix normalization, which lowers the duplicate
	// threshold relative to a fuzzy-only match.
	ExactMatch bool `json:"exact_match"`
}
