package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ghost-job-detector/internal/company"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// StoredPosting is one row of observed posting history.
type StoredPosting struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	CompanyKey  string     `json:"company_key"`
	RootTitle   string     `json:"root_title"`
	Location    string     `json:"location,omitempty"`
	ContentHash string     `json:"content_hash"`
	SourceURL   string     `json:"source_url,omitempty"`
	Platform    string     `json:"platform"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Analysis is one persisted analysis result with enough posting context to
// be displayed without joining back to job_postings.
type Analysis struct {
	ID                 uuid.UUID                `json:"id"`
	PostingID          *uuid.UUID               `json:"posting_id,omitempty"`
	Title              string                   `json:"title"`
	Company            string                   `json:"company"`
	CompanyKey         string                   `json:"company_key"`
	SourceURL          string                   `json:"source_url,omitempty"`
	GhostProbability   float64                  `json:"ghost_probability"`
	Confidence         float64                  `json:"confidence"`
	RiskLevel          types.RiskLevel          `json:"risk_level"`
	RiskFactors        []string                 `json:"risk_factors,omitempty"`
	KeyFactors         []string                 `json:"key_factors,omitempty"`
	Adjustments        []types.AdjustmentRecord `json:"adjustments,omitempty"`
	UnavailableSignals []string                 `json:"unavailable_signals,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
}

// CompanyGhostRate aggregates one company's analysis history.
type CompanyGhostRate struct {
	Company          string  `json:"company"`
	AverageGhostRate float64 `json:"average_ghost_rate"`
	AnalysisCount    int     `json:"analysis_count"`
}

// Stats summarizes the stored analyses by risk tier.
type Stats struct {
	TotalAnalyses      int                `json:"total_analyses"`
	HighRisk           int                `json:"high_risk"`
	MediumRisk         int                `json:"medium_risk"`
	LowRisk            int                `json:"low_risk"`
	AverageProbability float64            `json:"average_probability"`
	TopGhostCompanies  []CompanyGhostRate `json:"top_ghost_companies,omitempty"`
}

// HistoryFilter narrows a history query. Zero values mean unfiltered.
type HistoryFilter struct {
	Company   string
	RiskLevel types.RiskLevel
	Limit     int
}

// DefaultHistoryLimit bounds unpaged history queries.
const DefaultHistoryLimit = 50

// companyKey derives the storage key for a raw company name. Placeholder
// and empty names key to the reserved sentinel so they never aggregate.
func companyKey(raw string) string {
	return company.NewNormalizer(nil).Normalize(context.Background(), raw).NormalizedKey
}
