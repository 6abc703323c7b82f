package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/ghost-job-detector/internal/types"
)

// SaveAnalysis persists one analysis outcome alongside its posting context.
// postingID may be uuid.Nil when history recording is disabled.
func (db *DB) SaveAnalysis(ctx context.Context, facts *types.JobFacts, outcome *types.FusionOutcome, postingID uuid.UUID) (*Analysis, error) {
	a := Analysis{
		Title:              facts.Title,
		Company:            facts.Company,
		CompanyKey:         companyKey(facts.Company),
		SourceURL:          facts.SourceURL,
		GhostProbability:   outcome.GhostProbability,
		Confidence:         outcome.Confidence,
		RiskLevel:          outcome.RiskLevel,
		RiskFactors:        outcome.RiskFactors,
		KeyFactors:         outcome.KeyFactors,
		Adjustments:        outcome.Adjustments,
		UnavailableSignals: outcome.UnavailableSignals,
	}
	if postingID != uuid.Nil {
		a.PostingID = &postingID
	}

	riskJSON, _ := json.Marshal(a.RiskFactors)
	keyJSON, _ := json.Marshal(a.KeyFactors)
	adjJSON, _ := json.Marshal(a.Adjustments)
	unavailableJSON, _ := json.Marshal(a.UnavailableSignals)

	err := db.pool.QueryRow(ctx,
		`INSERT INTO analyses (posting_id, title, company, company_key, source_url,
		                       ghost_probability, confidence, risk_level,
		                       risk_factors, key_factors, adjustments, unavailable_signals)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at`,
		a.PostingID, a.Title, a.Company, a.CompanyKey, a.SourceURL,
		a.GhostProbability, a.Confidence, a.RiskLevel,
		riskJSON, keyJSON, adjJSON, unavailableJSON,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return &a, nil
}

// History returns stored analyses, newest first, narrowed by the filter.
func (db *DB) History(ctx context.Context, filter HistoryFilter) ([]Analysis, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := `SELECT id, posting_id, title, company, company_key, source_url,
	                 ghost_probability, confidence, risk_level,
	                 risk_factors, key_factors, adjustments, unavailable_signals, created_at
	          FROM analyses WHERE 1=1`
	args := []any{}

	if filter.Company != "" {
		args = append(args, companyKey(filter.Company))
		query += fmt.Sprintf(" AND company_key = $%d", len(args))
	}
	if filter.RiskLevel != "" {
		args = append(args, string(filter.RiskLevel))
		query += fmt.Sprintf(" AND risk_level = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		var riskJSON, keyJSON, adjJSON, unavailableJSON []byte

		err := rows.Scan(&a.ID, &a.PostingID, &a.Title, &a.Company, &a.CompanyKey, &a.SourceURL,
			&a.GhostProbability, &a.Confidence, &a.RiskLevel,
			&riskJSON, &keyJSON, &adjJSON, &unavailableJSON, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}

		// Parse JSONB fields
		if riskJSON != nil {
			_ = json.Unmarshal(riskJSON, &a.RiskFactors)
		}
		if keyJSON != nil {
			_ = json.Unmarshal(keyJSON, &a.KeyFactors)
		}
		if adjJSON != nil {
			_ = json.Unmarshal(adjJSON, &a.Adjustments)
		}
		if unavailableJSON != nil {
			_ = json.Unmarshal(unavailableJSON, &a.UnavailableSignals)
		}

		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// GetStats aggregates the stored analyses into tier counts and the
// highest-ghost-rate companies. Companies whose name could not be resolved
// are excluded from the aggregation.
func (db *DB) GetStats(ctx context.Context, topCompanies int) (*Stats, error) {
	if topCompanies <= 0 {
		topCompanies = 10
	}

	var s Stats
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE risk_level = 'high'),
		        COUNT(*) FILTER (WHERE risk_level = 'medium'),
		        COUNT(*) FILTER (WHERE risk_level = 'low'),
		        COALESCE(AVG(ghost_probability), 0)
		 FROM analyses`,
	).Scan(&s.TotalAnalyses, &s.HighRisk, &s.MediumRisk, &s.LowRisk, &s.AverageProbability)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT company, AVG(ghost_probability) AS rate, COUNT(*) AS n
		 FROM analyses
		 WHERE company_key <> $1 AND company_key <> ''
		 GROUP BY company
		 HAVING COUNT(*) >= 2
		 ORDER BY rate DESC, n DESC
		 LIMIT $2`,
		types.UnknownCompanyCanonical, topCompanies,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query top ghost companies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c CompanyGhostRate
		if err := rows.Scan(&c.Company, &c.AverageGhostRate, &c.AnalysisCount); err != nil {
			return nil, fmt.Errorf("failed to scan company ghost rate: %w", err)
		}
		s.TopGhostCompanies = append(s.TopGhostCompanies, c)
	}
	return &s, rows.Err()
}
