package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ghost-job-detector/internal/fetch"
	"github.com/jonathan/ghost-job-detector/internal/signals"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// RecordPosting stores one observed posting, keyed by content hash so the
// same content seen twice stays a single history row. It returns the stored
// row's ID and whether the content had been seen before.
func (db *DB) RecordPosting(ctx context.Context, facts *types.JobFacts) (*StoredPosting, bool, error) {
	p := StoredPosting{
		Title:       facts.Title,
		Company:     facts.Company,
		CompanyKey:  companyKey(facts.Company),
		RootTitle:   signals.RootTitle(facts.Title),
		Location:    facts.Location,
		ContentHash: signals.ContentHash(facts),
		SourceURL:   facts.SourceURL,
		Platform:    string(fetch.DetectPlatform(facts.SourceURL)),
		PostedAt:    facts.PostedAt,
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (title, company, company_key, root_title, location,
		                           content_hash, source_url, platform, posted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (content_hash) DO NOTHING
		 RETURNING id, created_at`,
		p.Title, p.Company, p.CompanyKey, p.RootTitle, p.Location,
		p.ContentHash, p.SourceURL, p.Platform, p.PostedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err == nil {
		return &p, false, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, fmt.Errorf("failed to record posting: %w", err)
	}

	// Conflict path: the hash already exists, fetch the original row.
	err = db.pool.QueryRow(ctx,
		`SELECT id, created_at FROM job_postings WHERE content_hash = $1`,
		p.ContentHash,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing posting: %w", err)
	}
	return &p, true, nil
}

// ExistsContentHash implements signals.HistoryStore.
func (db *DB) ExistsContentHash(ctx context.Context, hash string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM job_postings WHERE content_hash = $1)`,
		hash,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check content hash: %w", err)
	}
	return exists, nil
}

// CountSimilarSince implements signals.HistoryStore. It counts stored
// postings sharing the same root title and company key observed after the
// cutoff.
func (db *DB) CountSimilarSince(ctx context.Context, rootTitle, rootCompany string, since time.Time) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM job_postings
		 WHERE company_key = $1 AND root_title = $2
		   AND COALESCE(posted_at, created_at) >= $3`,
		rootCompany, rootTitle, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count similar postings: %w", err)
	}
	return count, nil
}

// ListCandidatesByCompany returns stored postings sharing the company key,
// newest first, for duplicate detection.
func (db *DB) ListCandidatesByCompany(ctx context.Context, companyKey string, limit int) ([]types.ExistingJob, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, company, location, posted_at, created_at
		 FROM job_postings
		 WHERE company_key = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		companyKey, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate postings: %w", err)
	}
	defer rows.Close()

	var candidates []types.ExistingJob
	for rows.Next() {
		var job types.ExistingJob
		if err := rows.Scan(&job.ID, &job.Title, &job.Company, &job.Location, &job.PostedAt, &job.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate posting: %w", err)
		}
		candidates = append(candidates, job)
	}
	return candidates, rows.Err()
}
