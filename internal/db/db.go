// Package db provides PostgreSQL persistence for analyses, posting history,
// and learned company aliases.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables this package reads and writes. Safe to run
// on every startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, schemaDDL)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS job_postings (
    id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title         TEXT NOT NULL,
    company       TEXT NOT NULL,
    company_key   TEXT NOT NULL,
    root_title    TEXT NOT NULL,
    location      TEXT NOT NULL DEFAULT '',
    content_hash  TEXT NOT NULL UNIQUE,
    source_url    TEXT NOT NULL DEFAULT '',
    platform      TEXT NOT NULL DEFAULT 'unknown',
    posted_at     TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_job_postings_repost
    ON job_postings (company_key, root_title, created_at);
CREATE INDEX IF NOT EXISTS idx_job_postings_company_key
    ON job_postings (company_key);

CREATE TABLE IF NOT EXISTS analyses (
    id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    posting_id           UUID REFERENCES job_postings(id),
    title                TEXT NOT NULL,
    company              TEXT NOT NULL,
    company_key          TEXT NOT NULL,
    source_url           TEXT NOT NULL DEFAULT '',
    ghost_probability    DOUBLE PRECISION NOT NULL,
    confidence           DOUBLE PRECISION NOT NULL,
    risk_level           TEXT NOT NULL,
    risk_factors         JSONB,
    key_factors          JSONB,
    adjustments          JSONB,
    unavailable_signals  JSONB,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
CREATE INDEX IF NOT EXISTS idx_analyses_company_key ON analyses (company_key);

CREATE TABLE IF NOT EXISTS company_aliases (
    key         TEXT PRIMARY KEY,
    canonical   TEXT NOT NULL,
    confidence  DOUBLE PRECISION NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
