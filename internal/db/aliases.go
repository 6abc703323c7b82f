package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/ghost-job-detector/internal/company"
)

// Lookup implements company.AliasStore.
func (db *DB) Lookup(ctx context.Context, key string) (*company.Alias, error) {
	var alias company.Alias
	err := db.pool.QueryRow(ctx,
		`SELECT key, canonical, confidence FROM company_aliases WHERE key = $1`,
		key,
	).Scan(&alias.Key, &alias.Canonical, &alias.Confidence)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up alias: %w", err)
	}
	return &alias, nil
}

// Learn implements company.AliasStore. Relearning an existing key only takes
// effect at strictly higher confidence, enforced in the statement itself so
// concurrent learners cannot downgrade an entry.
func (db *DB) Learn(ctx context.Context, alias company.Alias) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO company_aliases (key, canonical, confidence)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE
		   SET canonical = EXCLUDED.canonical,
		       confidence = EXCLUDED.confidence,
		       updated_at = NOW()
		   WHERE EXCLUDED.confidence > company_aliases.confidence`,
		alias.Key, alias.Canonical, alias.Confidence,
	)
	if err != nil {
		return fmt.Errorf("failed to learn alias: %w", err)
	}
	return nil
}
