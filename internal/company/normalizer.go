// Package company canonicalizes company name strings and learns aliases so
// that postings republished under name variants aggregate to one entity.
package company

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/ghost-job-detector/internal/similarity"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// corporateSuffixes are trailing legal-form tokens stripped before keying.
// Order matters: longer forms are checked first.
var corporateSuffixes = []string{
	"incorporated", "corporation", "limited", "company",
	"inc", "corp", "llc", "ltd", "co", "gmbh", "plc",
}

// placeholderNames normalize to the reserved unknown sentinel.
var placeholderNames = map[string]struct{}{
	"unknown company": {},
	"unknown":         {},
	"n a":             {},
	"confidential":    {},
}

// Alias associates a normalized key with a canonical company name.
type Alias struct {
	Key        string
	Canonical  string
	Confidence float64
}

// AliasStore is the injected persistence for learned name variations.
// Implementations must make Learn idempotent: relearning the same pair at
// lower confidence than the stored entry is a no-op, and concurrent learns
// may race with last-writer-wins but must never corrupt the table.
type AliasStore interface {
	Lookup(ctx context.Context, key string) (*Alias, error)
	Learn(ctx context.Context, alias Alias) error
}

// Normalizer canonicalizes company names against a learned alias table.
type Normalizer struct {
	store AliasStore
}

// NewNormalizer creates a Normalizer backed by the given alias store.
// A nil store yields a normalizer that cleans names without alias lookup.
func NewNormalizer(store AliasStore) *Normalizer {
	return &Normalizer{store: store}
}

// Normalize canonicalizes a raw company string. Empty and placeholder names
// resolve to the reserved sentinel canonical, which downstream dedup and
// stats layers must not aggregate on.
func (n *Normalizer) Normalize(ctx context.Context, raw string) types.NormalizedCompanyName {
	key := NormalizeKey(raw)

	if key == "" {
		return sentinelName()
	}
	if _, ok := placeholderNames[key]; ok {
		return sentinelName()
	}

	if n.store != nil {
		alias, err := n.store.Lookup(ctx, key)
		if err == nil && alias != nil {
			return types.NormalizedCompanyName{
				Canonical:     alias.Canonical,
				NormalizedKey: key,
				Confidence:    alias.Confidence,
				IsLearned:     true,
			}
		}
		// Lookup failures fall through to the cleaned form; normalization
		// must never fail an analysis.
	}

	return types.NormalizedCompanyName{
		Canonical:     key,
		NormalizedKey: key,
		Confidence:    1.0,
		IsLearned:     false,
	}
}

// LearnVariation records that variant is an alternate spelling of canonical.
// Relearning an existing pair at lower confidence is a no-op; the store
// enforces this so concurrent learners cannot downgrade an entry.
func (n *Normalizer) LearnVariation(ctx context.Context, canonical, variant string, confidence float64) error {
	if n.store == nil {
		return fmt.Errorf("no alias store configured")
	}

	canonicalKey := NormalizeKey(canonical)
	variantKey := NormalizeKey(variant)
	if canonicalKey == "" || variantKey == "" {
		return fmt.Errorf("cannot learn alias for empty company name")
	}
	if variantKey == canonicalKey {
		return nil // Identity aliases add nothing.
	}

	return n.store.Learn(ctx, Alias{
		Key:        variantKey,
		Canonical:  canonicalKey,
		Confidence: types.Clamp(confidence),
	})
}

// SameCanonical reports whether two raw names resolve to the same canonical.
// The sentinel never matches, including against itself.
func (n *Normalizer) SameCanonical(ctx context.Context, a, b string) bool {
	na := n.Normalize(ctx, a)
	nb := n.Normalize(ctx, b)
	if na.IsUnknown() || nb.IsUnknown() {
		return false
	}
	return na.Canonical == nb.Canonical
}

// NormalizeKey cleans a raw company string into its lookup key: lowercase,
// punctuation stripped, whitespace collapsed, trailing corporate suffixes
// removed.
func NormalizeKey(raw string) string {
	cleaned := similarity.Normalize(raw)
	if cleaned == "" {
		return ""
	}

	tokens := strings.Fields(cleaned)
	for len(tokens) > 1 {
		last := tokens[len(tokens)-1]
		if !isCorporateSuffix(last) {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

func isCorporateSuffix(token string) bool {
	for _, s := range corporateSuffixes {
		if token == s {
			return true
		}
	}
	return false
}

func sentinelName() types.NormalizedCompanyName {
	return types.NormalizedCompanyName{
		Canonical:     types.UnknownCompanyCanonical,
		NormalizedKey: types.UnknownCompanyCanonical,
		Confidence:    0,
		IsLearned:     false,
	}
}
