package signals

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/ghost-job-detector/internal/company"
	"github.com/jonathan/ghost-job-detector/internal/similarity"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// repostWindow is how far back the detector searches for related postings.
const repostWindow = 90 * 24 * time.Hour

// RepostBand classifies how often a role has been republished.
type RepostBand string

// Repost frequency bands with their fixed probability deltas.
const (
	BandFirstPosting RepostBand = "first-posting"
	BandMinimal      RepostBand = "minimal"
	BandModerate     RepostBand = "moderate"
	BandFrequent     RepostBand = "frequent"
	BandExcessive    RepostBand = "excessive"
)

var bandDeltas = map[RepostBand]float64{
	BandFirstPosting: -0.05,
	BandMinimal:      0.0,
	BandModerate:     0.08,
	BandFrequent:     0.15,
	BandExcessive:    0.25,
}

// exactDuplicateDelta is added on top of the band delta when the identical
// content hash was seen before.
const exactDuplicateDelta = 0.10

// hiringSeasonMonths are conventional hiring pushes during which reposting
// is expected and the delta is halved.
var hiringSeasonMonths = map[time.Month]bool{
	time.January:   true,
	time.February:  true,
	time.September: true,
	time.October:   true,
}

// titleModifiers are seniority and level tokens stripped before root-title
// comparison, so "Senior Backend Engineer" and "Jr Backend Engineer" share
// a root.
var titleModifiers = map[string]bool{
	"senior": true, "sr": true, "jr": true, "junior": true,
	"lead": true, "staff": true, "principal": true, "associate": true,
	"intern": true, "entry": true, "level": true, "mid": true,
	"i": true, "ii": true, "iii": true, "iv": true,
	"1": true, "2": true, "3": true,
}

// HistoryStore is the read-only posting history consulted by the reposting
// detector. Implementations exist in-memory (tests) and on PostgreSQL.
type HistoryStore interface {
	// ExistsContentHash reports whether an identical posting was stored before.
	ExistsContentHash(ctx context.Context, hash string) (bool, error)
	// CountSimilarSince counts stored postings sharing a root title and root
	// company, posted after the cutoff.
	CountSimilarSince(ctx context.Context, rootTitle, rootCompany string, since time.Time) (int, error)
}

// RepostingPatternDetector detects republished postings via exact content
// hashing and root title/company frequency over a 90-day window.
type RepostingPatternDetector struct {
	store HistoryStore

	// Now is a clock hook for tests; defaults to time.Now.
	Now func() time.Time
}

// NewRepostingPatternDetector creates the reposting signal over the given
// history store.
func NewRepostingPatternDetector(store HistoryStore) *RepostingPatternDetector {
	return &RepostingPatternDetector{store: store, Now: time.Now}
}

// Name implements Extractor.
func (d *RepostingPatternDetector) Name() string { return NameReposting }

// Evaluate classifies the repost frequency band and maps it onto a neutral
// baseline; the adjustment pipeline later reads the delta back out.
func (d *RepostingPatternDetector) Evaluate(ctx context.Context, facts *types.JobFacts) types.SignalResult {
	if d.store == nil {
		return types.Unavailable("no posting history store configured")
	}

	rootTitle := RootTitle(facts.Title)
	rootCompany := company.NormalizeKey(facts.Company)
	if rootTitle == "" || rootCompany == "" {
		return types.Unavailable("insufficient fields for reposting analysis")
	}

	now := d.Now()
	count, err := d.store.CountSimilarSince(ctx, rootTitle, rootCompany, now.Add(-repostWindow))
	if err != nil {
		return types.Unavailable(fmt.Sprintf("posting history lookup failed: %v", err))
	}

	band := classifyRepostBand(count)
	delta := bandDeltas[band]

	var factors []types.Factor
	switch band {
	case BandFirstPosting:
		factors = append(factors, types.Factor{
			Polarity:    types.PolarityPositive,
			Description: "First observed posting for this role and company",
		})
	case BandModerate, BandFrequent, BandExcessive:
		factors = append(factors, types.Factor{
			Polarity:    types.PolarityRisk,
			Description: fmt.Sprintf("Role reposted %d times in the last 90 days (%s)", count, band),
		})
	}

	exact, err := d.store.ExistsContentHash(ctx, ContentHash(facts))
	if err == nil && exact {
		delta += exactDuplicateDelta
		factors = append(factors, types.Factor{
			Polarity:    types.PolarityRisk,
			Description: "Identical posting content previously observed",
		})
	}

	// Seasonal reposting around hiring pushes is expected; halve the effect.
	month := now.Month()
	if facts.PostedAt != nil {
		month = facts.PostedAt.Month()
	}
	if hiringSeasonMonths[month] && delta > 0 {
		delta *= 0.5
	}

	return types.OK(0.5+delta, 0.7, factors...)
}

func classifyRepostBand(count int) RepostBand {
	switch {
	case count == 0:
		return BandFirstPosting
	case count == 1:
		return BandMinimal
	case count <= 3:
		return BandModerate
	case count <= 6:
		return BandFrequent
	default:
		return BandExcessive
	}
}

// RootTitle strips seniority modifiers and keeps the first two significant
// words of a title, yielding a stable key for repost grouping.
func RootTitle(title string) string {
	normalized := similarity.Normalize(title)
	var kept []string
	for _, tok := range strings.Fields(normalized) {
		if titleModifiers[tok] {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == 2 {
			break
		}
	}
	return strings.Join(kept, " ")
}

// ContentHash hashes the normalized (title, company, description) triple for
// exact-duplicate detection. The persistence layer uses the same hash as its
// uniqueness constraint.
func ContentHash(facts *types.JobFacts) string {
	payload := similarity.Normalize(facts.Title) + "|" +
		company.NormalizeKey(facts.Company) + "|" +
		similarity.Normalize(facts.Description)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// MemoryHistoryStore is an in-process HistoryStore for tests and
// database-less deployments. Safe for concurrent use.
type MemoryHistoryStore struct {
	mu       sync.RWMutex
	hashes   map[string]bool
	postings []historyEntry
}

type historyEntry struct {
	rootTitle   string
	rootCompany string
	postedAt    time.Time
}

// NewMemoryHistoryStore creates an empty in-memory history store.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{hashes: make(map[string]bool)}
}

// Add records a posting in the history.
func (s *MemoryHistoryStore) Add(facts *types.JobFacts, postedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes[ContentHash(facts)] = true
	s.postings = append(s.postings, historyEntry{
		rootTitle:   RootTitle(facts.Title),
		rootCompany: company.NormalizeKey(facts.Company),
		postedAt:    postedAt,
	})
}

// ExistsContentHash implements HistoryStore.
func (s *MemoryHistoryStore) ExistsContentHash(_ context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hashes[hash], nil
}

// CountSimilarSince implements HistoryStore.
func (s *MemoryHistoryStore) CountSimilarSince(_ context.Context, rootTitle, rootCompany string, since time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.postings {
		if e.rootTitle == rootTitle && e.rootCompany == rootCompany && e.postedAt.After(since) {
			count++
		}
	}
	return count, nil
}

// Reset clears the history. Test hook.
func (s *MemoryHistoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes = make(map[string]bool)
	s.postings = nil
}
