package company

import (
	"context"
	"sync"
)

// MemoryAliasStore is an in-process AliasStore used by tests and by
// deployments without a database. Safe for concurrent use.
type MemoryAliasStore struct {
	mu      sync.RWMutex
	aliases map[string]Alias
}

// NewMemoryAliasStore creates an empty in-memory alias store.
func NewMemoryAliasStore() *MemoryAliasStore {
	return &MemoryAliasStore{aliases: make(map[string]Alias)}
}

// Lookup returns the alias stored under key, or nil when none exists.
func (s *MemoryAliasStore) Lookup(_ context.Context, key string) (*Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alias, ok := s.aliases[key]
	if !ok {
		return nil, nil
	}
	return &alias, nil
}

// Learn inserts or upgrades an alias. An existing entry is replaced only
// when the new confidence is strictly higher, making relearning idempotent.
func (s *MemoryAliasStore) Learn(_ context.Context, alias Alias) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.aliases[alias.Key]
	if ok && existing.Confidence >= alias.Confidence {
		return nil
	}
	s.aliases[alias.Key] = alias
	return nil
}

// Reset clears all learned aliases. Test hook.
func (s *MemoryAliasStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases = make(map[string]Alias)
}

// Len returns the number of learned aliases.
func (s *MemoryAliasStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.aliases)
}
