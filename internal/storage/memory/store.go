// Package memory provides an in-memory storage implementation for tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/delegation-tools/delegation-manager/internal/domain"
	"github.com/delegation-tools/delegation-manager/internal/storage"
)

const defaultAuditLimit = 100

// Store implements storage.Storage with in-process maps.
type Store struct {
	mu      sync.RWMutex
	apiKeys map[string]*domain.APIKey
	audit   []*domain.AuditEntry
}

var _ storage.Storage = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{apiKeys: make(map[string]*domain.APIKey)}
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

func copyKey(key *domain.APIKey) *domain.APIKey {
	c := *key
	if key.LastUsedAt != nil {
		t := *key.LastUsedAt
		c.LastUsedAt = &t
	}
	return &c
}

func (s *Store) CreateAPIKey(_ context.Context, key *domain.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apiKeys[key.ID]; ok {
		return domain.ErrAlreadyExists
	}
	for _, existing := range s.apiKeys {
		if existing.KeyHash == key.KeyHash {
			return domain.ErrAlreadyExists
		}
	}
	s.apiKeys[key.ID] = copyKey(key)
	return nil
}

func (s *Store) GetAPIKeyByHash(_ context.Context, keyHash string) (*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, key := range s.apiKeys {
		if key.KeyHash == keyHash {
			return copyKey(key), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListAPIKeys(_ context.Context) ([]*domain.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]*domain.APIKey, 0, len(s.apiKeys))
	for _, key := range s.apiKeys {
		keys = append(keys, copyKey(key))
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].CreatedAt.After(keys[j].CreatedAt)
	})
	return keys, nil
}

func (s *Store) DeleteAPIKey(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apiKeys[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.apiKeys, id)
	return nil
}

func (s *Store) UpdateAPIKeyLastUsed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.apiKeys[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	key.LastUsedAt = &now
	return nil
}

func (s *Store) CountAPIKeys(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.apiKeys), nil
}

func (s *Store) CreateAuditEntry(_ context.Context, entry *domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.audit {
		if existing.ID == entry.ID {
			return domain.ErrAlreadyExists
		}
	}
	c := *entry
	s.audit = append(s.audit, &c)
	return nil
}

func (s *Store) GetAuditEntry(_ context.Context, id string) (*domain.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.audit {
		if entry.ID == id {
			c := *entry
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListAuditEntries(_ context.Context, filter storage.AuditFilter) ([]*domain.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*domain.AuditEntry
	for _, entry := range s.audit {
		if filter.Operation != "" && entry.Operation != filter.Operation {
			continue
		}
		if filter.Target != "" && entry.Target != filter.Target {
			continue
		}
		if filter.Status != "" && entry.Status != filter.Status {
			continue
		}
		c := *entry
		matched = append(matched, &c)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *Store) CountAuditEntries(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.audit), nil
}

func (s *Store) PruneAuditEntries(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.audit) <= keep {
		return nil
	}
	sort.SliceStable(s.audit, func(i, j int) bool {
		return s.audit[i].CreatedAt.After(s.audit[j].CreatedAt)
	})
	s.audit = s.audit[:keep]
	return nil
}
