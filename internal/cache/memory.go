package cache

import (
	"sync"
	"time"
)

// MemoryStore is an in-process Store backed by a mutex-guarded map. Expired
// entries are treated as misses and evicted on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry

	// now is swappable for tests.
	now func() time.Time
}

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value stored under key, treating expired entries as misses.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		s.Delete(key)
		return nil, false
	}

	return e.value, true
}

// Set stores value under key with the given ttl. A ttl of zero keeps the
// entry until it is deleted or overwritten.
func (s *MemoryStore) Set(key string, value []byte, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

// Delete evicts key.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}
