package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	body     []byte
	storedAt time.Time
}

// MemoryStore is an in-process Store. It is safe for concurrent use.
type MemoryStore struct {
	config  Config
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(config Config) *MemoryStore {
	return &MemoryStore{
		config:  config,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Get returns a copy of the stored body.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || s.config.expired(e.storedAt, s.now()) {
		return nil, false, nil
	}

	body := make([]byte, len(e.body))
	copy(body, e.body)
	return body, true, nil
}

// Put stores a copy of body.
func (s *MemoryStore) Put(_ context.Context, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(body))
	copy(stored, body)
	s.entries[key] = memoryEntry{body: stored, storedAt: s.now()}
	return nil
}

// Clear drops all entries.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]memoryEntry)
	return nil
}

// Stats counts entries, including expired ones not yet overwritten.
func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	for _, e := range s.entries {
		st.Entries++
		st.Bytes += int64(len(e.body))
	}
	return st, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
