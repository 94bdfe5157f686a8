package blacklist

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store, used by tests and the HTTP API when
// no persistent backend is configured.
type MemoryStore struct {
	mu  sync.Mutex
	set Set
}

// NewMemoryStore returns a store seeded with values.
func NewMemoryStore(values ...string) *MemoryStore {
	return &MemoryStore{set: NewSet(values...)}
}

func (m *MemoryStore) Get(_ context.Context) (Set, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.Clone(), nil
}

func (m *MemoryStore) Add(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set.Add(value)
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set.Remove(value)
	return nil
}

func (m *MemoryStore) Write(_ context.Context, set Set) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set = set.Clone()
	return nil
}
