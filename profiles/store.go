package profiles

import (
	"context"
	"sync"
)

// Store persists Settings. Load returns an empty Settings, not an error,
// when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}

// MemoryStore keeps Settings in process memory.
// Useful for testing and one-shot runs.
type MemoryStore struct {
	mu       sync.RWMutex
	settings *Settings
	saves    int
}

// NewMemoryStore creates a store seeded with s. A nil s starts empty.
func NewMemoryStore(s *Settings) *MemoryStore {
	m := &MemoryStore{}
	if s != nil {
		m.settings = s.clone()
	}
	return m
}

// Load returns a copy of the stored settings.
func (m *MemoryStore) Load(ctx context.Context) (*Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return &Settings{}, nil
	}
	return m.settings.clone(), nil
}

// Save replaces the stored settings with a copy of s.
func (m *MemoryStore) Save(ctx context.Context, s *Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s.clone()
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
