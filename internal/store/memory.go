package store

import (
	"context"
	"sync"
)

var _ SnapshotStore = (*MemoryStore)(nil)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]PortfolioSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]PortfolioSnapshot)}
}

func (m *MemoryStore) Save(_ context.Context, name string, snap PortfolioSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap.Portfolio = snap.Portfolio.Clone()
	m.snaps[name] = snap
	return nil
}

func (m *MemoryStore) Load(_ context.Context, name string) (PortfolioSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[name]
	if !ok {
		return PortfolioSnapshot{}, ErrNotFound
	}
	snap.Portfolio = snap.Portfolio.Clone()
	return snap, nil
}
