package memory

import (
	"context"
	"sync"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// SnapshotStore is an in-memory SnapshotStore implementation.
type SnapshotStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{values: map[string]string{}}
}

func (s *SnapshotStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *SnapshotStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)
