package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// SnapshotStore keeps cart snapshots as plain Redis strings without expiry.
type SnapshotStore struct {
	client goredis.Cmdable
}

// NewSnapshotStore wires a Redis-backed snapshot store. Caller owns the client lifecycle.
func NewSnapshotStore(client goredis.Cmdable) *SnapshotStore {
	return &SnapshotStore{client: client}
}

func (s *SnapshotStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := s.ensureClient(); err != nil {
		return "", false, err
	}
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SnapshotStore) Set(ctx context.Context, key, value string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (s *SnapshotStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis snapshot store not configured")
	}
	return nil
}

var _ cartports.SnapshotStore = (*SnapshotStore)(nil)
