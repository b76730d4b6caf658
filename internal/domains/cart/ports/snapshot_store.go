package ports

import "context"

// SnapshotStore is the durable key-value store holding the serialized cart.
type SnapshotStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}
