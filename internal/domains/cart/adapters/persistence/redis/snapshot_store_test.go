package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupSnapshotStore(t *testing.T) (*SnapshotStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSnapshotStore(client), mr
}

func TestSnapshotStore_MissingKey(t *testing.T) {
	store, _ := setupSnapshotStore(t)

	value, found, err := store.Get(context.Background(), "@RocketShoes:cart")
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, value)
}

func TestSnapshotStore_SetThenGet(t *testing.T) {
	store, mr := setupSnapshotStore(t)
	ctx := context.Background()
	raw := `[{"id":1,"name":"Tênis","price":179.9,"imageUrl":"","amount":2}]`

	require.NoError(t, store.Set(ctx, "@RocketShoes:cart", raw))

	value, found, err := store.Get(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, raw, value)
	mr.CheckGet(t, "@RocketShoes:cart", raw)
	require.Zero(t, mr.TTL("@RocketShoes:cart"))
}

func TestSnapshotStore_OverwritesAndReadsSeededValue(t *testing.T) {
	store, mr := setupSnapshotStore(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("cart", "[]"))

	require.NoError(t, store.Set(ctx, "cart", `[{"id":2}]`))

	value, _, err := store.Get(ctx, "cart")
	require.NoError(t, err)
	require.Equal(t, `[{"id":2}]`, value)
}

func TestSnapshotStore_ServerFailure(t *testing.T) {
	store, mr := setupSnapshotStore(t)
	mr.SetError("READONLY replica")

	_, _, err := store.Get(context.Background(), "cart")
	require.Error(t, err)
	require.Error(t, store.Set(context.Background(), "cart", "[]"))
}

func TestSnapshotStore_Unconfigured(t *testing.T) {
	var store *SnapshotStore
	_, _, err := store.Get(context.Background(), "cart")
	require.Error(t, err)
}
