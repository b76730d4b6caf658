//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	"github.com/Apurer/rocketshoes-cart/internal/platform/migrations"
	platformpostgres "github.com/Apurer/rocketshoes-cart/internal/platform/postgres"
)

func setupCartPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("cart_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			_ = sqlDB.Close()
		}
		_ = pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestSnapshotStore_PostgresRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCartPostgresContainer(t)
	defer cleanup()

	store := NewSnapshotStore(db)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, cartapp.DefaultSnapshotKey, "[]"))
	require.NoError(t, store.Set(ctx, cartapp.DefaultSnapshotKey, `[{"id":1,"name":"Tênis","price":179.9,"imageUrl":"","amount":2}]`))

	value, found, err := store.Get(ctx, cartapp.DefaultSnapshotKey)
	require.NoError(t, err)
	require.True(t, found)

	cart, err := cartapp.DecodeSnapshot(value)
	require.NoError(t, err)
	require.Equal(t, 2, cart.AmountOf(1))
}

func TestSnapshotStore_PostgresBackedCartSurvivesReopen(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCartPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	inventory := memory.NewInventory().
		Put(domain.ProductDetails{ID: 7, Name: "Tênis de Caminhada", Price: decimal.RequireFromString("139.90")}, 3)

	first, err := cartapp.Open(ctx, NewSnapshotStore(db), inventory)
	require.NoError(t, err)
	_, err = first.AddProduct(ctx, 7)
	require.NoError(t, err)
	_, err = first.AddProduct(ctx, 7)
	require.NoError(t, err)

	second, err := cartapp.Open(ctx, NewSnapshotStore(db), inventory)
	require.NoError(t, err)
	require.Equal(t, 2, second.Cart(ctx).AmountOf(7))
	require.True(t, decimal.RequireFromString("279.80").Equal(second.Cart(ctx).Total()))
}
