// Package snapshotdump prints the persisted cart the way the API would load it.
package snapshotdump

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Apurer/rocketshoes-cart/internal/app/api"
	carthttpmapper "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/http/mapper"
	cartpostgres "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/persistence/postgres"
	cartredis "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/persistence/redis"
	cartapp "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application"
	cartdomain "github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
	platformpostgres "github.com/Apurer/rocketshoes-cart/internal/platform/postgres"
	platformredis "github.com/Apurer/rocketshoes-cart/internal/platform/redis"
)

// Report is the JSON document written by Dump.
type Report struct {
	Backend string `json:"backend"`
	Key     string `json:"key"`
	Found   bool   `json:"found"`
	// Discarded is set when a snapshot exists but would be dropped on load.
	Discarded bool   `json:"discarded"`
	Reason    string `json:"reason,omitempty"`
	carthttpmapper.Cart
}

// Open connects to the configured durable backend. Unlike the API, it never falls back to memory.
func Open(ctx context.Context, cfg api.Config) (cartports.SnapshotStore, func(), error) {
	switch cfg.SnapshotBackend {
	case api.BackendRedis:
		client, err := platformredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return cartredis.NewSnapshotStore(client), func() { _ = client.Close() }, nil
	case api.BackendPostgres:
		db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return cartpostgres.NewSnapshotStore(db), func() { _ = sqlDB.Close() }, nil
	default:
		return nil, nil, errors.New("the memory backend keeps nothing between processes; set CART_SNAPSHOT_BACKEND to redis or postgres")
	}
}

// Dump reads the cart key, applies the load-time decode rules, and writes a Report as JSON.
func Dump(ctx context.Context, snapshots cartports.SnapshotStore, backend, key string, w io.Writer) (Report, error) {
	report := Report{Backend: backend, Key: key, Cart: carthttpmapper.FromDomainCart(cartdomain.EmptyCart())}
	raw, found, err := snapshots.Get(ctx, key)
	if err != nil {
		return Report{}, fmt.Errorf("read snapshot %q: %w", key, err)
	}
	report.Found = found
	if found {
		cart, err := cartapp.DecodeSnapshot(raw)
		if err != nil {
			report.Discarded = true
			report.Reason = err.Error()
		} else {
			report.Cart = carthttpmapper.FromDomainCart(cart)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return Report{}, fmt.Errorf("write report: %w", err)
	}
	return report, nil
}
