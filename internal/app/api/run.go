package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	cartserver "github.com/Apurer/rocketshoes-cart/go"

	inventoryclient "github.com/Apurer/rocketshoes-cart/internal/clients/http/inventory"
	cartinventory "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/external/inventory"
	cartmemory "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/memory"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/notifications"
	cartobs "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/observability"
	cartpostgres "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/persistence/postgres"
	cartredis "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/persistence/redis"
	cartapp "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
	"github.com/Apurer/rocketshoes-cart/internal/platform/migrations"
	platformobservability "github.com/Apurer/rocketshoes-cart/internal/platform/observability"
	platformpostgres "github.com/Apurer/rocketshoes-cart/internal/platform/postgres"
	platformredis "github.com/Apurer/rocketshoes-cart/internal/platform/redis"
)

const (
	serviceName     = "rocketshoes-cart"
	shutdownTimeout = 5 * time.Second
)

// App is the fully wired cart API.
type App struct {
	Handler http.Handler
	Store   *cartapp.Store
	Feed    *notifications.Feed
	Backend string

	cleanup []func()
}

// Close releases the snapshot backend and ends notification streams.
func (a *App) Close() {
	if a.Feed != nil {
		a.Feed.Close()
	}
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}

// Run boots the cart HTTP API with observability, snapshot storage, and the inventory client wired.
// It returns when ctx is cancelled and the server has drained.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	app, err := NewApp(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer app.Close()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("cart API listening", slog.String("addr", server.Addr), slog.String("snapshot.backend", app.Backend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("cart API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		// SSE streams only end once the feed closes.
		app.Feed.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// NewApp wires the cart store, its decorators, and the HTTP router.
func NewApp(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*App, error) {
	logger := effectiveLogger(instruments)
	app := &App{}

	snapshots, backend, cleanup := buildSnapshotStore(ctx, cfg, logger)
	app.cleanup = append(app.cleanup, cleanup)
	app.Backend = backend

	inventory, err := buildInventory(cfg, instruments, logger)
	if err != nil {
		app.Close()
		return nil, err
	}

	store, err := cartapp.Open(ctx, snapshots, inventory,
		cartapp.WithSnapshotKey(cfg.SnapshotKey),
		cartapp.WithLogger(logger),
	)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("open cart store: %w", err)
	}
	app.Store = store

	catalog := notifications.CatalogFor(cfg.NotificationLocale)
	app.Feed = notifications.NewFeed()
	notifier := notifications.MultiNotifier{notifications.NewLogNotifier(logger), app.Feed}
	presented := notifications.NewPresenter(store, notifier, notifications.WithCatalog(catalog))
	service := cartobs.New(
		presented,
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)

	handlers := cartserver.ApiHandleFunctions{
		CartAPI:          cartserver.NewCartAPI(service, catalog),
		NotificationsAPI: cartserver.NewNotificationsAPI(app.Feed, cfg.NotificationBuffer),
	}
	var middleware []gin.HandlerFunc
	if instruments != nil && instruments.TracerProvider != nil {
		middleware = append(middleware, otelgin.Middleware(serviceName, otelgin.WithTracerProvider(instruments.TracerProvider)))
	}
	app.Handler = cartserver.NewRouter(handlers, middleware...)
	return app, nil
}

// buildSnapshotStore picks the durable backend. An unreachable backend falls back to memory.
func buildSnapshotStore(ctx context.Context, cfg Config, logger *slog.Logger) (cartports.SnapshotStore, string, func()) {
	switch cfg.SnapshotBackend {
	case BackendRedis:
		client, cleanup := platformredis.ConnectOrWarn(ctx, cfg.RedisURL, logger)
		if client == nil {
			return cartmemory.NewSnapshotStore(), BackendMemory, cleanup
		}
		logger.Info("cart snapshots configured with redis")
		return cartredis.NewSnapshotStore(client), BackendRedis, cleanup
	case BackendPostgres:
		db, cleanup := platformpostgres.ConnectOrWarn(ctx, cfg.PostgresDSN, logger)
		if db == nil {
			return cartmemory.NewSnapshotStore(), BackendMemory, cleanup
		}
		if err := migrations.Run(db.WithContext(ctx)); err != nil {
			logger.Warn("failed to migrate cart schema, falling back to in-memory snapshot store", slog.String("error", err.Error()))
			cleanup()
			return cartmemory.NewSnapshotStore(), BackendMemory, func() {}
		}
		logger.Info("cart snapshots configured with postgres")
		return cartpostgres.NewSnapshotStore(db), BackendPostgres, cleanup
	default:
		logger.Warn("cart snapshots kept in memory, the cart will not survive a restart")
		return cartmemory.NewSnapshotStore(), BackendMemory, func() {}
	}
}

func buildInventory(cfg Config, instruments *platformobservability.Instruments, logger *slog.Logger) (cartports.Inventory, error) {
	opts := []inventoryclient.Option{
		inventoryclient.WithTimeout(cfg.InventoryTimeout),
		inventoryclient.WithBreaker(cfg.InventoryBreakerFailures, 0),
		inventoryclient.WithBreakerStateHook(func(name string, from, to gobreaker.State) {
			logger.Warn("inventory circuit breaker changed state",
				slog.String("breaker", name), slog.String("from", from.String()), slog.String("to", to.String()))
		}),
	}
	if instruments != nil && instruments.TracerProvider != nil {
		opts = append(opts, inventoryclient.WithTracerProvider(instruments.TracerProvider))
	}
	client, err := inventoryclient.NewClient(cfg.InventoryBaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("build inventory client: %w", err)
	}
	return cartinventory.NewAdapter(client), nil
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
