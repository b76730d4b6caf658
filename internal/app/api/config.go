package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/notifications"
	cartapp "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application"
)

// EnvPrefix namespaces every variable read by LoadConfig.
const EnvPrefix = "CART"

// Snapshot backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                     string        `envconfig:"PORT" default:"8080"`
	Environment              string        `envconfig:"ENVIRONMENT" default:"local"`
	SnapshotBackend          string        `envconfig:"SNAPSHOT_BACKEND" default:"memory"`
	SnapshotKey              string        `envconfig:"SNAPSHOT_KEY"`
	PostgresDSN              string        `envconfig:"POSTGRES_DSN"`
	RedisURL                 string        `envconfig:"REDIS_URL"`
	InventoryBaseURL         string        `envconfig:"INVENTORY_BASE_URL" default:"http://localhost:3333"`
	InventoryTimeout         time.Duration `envconfig:"INVENTORY_TIMEOUT" default:"5s"`
	InventoryBreakerFailures uint32        `envconfig:"INVENTORY_BREAKER_FAILURES" default:"5"`
	NotificationLocale       string        `envconfig:"NOTIFICATION_LOCALE" default:"en"`
	NotificationBuffer       int           `envconfig:"NOTIFICATION_BUFFER" default:"16"`
}

// LoadConfig loads an optional .env file, reads CART_* variables, applies defaults, and
// validates basic constraints.
func LoadConfig(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !isMissingFile(err) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	c.SnapshotBackend = strings.ToLower(strings.TrimSpace(c.SnapshotBackend))
	c.SnapshotKey = strings.TrimSpace(c.SnapshotKey)
	if c.SnapshotKey == "" {
		c.SnapshotKey = cartapp.DefaultSnapshotKey
	}
	c.PostgresDSN = strings.TrimSpace(c.PostgresDSN)
	c.RedisURL = strings.TrimSpace(c.RedisURL)
	c.InventoryBaseURL = strings.TrimSpace(c.InventoryBaseURL)
	c.NotificationLocale = strings.TrimSpace(c.NotificationLocale)
}

// Validate reports every constraint violation at once.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("CART_PORT is required"))
	}
	switch c.SnapshotBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("CART_REDIS_URL is required when CART_SNAPSHOT_BACKEND=redis"))
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("CART_POSTGRES_DSN is required when CART_SNAPSHOT_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("CART_SNAPSHOT_BACKEND must be one of memory, redis, postgres (got %q)", c.SnapshotBackend))
	}
	if u, err := url.Parse(c.InventoryBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("CART_INVENTORY_BASE_URL must be an absolute URL (got %q)", c.InventoryBaseURL))
	}
	if c.InventoryTimeout <= 0 {
		errs = append(errs, errors.New("CART_INVENTORY_TIMEOUT must be positive"))
	}
	if c.InventoryBreakerFailures == 0 {
		errs = append(errs, errors.New("CART_INVENTORY_BREAKER_FAILURES must be positive"))
	}
	if !notifications.SupportedLocale(c.NotificationLocale) {
		errs = append(errs, fmt.Errorf("CART_NOTIFICATION_LOCALE %q is not supported", c.NotificationLocale))
	}
	if c.NotificationBuffer < 1 {
		errs = append(errs, errors.New("CART_NOTIFICATION_BUFFER must be positive"))
	}
	return errors.Join(errs...)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
