package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTimeout         = 5 * time.Second
	DefaultBreakerFailures = 5
	defaultBreakerCooldown = 30 * time.Second
	maxBodyBytes           = 1 << 20
)

// Client talks to the storefront inventory API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// Option configures the client.
type Option func(*options)

type options struct {
	httpClient      *http.Client
	timeout         time.Duration
	breakerFailures uint32
	breakerCooldown time.Duration
	onStateChange   func(name string, from, to gobreaker.State)
	tracerProvider  trace.TracerProvider
}

// WithHTTPClient replaces the default instrumented client. The transport is still wrapped with otelhttp.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithBreaker opens the circuit after the given number of consecutive failures and
// probes again once the cooldown has elapsed.
func WithBreaker(consecutiveFailures uint32, cooldown time.Duration) Option {
	return func(o *options) {
		if consecutiveFailures > 0 {
			o.breakerFailures = consecutiveFailures
		}
		if cooldown > 0 {
			o.breakerCooldown = cooldown
		}
	}
}

// WithBreakerStateHook observes breaker transitions, for logging.
func WithBreakerStateHook(fn func(name string, from, to gobreaker.State)) Option {
	return func(o *options) {
		o.onStateChange = fn
	}
}

// WithTracerProvider sets the provider used for client spans. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// NewClient instantiates the inventory client with sane defaults.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("inventory base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse inventory base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("inventory base URL %q must be absolute", baseURL)
	}

	o := options{
		timeout:         DefaultTimeout,
		breakerFailures: DefaultBreakerFailures,
		breakerCooldown: defaultBreakerCooldown,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	httpClient := &http.Client{}
	if o.httpClient != nil {
		copied := *o.httpClient
		httpClient = &copied
	}
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	transportOpts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "inventory " + r.Method + " " + r.URL.Path
		}),
	}
	if o.tracerProvider != nil {
		transportOpts = append(transportOpts, otelhttp.WithTracerProvider(o.tracerProvider))
	}
	httpClient.Transport = otelhttp.NewTransport(base, transportOpts...)

	failures := o.breakerFailures
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "inventory",
		Timeout: o.breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		// A caller that went away says nothing about the inventory.
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: o.onStateChange,
	})

	return &Client{
		baseURL: parsed,
		http:    httpClient,
		timeout: o.timeout,
		breaker: breaker,
	}, nil
}

// GetStock fetches the available amount for a product.
func (c *Client) GetStock(ctx context.Context, productID int64) (StockPayload, error) {
	var payload StockPayload
	if err := c.getJSON(ctx, "/stock/", productID, &payload); err != nil {
		return StockPayload{}, err
	}
	return payload, nil
}

// GetProduct fetches catalog details for a product.
func (c *Client) GetProduct(ctx context.Context, productID int64) (ProductPayload, error) {
	var payload ProductPayload
	if err := c.getJSON(ctx, "/products/", productID, &payload); err != nil {
		return ProductPayload{}, err
	}
	return payload, nil
}

// BreakerState exposes the circuit state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

func (c *Client) getJSON(ctx context.Context, prefix string, productID int64, out any) error {
	if c == nil || c.http == nil {
		return errors.New("inventory client not configured")
	}
	param, err := runtime.StyleParamWithLocation("simple", false, "productId", runtime.ParamLocationPath, productID)
	if err != nil {
		return fmt.Errorf("encode productId: %w", err)
	}
	path := prefix + param

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, path)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build inventory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call inventory %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Path: path}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read inventory %s: %w", path, err)
	}
	return body, nil
}
