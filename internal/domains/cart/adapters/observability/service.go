package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartapp "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application"
	cartdomain "github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Cart(ctx context.Context) cartdomain.Cart {
	return s.inner.Cart(ctx)
}

func (s *Service) AddProduct(ctx context.Context, productID int64) (cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddProduct", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	s.logInfo(ctx, "adding product to cart", slog.Int64("product.id", productID))
	cart, err := s.inner.AddProduct(ctx, productID)
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to add product", slog.Int64("product.id", productID))
	}
	s.metrics.recordAdded(ctx)
	span.SetAttributes(attribute.Int("product.amount", cart.AmountOf(productID)), attribute.Int("cart.size", cart.Size()))
	s.logInfo(ctx, "product added to cart",
		slog.Int64("product.id", productID), slog.Int("product.amount", cart.AmountOf(productID)), slog.Int("cart.size", cart.Size()))
	return cart, nil
}

func (s *Service) RemoveProduct(ctx context.Context, productID int64) (cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveProduct", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	s.logInfo(ctx, "removing product from cart", slog.Int64("product.id", productID))
	cart, err := s.inner.RemoveProduct(ctx, productID)
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to remove product", slog.Int64("product.id", productID))
	}
	s.metrics.recordRemoved(ctx)
	span.SetAttributes(attribute.Int("cart.size", cart.Size()))
	s.logInfo(ctx, "product removed from cart", slog.Int64("product.id", productID), slog.Int("cart.size", cart.Size()))
	return cart, nil
}

func (s *Service) UpdateProductAmount(ctx context.Context, input cartports.UpdateAmountInput) (cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateProductAmount",
		trace.WithAttributes(attribute.Int64("product.id", input.ProductID), attribute.Int("product.requested_amount", input.Amount)))
	defer span.End()

	if input.Amount <= 0 {
		span.SetAttributes(attribute.Bool("cart.noop", true))
		return s.inner.UpdateProductAmount(ctx, input)
	}
	s.logInfo(ctx, "updating product amount", slog.Int64("product.id", input.ProductID), slog.Int("product.amount", input.Amount))
	cart, err := s.inner.UpdateProductAmount(ctx, input)
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to update product amount", slog.Int64("product.id", input.ProductID))
	}
	s.metrics.recordUpdated(ctx)
	s.logInfo(ctx, "product amount updated", slog.Int64("product.id", input.ProductID), slog.Int("product.amount", input.Amount))
	return cart, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// Policy rejections are expected outcomes and are logged at warn; everything else is an error.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	kind, _ := cartapp.KindOf(err)
	s.metrics.recordRejected(ctx, kind)
	if span != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("cart.failure_kind", string(kind)))
		if !isExpected(kind) {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	if s.logger == nil {
		return err
	}
	attrs = append(attrs, slog.String("kind", string(kind)), slog.String("error", err.Error()))
	level := slog.LevelError
	if isExpected(kind) {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return err
}

func isExpected(kind cartapp.Kind) bool {
	return kind == cartapp.KindStockExceeded || kind == cartapp.KindNotInCart
}

type serviceMetrics struct {
	productsAdded   metric.Int64Counter
	productsRemoved metric.Int64Counter
	amountsUpdated  metric.Int64Counter
	rejections      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	productsAdded, _ := m.Int64Counter("cart.service.products_added", metric.WithDescription("Number of successful add-product operations"))
	productsRemoved, _ := m.Int64Counter("cart.service.products_removed", metric.WithDescription("Number of products removed from the cart"))
	amountsUpdated, _ := m.Int64Counter("cart.service.amounts_updated", metric.WithDescription("Number of product amount updates"))
	rejections, _ := m.Int64Counter("cart.service.rejections", metric.WithDescription("Number of cart operations that were not applied"))
	return serviceMetrics{
		productsAdded:   productsAdded,
		productsRemoved: productsRemoved,
		amountsUpdated:  amountsUpdated,
		rejections:      rejections,
	}
}

func (m serviceMetrics) recordAdded(ctx context.Context) {
	if m.productsAdded != nil {
		m.productsAdded.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRemoved(ctx context.Context) {
	if m.productsRemoved != nil {
		m.productsRemoved.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.amountsUpdated != nil {
		m.amountsUpdated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, kind cartapp.Kind) {
	if m.rejections != nil {
		m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.failure_kind", string(kind))))
	}
}

var _ cartports.Service = (*Service)(nil)
