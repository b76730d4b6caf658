package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	cartapp "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application"
	cartdomain "github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

type stubService struct {
	cart cartdomain.Cart
	err  error
}

func (s stubService) Cart(context.Context) cartdomain.Cart { return s.cart }

func (s stubService) AddProduct(context.Context, int64) (cartdomain.Cart, error) {
	return s.cart, s.err
}

func (s stubService) RemoveProduct(context.Context, int64) (cartdomain.Cart, error) {
	return s.cart, s.err
}

func (s stubService) UpdateProductAmount(context.Context, cartports.UpdateAmountInput) (cartdomain.Cart, error) {
	return s.cart, s.err
}

type harness struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newHarness(inner cartports.Service) (cartports.Service, harness) {
	h := harness{
		spans:  tracetest.NewSpanRecorder(),
		reader: sdkmetric.NewManualReader(),
		logs:   &bytes.Buffer{},
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(h.spans))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(h.reader))
	svc := New(inner,
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
		WithLogger(slog.New(slog.NewJSONHandler(h.logs, nil))),
	)
	return svc, h
}

func (h harness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestService_AddProductRecordsSpanAndCounter(t *testing.T) {
	cart, err := cartdomain.EmptyCart().Append(cartdomain.Product{ID: 1, Name: "Tênis", Amount: 1})
	require.NoError(t, err)
	svc, h := newHarness(stubService{cart: cart})

	got, err := svc.AddProduct(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, got.AmountOf(1))

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "CartService.AddProduct", ended[0].Name())
	require.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Equal(t, int64(1), h.counter(t, "cart.service.products_added"))
	require.Contains(t, h.logs.String(), "product added to cart")
}

func TestService_StockRejectionIsWarnNotSpanError(t *testing.T) {
	rejection := &cartapp.OperationError{Op: cartapp.OpAddProduct, Kind: cartapp.KindStockExceeded, ProductID: 1, Err: cartdomain.ErrStockExceeded}
	svc, h := newHarness(stubService{err: rejection})

	_, err := svc.AddProduct(context.Background(), 1)
	require.ErrorIs(t, err, cartdomain.ErrStockExceeded)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Equal(t, int64(1), h.counter(t, "cart.service.rejections"))
	require.Zero(t, h.counter(t, "cart.service.products_added"))
	require.Contains(t, h.logs.String(), `"level":"WARN"`)
}

func TestService_StorageFailureMarksSpanError(t *testing.T) {
	failure := &cartapp.OperationError{Op: cartapp.OpRemoveProduct, Kind: cartapp.KindStorage, ProductID: 2, Err: errors.New("disk full")}
	svc, h := newHarness(stubService{err: failure})

	_, err := svc.RemoveProduct(context.Background(), 2)
	require.Error(t, err)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, codes.Error, ended[0].Status().Code)
	require.Contains(t, h.logs.String(), `"level":"ERROR"`)
	require.Contains(t, h.logs.String(), `"kind":"storage_unavailable"`)
}

func TestService_UpdateNoopSkipsLoggingAndCounters(t *testing.T) {
	svc, h := newHarness(stubService{})

	_, err := svc.UpdateProductAmount(context.Background(), cartports.UpdateAmountInput{ProductID: 1, Amount: 0})
	require.NoError(t, err)
	require.Zero(t, h.counter(t, "cart.service.amounts_updated"))
	require.Empty(t, h.logs.String())
}
