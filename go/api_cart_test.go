package cartserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/memory"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/notifications"
	cartapp "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
	apierrors "github.com/Apurer/rocketshoes-cart/internal/shared/errors"
)

type brokenSnapshots struct {
	*memory.SnapshotStore
}

func (brokenSnapshots) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

type fixture struct {
	router    *gin.Engine
	inventory *memory.Inventory
	feed      *notifications.Feed
}

func newFixture(t *testing.T, snapshots cartports.SnapshotStore) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	inventory := memory.NewInventory().
		Put(domain.ProductDetails{ID: 1, Name: "Tênis de Caminhada Leve Confortável", Price: decimal.RequireFromString("179.90"), ImageURL: "https://example.com/1.jpg"}, 2).
		Put(domain.ProductDetails{ID: 2, Name: "Tênis VR Caminhada Confortável", Price: decimal.RequireFromString("139.90"), ImageURL: "https://example.com/2.jpg"}, 5)
	if snapshots == nil {
		snapshots = memory.NewSnapshotStore()
	}
	store, err := cartapp.Open(context.Background(), snapshots, inventory)
	require.NoError(t, err)

	feed := notifications.NewFeed()
	t.Cleanup(feed.Close)
	catalog := notifications.CatalogFor(notifications.LocaleEnglish)
	service := notifications.NewPresenter(store, feed, notifications.WithCatalog(catalog))

	router := NewRouter(ApiHandleFunctions{
		CartAPI:          NewCartAPI(service, catalog),
		NotificationsAPI: NewNotificationsAPI(feed, 4),
	})
	return fixture{router: router, inventory: inventory, feed: feed}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type cartBody struct {
	Items []struct {
		ID       int64  `json:"id"`
		Amount   int    `json:"amount"`
		Subtotal string `json:"subtotal"`
	} `json:"items"`
	Size  int    `json:"size"`
	Total string `json:"total"`
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartBody {
	t.Helper()
	var body cartBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestCartAPI_AddProductThenGetCart(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/v1/cart/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPost, "/v1/cart/products/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeCart(t, rec)
	require.Equal(t, 1, body.Size)
	require.Equal(t, 2, body.Items[0].Amount)
	require.Equal(t, "359.8", body.Total)
}

func TestCartAPI_StockExceededIsConflictWithNotification(t *testing.T) {
	f := newFixture(t, nil)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/v1/cart/products/1", "").Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/v1/cart/products/1", "").Code)

	rec := f.do(t, http.MethodPost, "/v1/cart/products/1", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, apierrors.TypeStockExceeded, problem.Type)
	require.Equal(t, "requested quantity exceeds available stock", problem.Extensions["notification"])
	require.Equal(t, "add_product", problem.Extensions["operation"])
	require.Equal(t, "/v1/cart/products/1", problem.Instance)
}

func TestCartAPI_RemoveMissingIsNotFound(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodDelete, "/v1/cart/products/2", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "failed to remove product", decodeProblem(t, rec).Extensions["notification"])
}

func TestCartAPI_UnknownProductIsNotFound(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/v1/cart/products/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "failed to add product", decodeProblem(t, rec).Extensions["notification"])
}

func TestCartAPI_UpdateProductAmount(t *testing.T) {
	f := newFixture(t, nil)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/v1/cart/products/2", "").Code)

	rec := f.do(t, http.MethodPut, "/v1/cart/products/2", `{"amount":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 4, decodeCart(t, rec).Items[0].Amount)

	rec = f.do(t, http.MethodPut, "/v1/cart/products/2", `{"amount":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 4, decodeCart(t, rec).Items[0].Amount)

	rec = f.do(t, http.MethodPut, "/v1/cart/products/2", `{"amount":6}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPut, "/v1/cart/products/1", `{"amount":1}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "failed to update product quantity", decodeProblem(t, rec).Extensions["notification"])
}

func TestCartAPI_BadInput(t *testing.T) {
	f := newFixture(t, nil)

	require.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/v1/cart/products/abc", "").Code)
	require.Equal(t, http.StatusBadRequest, f.do(t, http.MethodDelete, "/v1/cart/products/0", "").Code)
	require.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/v1/cart/products/1", `{}`).Code)
	require.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/v1/cart/products/1", `{"amount":"two"}`).Code)
}

func TestCartAPI_StorageFailureIsServiceUnavailable(t *testing.T) {
	f := newFixture(t, brokenSnapshots{SnapshotStore: memory.NewSnapshotStore()})

	rec := f.do(t, http.MethodPost, "/v1/cart/products/1", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "storage_unavailable", decodeProblem(t, rec).Extensions["kind"])

	require.Zero(t, decodeCart(t, f.do(t, http.MethodGet, "/v1/cart", "")).Size)
}

func TestNotificationsAPI_StreamsFailures(t *testing.T) {
	f := newFixture(t, nil)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/notifications", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return f.feed.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/v1/cart/products/1", "").Code)

	scanner := bufio.NewScanner(resp.Body)
	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		}
		if strings.HasPrefix(line, "data:") {
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			break
		}
	}
	require.Equal(t, "notification", event)
	require.Contains(t, data, `"kind":"remove_failed"`)
	require.Contains(t, data, `"message":"failed to remove product"`)
}
