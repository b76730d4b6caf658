package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errOutOfStock = errors.New("out of stock")

func respondWith(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/cart", handler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cart", nil))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestResponder_SetsContentTypeAndInstance(t *testing.T) {
	rec, problem := respondWith(t, func(c *gin.Context) {
		NewResponder("https://rocketshoes.example").NotFound(c, "product", 7)
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, "https://rocketshoes.example"+TypeNotFound, problem.Type)
	require.Equal(t, "/v1/cart", problem.Instance)
	require.Equal(t, "product", problem.Extensions["resourceType"])
}

func TestChainedResponder_UsesFirstMatchingMapper(t *testing.T) {
	responder := NewChainedResponder("",
		func(err error) (ProblemDetail, bool) { return ProblemDetail{}, false },
		func(err error) (ProblemDetail, bool) {
			if errors.Is(err, errOutOfStock) {
				return ErrStockExceeded.WithDetail(err.Error()), true
			}
			return ProblemDetail{}, false
		},
	)

	rec, problem := respondWith(t, func(c *gin.Context) {
		responder.RespondError(c, errOutOfStock)
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, TypeStockExceeded, problem.Type)
	require.Equal(t, "out of stock", problem.Detail)
}

func TestChainedResponder_FallsBackToInternalError(t *testing.T) {
	responder := NewChainedResponder("")

	rec, problem := respondWith(t, func(c *gin.Context) {
		responder.RespondError(c, errors.New("boom"))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, TypeInternal, problem.Type)
}

func TestResponder_PassesThroughWrappedProblem(t *testing.T) {
	rec, problem := respondWith(t, func(c *gin.Context) {
		RespondError(c, ErrBadGateway.WithDetail("inventory down"))
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "inventory down", problem.Detail)
}
