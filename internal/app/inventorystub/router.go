package inventorystub

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/rocketshoes-cart/internal/shared/errors"
)

// NewRouter serves the catalog with the same paths the storefront's mock API exposes.
func NewRouter(catalog *Catalog, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.Products())
	})
	router.GET("/products/:productId", func(c *gin.Context) {
		id, ok := productID(c)
		if !ok {
			return
		}
		product, found := catalog.Product(id)
		if !found {
			apierrors.DefaultResponder.NotFound(c, "product", id)
			return
		}
		c.JSON(http.StatusOK, product)
	})
	router.GET("/stock", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.StockLevels())
	})
	router.GET("/stock/:productId", func(c *gin.Context) {
		id, ok := productID(c)
		if !ok {
			return
		}
		stock, found := catalog.Stock(id)
		if !found {
			apierrors.DefaultResponder.NotFound(c, "stock", id)
			return
		}
		c.JSON(http.StatusOK, stock)
	})
	return router
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		apierrors.DefaultResponder.BadRequest(c, "productId must be an integer")
		return 0, false
	}
	return id, true
}
