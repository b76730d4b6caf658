package cartserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/http/mapper"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/notifications"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
	apierrors "github.com/Apurer/rocketshoes-cart/internal/shared/errors"
)

// CartAPI wires HTTP transport with the cart bounded context service.
type CartAPI struct {
	service   cartports.Service
	responder *apierrors.ChainedResponder
}

// NewCartAPI creates a CartAPI backed by the provided service. The catalog localizes
// the notification message attached to problem responses.
func NewCartAPI(service cartports.Service, catalog notifications.Catalog) CartAPI {
	return CartAPI{
		service:   service,
		responder: apierrors.NewChainedResponder("", cartProblemMapper(catalog)),
	}
}

// Get /v1/cart
// Returns the current cart
func (api *CartAPI) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(api.service.Cart(c.Request.Context())))
}

// Post /v1/cart/products/:productId
// Adds one unit of a product
func (api *CartAPI) AddProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}
	cart, err := api.service.AddProduct(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}

// Delete /v1/cart/products/:productId
// Removes a product from the cart
func (api *CartAPI) RemoveProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}
	cart, err := api.service.RemoveProduct(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}

// Put /v1/cart/products/:productId
// Sets the amount of a product already in the cart
func (api *CartAPI) UpdateProductAmount(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}
	var payload UpdateAmountRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	cart, err := api.service.UpdateProductAmount(c.Request.Context(), cartports.UpdateAmountInput{ProductID: id, Amount: *payload.Amount})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}

func parseProductID(c *gin.Context) (int64, bool) {
	value := c.Param("productId")
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		respondProblem(c, apierrors.ErrBadRequest.
			WithDetail("productId must be a positive integer").
			WithExtension("productId", value))
		return 0, false
	}
	return id, true
}
