package cartserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the API handlers the router mounts.
type ApiHandleFunctions struct {
	CartAPI          CartAPI
	NotificationsAPI NotificationsAPI
}

// NewRouter returns a new router with recovery and every cart route mounted.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the cart routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"GetCart",
			http.MethodGet,
			"/v1/cart",
			handleFunctions.CartAPI.GetCart,
		},
		{
			"AddProduct",
			http.MethodPost,
			"/v1/cart/products/:productId",
			handleFunctions.CartAPI.AddProduct,
		},
		{
			"RemoveProduct",
			http.MethodDelete,
			"/v1/cart/products/:productId",
			handleFunctions.CartAPI.RemoveProduct,
		},
		{
			"UpdateProductAmount",
			http.MethodPut,
			"/v1/cart/products/:productId",
			handleFunctions.CartAPI.UpdateProductAmount,
		},
		{
			"StreamNotifications",
			http.MethodGet,
			"/v1/notifications",
			handleFunctions.NotificationsAPI.StreamNotifications,
		},
	}
}
