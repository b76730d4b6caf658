package ports

import (
	"context"
	"errors"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

var (
	// ErrProductNotFound is returned when the inventory does not know the product.
	ErrProductNotFound = errors.New("product not found in inventory")
	// ErrMalformedInventoryResponse is returned when the inventory answers with data that violates the domain.
	ErrMalformedInventoryResponse = errors.New("malformed inventory response")
)

// Inventory is the outbound port to the remote stock and catalog service.
type Inventory interface {
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
	GetProduct(ctx context.Context, productID int64) (domain.ProductDetails, error)
}
