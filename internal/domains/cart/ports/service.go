package ports

import (
	"context"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

// UpdateAmountInput targets an absolute amount for a product already in the cart.
type UpdateAmountInput struct {
	ProductID int64
	Amount    int
}

// Service exposes the cart use cases to adapters (inbound/driving port).
type Service interface {
	Cart(ctx context.Context) domain.Cart
	AddProduct(ctx context.Context, productID int64) (domain.Cart, error)
	RemoveProduct(ctx context.Context, productID int64) (domain.Cart, error)
	UpdateProductAmount(ctx context.Context, input UpdateAmountInput) (domain.Cart, error)
}
