package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	inventoryclient "github.com/Apurer/rocketshoes-cart/internal/clients/http/inventory"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// API is the subset of the HTTP inventory client the adapter needs.
type API interface {
	GetStock(ctx context.Context, productID int64) (inventoryclient.StockPayload, error)
	GetProduct(ctx context.Context, productID int64) (inventoryclient.ProductPayload, error)
}

// Adapter translates inventory payloads into cart domain values.
type Adapter struct {
	api API
}

func NewAdapter(api API) *Adapter {
	return &Adapter{api: api}
}

func (a *Adapter) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	payload, err := a.api.GetStock(ctx, productID)
	if err != nil {
		return domain.Stock{}, mapClientError(err)
	}
	return ToStock(productID, payload)
}

func (a *Adapter) GetProduct(ctx context.Context, productID int64) (domain.ProductDetails, error) {
	payload, err := a.api.GetProduct(ctx, productID)
	if err != nil {
		return domain.ProductDetails{}, mapClientError(err)
	}
	return ToProductDetails(productID, payload)
}

// ToStock validates a stock payload. A missing id is accepted; a different one is not.
// A missing amount is malformed, never zero stock.
func ToStock(productID int64, payload inventoryclient.StockPayload) (domain.Stock, error) {
	if payload.ID != 0 && payload.ID != productID {
		return domain.Stock{}, fmt.Errorf("%w: stock for %d answered for %d", ports.ErrMalformedInventoryResponse, payload.ID, productID)
	}
	if payload.Amount == nil {
		return domain.Stock{}, fmt.Errorf("%w: no stock amount for product %d", ports.ErrMalformedInventoryResponse, productID)
	}
	amount := *payload.Amount
	if amount < 0 {
		return domain.Stock{}, fmt.Errorf("%w: negative stock %d for product %d", ports.ErrMalformedInventoryResponse, amount, productID)
	}
	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

// ToProductDetails validates a catalog payload.
func ToProductDetails(productID int64, payload inventoryclient.ProductPayload) (domain.ProductDetails, error) {
	if payload.ID != productID {
		return domain.ProductDetails{}, fmt.Errorf("%w: product %d answered for %d", ports.ErrMalformedInventoryResponse, payload.ID, productID)
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return domain.ProductDetails{}, fmt.Errorf("%w: product %d has no name", ports.ErrMalformedInventoryResponse, productID)
	}
	if payload.Price.IsNegative() {
		return domain.ProductDetails{}, fmt.Errorf("%w: product %d has negative price", ports.ErrMalformedInventoryResponse, productID)
	}
	return domain.ProductDetails{
		ID:       payload.ID,
		Name:     name,
		Price:    payload.Price,
		ImageURL: strings.TrimSpace(payload.ImageURL),
	}, nil
}

func mapClientError(err error) error {
	switch {
	case errors.Is(err, inventoryclient.ErrNotFound):
		return fmt.Errorf("%w: %w", ports.ErrProductNotFound, err)
	case errors.Is(err, inventoryclient.ErrDecode):
		return fmt.Errorf("%w: %w", ports.ErrMalformedInventoryResponse, err)
	default:
		return err
	}
}

var _ ports.Inventory = (*Adapter)(nil)
