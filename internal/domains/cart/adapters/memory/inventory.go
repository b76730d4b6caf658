package memory

import (
	"context"
	"sync"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// Inventory is an in-memory catalog and stock table.
type Inventory struct {
	mu       sync.RWMutex
	products map[int64]domain.ProductDetails
	stock    map[int64]int
	calls    int
}

func NewInventory() *Inventory {
	return &Inventory{
		products: map[int64]domain.ProductDetails{},
		stock:    map[int64]int{},
	}
}

// Put registers a product together with its available stock.
func (i *Inventory) Put(details domain.ProductDetails, stock int) *Inventory {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.products[details.ID] = details
	i.stock[details.ID] = stock
	return i
}

// SetStock changes the available amount of a known product.
func (i *Inventory) SetStock(productID int64, amount int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stock[productID] = amount
}

// Calls counts every lookup served, successful or not.
func (i *Inventory) Calls() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.calls
}

func (i *Inventory) GetStock(_ context.Context, productID int64) (domain.Stock, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls++
	amount, ok := i.stock[productID]
	if !ok {
		return domain.Stock{}, ports.ErrProductNotFound
	}
	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

func (i *Inventory) GetProduct(_ context.Context, productID int64) (domain.ProductDetails, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls++
	details, ok := i.products[productID]
	if !ok {
		return domain.ProductDetails{}, ports.ErrProductNotFound
	}
	return details, nil
}

var _ ports.Inventory = (*Inventory)(nil)
