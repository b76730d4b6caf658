package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotInCart = errors.New("product not in cart")
	ErrDuplicateProduct = errors.New("product already in cart")
)

// Cart is an immutable, ordered set of line items unique by product id.
// Every transition returns a new Cart and never touches the receiver's backing array.
type Cart struct {
	items []Product
}

// EmptyCart returns a cart without line items.
func EmptyCart() Cart {
	return Cart{}
}

// NewCart validates the items and builds a cart preserving their order.
func NewCart(items ...Product) (Cart, error) {
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return Cart{}, fmt.Errorf("product %d: %w", item.ID, err)
		}
		if _, dup := seen[item.ID]; dup {
			return Cart{}, fmt.Errorf("product %d: %w", item.ID, ErrDuplicateProduct)
		}
		seen[item.ID] = struct{}{}
	}
	return Cart{items: cloneItems(items)}, nil
}

// Items returns a copy of the line items in display order.
func (c Cart) Items() []Product {
	return cloneItems(c.items)
}

// Size is the number of distinct products in the cart.
func (c Cart) Size() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no line items.
func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Find returns the line item for a product id.
func (c Cart) Find(productID int64) (Product, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.items[i], true
	}
	return Product{}, false
}

// AmountOf returns the current amount of a product, or 0 when absent.
func (c Cart) AmountOf(productID int64) int {
	if item, ok := c.Find(productID); ok {
		return item.Amount
	}
	return 0
}

// Total sums every line subtotal.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Append adds a new line item at the end of the cart.
func (c Cart) Append(item Product) (Cart, error) {
	if err := item.Validate(); err != nil {
		return c, err
	}
	if c.indexOf(item.ID) >= 0 {
		return c, ErrDuplicateProduct
	}
	next := make([]Product, 0, len(c.items)+1)
	next = append(next, c.items...)
	next = append(next, item)
	return Cart{items: next}, nil
}

// WithAmount sets the absolute amount of an existing line item.
func (c Cart) WithAmount(productID int64, amount int) (Cart, error) {
	if amount < 1 {
		return c, ErrInvalidAmount
	}
	i := c.indexOf(productID)
	if i < 0 {
		return c, ErrProductNotInCart
	}
	next := cloneItems(c.items)
	next[i].Amount = amount
	return Cart{items: next}, nil
}

// Without removes the line item for a product id.
func (c Cart) Without(productID int64) (Cart, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return c, ErrProductNotInCart
	}
	next := make([]Product, 0, len(c.items)-1)
	next = append(next, c.items[:i]...)
	next = append(next, c.items[i+1:]...)
	return Cart{items: next}, nil
}

func (c Cart) indexOf(productID int64) int {
	for i, item := range c.items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

func cloneItems(items []Product) []Product {
	if len(items) == 0 {
		return nil
	}
	out := make([]Product, len(items))
	copy(out, items)
	return out
}
