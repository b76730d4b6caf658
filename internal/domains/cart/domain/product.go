package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrStockExceeded    = errors.New("requested amount exceeds available stock")
)

// ProductDetails is the catalog view of a product as served by the inventory.
type ProductDetails struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	ImageURL string
}

// Product is a cart line item: catalog details plus the selected amount.
type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	ImageURL string
	Amount   int
}

// NewLineItem builds the first line item for a product, with amount 1.
func NewLineItem(details ProductDetails) (Product, error) {
	if details.ID <= 0 {
		return Product{}, ErrInvalidProductID
	}
	return Product{
		ID:       details.ID,
		Name:     details.Name,
		Price:    details.Price,
		ImageURL: details.ImageURL,
		Amount:   1,
	}, nil
}

// Validate enforces the line item invariants.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProductID
	}
	if p.Amount < 1 {
		return ErrInvalidAmount
	}
	return nil
}

// Subtotal is price times amount.
func (p Product) Subtotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Amount)))
}

// Stock is the maximum purchasable amount of a product at query time. It is not a reservation.
type Stock struct {
	ProductID int64
	Amount    int
}

// Allows reports whether the requested amount fits in the observed stock.
func (s Stock) Allows(amount int) bool {
	return amount <= s.Amount
}

// Check returns ErrStockExceeded when the requested amount does not fit.
func (s Stock) Check(amount int) error {
	if !s.Allows(amount) {
		return ErrStockExceeded
	}
	return nil
}
