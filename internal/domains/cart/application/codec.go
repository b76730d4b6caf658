package application

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

// snapshotLine is the persisted shape of a line item. Price is written as a JSON
// number; a quoted number is still accepted on read.
type snapshotLine struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	ImageURL string      `json:"imageUrl"`
	Amount   int         `json:"amount"`
}

// EncodeSnapshot serializes the cart as a JSON array of line items in display order.
func EncodeSnapshot(cart domain.Cart) (string, error) {
	items := cart.Items()
	lines := make([]snapshotLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, snapshotLine{
			ID:       item.ID,
			Name:     item.Name,
			Price:    json.Number(item.Price.String()),
			ImageURL: item.ImageURL,
			Amount:   item.Amount,
		})
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encode cart snapshot: %w", err)
	}
	return string(payload), nil
}

// DecodeSnapshot parses a persisted snapshot and re-validates the cart invariants.
func DecodeSnapshot(raw string) (domain.Cart, error) {
	var lines []snapshotLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	items := make([]domain.Product, 0, len(lines))
	for _, l := range lines {
		price := decimal.Zero
		if l.Price != "" {
			var err error
			if price, err = decimal.NewFromString(l.Price.String()); err != nil {
				return domain.Cart{}, fmt.Errorf("decode cart snapshot: product %d price: %w", l.ID, err)
			}
		}
		items = append(items, domain.Product{
			ID:       l.ID,
			Name:     l.Name,
			Price:    price,
			ImageURL: l.ImageURL,
			Amount:   l.Amount,
		})
	}
	cart, err := domain.NewCart(items...)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return cart, nil
}
