package inventory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when the inventory answers 404 for a product.
	ErrNotFound = errors.New("inventory resource not found")
	// ErrDecode is returned when a response body cannot be parsed.
	ErrDecode = errors.New("decode inventory response")
)

// StockPayload is the body of GET /stock/{productId}. Amount is nil when the
// inventory omits it or sends null.
type StockPayload struct {
	ID     int64 `json:"id"`
	Amount *int  `json:"amount"`
}

// NewStockPayload builds a payload carrying an amount.
func NewStockPayload(id int64, amount int) StockPayload {
	return StockPayload{ID: id, Amount: &amount}
}

// ProductPayload is the body of GET /products/{productId}. Price accepts JSON numbers or strings.
type ProductPayload struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
}

// StatusError reports a non-2xx answer other than 404.
type StatusError struct {
	StatusCode int
	Status     string
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inventory %s: unexpected status %s", e.Path, e.Status)
}
