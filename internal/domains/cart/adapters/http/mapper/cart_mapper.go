package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// CartItem is the transport shape of a line item. Money is rendered as decimal strings.
type CartItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	Amount   int             `json:"amount"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Cart is the transport shape returned by every cart endpoint.
type Cart struct {
	Items []CartItem      `json:"items"`
	Size  int             `json:"size"`
	Total decimal.Decimal `json:"total"`
}

// Notification is the payload of a notification event.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	ProductID int64     `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromDomainCart converts a domain cart to the transport representation.
func FromDomainCart(cart cartdomain.Cart) Cart {
	items := cart.Items()
	out := Cart{
		Items: make([]CartItem, 0, len(items)),
		Size:  cart.Size(),
		Total: cart.Total(),
	}
	for _, item := range items {
		out.Items = append(out.Items, CartItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			ImageURL: item.ImageURL,
			Amount:   item.Amount,
			Subtotal: item.Subtotal(),
		})
	}
	return out
}

func FromNotification(n cartports.Notification) Notification {
	return Notification{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Message:   n.Message,
		ProductID: n.ProductID,
		CreatedAt: n.CreatedAt,
	}
}
