package mapper

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

func TestFromDomainCart(t *testing.T) {
	cart, err := cartdomain.NewCart(
		cartdomain.Product{ID: 1, Name: "Tênis", Price: decimal.RequireFromString("179.90"), Amount: 2},
		cartdomain.Product{ID: 2, Name: "Tênis VR", Price: decimal.RequireFromString("139.90"), Amount: 1},
	)
	require.NoError(t, err)

	out := FromDomainCart(cart)
	require.Equal(t, 2, out.Size)
	require.Equal(t, "359.8", out.Items[0].Subtotal.String())
	require.Equal(t, "499.7", out.Total.String())

	raw, err := json.Marshal(out)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"total":"499.7"`)
}

func TestFromDomainCart_EmptyRendersEmptyList(t *testing.T) {
	raw, err := json.Marshal(FromDomainCart(cartdomain.EmptyCart()))
	require.NoError(t, err)
	require.JSONEq(t, `{"items":[],"size":0,"total":"0"}`, string(raw))
}
