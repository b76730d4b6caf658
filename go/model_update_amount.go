package cartserver

// UpdateAmountRequest is the body of PUT /v1/cart/products/:productId.
type UpdateAmountRequest struct {
	Amount *int `json:"amount" binding:"required"`
}
