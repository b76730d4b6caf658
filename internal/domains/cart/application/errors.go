package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
)

var (
	// ErrInventoryUnavailable wraps failures talking to the inventory (network, status, malformed payload).
	ErrInventoryUnavailable = errors.New("inventory unavailable")
	// ErrStorageUnavailable wraps failures reading or writing the cart snapshot.
	ErrStorageUnavailable = errors.New("cart snapshot store unavailable")
)

// Operation names a cart mutation.
type Operation string

const (
	OpAddProduct          Operation = "add_product"
	OpRemoveProduct       Operation = "remove_product"
	OpUpdateProductAmount Operation = "update_product_amount"
)

// Kind classifies why a mutation was not applied.
type Kind string

const (
	KindStockExceeded Kind = "stock_exceeded"
	KindNotInCart     Kind = "not_in_cart"
	KindInventory     Kind = "inventory_unavailable"
	KindStorage       Kind = "storage_unavailable"
	KindInternal      Kind = "internal"
)

// OperationError is returned by every failed mutation. The cart is unchanged when it is returned.
type OperationError struct {
	Op        Operation
	Kind      Kind
	ProductID int64
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s product %d: %s: %v", e.Op, e.ProductID, e.Kind, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error returned by the store.
func KindOf(err error) (Kind, bool) {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind, true
	}
	return "", false
}

// OperationOf extracts the failed operation from an error returned by the store.
func OperationOf(err error) (Operation, bool) {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Op, true
	}
	return "", false
}

func mapError(op Operation, productID int64, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return err
	}
	return &OperationError{Op: op, Kind: classify(err), ProductID: productID, Err: err}
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, domain.ErrStockExceeded):
		return KindStockExceeded
	case errors.Is(err, domain.ErrProductNotInCart):
		return KindNotInCart
	case errors.Is(err, ErrInventoryUnavailable):
		return KindInventory
	case errors.Is(err, ErrStorageUnavailable):
		return KindStorage
	default:
		return KindInternal
	}
}
