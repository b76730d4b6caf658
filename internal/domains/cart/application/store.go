package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// DefaultSnapshotKey is the durable store key the storefront has always used for the cart.
const DefaultSnapshotKey = "@RocketShoes:cart"

// Store owns the shopper's cart. Mutations are serialized: each one validates against the
// inventory, persists the next cart and only then makes it visible.
type Store struct {
	mutate sync.Mutex

	state sync.RWMutex
	cart  domain.Cart

	snapshots ports.SnapshotStore
	inventory ports.Inventory
	key       string
	logger    *slog.Logger
}

type Option func(*Store)

// WithSnapshotKey overrides the durable store key.
func WithSnapshotKey(key string) Option {
	return func(s *Store) {
		if key = strings.TrimSpace(key); key != "" {
			s.key = key
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open loads the persisted cart and returns a ready Store. A missing snapshot yields an
// empty cart. An undecodable or invalid snapshot is discarded with a warning and the cart
// starts empty. Only a failing snapshot store is reported as an error.
func Open(ctx context.Context, snapshots ports.SnapshotStore, inventory ports.Inventory, opts ...Option) (*Store, error) {
	if snapshots == nil {
		return nil, errors.New("snapshot store is nil")
	}
	if inventory == nil {
		return nil, errors.New("inventory is nil")
	}
	s := &Store{
		snapshots: snapshots,
		inventory: inventory,
		key:       DefaultSnapshotKey,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	raw, found, err := snapshots.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: load %q: %w", ErrStorageUnavailable, s.key, err)
	}
	s.cart = domain.EmptyCart()
	if !found {
		return s, nil
	}
	cart, err := DecodeSnapshot(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding unreadable cart snapshot",
			slog.String("key", s.key), slog.String("error", err.Error()))
		return s, nil
	}
	s.cart = cart
	return s, nil
}

// Key returns the durable store key the cart is persisted under.
func (s *Store) Key() string {
	return s.key
}

// Cart returns the current cart value.
func (s *Store) Cart(_ context.Context) domain.Cart {
	s.state.RLock()
	defer s.state.RUnlock()
	return s.cart
}

// AddProduct adds one unit of a product, creating the line item from catalog details when absent.
func (s *Store) AddProduct(ctx context.Context, productID int64) (domain.Cart, error) {
	s.mutate.Lock()
	defer s.mutate.Unlock()

	current := s.Cart(ctx)
	next, err := s.planAdd(ctx, current, productID)
	if err != nil {
		return current, mapError(OpAddProduct, productID, err)
	}
	if err := s.commit(ctx, next); err != nil {
		return current, mapError(OpAddProduct, productID, err)
	}
	return next, nil
}

// RemoveProduct drops a line item. Removing an absent product is an error.
func (s *Store) RemoveProduct(ctx context.Context, productID int64) (domain.Cart, error) {
	s.mutate.Lock()
	defer s.mutate.Unlock()

	current := s.Cart(ctx)
	next, err := current.Without(productID)
	if err != nil {
		return current, mapError(OpRemoveProduct, productID, err)
	}
	if err := s.commit(ctx, next); err != nil {
		return current, mapError(OpRemoveProduct, productID, err)
	}
	return next, nil
}

// UpdateProductAmount sets an absolute amount. Amounts <= 0 are ignored; removal goes through RemoveProduct.
func (s *Store) UpdateProductAmount(ctx context.Context, input ports.UpdateAmountInput) (domain.Cart, error) {
	s.mutate.Lock()
	defer s.mutate.Unlock()

	current := s.Cart(ctx)
	if input.Amount <= 0 {
		return current, nil
	}
	next, err := s.planUpdate(ctx, current, input)
	if err != nil {
		return current, mapError(OpUpdateProductAmount, input.ProductID, err)
	}
	if err := s.commit(ctx, next); err != nil {
		return current, mapError(OpUpdateProductAmount, input.ProductID, err)
	}
	return next, nil
}

func (s *Store) planAdd(ctx context.Context, current domain.Cart, productID int64) (domain.Cart, error) {
	_, exists := current.Find(productID)
	stock, err := s.stock(ctx, productID)
	if err != nil {
		return current, err
	}
	desired := current.AmountOf(productID) + 1
	if err := stock.Check(desired); err != nil {
		return current, err
	}
	if exists {
		return current.WithAmount(productID, desired)
	}
	details, err := s.inventory.GetProduct(ctx, productID)
	if err != nil {
		return current, fmt.Errorf("%w: get product: %w", ErrInventoryUnavailable, err)
	}
	if details.ID != productID {
		return current, fmt.Errorf("%w: %w: product %d answered for %d",
			ErrInventoryUnavailable, ports.ErrMalformedInventoryResponse, details.ID, productID)
	}
	item, err := domain.NewLineItem(details)
	if err != nil {
		return current, fmt.Errorf("%w: %w", ErrInventoryUnavailable, err)
	}
	return current.Append(item)
}

func (s *Store) planUpdate(ctx context.Context, current domain.Cart, input ports.UpdateAmountInput) (domain.Cart, error) {
	stock, err := s.stock(ctx, input.ProductID)
	if err != nil {
		return current, err
	}
	if err := stock.Check(input.Amount); err != nil {
		return current, err
	}
	return current.WithAmount(input.ProductID, input.Amount)
}

func (s *Store) stock(ctx context.Context, productID int64) (domain.Stock, error) {
	stock, err := s.inventory.GetStock(ctx, productID)
	if err != nil {
		return domain.Stock{}, fmt.Errorf("%w: get stock: %w", ErrInventoryUnavailable, err)
	}
	return stock, nil
}

// commit persists first so the snapshot never runs ahead of or behind the visible cart.
func (s *Store) commit(ctx context.Context, next domain.Cart) error {
	raw, err := EncodeSnapshot(next)
	if err != nil {
		return err
	}
	if err := s.snapshots.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("%w: save %q: %w", ErrStorageUnavailable, s.key, err)
	}
	s.state.Lock()
	s.cart = next
	s.state.Unlock()
	return nil
}

var _ ports.Service = (*Store)(nil)
