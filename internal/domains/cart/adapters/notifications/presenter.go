package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"

	cartapp "github.com/Apurer/rocketshoes-cart/internal/domains/cart/application"
	cartdomain "github.com/Apurer/rocketshoes-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// Presenter turns failed cart operations into shopper notifications.
// The error still reaches the caller unchanged.
type Presenter struct {
	inner    cartports.Service
	notifier cartports.Notifier
	catalog  Catalog
	now      func() time.Time
}

type PresenterOption func(*Presenter)

func WithCatalog(c Catalog) PresenterOption {
	return func(p *Presenter) {
		if c != nil {
			p.catalog = c
		}
	}
}

func WithClock(now func() time.Time) PresenterOption {
	return func(p *Presenter) {
		if now != nil {
			p.now = now
		}
	}
}

func NewPresenter(inner cartports.Service, notifier cartports.Notifier, opts ...PresenterOption) *Presenter {
	if notifier == nil {
		notifier = cartports.NoopNotifier
	}
	p := &Presenter{
		inner:    inner,
		notifier: notifier,
		catalog:  CatalogFor(LocaleEnglish),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *Presenter) Cart(ctx context.Context) cartdomain.Cart {
	return p.inner.Cart(ctx)
}

func (p *Presenter) AddProduct(ctx context.Context, productID int64) (cartdomain.Cart, error) {
	cart, err := p.inner.AddProduct(ctx, productID)
	if err != nil {
		p.present(ctx, productID, err)
	}
	return cart, err
}

func (p *Presenter) RemoveProduct(ctx context.Context, productID int64) (cartdomain.Cart, error) {
	cart, err := p.inner.RemoveProduct(ctx, productID)
	if err != nil {
		p.present(ctx, productID, err)
	}
	return cart, err
}

func (p *Presenter) UpdateProductAmount(ctx context.Context, input cartports.UpdateAmountInput) (cartdomain.Cart, error) {
	cart, err := p.inner.UpdateProductAmount(ctx, input)
	if err != nil {
		p.present(ctx, input.ProductID, err)
	}
	return cart, err
}

// Describe builds the notification for a failed operation.
func (p *Presenter) Describe(productID int64, err error) cartports.Notification {
	kind := KindFor(err)
	return cartports.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   p.catalog.Message(kind),
		ProductID: productID,
		CreatedAt: p.now().UTC(),
	}
}

func (p *Presenter) present(ctx context.Context, productID int64, err error) {
	p.notifier.Notify(ctx, p.Describe(productID, err))
}

// KindFor maps an operation error to its notification. Stock rejections share one
// message across operations; every other failure reports the operation that failed.
func KindFor(err error) cartports.NotificationKind {
	if kind, ok := cartapp.KindOf(err); ok && kind == cartapp.KindStockExceeded {
		return cartports.NotificationStockExceeded
	}
	op, _ := cartapp.OperationOf(err)
	switch op {
	case cartapp.OpRemoveProduct:
		return cartports.NotificationRemoveFailed
	case cartapp.OpUpdateProductAmount:
		return cartports.NotificationUpdateFailed
	default:
		return cartports.NotificationAddFailed
	}
}

var _ cartports.Service = (*Presenter)(nil)
