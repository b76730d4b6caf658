package ports

import (
	"context"
	"time"
)

// NotificationKind enumerates the user-visible messages the cart can produce.
type NotificationKind string

const (
	NotificationStockExceeded NotificationKind = "stock_exceeded"
	NotificationAddFailed     NotificationKind = "add_failed"
	NotificationRemoveFailed  NotificationKind = "remove_failed"
	NotificationUpdateFailed  NotificationKind = "update_failed"
)

// Notification is a toast-style message for the shopper.
type Notification struct {
	ID        string
	Kind      NotificationKind
	Message   string
	ProductID int64
	CreatedAt time.Time
}

// Notifier delivers notifications. Implementations must not block the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NoopNotifier discards every notification.
var NoopNotifier Notifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) {}
