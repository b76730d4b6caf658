package notifications

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, note cartports.Notification) {
	n.logger.LogAttrs(ctx, slog.LevelInfo, "cart notification",
		slog.String("notification.id", note.ID),
		slog.String("notification.kind", string(note.Kind)),
		slog.String("notification.message", note.Message),
		slog.Int64("product.id", note.ProductID),
	)
}

// MultiNotifier fans a notification out to every wrapped notifier in order.
type MultiNotifier []cartports.Notifier

func (m MultiNotifier) Notify(ctx context.Context, note cartports.Notification) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, note)
		}
	}
}

// Feed broadcasts notifications to live subscribers. A subscriber whose buffer is
// full misses the notification.
type Feed struct {
	mu      sync.RWMutex
	subs    map[uint64]chan cartports.Notification
	next    uint64
	closed  bool
	dropped atomic.Uint64
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[uint64]chan cartports.Notification)}
}

// Subscribe registers a subscriber. The returned cancel func closes the channel and is safe to call twice.
func (f *Feed) Subscribe(buffer int) (<-chan cartports.Notification, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan cartports.Notification, buffer)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		close(ch)
		return ch, func() {}
	}
	id := f.next
	f.next++
	f.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { f.unsubscribe(id) })
	}
}

func (f *Feed) unsubscribe(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.subs[id]; ok {
		delete(f.subs, id)
		close(ch)
	}
}

func (f *Feed) Notify(_ context.Context, note cartports.Notification) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subs {
		select {
		case ch <- note:
		default:
			f.dropped.Add(1)
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (f *Feed) Dropped() uint64 {
	return f.dropped.Load()
}

// Close ends every subscription. Later notifications are discarded.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}

var (
	_ cartports.Notifier = (*LogNotifier)(nil)
	_ cartports.Notifier = MultiNotifier(nil)
	_ cartports.Notifier = (*Feed)(nil)
)
