package notifications

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	cartports "github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

func note(id string) cartports.Notification {
	return cartports.Notification{ID: id, Kind: cartports.NotificationAddFailed, Message: "failed to add product", ProductID: 1}
}

func TestFeed_BroadcastsToSubscribers(t *testing.T) {
	feed := NewFeed()
	a, cancelA := feed.Subscribe(4)
	defer cancelA()
	b, cancelB := feed.Subscribe(4)
	defer cancelB()

	feed.Notify(context.Background(), note("n1"))

	require.Equal(t, "n1", (<-a).ID)
	require.Equal(t, "n1", (<-b).ID)
	require.Equal(t, 2, feed.Subscribers())
}

func TestFeed_DropsWhenSubscriberIsFull(t *testing.T) {
	feed := NewFeed()
	ch, cancel := feed.Subscribe(1)
	defer cancel()

	feed.Notify(context.Background(), note("n1"))
	feed.Notify(context.Background(), note("n2"))

	require.Equal(t, "n1", (<-ch).ID)
	require.Equal(t, uint64(1), feed.Dropped())
	select {
	case n := <-ch:
		t.Fatalf("unexpected notification %q", n.ID)
	default:
	}
}

func TestFeed_CancelClosesChannel(t *testing.T) {
	feed := NewFeed()
	ch, cancel := feed.Subscribe(1)
	cancel()
	cancel()

	_, open := <-ch
	require.False(t, open)
	require.Zero(t, feed.Subscribers())
	feed.Notify(context.Background(), note("n1"))
}

func TestFeed_Close(t *testing.T) {
	feed := NewFeed()
	ch, cancel := feed.Subscribe(1)
	feed.Close()
	cancel()

	_, open := <-ch
	require.False(t, open)

	late, _ := feed.Subscribe(1)
	_, open = <-late
	require.False(t, open)
}

func TestMultiNotifier_FansOut(t *testing.T) {
	first, second := &recordingNotifier{}, &recordingNotifier{}
	MultiNotifier{first, nil, second}.Notify(context.Background(), note("n1"))

	require.Len(t, first.all(), 1)
	require.Len(t, second.all(), 1)
}

func TestLogNotifier_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	n.Notify(context.Background(), note("n1"))

	require.Contains(t, buf.String(), `"notification.kind":"add_failed"`)
	require.Contains(t, buf.String(), `"product.id":1`)
}
