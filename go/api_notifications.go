package cartserver

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/http/mapper"
	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/adapters/notifications"
	apierrors "github.com/Apurer/rocketshoes-cart/internal/shared/errors"
)

const defaultStreamBuffer = 16

// NotificationsAPI streams cart notifications as server-sent events.
type NotificationsAPI struct {
	feed   *notifications.Feed
	buffer int
}

func NewNotificationsAPI(feed *notifications.Feed, buffer int) NotificationsAPI {
	if buffer < 1 {
		buffer = defaultStreamBuffer
	}
	return NotificationsAPI{feed: feed, buffer: buffer}
}

// Get /v1/notifications
// Streams notifications until the client disconnects
func (api *NotificationsAPI) StreamNotifications(c *gin.Context) {
	if api.feed == nil {
		respondProblem(c, apierrors.ErrServiceUnavailable.WithDetail("notification feed not configured"))
		return
	}
	ch, cancel := api.feed.Subscribe(api.buffer)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case note, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("notification", carthttpmapper.FromNotification(note))
			return true
		}
	})
}
