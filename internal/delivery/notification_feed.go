package delivery

import (
	"net/http"
	"sync"

	"admin_console/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const DefaultFeedSize = 100

// NotificationFeed buffers session notifications until the console drains them.
// Once full, the oldest notification is dropped.
type NotificationFeed struct {
	mu    sync.Mutex
	items []domain.Notification
	limit int
	log   *logrus.Logger
}

func NewNotificationFeed(limit int, logger *logrus.Logger) *NotificationFeed {
	if limit <= 0 {
		limit = DefaultFeedSize
	}
	return &NotificationFeed{limit: limit, log: logger}
}

func (f *NotificationFeed) Notify(n domain.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.items) == f.limit {
		f.items = f.items[1:]
	}
	f.items = append(f.items, n)
	f.log.WithField("level", n.Level).Debugf("Notification: %s", n.Message)
}

// Drain returns every pending notification and empties the feed.
func (f *NotificationFeed) Drain() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	if out == nil {
		out = []domain.Notification{}
	}
	return out
}

func (f *NotificationFeed) RegisterRoutes(router gin.IRouter) {
	router.GET("/notifications", func(c *gin.Context) {
		SuccessResponse(c, http.StatusOK, "Notifications retrieved successfully", f.Drain())
	})
}
