package handlers

import (
	"net/http"

	"hoa-server/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	dispatcher *services.Dispatcher
}

func NewNotificationHandler(dispatcher *services.Dispatcher) *NotificationHandler {
	return &NotificationHandler{
		dispatcher: dispatcher,
	}
}

func (h *NotificationHandler) Flush(c *gin.Context) {
	delivered := h.dispatcher.Flush(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "flushed", "delivered": delivered})
}

func (h *NotificationHandler) GetPending(c *gin.Context) {
	pending := h.dispatcher.Pending()

	// Transform to a more JSON-friendly format
	result := make([]gin.H, 0, len(pending))
	for _, item := range pending {
		result = append(result, gin.H{
			"channel":   item.Notification.Channel,
			"to":        item.Notification.To,
			"subject":   item.Notification.Subject,
			"attempts":  item.Attempts,
			"queued_at": item.QueuedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"total":   len(result),
		"pending": result,
	})
}

func (h *NotificationHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"stats":  h.dispatcher.Stats(),
	})
}
