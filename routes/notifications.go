package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"decor-marketplace-server/middleware"
	"decor-marketplace-server/services"
)

type NotificationHandler struct {
	notifications services.NotificationService
}

func NewNotificationHandler(notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/notifications")
	g.GET("", h.list)
	g.GET("/unread-count", h.unreadCount)
	g.POST("/mark-read/:id", h.markRead)
	g.POST("/mark-all-read", h.markAllRead)
}

// list returns the newest notifications, unread only with ?unread=true
func (h *NotificationHandler) list(c *gin.Context) {
	items, err := h.notifications.List(c.Request.Context(), middleware.ActorFrom(c), c.Query("unread") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	success(c, http.StatusOK, items)
}

func (h *NotificationHandler) unreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

func (h *NotificationHandler) markRead(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification marked as read"})
}

func (h *NotificationHandler) markAllRead(c *gin.Context) {
	n, err := h.notifications.MarkAllRead(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": n})
}
