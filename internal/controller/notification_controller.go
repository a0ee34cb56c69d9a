package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"food-ordering-api/internal/middleware"
	"food-ordering-api/internal/service"
)

type NotificationController struct {
	Notifications *service.NotificationService
}

func NewNotificationController(notifications *service.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

// GET /api/notifications
func (ctl *NotificationController) List(c *gin.Context) {
	_, limit, skip := middleware.PageFrom(c)
	unreadOnly := c.Query("unreadOnly") == "true"
	userID := c.GetString("userID")

	notifications, total, unread, err := ctl.Notifications.ListForUser(c.Request.Context(), userID, unreadOnly, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	body := paginated(c, notifications, total)
	body["unreadCount"] = unread
	c.JSON(http.StatusOK, body)
}

// PATCH /api/notifications/:id/read
func (ctl *NotificationController) MarkRead(c *gin.Context) {
	n, err := ctl.Notifications.MarkRead(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Notification marked as read",
		"notification": n,
	})
}

// PATCH /api/notifications/read-all
func (ctl *NotificationController) MarkAllRead(c *gin.Context) {
	count, err := ctl.Notifications.MarkAllRead(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d notifications marked as read", count)})
}

// DELETE /api/notifications/:id
func (ctl *NotificationController) Delete(c *gin.Context) {
	if err := ctl.Notifications.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

// DELETE /api/notifications
func (ctl *NotificationController) ClearAll(c *gin.Context) {
	count, err := ctl.Notifications.ClearAll(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d notifications cleared successfully", count)})
}
