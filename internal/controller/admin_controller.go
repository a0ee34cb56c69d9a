package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/lifecycle"
	"food-ordering-api/internal/service"
)

// AdminController exposes the broadcast and maintenance endpoints.
type AdminController struct {
	Notifications *service.NotificationService
	Scheduler     *lifecycle.Scheduler
}

func NewAdminController(notifications *service.NotificationService, scheduler *lifecycle.Scheduler) *AdminController {
	return &AdminController{Notifications: notifications, Scheduler: scheduler}
}

// POST /api/admin/notifications/promotion
func (ctl *AdminController) SendPromotion(c *gin.Context) {
	var req dto.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := ctl.Notifications.BroadcastPromotion(c.Request.Context(), req.Title, req.Message, req.RelatedID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Promotional notification sent",
		"count":   count,
	})
}

// POST /api/admin/notifications/system
func (ctl *AdminController) SendSystemNotification(c *gin.Context) {
	var req dto.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := ctl.Notifications.BroadcastSystem(c.Request.Context(), req.Title, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "System notification sent",
		"count":   count,
	})
}

// GET /api/admin/notifications/stats
func (ctl *AdminController) NotificationStats(c *gin.Context) {
	stats, err := ctl.Notifications.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// POST /api/admin/orders/auto-update runs a scan pass on demand, outside the
// regular schedule.
func (ctl *AdminController) TriggerOrderScan(c *gin.Context) {
	result := ctl.Scheduler.RunPass(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status scan complete",
		"result": gin.H{
			"pendingToProcessing": result.PendingToProcessing,
			"processingToShipped": result.ProcessingToShipped,
			"shippedToDelivered":  result.ShippedToDelivered,
			"failed":              result.Failed,
			"totalUpdated":        result.Total(),
		},
	})
}
