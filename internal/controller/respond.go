package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"food-ordering-api/internal/middleware"
	"food-ordering-api/internal/service"
)

// respondError maps service errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrFavoriteNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPayment),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrTerminalState),
		errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrAlreadyFavorite),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotYourOrder),
		errors.Is(err, service.ErrNotYourNotification):
		status = http.StatusForbidden
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// paginated wraps list data with the standard pagination envelope, using the
// page/limit stored by the pagination middleware.
func paginated(c *gin.Context, data any, total int64) gin.H {
	page, limit, _ := middleware.PageFrom(c)
	totalPages := (total + int64(limit) - 1) / int64(limit)

	return gin.H{
		"data": data,
		"pagination": gin.H{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": totalPages,
			"hasNext":    int64(page) < totalPages,
			"hasPrev":    page > 1,
		},
	}
}
