package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-ordering-api/internal/dto"
	"food-ordering-api/internal/middleware"
	"food-ordering-api/internal/model"
	"food-ordering-api/internal/service"
)

type OrderController struct {
	Orders *service.OrderService
}

func NewOrderController(orders *service.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// POST /api/orders
func (ctl *OrderController) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := ctl.Orders.Create(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// GET /api/orders/user
func (ctl *OrderController) ListMine(c *gin.Context) {
	_, limit, skip := middleware.PageFrom(c)
	status := model.OrderStatus(c.Query("status"))

	orders, total, err := ctl.Orders.ListForUser(c.Request.Context(), c.GetString("userID"), status, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, orders, total))
}

// GET /api/orders (admin only)
func (ctl *OrderController) ListAll(c *gin.Context) {
	_, limit, skip := middleware.PageFrom(c)
	status := model.OrderStatus(c.Query("status"))

	orders, total, err := ctl.Orders.ListAll(c.Request.Context(), status, skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paginated(c, orders, total))
}

// GET /api/orders/:id
func (ctl *OrderController) Get(c *gin.Context) {
	order, err := ctl.Orders.Get(c.Request.Context(), c.Param("id"), c.GetString("userID"), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// PATCH /api/orders/:id/status (admin only)
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := ctl.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// DELETE /api/orders/:id
func (ctl *OrderController) Delete(c *gin.Context) {
	err := ctl.Orders.Delete(c.Request.Context(), c.Param("id"), c.GetString("userID"), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}
