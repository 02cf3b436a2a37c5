// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/domain/order"
	"github.com/your-org/gamestore/internal/interfaces/http/middleware"
)

// OrderHandler shows a customer their orders
type OrderHandler struct {
	orders *order.Service
	log    logrus.FieldLogger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

// GetUserOrders handles GET /orders
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	orders, err := h.orders.ListForUser(c.Request.Context(), *userID)
	if err != nil {
		h.log.WithError(err).Error("failed to list orders")
		renderError(c, http.StatusInternalServerError, "Could not load your orders.")
		return
	}

	data := gin.H{"Title": "My Orders", "Orders": orders}
	if c.Query("placed") != "" {
		data["Success"] = "Order Placed Successfully! Thank you."
	}
	render(c, http.StatusOK, "orders.html", data)
}
