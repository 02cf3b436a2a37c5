// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/domain/cart"
	"github.com/your-org/gamestore/internal/domain/order"
	"github.com/your-org/gamestore/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	carts  *cart.Service
	orders *order.Service
	log    logrus.FieldLogger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(carts *cart.Service, orders *order.Service, log logrus.FieldLogger) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, orders: orders, log: log}
}

// ShowCheckout handles GET /checkout
func (h *CheckoutHandler) ShowCheckout(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "", "")
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	address := c.PostForm("address")
	sessionID := middleware.SessionID(c)

	o, err := h.orders.Checkout(c.Request.Context(), sessionID, middleware.CurrentUserID(c), address)
	switch {
	case err == nil:
	case errors.Is(err, order.ErrUnauthorized):
		c.Redirect(http.StatusSeeOther, "/login")
		return
	case errors.Is(err, order.ErrEmptyCart):
		c.Redirect(http.StatusSeeOther, "/")
		return
	case errors.Is(err, order.ErrInvalidAddress):
		h.renderForm(c, http.StatusBadRequest, address, "Please enter a shipping address.")
		return
	case errors.Is(err, cart.ErrCheckoutInProgress):
		renderError(c, http.StatusConflict, "Your order is already being placed.")
		return
	default:
		h.log.WithError(err).WithField("session_id", sessionID).Error("checkout failed")
		h.renderForm(c, http.StatusInternalServerError, address, "We could not place your order. Your cart has not been changed, please try again.")
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/orders?placed=%d", o.ID))
}

func (h *CheckoutHandler) renderForm(c *gin.Context, status int, address, message string) {
	view, err := h.carts.View(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.log.WithError(err).Error("failed to load cart")
		renderError(c, http.StatusInternalServerError, "Could not load your cart.")
		return
	}
	if len(view.Lines) == 0 {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	render(c, status, "checkout.html", gin.H{
		"Title":   "Checkout",
		"Cart":    view,
		"Address": address,
		"Error":   message,
	})
}
