// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/domain/cart"
	"github.com/your-org/gamestore/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	carts *cart.Service
	log   logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Service, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{carts: carts, log: log}
}

// AddToCartRequest is the add-to-cart form. A missing quantity means one
// copy; the upper bound matches cart.MaxQuantity.
type AddToCartRequest struct {
	GameID   uint `form:"game_id" binding:"required"`
	Quantity *int `form:"quantity" binding:"omitempty,min=1,max=99"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.carts.View(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.log.WithError(err).Error("failed to load cart")
		renderError(c, http.StatusInternalServerError, "Could not load your cart.")
		return
	}

	render(c, http.StatusOK, "cart.html", gin.H{
		"Title": "Cart",
		"Cart":  view,
	})
}

// AddToCart handles POST /cart/add
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBind(&req); err != nil {
		renderError(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	err := h.carts.Add(c.Request.Context(), middleware.SessionID(c), req.GameID, quantity)
	if errors.Is(err, cart.ErrInvalidInput) {
		renderError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("game_id", req.GameID).Error("failed to add to cart")
		renderError(c, http.StatusInternalServerError, "Could not update your cart.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/cart")
}

// UpdateCart handles POST /cart/update with quantities[<game id>] fields
func (h *CartHandler) UpdateCart(c *gin.Context) {
	quantities := make(map[uint]int)
	for key, value := range c.PostFormMap("quantities") {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		quantities[uint(id)] = qty
	}

	if err := h.carts.Update(c.Request.Context(), middleware.SessionID(c), quantities); err != nil {
		h.log.WithError(err).Error("failed to update cart")
		renderError(c, http.StatusInternalServerError, "Could not update your cart.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/cart")
}

// RemoveFromCart handles GET /cart/remove/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	}

	if err := h.carts.Remove(c.Request.Context(), middleware.SessionID(c), id); err != nil {
		h.log.WithError(err).WithField("game_id", id).Error("failed to remove from cart")
		renderError(c, http.StatusInternalServerError, "Could not update your cart.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/cart")
}
