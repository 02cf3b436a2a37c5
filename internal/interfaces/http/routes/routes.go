// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/gamestore/internal/interfaces/http/handlers"
	"github.com/your-org/gamestore/internal/interfaces/http/middleware"
)

// Handlers groups every page handler the router needs
type Handlers struct {
	Catalog  *handlers.CatalogHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Auth     *handlers.AuthHandler
	Orders   *handlers.OrderHandler
	Admin    *handlers.AdminHandler
}

// SetupRoutes registers every storefront route
func SetupRoutes(r gin.IRouter, h *Handlers) {
	SetupCatalogRoutes(r, h)
	SetupCartRoutes(r, h)
	SetupAuthRoutes(r, h)
	SetupOrderRoutes(r, h)
	SetupAdminRoutes(r, h)
}

// SetupCatalogRoutes sets up the public store pages
func SetupCatalogRoutes(r gin.IRouter, h *Handlers) {
	r.GET("/", h.Catalog.Index)
	r.GET("/games/:id", h.Catalog.Details)
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(r gin.IRouter, h *Handlers) {
	cart := r.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/add", h.Cart.AddToCart)
		cart.POST("/update", h.Cart.UpdateCart)
		cart.GET("/remove/:id", h.Cart.RemoveFromCart)
	}
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(r gin.IRouter, h *Handlers) {
	r.GET("/register", h.Auth.ShowRegister)
	r.POST("/register", h.Auth.Register)
	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)
	r.GET("/logout", h.Auth.Logout)
}

// SetupOrderRoutes sets up checkout and order history routes
func SetupOrderRoutes(r gin.IRouter, h *Handlers) {
	protected := r.Group("")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/checkout", h.Checkout.ShowCheckout)
		protected.POST("/checkout", h.Checkout.PlaceOrder)
		protected.GET("/orders", h.Orders.GetUserOrders)
	}
}

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(r gin.IRouter, h *Handlers) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", h.Admin.Dashboard)
		admin.GET("/games/new", h.Admin.NewGame)
		admin.POST("/games/new", h.Admin.CreateGame)
		admin.GET("/games/:id/edit", h.Admin.EditGame)
		admin.POST("/games/:id/edit", h.Admin.UpdateGame)
		admin.POST("/games/:id/delete", h.Admin.DeleteGame)
		admin.GET("/orders/:id", h.Admin.OrderDetails)
	}
}
