// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/domain/catalog"
	"github.com/your-org/gamestore/internal/domain/order"
	"github.com/your-org/gamestore/internal/domain/upload"
)

// AdminHandler handles the admin dashboard and game management
type AdminHandler struct {
	games   *catalog.Service
	orders  *order.Service
	uploads *upload.Service
	log     logrus.FieldLogger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(games *catalog.Service, orders *order.Service, uploads *upload.Service, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		games:   games,
		orders:  orders,
		uploads: uploads,
		log:     log,
	}
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	games, err := h.games.ListAll(ctx)
	if err != nil {
		h.log.WithError(err).Error("failed to list games")
		renderError(c, http.StatusInternalServerError, "Could not load the dashboard.")
		return
	}
	orders, err := h.orders.ListAll(ctx)
	if err != nil {
		h.log.WithError(err).Error("failed to list orders")
		renderError(c, http.StatusInternalServerError, "Could not load the dashboard.")
		return
	}

	render(c, http.StatusOK, "admin.html", gin.H{
		"Title":  "Admin Dashboard",
		"Games":  games,
		"Orders": orders,
	})
}

// NewGame handles GET /admin/games/new
func (h *AdminHandler) NewGame(c *gin.Context) {
	h.renderGameForm(c, http.StatusOK, 0, catalog.GameRequest{}, "", "")
}

// CreateGame handles POST /admin/games/new
func (h *AdminHandler) CreateGame(c *gin.Context) {
	var req catalog.GameRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderGameForm(c, http.StatusBadRequest, 0, req, "", bindingMessage(err))
		return
	}

	imageRef, ok := h.saveImage(c, 0, req, "")
	if !ok {
		return
	}

	game, err := h.games.Create(c.Request.Context(), &req, imageRef)
	if errors.Is(err, catalog.ErrInvalidGame) {
		h.renderGameForm(c, http.StatusBadRequest, 0, req, "", err.Error())
		return
	}
	if err != nil {
		h.log.WithError(err).Error("failed to create game")
		h.renderGameForm(c, http.StatusInternalServerError, 0, req, "", "Could not save the game.")
		return
	}

	h.log.WithField("game_id", game.ID).Info("game created")
	c.Redirect(http.StatusSeeOther, "/admin")
}

// EditGame handles GET /admin/games/:id/edit
func (h *AdminHandler) EditGame(c *gin.Context) {
	game, ok := h.loadGame(c)
	if !ok {
		return
	}

	req := catalog.GameRequest{
		Title:       game.Title,
		Genre:       game.Genre,
		Price:       game.Price.StringFixed(2),
		Description: game.Description,
	}
	h.renderGameForm(c, http.StatusOK, game.ID, req, game.ImageRef, "")
}

// UpdateGame handles POST /admin/games/:id/edit. The current image is kept
// unless a new one is uploaded.
func (h *AdminHandler) UpdateGame(c *gin.Context) {
	game, ok := h.loadGame(c)
	if !ok {
		return
	}

	var req catalog.GameRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderGameForm(c, http.StatusBadRequest, game.ID, req, game.ImageRef, bindingMessage(err))
		return
	}

	imageRef, ok := h.saveImage(c, game.ID, req, game.ImageRef)
	if !ok {
		return
	}

	_, err := h.games.Update(c.Request.Context(), game.ID, &req, imageRef)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrInvalidGame):
		h.renderGameForm(c, http.StatusBadRequest, game.ID, req, game.ImageRef, err.Error())
		return
	case errors.Is(err, catalog.ErrGameNotFound):
		renderError(c, http.StatusNotFound, "Game not found!")
		return
	default:
		h.log.WithError(err).WithField("game_id", game.ID).Error("failed to update game")
		h.renderGameForm(c, http.StatusInternalServerError, game.ID, req, game.ImageRef, "Could not save the game.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin")
}

// DeleteGame handles POST /admin/games/:id/delete
func (h *AdminHandler) DeleteGame(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		renderError(c, http.StatusBadRequest, "Invalid game ID")
		return
	}

	err := h.games.Delete(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrGameNotFound) {
		renderError(c, http.StatusNotFound, "Game not found!")
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("game_id", id).Error("failed to delete game")
		renderError(c, http.StatusInternalServerError, "Could not delete the game.")
		return
	}

	h.log.WithField("game_id", id).Info("game deleted")
	c.Redirect(http.StatusSeeOther, "/admin")
}

// OrderDetails handles GET /admin/orders/:id
func (h *AdminHandler) OrderDetails(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		renderError(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.orders.Get(c.Request.Context(), id)
	if errors.Is(err, order.ErrOrderNotFound) {
		renderError(c, http.StatusNotFound, "Order not found!")
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("order_id", id).Error("failed to load order")
		renderError(c, http.StatusInternalServerError, "Could not load the order.")
		return
	}

	render(c, http.StatusOK, "order_detail.html", gin.H{"Title": "Order", "Order": o})
}

func (h *AdminHandler) loadGame(c *gin.Context) (*catalog.Game, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		renderError(c, http.StatusBadRequest, "Invalid game ID")
		return nil, false
	}

	game, err := h.games.GetByID(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrGameNotFound) {
		renderError(c, http.StatusNotFound, "Game not found!")
		return nil, false
	}
	if err != nil {
		h.log.WithError(err).WithField("game_id", id).Error("failed to load game")
		renderError(c, http.StatusInternalServerError, "Could not load the game.")
		return nil, false
	}
	return game, true
}

// saveImage stores the optional "image" upload. It renders the form and
// returns false when the upload is rejected.
func (h *AdminHandler) saveImage(c *gin.Context, gameID uint, req catalog.GameRequest, currentRef string) (string, bool) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		header = nil
	} else if err != nil {
		h.renderGameForm(c, http.StatusBadRequest, gameID, req, currentRef, "Invalid image upload")
		return "", false
	}

	ref, err := h.uploads.SaveImage(c.Request.Context(), header)
	if errors.Is(err, upload.ErrInvalidFile) {
		h.renderGameForm(c, http.StatusBadRequest, gameID, req, currentRef, err.Error())
		return "", false
	}
	if err != nil {
		h.log.WithError(err).Error("failed to store image")
		h.renderGameForm(c, http.StatusInternalServerError, gameID, req, currentRef, "Could not store the image.")
		return "", false
	}
	return ref, true
}

func (h *AdminHandler) renderGameForm(c *gin.Context, status int, gameID uint, req catalog.GameRequest, imageRef, message string) {
	title := "Add New Game"
	if gameID != 0 {
		title = "Edit Game"
	}
	render(c, status, "game_form.html", gin.H{
		"Title":    title,
		"GameID":   gameID,
		"Form":     req,
		"ImageRef": imageRef,
		"Error":    message,
	})
}
