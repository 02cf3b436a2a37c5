// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/domain/catalog"
)

// CatalogHandler serves the public store pages
type CatalogHandler struct {
	games *catalog.Service
	log   logrus.FieldLogger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(games *catalog.Service, log logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{games: games, log: log}
}

// Index handles GET /
func (h *CatalogHandler) Index(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	games, err := h.games.Search(c.Request.Context(), query)
	if err != nil {
		h.log.WithError(err).Error("failed to list games")
		renderError(c, http.StatusInternalServerError, "Could not load the catalog.")
		return
	}

	render(c, http.StatusOK, "index.html", gin.H{
		"Title": "Home",
		"Games": games,
		"Query": query,
	})
}

// Details handles GET /games/:id
func (h *CatalogHandler) Details(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		renderError(c, http.StatusBadRequest, "No game selected!")
		return
	}

	game, err := h.games.GetByID(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrGameNotFound) {
		renderError(c, http.StatusNotFound, "Game not found!")
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("game_id", id).Error("failed to load game")
		renderError(c, http.StatusInternalServerError, "Could not load the game.")
		return
	}

	render(c, http.StatusOK, "details.html", gin.H{
		"Title": game.Title,
		"Game":  game,
	})
}
