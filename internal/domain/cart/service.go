// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/domain/catalog"
)

// Service handles cart business logic
type Service struct {
	store   Store
	catalog catalog.Reader
	log     logrus.FieldLogger
}

// NewService creates a new cart service
func NewService(store Store, games catalog.Reader, log logrus.FieldLogger) *Service {
	return &Service{
		store:   store,
		catalog: games,
		log:     log,
	}
}

// Add puts quantity copies of a game into the session's cart
func (s *Service) Add(ctx context.Context, sessionID string, gameID uint, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if _, err := s.catalog.GetByID(ctx, gameID); err != nil {
		if errors.Is(err, catalog.ErrGameNotFound) {
			return fmt.Errorf("%w: game %d does not exist", ErrInvalidInput, gameID)
		}
		return err
	}

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := c.Add(gameID, quantity); err != nil {
		return err
	}
	return s.store.Save(ctx, sessionID, c)
}

// Update applies a bulk quantity update
func (s *Service) Update(ctx context.Context, sessionID string, quantities map[uint]int) error {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	c.SetQuantities(quantities)
	return s.store.Save(ctx, sessionID, c)
}

// Remove drops a game from the session's cart
func (s *Service) Remove(ctx context.Context, sessionID string, gameID uint) error {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if c.Quantity(gameID) == 0 {
		return nil
	}
	c.Remove(gameID)
	return s.store.Save(ctx, sessionID, c)
}

// Clear empties the session's cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// View loads the session's cart and prices it against the catalog
func (s *Service) View(ctx context.Context, sessionID string) (*View, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines, err := s.List(ctx, c)
	if err != nil {
		return nil, err
	}

	view := &View{Lines: lines, GrandTotal: GrandTotal(lines)}
	for _, l := range lines {
		view.ItemCount += l.Quantity
	}
	return view, nil
}

// List joins the cart against the catalog. Entries whose game no longer
// exists are skipped.
func (s *Service) List(ctx context.Context, c *Cart) ([]Line, error) {
	lines := make([]Line, 0, len(c.Items))
	for _, id := range c.GameIDs() {
		game, err := s.catalog.GetByID(ctx, id)
		if errors.Is(err, catalog.ErrGameNotFound) {
			s.log.WithField("game_id", id).Warn("cart references a game that no longer exists")
			continue
		}
		if err != nil {
			return nil, err
		}
		qty := c.Items[id]
		lines = append(lines, Line{
			Game:      game,
			Quantity:  qty,
			LineTotal: game.LineTotal(qty),
		})
	}
	return lines, nil
}
