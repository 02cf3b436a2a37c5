// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrGameNotFound is returned when no game has the requested id
	ErrGameNotFound = errors.New("game not found")
	// ErrInvalidGame is returned when game data fails validation
	ErrInvalidGame = errors.New("invalid game")
)

// Reader is the read side of the catalog used by the cart and checkout
type Reader interface {
	GetByID(ctx context.Context, id uint) (*Game, error)
}

// Service handles catalog business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GameRequest carries admin-editable game fields
type GameRequest struct {
	Title       string `form:"title" binding:"required,max=255"`
	Genre       string `form:"genre" binding:"max=100"`
	Price       string `form:"price" binding:"required,numeric"`
	Description string `form:"description" binding:"max=5000"`
}

// Validate parses the price as an exact decimal. Field presence and length
// are checked by the binding tags.
func (r *GameRequest) Validate() (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: price must be a number", ErrInvalidGame)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: price cannot be negative", ErrInvalidGame)
	}
	return price.Round(2), nil
}

// GetByID retrieves a game by id
func (s *Service) GetByID(ctx context.Context, id uint) (*Game, error) {
	var game Game
	err := s.db.WithContext(ctx).First(&game, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game: %w", err)
	}
	return &game, nil
}

// ListAll returns every game ordered by id
func (s *Service) ListAll(ctx context.Context) ([]Game, error) {
	var games []Game
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// Search returns games whose title contains query, ignoring case.
// An empty query lists everything.
func (s *Service) Search(ctx context.Context, query string) ([]Game, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListAll(ctx)
	}

	var games []Game
	pattern := "%" + strings.ToLower(query) + "%"
	err := s.db.WithContext(ctx).
		Where("LOWER(title) LIKE ?", pattern).
		Order("id ASC").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search games: %w", err)
	}
	return games, nil
}

// Create adds a new game with the given image reference
func (s *Service) Create(ctx context.Context, req *GameRequest, imageRef string) (*Game, error) {
	price, err := req.Validate()
	if err != nil {
		return nil, err
	}

	game := Game{
		Title:       strings.TrimSpace(req.Title),
		Genre:       strings.TrimSpace(req.Genre),
		Price:       price,
		Description: req.Description,
		ImageRef:    imageRef,
	}
	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return &game, nil
}

// Update changes a game's fields. An empty newImageRef keeps the current image.
func (s *Service) Update(ctx context.Context, id uint, req *GameRequest, newImageRef string) (*Game, error) {
	price, err := req.Validate()
	if err != nil {
		return nil, err
	}

	game, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       strings.TrimSpace(req.Title),
		"genre":       strings.TrimSpace(req.Genre),
		"price":       price,
		"description": req.Description,
	}
	if newImageRef != "" {
		updates["image_path"] = newImageRef
	}

	if err := s.db.WithContext(ctx).Model(game).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes a game. Existing order items keep their snapshot rows.
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Game{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete game: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGameNotFound
	}
	return nil
}
