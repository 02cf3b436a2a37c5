// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/domain/cart"
	"gorm.io/gorm"
)

// EventPublisher announces placed orders to the outside world
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *Order) error
}

// NoopPublisher drops every event
type NoopPublisher struct{}

// PublishOrderPlaced does nothing
func (NoopPublisher) PublishOrderPlaced(context.Context, *Order) error { return nil }

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	engine *Engine
	carts  cart.Store
	events EventPublisher
	log    logrus.FieldLogger
}

// NewService creates a new order service
func NewService(db *gorm.DB, engine *Engine, carts cart.Store, events EventPublisher, log logrus.FieldLogger) *Service {
	if events == nil {
		events = NoopPublisher{}
	}
	return &Service{
		db:     db,
		engine: engine,
		carts:  carts,
		events: events,
		log:    log,
	}
}

// Checkout places an order from the session's cart. Concurrent checkouts
// of the same session are rejected with cart.ErrCheckoutInProgress.
func (s *Service) Checkout(ctx context.Context, sessionID string, userID *uint, address string) (*Order, error) {
	if userID == nil || *userID == 0 {
		return nil, ErrUnauthorized
	}

	unlock, err := s.carts.Lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	o, err := s.engine.PlaceOrder(ctx, userID, c, address)
	if err != nil {
		return nil, err
	}

	// Committed from here on. Failures below are logged, never returned.
	if err := s.carts.Save(ctx, sessionID, c); err != nil {
		s.log.WithError(err).WithField("order_id", o.ID).Warn("failed to clear cart after checkout")
	}

	if err := s.events.PublishOrderPlaced(ctx, o); err != nil {
		s.log.WithError(err).WithField("order_id", o.ID).Warn("failed to publish order placed event")
	}

	return o, nil
}

// ListForUser returns a user's orders with their items, newest first
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll returns every order with the buyer's username, newest first
func (s *Service) ListAll(ctx context.Context) ([]OrderSummary, error) {
	var rows []OrderSummary
	err := s.db.WithContext(ctx).
		Table("orders").
		Select("orders.id, users.username, orders.total_amount, orders.order_date").
		Joins("LEFT JOIN users ON users.id = orders.user_id").
		Order("orders.order_date DESC, orders.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return rows, nil
}

// Get retrieves an order with its items
func (s *Service) Get(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}
