// internal/domain/order/engine.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/domain/cart"
	"github.com/your-org/gamestore/internal/domain/catalog"
)

// Engine turns a cart into a persisted order
type Engine struct {
	catalog catalog.Reader
	tx      TxManager
	log     logrus.FieldLogger
	now     func() time.Time
}

// NewEngine creates an order placement engine
func NewEngine(games catalog.Reader, tx TxManager, log logrus.FieldLogger) *Engine {
	return &Engine{
		catalog: games,
		tx:      tx,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder prices the cart against the current catalog and writes the
// order header and its items in one transaction. The cart is cleared only
// after the transaction commits; on any error it is left untouched.
func (e *Engine) PlaceOrder(ctx context.Context, userID *uint, c *cart.Cart, address string) (*Order, error) {
	if userID == nil || *userID == 0 {
		return nil, ErrUnauthorized
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrInvalidAddress
	}

	// Read every price before writing anything
	items, total, stale, err := e.price(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(stale) > 0 {
		e.log.WithFields(logrus.Fields{
			"user_id":  *userID,
			"game_ids": stale,
		}).Warn("checkout skipped cart entries for deleted games")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: none of the games in the cart are still available", ErrEmptyCart)
	}

	o := &Order{
		UserID:      *userID,
		TotalAmount: total,
		Address:     address,
		CreatedAt:   e.now(),
	}

	err = e.tx.WithinTx(ctx, func(r Repos) error {
		if err := r.Orders().Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := r.Items().CreateBulk(ctx, o.ID, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	o.Items = items
	o.StaleGameIDs = stale
	c.Clear()

	e.log.WithFields(logrus.Fields{
		"order_id": o.ID,
		"user_id":  o.UserID,
		"total":    o.TotalAmount.StringFixed(2),
		"items":    len(items),
	}).Info("order placed")

	return o, nil
}

// price resolves the current price of every cart entry. Entries whose game
// is gone are returned in stale and excluded from items and total.
func (e *Engine) price(ctx context.Context, c *cart.Cart) ([]OrderItem, decimal.Decimal, []uint, error) {
	items := make([]OrderItem, 0, len(c.Items))
	total := decimal.Zero
	var stale []uint

	for _, id := range c.GameIDs() {
		game, err := e.catalog.GetByID(ctx, id)
		if errors.Is(err, catalog.ErrGameNotFound) {
			stale = append(stale, id)
			continue
		}
		if err != nil {
			return nil, decimal.Zero, nil, fmt.Errorf("%w: price lookup for game %d: %v", ErrPersistence, id, err)
		}

		qty := c.Items[id]
		item := OrderItem{
			GameID:    game.ID,
			Title:     game.Title,
			Quantity:  qty,
			UnitPrice: game.Price,
		}
		items = append(items, item)
		total = total.Add(item.LineTotal())
	}

	return items, total, stale, nil
}
