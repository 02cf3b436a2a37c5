// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/gamestore/internal/domain/catalog"
)

// ErrInvalidInput is returned for a bad game id or quantity
var ErrInvalidInput = errors.New("invalid input")

// MaxQuantity caps a single cart entry
const MaxQuantity = 99

// Cart is the session-owned mapping from game id to requested quantity.
// Quantities are always between 1 and MaxQuantity.
type Cart struct {
	Items     map[uint]int `json:"items"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// New returns an empty cart
func New() *Cart {
	return &Cart{Items: map[uint]int{}}
}

// Add adds quantity copies of a game, accumulating onto an existing entry
func (c *Cart) Add(gameID uint, quantity int) error {
	if gameID == 0 {
		return fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	c.ensure()
	if quantity > MaxQuantity-c.Items[gameID] {
		return fmt.Errorf("%w: at most %d copies of a game per order", ErrInvalidInput, MaxQuantity)
	}
	c.Items[gameID] += quantity
	c.touch()
	return nil
}

// SetQuantities applies a bulk update. Quantities are clamped into
// [1, MaxQuantity]. Ids not already in the cart are ignored and entries
// missing from the update keep their quantity.
func (c *Cart) SetQuantities(quantities map[uint]int) {
	c.ensure()
	changed := false
	for id, qty := range quantities {
		if _, ok := c.Items[id]; !ok {
			continue
		}
		switch {
		case qty < 1:
			qty = 1
		case qty > MaxQuantity:
			qty = MaxQuantity
		}
		c.Items[id] = qty
		changed = true
	}
	if changed {
		c.touch()
	}
}

// Remove drops a game from the cart. Removing an absent game is a no-op.
func (c *Cart) Remove(gameID uint) {
	if _, ok := c.Items[gameID]; !ok {
		return
	}
	delete(c.Items, gameID)
	c.touch()
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = map[uint]int{}
	c.touch()
}

// IsEmpty reports whether the cart has no entries
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Quantity returns the quantity for a game, 0 when absent
func (c *Cart) Quantity(gameID uint) int {
	if c == nil {
		return 0
	}
	return c.Items[gameID]
}

// GameIDs returns the ids in the cart in ascending order
func (c *Cart) GameIDs() []uint {
	if c == nil {
		return nil
	}
	ids := make([]uint, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns an independent copy
func (c *Cart) Clone() *Cart {
	out := New()
	if c == nil {
		return out
	}
	for id, qty := range c.Items {
		out.Items[id] = qty
	}
	out.UpdatedAt = c.UpdatedAt
	return out
}

func (c *Cart) ensure() {
	if c.Items == nil {
		c.Items = map[uint]int{}
	}
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now().UTC()
}

// Line is a cart entry joined with its catalog record
type Line struct {
	Game      *catalog.Game   `json:"game"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// View is what the cart page renders
type View struct {
	Lines      []Line          `json:"lines"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	ItemCount  int             `json:"item_count"`
}

// GrandTotal sums the line totals
func GrandTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal)
	}
	return total
}
