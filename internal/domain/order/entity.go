// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the persisted record of one successful checkout. Orders are
// never updated after creation.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Address     string          `gorm:"type:text;not null" json:"address"`
	CreatedAt   time.Time       `gorm:"column:order_date;index" json:"order_date"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`

	// StaleGameIDs lists cart entries left out because their game was
	// deleted before checkout. Not persisted.
	StaleGameIDs []uint `gorm:"-" json:"stale_game_ids,omitempty"`
}

// OrderItem is one line of an order with the unit price captured at purchase
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	GameID    uint            `gorm:"not null;index" json:"game_id"`
	Title     string          `gorm:"size:255" json:"title"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
}

// OrderSummary is a row of the admin order list
type OrderSummary struct {
	ID          uint            `json:"id"`
	Username    string          `json:"username"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `gorm:"column:order_date" json:"order_date"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// LineTotal returns quantity × unit price
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsTotal sums the order's line totals
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].LineTotal())
	}
	return total
}
