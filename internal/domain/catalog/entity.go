// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Game represents a game listed in the store
type Game struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"not null;size:255" json:"title"`
	Genre       string          `gorm:"size:100;index" json:"genre"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	ImageRef    string          `gorm:"column:image_path;size:500" json:"image_path"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName overrides the table name
func (Game) TableName() string {
	return "games"
}

// LineTotal returns the price of quantity copies of the game
func (g *Game) LineTotal(quantity int) decimal.Decimal {
	return g.Price.Mul(decimal.NewFromInt(int64(quantity)))
}
