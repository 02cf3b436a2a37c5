// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/domain/catalog"
	"github.com/your-org/gamestore/internal/domain/order"
	"github.com/your-org/gamestore/internal/domain/user"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, log logrus.FieldLogger) *Migration {
	return &Migration{
		db:  db,
		log: log,
	}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&catalog.Game{},
		&order.Order{},
		&order.OrderItem{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("running database auto-migrations")

	for _, model := range Models() {
		m.log.Debugf("migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates the composite indexes the order and catalog
// listings use. Failures are logged and skipped.
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_orders_user_date ON orders(user_id, order_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_date ON orders(order_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order_game ON order_items(order_id, game_id)",
		"CREATE INDEX IF NOT EXISTS idx_games_title_lower ON games(LOWER(title))",
	}

	created, failed := 0, 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.log.WithError(err).Warn("failed to create index")
			failed++
			continue
		}
		created++
	}

	m.log.WithFields(logrus.Fields{"created": created, "failed": failed}).Info("database indexes ensured")
	return nil
}

// SeedGames inserts a starter catalog when the games table is empty
func (m *Migration) SeedGames() error {
	var count int64
	if err := m.db.Model(&catalog.Game{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count games: %w", err)
	}
	if count > 0 {
		m.log.WithField("games", count).Debug("catalog already seeded")
		return nil
	}

	games := []catalog.Game{
		{Title: "Starfall Tactics", Genre: "Strategy", Price: decimal.RequireFromString("29.99"), Description: "Turn-based fleet battles across a collapsing galaxy."},
		{Title: "Hollow Depths", Genre: "Adventure", Price: decimal.RequireFromString("19.99"), Description: "Explore a flooded city one dive at a time."},
		{Title: "Circuit Kings", Genre: "Racing", Price: decimal.RequireFromString("39.99"), Description: "Arcade racing on tracks you build yourself."},
		{Title: "Pixel Farm", Genre: "Simulation", Price: decimal.RequireFromString("9.99"), Description: "Grow crops, raise animals and trade at the market."},
	}
	if err := m.db.Create(&games).Error; err != nil {
		return fmt.Errorf("failed to seed games: %w", err)
	}

	m.log.WithField("games", len(games)).Info("seeded starter catalog")
	return nil
}
