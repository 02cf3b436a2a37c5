// internal/domain/order/repository.go
package order

import (
	"context"

	"gorm.io/gorm"
)

// OrderRepository writes order headers
type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
}

// ItemRepository writes order lines
type ItemRepository interface {
	CreateBulk(ctx context.Context, orderID uint, items []OrderItem) error
}

// Repos are the repositories bound to one transaction
type Repos interface {
	Orders() OrderRepository
	Items() ItemRepository
}

// TxManager runs fn inside a transaction. fn returning an error rolls back
// everything written through its Repos.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}

type gormOrderRepository struct{ db *gorm.DB }

func (r *gormOrderRepository) Create(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(o).Error
}

type gormItemRepository struct{ db *gorm.DB }

func (r *gormItemRepository) CreateBulk(ctx context.Context, orderID uint, items []OrderItem) error {
	for i := range items {
		items[i].OrderID = orderID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

type gormRepos struct {
	orders *gormOrderRepository
	items  *gormItemRepository
}

func (r *gormRepos) Orders() OrderRepository { return r.orders }
func (r *gormRepos) Items() ItemRepository   { return r.items }

// GormTxManager implements TxManager on a gorm transaction
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a transaction manager for db
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// WithinTx runs fn with repositories bound to a fresh transaction
func (m *GormTxManager) WithinTx(ctx context.Context, fn func(r Repos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepos{
			orders: &gormOrderRepository{db: tx},
			items:  &gormItemRepository{db: tx},
		})
	})
}
