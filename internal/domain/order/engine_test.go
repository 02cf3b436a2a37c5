package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/gamestore/internal/domain/cart"
	"github.com/your-org/gamestore/internal/domain/catalog"
	"github.com/your-org/gamestore/internal/pkg/logger"
	"github.com/your-org/gamestore/internal/testutil"
	"gorm.io/gorm"
)

type testUser struct {
	ID       uint `gorm:"primaryKey"`
	Username string
}

func (testUser) TableName() string { return "users" }

type fixture struct {
	db      *gorm.DB
	games   *catalog.Service
	engine  *Engine
	userID  uint
	gameIDs map[string]uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &catalog.Game{}, &testUser{}, &Order{}, &OrderItem{})
	games := catalog.NewService(db)

	u := testUser{Username: "alice"}
	require.NoError(t, db.Create(&u).Error)

	f := &fixture{
		db:      db,
		games:   games,
		engine:  NewEngine(games, NewGormTxManager(db), logger.Discard()),
		userID:  u.ID,
		gameIDs: map[string]uint{},
	}
	for title, price := range map[string]string{"G1": "10.00", "G2": "25.00", "G3": "19.99"} {
		g, err := games.Create(context.Background(), &catalog.GameRequest{Title: title, Price: price}, "")
		require.NoError(t, err)
		f.gameIDs[title] = g.ID
	}
	return f
}

func (f *fixture) cart(t *testing.T, qty map[string]int) *cart.Cart {
	t.Helper()
	c := cart.New()
	for title, n := range qty {
		require.NoError(t, c.Add(f.gameIDs[title], n))
	}
	return c
}

func (f *fixture) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func TestPlaceOrder_SnapshotsPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.cart(t, map[string]int{"G1": 2, "G2": 1})

	o, err := f.engine.PlaceOrder(ctx, &f.userID, c, "1 Main St")
	require.NoError(t, err)

	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("45.00")), "total %s", o.TotalAmount)
	assert.True(t, c.IsEmpty())
	assert.Len(t, o.Items, 2)
	assert.Empty(t, o.StaleGameIDs)

	// Later price changes must not touch the stored order
	_, err = f.games.Update(ctx, f.gameIDs["G1"], &catalog.GameRequest{Title: "G1", Price: "12.00"}, "")
	require.NoError(t, err)

	var items []OrderItem
	require.NoError(t, f.db.Where("order_id = ?", o.ID).Order("game_id").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, f.gameIDs["G1"], items[0].GameID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")), "price %s", items[0].UnitPrice)
	assert.True(t, items[1].UnitPrice.Equal(decimal.RequireFromString("25.00")))

	var stored Order
	require.NoError(t, f.db.Preload("Items").First(&stored, o.ID).Error)
	assert.True(t, stored.TotalAmount.Equal(stored.ItemsTotal()))
	assert.Equal(t, "1 Main St", stored.Address)
	assert.Equal(t, f.userID, stored.UserID)
}

func TestPlaceOrder_DecimalTotal(t *testing.T) {
	f := newFixture(t)
	c := f.cart(t, map[string]int{"G3": 3})

	o, err := f.engine.PlaceOrder(context.Background(), &f.userID, c, "221B Baker St")
	require.NoError(t, err)
	assert.Equal(t, "59.97", o.TotalAmount.StringFixed(2))
}

func TestPlaceOrder_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	zero := uint(0)

	tests := []struct {
		name    string
		userID  *uint
		cart    *cart.Cart
		address string
		want    error
	}{
		{"anonymous", nil, f.cart(t, map[string]int{"G1": 1}), "addr", ErrUnauthorized},
		{"zero user", &zero, f.cart(t, map[string]int{"G1": 1}), "addr", ErrUnauthorized},
		{"empty cart", &f.userID, cart.New(), "addr", ErrEmptyCart},
		{"nil cart", &f.userID, nil, "addr", ErrEmptyCart},
		{"blank address", &f.userID, f.cart(t, map[string]int{"G1": 1}), "   ", ErrInvalidAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before map[uint]int
			if tt.cart != nil {
				before = tt.cart.Clone().Items
			}

			o, err := f.engine.PlaceOrder(ctx, tt.userID, tt.cart, tt.address)
			assert.Nil(t, o)
			assert.ErrorIs(t, err, tt.want)
			if tt.cart != nil {
				assert.Equal(t, before, tt.cart.Items)
			}
		})
	}

	assert.Zero(t, f.countRows(t, &Order{}))
	assert.Zero(t, f.countRows(t, &OrderItem{}))
}

func TestPlaceOrder_ItemWriteFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_order_items", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "order_items" {
			tx.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	c := f.cart(t, map[string]int{"G1": 2, "G2": 1})
	before := c.Clone().Items

	o, err := f.engine.PlaceOrder(context.Background(), &f.userID, c, "1 Main St")
	assert.Nil(t, o)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")

	assert.Equal(t, before, c.Items)
	assert.Zero(t, f.countRows(t, &Order{}))
	assert.Zero(t, f.countRows(t, &OrderItem{}))
}

func TestPlaceOrder_SkipsDeletedGames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.cart(t, map[string]int{"G1": 1, "G2": 4})
	require.NoError(t, f.games.Delete(ctx, f.gameIDs["G2"]))

	o, err := f.engine.PlaceOrder(ctx, &f.userID, c, "1 Main St")
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, f.gameIDs["G1"], o.Items[0].GameID)
	assert.Equal(t, []uint{f.gameIDs["G2"]}, o.StaleGameIDs)
	assert.Equal(t, "10.00", o.TotalAmount.StringFixed(2))
}

func TestPlaceOrder_AllGamesDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.cart(t, map[string]int{"G1": 1})
	require.NoError(t, f.games.Delete(ctx, f.gameIDs["G1"]))

	_, err := f.engine.PlaceOrder(ctx, &f.userID, c, "1 Main St")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.False(t, c.IsEmpty())
	assert.Zero(t, f.countRows(t, &Order{}))
}

type brokenCatalog struct{}

func (brokenCatalog) GetByID(context.Context, uint) (*catalog.Game, error) {
	return nil, errors.New("connection reset")
}

type recordingTx struct{ called bool }

func (r *recordingTx) WithinTx(context.Context, func(Repos) error) error {
	r.called = true
	return nil
}

func TestPlaceOrder_CatalogFailure(t *testing.T) {
	tx := &recordingTx{}
	e := NewEngine(brokenCatalog{}, tx, logger.Discard())
	c := cart.New()
	require.NoError(t, c.Add(1, 1))
	uid := uint(7)

	_, err := e.PlaceOrder(context.Background(), &uid, c, "addr")
	assert.ErrorIs(t, err, ErrPersistence)
	assert.False(t, tx.called)
	assert.False(t, c.IsEmpty())
}

type fakeRepos struct {
	orderErr error
	itemErr  error
	orders   []*Order
	items    []OrderItem
}

func (r *fakeRepos) Orders() OrderRepository { return r }
func (r *fakeRepos) Items() ItemRepository   { return fakeItems{r} }

func (r *fakeRepos) Create(_ context.Context, o *Order) error {
	if r.orderErr != nil {
		return r.orderErr
	}
	o.ID = uint(len(r.orders) + 1)
	r.orders = append(r.orders, o)
	return nil
}

type fakeItems struct{ r *fakeRepos }

func (f fakeItems) CreateBulk(_ context.Context, orderID uint, items []OrderItem) error {
	if f.r.itemErr != nil {
		return f.r.itemErr
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	f.r.items = append(f.r.items, items...)
	return nil
}

type fakeTx struct{ repos *fakeRepos }

func (f fakeTx) WithinTx(_ context.Context, fn func(Repos) error) error {
	return fn(f.repos)
}

func TestPlaceOrder_RepositoryErrors(t *testing.T) {
	games := &staticCatalog{price: decimal.RequireFromString("5.50")}
	uid := uint(3)

	for name, repos := range map[string]*fakeRepos{
		"order header": {orderErr: errors.New("unique violation")},
		"order items":  {itemErr: errors.New("timeout")},
	} {
		t.Run(name, func(t *testing.T) {
			e := NewEngine(games, fakeTx{repos}, logger.Discard())
			c := cart.New()
			require.NoError(t, c.Add(1, 2))

			_, err := e.PlaceOrder(context.Background(), &uid, c, "addr")
			assert.ErrorIs(t, err, ErrPersistence)
			assert.Equal(t, 2, c.Quantity(1))
		})
	}

	t.Run("success", func(t *testing.T) {
		repos := &fakeRepos{}
		e := NewEngine(games, fakeTx{repos}, logger.Discard())
		c := cart.New()
		require.NoError(t, c.Add(1, 2))

		o, err := e.PlaceOrder(context.Background(), &uid, c, "addr")
		require.NoError(t, err)
		assert.Equal(t, "11.00", o.TotalAmount.StringFixed(2))
		require.Len(t, repos.items, 1)
		assert.Equal(t, o.ID, repos.items[0].OrderID)
	})
}

type staticCatalog struct{ price decimal.Decimal }

func (s *staticCatalog) GetByID(_ context.Context, id uint) (*catalog.Game, error) {
	return &catalog.Game{ID: id, Title: "Static", Price: s.price}, nil
}
