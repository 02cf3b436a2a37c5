package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/gamestore/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	return NewService(testutil.NewDB(t, &Game{}))
}

func TestCreateAndGet(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, &GameRequest{Title: " Hades ", Genre: "Roguelike", Price: "24.99", Description: "Escape."}, "/images/hades.png")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Hades", created.Title)

	got, err := s.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("24.99")), "price %s", got.Price)
	assert.Equal(t, "/images/hades.png", got.ImageRef)
}

func TestGetByID_NotFound(t *testing.T) {
	s := newTestService(t)
	_, err := s.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestCreate_Validation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  GameRequest
	}{
		{"bad price", GameRequest{Title: "Celeste", Price: "ten"}},
		{"negative price", GameRequest{Title: "Celeste", Price: "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, &tt.req, "")
			assert.ErrorIs(t, err, ErrInvalidGame)
		})
	}
}

func TestGameRequest_Binding(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantErr bool
	}{
		{"valid", url.Values{"title": {"Celeste"}, "genre": {"Platformer"}, "price": {"19.99"}}, false},
		{"missing title", url.Values{"price": {"10"}}, true},
		{"missing price", url.Values{"title": {"Celeste"}}, true},
		{"price not a number", url.Values{"title": {"Celeste"}, "price": {"free"}}, true},
		{"title too long", url.Values{"title": {strings.Repeat("x", 256)}, "price": {"1"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			var gr GameRequest
			err := binding.Form.Bind(req, &gr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "19.99", gr.Price)
		})
	}
}

func TestUpdate_KeepsImageWhenNoneUploaded(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	g, err := s.Create(ctx, &GameRequest{Title: "Celeste", Genre: "Platformer", Price: "19.99"}, "/images/celeste.png")
	require.NoError(t, err)

	updated, err := s.Update(ctx, g.ID, &GameRequest{Title: "Celeste", Genre: "Platformer", Price: "9.99"}, "")
	require.NoError(t, err)
	assert.Equal(t, "/images/celeste.png", updated.ImageRef)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("9.99")))

	updated, err = s.Update(ctx, g.ID, &GameRequest{Title: "Celeste", Genre: "Platformer", Price: "9.99"}, "/images/new.png")
	require.NoError(t, err)
	assert.Equal(t, "/images/new.png", updated.ImageRef)
}

func TestUpdate_UnknownGame(t *testing.T) {
	s := newTestService(t)
	_, err := s.Update(context.Background(), 9, &GameRequest{Title: "X", Price: "1"}, "")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestDelete(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	g, err := s.Create(ctx, &GameRequest{Title: "Tetris", Price: "4.99"}, "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, g.ID))
	_, err = s.GetByID(ctx, g.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)

	assert.ErrorIs(t, s.Delete(ctx, g.ID), ErrGameNotFound)
}

func TestSearch(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for _, title := range []string{"Dark Souls", "Stardew Valley", "Dark Forces"} {
		_, err := s.Create(ctx, &GameRequest{Title: title, Price: "10"}, "")
		require.NoError(t, err)
	}

	games, err := s.Search(ctx, "dark")
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Dark Souls", games[0].Title)
	assert.Equal(t, "Dark Forces", games[1].Title)

	all, err := s.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLineTotal(t *testing.T) {
	g := Game{Price: decimal.RequireFromString("19.99")}
	assert.Equal(t, "59.97", g.LineTotal(3).StringFixed(2))
}
