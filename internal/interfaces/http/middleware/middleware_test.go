package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/gamestore/internal/config"
	"github.com/your-org/gamestore/internal/pkg/auth"
	"github.com/your-org/gamestore/internal/pkg/logger"
	"github.com/your-org/gamestore/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessions(t *testing.T) (*Sessions, *auth.SessionStore) {
	client, _ := testutil.NewRedis(t)
	m := auth.NewSessionManager("0123456789abcdef0123456789abcdef", time.Hour, "GameStore")
	store := auth.NewSessionStore(client, time.Hour)
	return NewSessions(m, store, config.SessionConfig{CookieName: "sid"}, logger.Discard()), store
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var last *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "sid" {
			last = ck
		}
	}
	require.NotNil(t, last, "session cookie not set")
	return last
}

func TestSessions_GuestSessionPersists(t *testing.T) {
	s, _ := newSessions(t)
	r := gin.New()
	r.Use(s.Middleware())
	r.GET("/", func(c *gin.Context) {
		assert.Nil(t, CurrentUserID(c))
		assert.False(t, IsAdmin(c))
		c.String(http.StatusOK, SessionID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()
	require.NotEmpty(t, first)
	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String())
}

func TestSessions_InvalidCookieStartsNewSession(t *testing.T) {
	s, _ := newSessions(t)
	r := gin.New()
	r.Use(s.Middleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, SessionID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "forged"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Body.String())
	assert.NotEqual(t, "forged", sessionCookie(t, w).Value)
}

func TestRequireAuthAndAdmin(t *testing.T) {
	s, _ := newSessions(t)
	r := gin.New()
	r.Use(s.Middleware())
	r.GET("/login-as/:role", func(c *gin.Context) {
		uid := uint(5)
		claims := &auth.Claims{SessionID: SessionID(c), UserID: &uid, Username: "u", IsAdmin: c.Param("role") == "admin"}
		require.NoError(t, s.Save(c, claims))
		c.Status(http.StatusNoContent)
	})
	r.GET("/orders", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(path string, ck *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if ck != nil {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do("/orders", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, http.StatusFound, do("/admin", nil).Code)

	customer := sessionCookie(t, do("/login-as/customer", nil))
	assert.Equal(t, http.StatusOK, do("/orders", customer).Code)
	assert.Equal(t, http.StatusForbidden, do("/admin", customer).Code)

	admin := sessionCookie(t, do("/login-as/admin", nil))
	assert.Equal(t, http.StatusOK, do("/admin", admin).Code)
}

func TestSessions_EndedSessionIsNotHonoured(t *testing.T) {
	s, store := newSessions(t)
	r := gin.New()
	r.Use(s.Middleware())
	r.GET("/login-as/:role", func(c *gin.Context) {
		uid := uint(5)
		claims := &auth.Claims{SessionID: SessionID(c), UserID: &uid, Username: "u", IsAdmin: c.Param("role") == "admin"}
		require.NoError(t, s.Save(c, claims))
		c.String(http.StatusOK, claims.SessionID)
	})
	r.GET("/logout", func(c *gin.Context) {
		require.NoError(t, s.Renew(c))
		c.Status(http.StatusNoContent)
	})
	r.GET("/orders", RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(path string, ck *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if ck != nil {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do("/login-as/customer", nil)
	customer := sessionCookie(t, w)
	require.Equal(t, http.StatusOK, do("/orders", customer).Code)

	fresh := sessionCookie(t, do("/logout", customer))
	assert.NotEqual(t, customer.Value, fresh.Value)
	assert.Equal(t, http.StatusFound, do("/orders", customer).Code, "old cookie after logout")
	assert.Equal(t, http.StatusFound, do("/orders", fresh).Code)

	// Demotion takes effect on the next request
	w = do("/login-as/admin", nil)
	admin := sessionCookie(t, w)
	require.Equal(t, http.StatusOK, do("/admin", admin).Code)
	require.NoError(t, store.Put(context.Background(), w.Body.String(), &auth.SessionRecord{UserID: 5, Username: "u"}))
	assert.Equal(t, http.StatusForbidden, do("/admin", admin).Code)
	assert.Equal(t, http.StatusOK, do("/orders", admin).Code)
}

func TestRateLimit(t *testing.T) {
	client, _ := testutil.NewRedis(t)
	r := gin.New()
	r.Use(RateLimit(2, client, logger.Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestIDAndHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders(), Logger(logger.Discard()))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
}
