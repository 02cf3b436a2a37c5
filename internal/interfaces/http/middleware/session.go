// internal/interfaces/http/middleware/session.go
package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/config"
	"github.com/your-org/gamestore/internal/pkg/auth"
)

const sessionKey = "session_claims"

// Sessions resolves the session cookie on every request. Logged in
// sessions are also backed by a server-side record.
type Sessions struct {
	manager *auth.SessionManager
	store   *auth.SessionStore
	cookie  string
	secure  bool
	log     logrus.FieldLogger
}

// NewSessions creates the session middleware set
func NewSessions(manager *auth.SessionManager, store *auth.SessionStore, cfg config.SessionConfig, log logrus.FieldLogger) *Sessions {
	return &Sessions{
		manager: manager,
		store:   store,
		cookie:  cfg.CookieName,
		secure:  cfg.Secure,
		log:     log,
	}
}

// Middleware loads the session from its cookie, starting a guest session
// when the cookie is missing, invalid, or names a logged in session that
// has ended. Tokens past half their lifetime are reissued so active
// sessions do not expire.
func (s *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims *auth.Claims
		if token, err := c.Cookie(s.cookie); err == nil && token != "" {
			parsed, err := s.manager.Parse(token)
			if err != nil {
				s.log.WithError(err).Debug("discarding invalid session cookie")
			} else {
				claims = parsed
			}
		}

		if claims != nil && claims.UserID != nil {
			current, err := s.resolve(c, claims)
			if err != nil {
				s.log.WithError(err).Error("failed to load session")
				c.AbortWithStatus(http.StatusServiceUnavailable)
				return
			}
			claims = current
		}

		if claims == nil {
			if err := s.Save(c, s.manager.NewAnonymous()); err != nil {
				s.log.WithError(err).Error("failed to start session")
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Next()
			return
		}

		if claims.IssuedAt != nil && time.Since(claims.IssuedAt.Time) > s.manager.TTL()/2 {
			if err := s.Save(c, claims); err != nil {
				s.log.WithError(err).Warn("failed to refresh session")
			}
		}
		c.Set(sessionKey, claims)
		c.Next()
	}
}

// resolve checks a logged in token against its server-side record. It
// returns nil claims when the session has ended.
func (s *Sessions) resolve(c *gin.Context, claims *auth.Claims) (*auth.Claims, error) {
	rec, err := s.store.Get(c.Request.Context(), claims.SessionID)
	if errors.Is(err, auth.ErrSessionNotFound) {
		s.log.WithField("session_id", claims.SessionID).Debug("session has ended")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if rec.UserID != *claims.UserID {
		return nil, nil
	}

	claims.Username = rec.Username
	claims.IsAdmin = rec.IsAdmin
	return claims, nil
}

// Save signs claims into the session cookie and makes them current for
// the rest of the request. Logged in claims also get a server-side record.
func (s *Sessions) Save(c *gin.Context, claims *auth.Claims) error {
	if claims.Authenticated() {
		rec := &auth.SessionRecord{UserID: *claims.UserID, Username: claims.Username, IsAdmin: claims.IsAdmin}
		if err := s.store.Put(c.Request.Context(), claims.SessionID, rec); err != nil {
			return err
		}
	}

	token, err := s.manager.Issue(claims)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookie, token, int(s.manager.TTL().Seconds()), "/", "", s.secure, true)
	c.Set(sessionKey, claims)
	return nil
}

// Renew ends the current session and replaces it with a fresh guest
// session. The old cookie is no longer accepted as logged in.
func (s *Sessions) Renew(c *gin.Context) error {
	if sid := SessionID(c); sid != "" {
		if err := s.store.Delete(c.Request.Context(), sid); err != nil {
			return err
		}
	}
	return s.Save(c, s.manager.NewAnonymous())
}

// SessionFromContext returns the current session claims
func SessionFromContext(c *gin.Context) *auth.Claims {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// SessionID returns the current session id
func SessionID(c *gin.Context) string {
	if claims := SessionFromContext(c); claims != nil {
		return claims.SessionID
	}
	return ""
}

// CurrentUserID returns the logged in user's id, or nil for guests
func CurrentUserID(c *gin.Context) *uint {
	claims := SessionFromContext(c)
	if !claims.Authenticated() {
		return nil
	}
	id := *claims.UserID
	return &id
}

// IsAdmin reports whether the logged in user is an administrator
func IsAdmin(c *gin.Context) bool {
	claims := SessionFromContext(c)
	return claims.Authenticated() && claims.IsAdmin
}
