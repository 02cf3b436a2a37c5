// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/domain/cart"
	"github.com/your-org/gamestore/internal/domain/user"
	"github.com/your-org/gamestore/internal/interfaces/http/middleware"
	"github.com/your-org/gamestore/internal/pkg/auth"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	users    *user.Service
	carts    *cart.Service
	sessions *middleware.Sessions
	log      logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *user.Service, carts *cart.Service, sessions *middleware.Sessions, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		carts:    carts,
		sessions: sessions,
		log:      log,
	}
}

// ShowRegister handles GET /register
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "Form": user.RegisterRequest{}})
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		message := bindingMessage(err)
		if fieldFailed(err, "ConfirmPassword", "eqfield") {
			message = "Passwords do not match!"
		}
		h.registerError(c, http.StatusBadRequest, req, message)
		return
	}

	_, err := h.users.Register(c.Request.Context(), &req)
	switch {
	case err == nil:
	case errors.Is(err, user.ErrUserExists):
		h.registerError(c, http.StatusConflict, req, "Username or Email already exists! Please try another.")
		return
	case errors.Is(err, user.ErrPasswordMismatch):
		h.registerError(c, http.StatusBadRequest, req, "Passwords do not match!")
		return
	case errors.Is(err, user.ErrInvalidInput):
		h.registerError(c, http.StatusBadRequest, req, err.Error())
		return
	default:
		h.log.WithError(err).Error("registration failed")
		h.registerError(c, http.StatusInternalServerError, req, "Registration failed, please try again.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/login?registered=1")
}

func (h *AuthHandler) registerError(c *gin.Context, status int, req user.RegisterRequest, message string) {
	req.Password, req.ConfirmPassword = "", ""
	render(c, status, "register.html", gin.H{"Title": "Register", "Form": req, "Error": message})
}

// ShowLogin handles GET /login
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	data := gin.H{"Title": "Login", "Username": ""}
	if c.Query("registered") != "" {
		data["Success"] = "Registration successful! Please log in."
	}
	render(c, http.StatusOK, "login.html", data)
}

// Login handles POST /login. The session id is kept so the guest cart
// carries over to the logged in user.
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginError(c, http.StatusBadRequest, req.Username, bindingMessage(err))
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), &req)
	switch {
	case err == nil:
	case errors.Is(err, user.ErrUserNotFound):
		h.loginError(c, http.StatusUnauthorized, req.Username, "User not found!")
		return
	case errors.Is(err, user.ErrInvalidPassword):
		h.loginError(c, http.StatusUnauthorized, req.Username, "Invalid password!")
		return
	default:
		h.log.WithError(err).Error("login failed")
		h.loginError(c, http.StatusInternalServerError, req.Username, "Login failed, please try again.")
		return
	}

	claims := &auth.Claims{
		SessionID: middleware.SessionID(c),
		UserID:    &u.ID,
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
	}
	if err := h.sessions.Save(c, claims); err != nil {
		h.log.WithError(err).Error("failed to save session")
		h.loginError(c, http.StatusInternalServerError, req.Username, "Login failed, please try again.")
		return
	}

	h.log.WithFields(logrus.Fields{"user_id": u.ID, "admin": u.IsAdmin}).Info("user logged in")
	if u.IsAdmin {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) loginError(c *gin.Context, status int, username, message string) {
	render(c, status, "login.html", gin.H{"Title": "Login", "Username": username, "Error": message})
}

// Logout handles GET /logout. The session and its cart are discarded.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.log.WithError(err).Warn("failed to clear cart on logout")
	}
	if err := h.sessions.Renew(c); err != nil {
		h.log.WithError(err).Error("failed to end session")
		renderError(c, http.StatusInternalServerError, "Could not log you out, please try again.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
