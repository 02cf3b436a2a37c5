// internal/interfaces/http/server.go
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/gamestore/internal/config"
	"github.com/your-org/gamestore/internal/domain/cart"
	"github.com/your-org/gamestore/internal/domain/catalog"
	"github.com/your-org/gamestore/internal/domain/order"
	"github.com/your-org/gamestore/internal/domain/upload"
	"github.com/your-org/gamestore/internal/domain/user"
	"github.com/your-org/gamestore/internal/interfaces/http/handlers"
	"github.com/your-org/gamestore/internal/interfaces/http/middleware"
	"github.com/your-org/gamestore/internal/interfaces/http/routes"
	"github.com/your-org/gamestore/internal/interfaces/http/templates"
	"github.com/your-org/gamestore/internal/pkg/auth"
	"gorm.io/gorm"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	gin         *gin.Engine
	httpServer  *http.Server
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	started     time.Time
}

// NewServer wires the services and builds the router
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, events order.EventPublisher, log *logrus.Logger) (*Server, error) {
	s := &Server{
		config:      cfg,
		db:          db,
		redisClient: redisClient,
		log:         log,
		started:     time.Now(),
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.gin = gin.New()

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	s.gin.SetHTMLTemplate(tmpl)

	sessions := middleware.NewSessions(
		auth.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL, cfg.App.Name),
		auth.NewSessionStore(redisClient, cfg.Session.TTL),
		cfg.Session,
		log,
	)
	s.setupMiddleware()

	if err := s.setupRoutes(sessions, events); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.log.WithField("port", s.config.Server.Port).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.log.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.log))
	s.gin.Use(middleware.SecurityHeaders())
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.redisClient, s.log))

	// Room for a cover image plus form fields
	s.gin.Use(middleware.RequestSizeLimit(s.config.Upload.MaxSize + 1<<20))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

func (s *Server) setupRoutes(sessions *middleware.Sessions, events order.EventPublisher) error {
	// Health check endpoint (no session)
	s.gin.GET("/health", s.healthCheck)

	storage, err := upload.NewStorage(s.config.Storage)
	if err != nil {
		return err
	}
	s.gin.StaticFS("/static", templates.Assets())
	if local, ok := storage.(*upload.LocalStorage); ok {
		s.gin.Static(s.config.Storage.PublicPrefix, local.Dir())
	}

	games := catalog.NewService(s.db)
	cartStore := cart.NewRedisStore(s.redisClient, s.config.Session.TTL, 2*s.config.Server.RequestTimeout)
	carts := cart.NewService(cartStore, games, s.log)
	engine := order.NewEngine(games, order.NewGormTxManager(s.db), s.log)
	orders := order.NewService(s.db, engine, cartStore, events, s.log)
	users := user.NewService(s.db, auth.NewPasswordManager(s.config.Security.BcryptCost), s.log)
	uploads := upload.NewService(storage, s.config.Upload, s.log)

	pages := s.gin.Group("")
	pages.Use(sessions.Middleware())
	routes.SetupRoutes(pages, &routes.Handlers{
		Catalog:  handlers.NewCatalogHandler(games, s.log),
		Cart:     handlers.NewCartHandler(carts, s.log),
		Checkout: handlers.NewCheckoutHandler(carts, orders, s.log),
		Auth:     handlers.NewAuthHandler(users, carts, sessions, s.log),
		Orders:   handlers.NewOrderHandler(orders, s.log),
		Admin:    handlers.NewAdminHandler(games, orders, uploads, s.log),
	})

	return nil
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	// Check database health
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database ping failed",
		})
		return
	}

	// Check Redis health
	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "redis ping failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"uptime":      time.Since(s.started).Round(time.Second).String(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}
