// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/gamestore/internal/config"
	"github.com/your-org/gamestore/internal/domain/user"
	"github.com/your-org/gamestore/internal/infrastructure/database/postgres"
	"github.com/your-org/gamestore/internal/infrastructure/database/redis"
	"github.com/your-org/gamestore/internal/infrastructure/messaging/kafka"
	"github.com/your-org/gamestore/internal/interfaces/http"
	"github.com/your-org/gamestore/internal/pkg/auth"
	"github.com/your-org/gamestore/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg := logger.New(cfg)
	logg.WithField("version", cfg.App.Version).
		WithField("env", cfg.App.Environment).
		Infof("starting %s", cfg.App.Name)

	db, err := postgres.NewConnection(cfg, logg)
	if err != nil {
		logg.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	redisClient, err := redis.NewConnection(cfg, logg)
	if err != nil {
		logg.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()

	migration := postgres.NewMigration(db.GetDB(), logg)
	if err := migration.RunAutoMigrations(); err != nil {
		logg.WithError(err).Fatal("database migration failed")
	}
	if err := migration.CreateIndexes(); err != nil {
		logg.WithError(err).Warn("index creation failed")
	}

	if cfg.IsDevelopment() {
		if err := migration.SeedGames(); err != nil {
			logg.WithError(err).Warn("seeding games failed")
		}
	}

	users := user.NewService(db.GetDB(), auth.NewPasswordManager(cfg.Security.BcryptCost), logg)
	if cfg.Admin.Password != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err := users.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
		cancel()
		if err != nil {
			logg.WithError(err).Fatal("failed to ensure admin account")
		}
	}

	events, closeEvents := kafka.NewPublisher(cfg.Kafka, logg)
	defer func() {
		if err := closeEvents(); err != nil {
			logg.WithError(err).Warn("failed to close event publisher")
		}
	}()

	server, err := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), events, logg)
	if err != nil {
		logg.WithError(err).Fatal("failed to build HTTP server")
	}

	go func() {
		if err := server.Start(); err != nil {
			logg.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logg.WithError(err).Error("graceful shutdown failed")
	}
	logg.Info("server shutdown completed")
}
