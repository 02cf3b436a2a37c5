// Creates an admin account, or promotes an existing user, against the
// configured database.
//
//	go run scripts/create_admin.go -username root -email root@example.com -password ...
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/your-org/gamestore/internal/config"
	"github.com/your-org/gamestore/internal/domain/user"
	"github.com/your-org/gamestore/internal/infrastructure/database/postgres"
	"github.com/your-org/gamestore/internal/pkg/auth"
	"github.com/your-org/gamestore/internal/pkg/logger"
)

func main() {
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		log.Fatal("Usage: go run scripts/create_admin.go -username <name> -email <email> -password <password>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logg := logger.New(cfg)

	db, err := postgres.NewConnection(cfg, logg)
	if err != nil {
		logg.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.NewMigration(db.GetDB(), logg).RunAutoMigrations(); err != nil {
		logg.WithError(err).Fatal("database migration failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := user.NewService(db.GetDB(), auth.NewPasswordManager(cfg.Security.BcryptCost), logg)
	u, err := users.EnsureAdmin(ctx, *username, *email, *password)
	if err != nil {
		logg.WithError(err).Fatal("failed to create admin")
	}

	logg.WithField("user_id", u.ID).WithField("username", u.Username).Info("admin account ready")
}
