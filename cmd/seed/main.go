package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/nekogravitycat/vehicle-service-backend/internal/app"
	"github.com/nekogravitycat/vehicle-service-backend/internal/auth"
	"github.com/nekogravitycat/vehicle-service-backend/internal/catalog"
	"github.com/nekogravitycat/vehicle-service-backend/internal/config"
	"github.com/nekogravitycat/vehicle-service-backend/internal/pkg/logger"
	"github.com/nekogravitycat/vehicle-service-backend/internal/seed"
	"github.com/nekogravitycat/vehicle-service-backend/internal/user"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	l := logger.New(cfg.LogLevel, cfg.IsProduction)

	repos, _, closeStore, err := app.OpenRepositories(ctx, cfg, l)
	if err != nil {
		l.WithError(err).Fatal("failed to open store")
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			l.WithError(err).Warn("failed to close store")
		}
	}()

	seeder := seed.New(
		catalog.NewService(repos.Catalog, l),
		user.NewService(repos.Users, auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost), l),
		l,
	)

	if _, _, err := seeder.Catalog(ctx, seed.Services); err != nil {
		l.WithError(err).Fatal("failed to seed catalog")
	}

	if cfg.SeedAdminPassword == "" {
		l.Warn("SEED_ADMIN_PASSWORD not set, skipping admin account")
		return
	}
	if _, err := seeder.Admin(ctx, seed.Admin{
		Name:     "Admin User",
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		Phone:    "9876543210",
	}); err != nil {
		l.WithError(err).Fatal("failed to seed admin")
	}
}
