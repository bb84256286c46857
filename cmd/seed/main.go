package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pos-backoffice/config"
	pginfra "github.com/oksasatya/go-pos-backoffice/internal/infrastructure/postgres"
	"github.com/oksasatya/go-pos-backoffice/internal/infrastructure/seed"
	"github.com/oksasatya/go-pos-backoffice/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash := func(p string) (string, error) { return helpers.HashPassword(p, cfg.BcryptCost) }
	res, err := seed.New(db, hash, logger, cfg.SeedDemoData).Run(context.Background())
	if err != nil {
		helpers.LogError(logger, "seed failed", err, nil)
		log.Fatal(err)
	}
	helpers.LogInfo(logger, "seed finished", logrus.Fields{
		"skipped":  res.Skipped,
		"accounts": res.Accounts,
		"shops":    res.Shops,
		"products": res.Products,
	})
}
