// Command seed fills the catalog database with generated demo products.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/achieve-45/ProductCatalogService/internal/config"
	"github.com/achieve-45/ProductCatalogService/internal/repository/postgres"
	"github.com/achieve-45/ProductCatalogService/internal/seed"
	"github.com/achieve-45/ProductCatalogService/migrations"
	pkgconfig "github.com/achieve-45/ProductCatalogService/pkg/config"
	"github.com/achieve-45/ProductCatalogService/pkg/database"
	"github.com/achieve-45/ProductCatalogService/pkg/logger"
)

type seedConfig struct {
	Count int    `env:"SEED_PRODUCT_COUNT" envDefault:"1000"`
	Seed  uint64 `env:"SEED_RANDOM_SEED" envDefault:"42"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	var sc seedConfig
	if err := pkgconfig.Load(&sc); err != nil {
		slog.Error("failed to load seed config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("catalog-seed", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	products := seed.Generate(sc.Count, sc.Seed)
	n, err := seed.Load(ctx, postgres.NewProductRepository(pool), products, log)
	if err != nil {
		log.Error("seed aborted", slog.Int("created", n), slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("seed complete", slog.Int("products", n))
}
