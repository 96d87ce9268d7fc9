package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/geo-copy/geo-api/internal/config"
	"github.com/geo-copy/geo-api/internal/platform/memory"
	"github.com/geo-copy/geo-api/internal/platform/postgres"
	"github.com/geo-copy/geo-api/internal/store"
)

// setupCatalog returns the product catalog. Without a database URL the
// catalog lives in memory; otherwise Postgres is opened, migrated and
// seeded with any products it does not have yet; generated variants are then
// kept in memory on top of the read-only table. db is nil for the in-memory
// catalog.
func setupCatalog(ctx context.Context, cfg *config.Config, l *slog.Logger) (store.Catalog, *sql.DB, error) {
	seed, err := memory.Load(cfg.Catalog.SeedPath, l)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog seed: %w", err)
	}

	if cfg.Database.URL == "" {
		l.Info("Using in-memory catalog", "seed_path", cfg.Catalog.SeedPath)
		return seed, nil, nil
	}

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	l.Info("Database connection established")

	if err := postgres.Migrate(ctx, db, l); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	products, err := seed.List(ctx)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	catalog := postgres.NewProductStore(db, l)
	inserted, err := catalog.Import(ctx, products)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to import catalog seed: %w", err)
	}
	l.Info("Catalog seed imported", "inserted", inserted, "seed_products", len(products))

	return memory.NewOverlay(catalog, l), db, nil
}
