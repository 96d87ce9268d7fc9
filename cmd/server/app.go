package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/geo-copy/geo-api/internal/config"
	"github.com/geo-copy/geo-api/internal/fanout"
	"github.com/geo-copy/geo-api/internal/generation"
	"github.com/geo-copy/geo-api/internal/llm"
	"github.com/geo-copy/geo-api/internal/prompt"
	"github.com/geo-copy/geo-api/internal/provider"
	"github.com/geo-copy/geo-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Catalog, backed by memory or Postgres
	catalog store.Catalog

	// Generation
	generator *generation.Service
	scheduler *fanout.Scheduler
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.catalog, app.db, err = setupCatalog(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up catalog: %w", err)
	}

	completer := llm.NewClient(
		llm.WithDefaultTemperature(cfg.LLM.Temperature),
		llm.WithTimeout(time.Duration(cfg.LLM.RequestTimeoutSeconds)*time.Second),
		llm.WithLogger(logger),
	)
	resolver := provider.NewResolver(cfg.LLM.Credentials())

	app.generator = generation.NewService(app.catalog, resolver, completer, prompt.NewComposer(), logger)

	progressLog := logger.With("component", "fanout_progress")
	app.scheduler = fanout.NewScheduler(app.generator,
		fanout.WithWorkerCount(cfg.Generation.WorkerCount),
		fanout.WithLogger(logger),
		fanout.WithObserver(func(s fanout.Snapshot) {
			progressLog.Debug("fan-out progress",
				"run_id", s.RunID,
				"completed", s.Completed,
				"total", s.Total,
				"percent", s.Percent)
		}),
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server and blocks until ctx is cancelled or
// the server fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// ping checks the catalog database, if any.
func (app *application) ping(ctx context.Context) error {
	if app.db == nil {
		return nil
	}
	return app.db.PingContext(ctx)
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
