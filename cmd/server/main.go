// Package main implements the entry point for the GEO copy API server,
// which serves the product catalog and generates marketing copy through
// OpenAI-compatible LLM providers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/geo-copy/geo-api/internal/redact"
)

// options are the command line flags.
type options struct {
	configFile  string
	migrateOnly bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configFile, "config", "", "path to a YAML config file (default: ./config.yaml if present)")
	flag.BoolVar(&opts.migrateOnly, "migrate", false, "apply database migrations, import the seed catalog and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		slog.Error("server exited with error", "error", redact.Error(err))
		stop()
		os.Exit(1)
	}
}

// errMigrateWithoutDatabase is returned for -migrate when no database is configured.
var errMigrateWithoutDatabase = errors.New("-migrate requires database.url")

// run loads configuration, builds the application and serves until ctx is
// cancelled.
func run(ctx context.Context, opts options) error {
	cfg, err := loadAppConfig(opts.configFile)
	if err != nil {
		return err
	}

	l, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	if opts.migrateOnly && cfg.Database.URL == "" {
		return errMigrateWithoutDatabase
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	if opts.migrateOnly {
		l.Info("migrations complete, exiting")
		return nil
	}
	return app.Run(ctx)
}
