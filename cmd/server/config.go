package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/geo-copy/geo-api/internal/config"
	"github.com/geo-copy/geo-api/internal/provider"
)

// loadAppConfig loads the application configuration from environment
// variables, dotenv files and an optional config file.
func loadAppConfig(configFile string) (*config.Config, error) {
	cfg, err := config.LoadWithOptions(config.Options{ConfigFile: configFile})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logConfigSummary records what was configured without exposing secrets.
func logConfigSummary(cfg *config.Config, l *slog.Logger) {
	creds := cfg.LLM.Credentials()
	var configured []string
	for _, p := range provider.Supported() {
		if creds[p] != "" {
			configured = append(configured, p.String())
		}
	}
	slices.Sort(configured)

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_configured", cfg.Database.URL != "",
		"providers_with_keys", configured,
		"worker_count", cfg.Generation.WorkerCount)
}
