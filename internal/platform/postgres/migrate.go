package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// gooseLogger adapts slog to goose's logger interface.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level and does not exit; Migrate reports the
// failure through its returned error instead.
func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Migrate applies every pending embedded migration to db.
func Migrate(ctx context.Context, db *sql.DB, l *slog.Logger) error {
	if l == nil {
		l = slog.Default()
	}
	l = l.With(slog.String("component", "migrations"))

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{logger: l})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	start := time.Now()
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		l.Error("migrations failed",
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	l.Info("migrations applied",
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// Open opens a pgx-backed database handle and verifies connectivity.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
