package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// shutdownTimeout bounds graceful shutdown, including open streams.
const shutdownTimeout = 10 * time.Second

// newHTTPServer configures the HTTP server. WriteTimeout is left unset so
// long streamed generations and batch runs are not cut off.
func (app *application) newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// startHTTPServer listens on the configured port and serves until ctx is
// cancelled, then shuts down gracefully.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := app.newHTTPServer(router)

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", server.Addr, err)
	}
	return app.serve(ctx, server, ln)
}

// serve runs server on ln until ctx is cancelled or the server fails.
func (app *application) serve(ctx context.Context, server *http.Server, ln net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", "addr", ln.Addr().String())
		serveErr <- server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("Server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("Server shutdown completed")
	return nil
}
