package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/geo-copy/geo-api/internal/api"
	apiMiddleware "github.com/geo-copy/geo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.CORS(app.config.Server.AllowedOrigins))

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	catalogHandler := api.NewCatalogHandler(app.catalog, app.logger)
	generateHandler := api.NewGenerateHandler(app.generator, app.logger)
	batchHandler := api.NewBatchHandler(app.scheduler, app.catalog, app.catalog, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Catalog endpoints
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{id}", catalogHandler.GetProduct)
		r.Get("/models", catalogHandler.ListModels)

		// Generation endpoints
		r.Post("/generate", generateHandler.Generate)
		r.Post("/generate/batch", batchHandler.RunBatch)
		r.Get("/generate/progress", batchHandler.Progress)
	})

	// Health check endpoint
	r.Get("/health", api.NewHealthHandler(app.ping).Check)

	return r
}
