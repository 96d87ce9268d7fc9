package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geo-copy/geo-api/internal/api/shared"
	"github.com/geo-copy/geo-api/internal/platform/logger"
	"github.com/geo-copy/geo-api/internal/redact"
)

// healthCheckTimeout bounds the dependency check of GET /health.
const healthCheckTimeout = 2 * time.Second

// HealthHandler reports service liveness.
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler creates a HealthHandler. ping checks an optional
// dependency such as the catalog database and may be nil.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Check handles GET /health requests
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logger.FromContextOrDefault(r.Context(), slog.Default()).Warn("health check failed",
				slog.String("error", redact.Error(err)))
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// NotFound answers unknown /api routes with a JSON error body.
func NotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, "Not Found")
}

// MethodNotAllowed answers known /api routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method Not Allowed")
}
