package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/geo-copy/geo-api/internal/api/shared"
	"github.com/geo-copy/geo-api/internal/generation"
	"github.com/geo-copy/geo-api/internal/platform/logger"
)

// getPathParam extracts a non-blank URL path parameter.
//
// Returns:
//   - (value, nil): the trimmed parameter
//   - ("", error): wrapping generation.ErrInvalidRequest when missing
func getPathParam(r *http.Request, paramName string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, paramName))
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", generation.ErrInvalidRequest, paramName)
	}
	return value, nil
}

// decodeAndValidate reads a JSON body into v and runs struct validation.
// It writes a 400 response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		message := "Invalid request format"
		if MapErrorToStatusCode(err) == http.StatusBadRequest {
			message = GetSafeErrorMessage(err)
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, message, err)
		return false
	}

	if err := shared.ValidateRequest(v); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("request validation failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
