package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/geo-copy/geo-api/internal/api/shared"
	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/fanout"
	"github.com/geo-copy/geo-api/internal/generation"
	"github.com/geo-copy/geo-api/internal/llm"
	"github.com/geo-copy/geo-api/internal/redact"
	"github.com/geo-copy/geo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Not found errors
	case errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrModelNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Precondition and bad request errors
	case errors.Is(err, llm.ErrCredentialMissing),
		errors.Is(err, generation.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidCopyType),
		errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, fanout.ErrRunInProgress):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message sent to the client for err.
// Generation failures carry the upstream cause, scrubbed of credentials.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	var credErr *generation.CredentialError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, store.ErrProductNotFound):
		return "Product not found"

	case errors.Is(err, store.ErrModelNotFound):
		return "Model not found"

	case errors.As(err, &credErr):
		return credErr.Error()

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrInvalidCopyType):
		return "Invalid copyType"

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.Is(err, generation.ErrInvalidRequest):
		return "Invalid request"

	case errors.Is(err, fanout.ErrRunInProgress):
		return "A batch generation is already running"

	case errors.Is(err, generation.ErrGenerationFailed):
		return redact.String(causeMessage(err))

	default:
		return "An unexpected error occurred"
	}
}

// causeMessage strips the generation prefix so clients see the provider's
// own error text.
func causeMessage(err error) string {
	var upstream *llm.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Error()
	}
	msg := strings.TrimPrefix(err.Error(), generation.ErrGenerationFailed.Error()+": ")
	if msg == "" {
		return "Unknown error"
	}
	return msg
}

// SanitizeValidationError turns validator errors into a short message naming
// the first offending field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// respondWithServiceError writes the mapped status and safe message for err.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	var opts []shared.ResponseOption
	if status == http.StatusConflict {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
