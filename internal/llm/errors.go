package llm

import (
	"errors"
	"fmt"

	"github.com/geo-copy/geo-api/internal/domain"
)

// Common errors returned by the llm package
var (
	// ErrCredentialMissing is returned before any network I/O when the
	// resolved provider has no API key.
	ErrCredentialMissing = errors.New("API key not configured")

	// ErrUpstream is the parent of every failure reported by the provider.
	ErrUpstream = errors.New("upstream provider error")

	// ErrEmptyBody is returned when a streaming response carries no body.
	ErrEmptyBody = fmt.Errorf("%w: response body is empty", ErrUpstream)
)

// UpstreamError is a non-success HTTP status returned by the provider.
type UpstreamError struct {
	Provider   domain.Provider
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("API Error: %d - %s", e.StatusCode, e.Body)
}

// Unwrap makes errors.Is(err, ErrUpstream) hold.
func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}
