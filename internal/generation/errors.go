package generation

import (
	"errors"
	"fmt"

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/llm"
)

// Common errors returned by the generation package
var (
	// ErrGenerationFailed wraps every failure of the completion call itself.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrInvalidRequest is returned when a request is missing required fields.
	ErrInvalidRequest = errors.New("invalid generation request")
)

// CredentialError reports that the model's provider has no API key.
type CredentialError struct {
	Provider domain.Provider
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s API Key not configured", e.Provider)
}

// Unwrap makes errors.Is(err, llm.ErrCredentialMissing) hold.
func (e *CredentialError) Unwrap() error {
	return llm.ErrCredentialMissing
}
