package api

import (
	"github.com/geo-copy/geo-api/internal/domain"
)

// GenerateRequest is the body of POST /api/generate. CopyType is picked at
// random when omitted.
type GenerateRequest struct {
	ProductID    string           `json:"productId"              validate:"required"`
	CopyType     *domain.CopyType `json:"copyType,omitempty"     validate:"omitempty,oneof=definition problem comparison mechanism boundary"`
	Model        string           `json:"model"                  validate:"required"`
	CustomPrompt string           `json:"customPrompt,omitempty" validate:"max=20000"`
	Stream       bool             `json:"stream,omitempty"`
}

// GenerateResponse is the buffered result of POST /api/generate.
type GenerateResponse struct {
	Content    string          `json:"content"`
	CopyType   domain.CopyType `json:"copyType"`
	Model      string          `json:"model"`
	Provider   domain.Provider `json:"provider"`
	DurationMS int64           `json:"durationMs"`
}

// BatchRequest is the body of POST /api/generate/batch. Count is clamped to
// the number of copy types; an empty ProductIDs list means the whole catalog.
type BatchRequest struct {
	Model      string   `json:"model"                validate:"required"`
	Count      int      `json:"count"`
	ProductIDs []string `json:"productIds,omitempty" validate:"omitempty,dive,required"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
