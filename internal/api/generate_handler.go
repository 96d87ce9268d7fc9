package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geo-copy/geo-api/internal/api/shared"
	"github.com/geo-copy/geo-api/internal/generation"
	"github.com/geo-copy/geo-api/internal/platform/logger"
)

// Generator runs single generations, buffered or streamed.
type Generator interface {
	Generate(ctx context.Context, req generation.Request) (generation.Result, error)
	Stream(ctx context.Context, req generation.Request) (*generation.StreamSession, error)
}

// GenerateHandler handles copy generation requests
type GenerateHandler struct {
	generator Generator
	logger    *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler
func NewGenerateHandler(generator Generator, l *slog.Logger) *GenerateHandler {
	if generator == nil {
		panic("generator cannot be nil")
	}
	if l == nil {
		l = slog.Default()
	}
	return &GenerateHandler{
		generator: generator,
		logger:    l.With(slog.String("component", "generate_handler")),
	}
}

// Generate handles POST /api/generate requests. With "stream": true the
// response is a text/event-stream of {"content": ...} events terminated by
// a [DONE] event; otherwise a single JSON document.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	genReq := generation.Request{
		ProductID:    req.ProductID,
		CopyType:     req.CopyType,
		Model:        req.Model,
		CustomPrompt: req.CustomPrompt,
	}

	if req.Stream {
		h.stream(w, r, genReq)
		return
	}

	result, err := h.generator.Generate(r.Context(), genReq)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{
		Content:    result.Content,
		CopyType:   result.CopyType,
		Model:      result.Model,
		Provider:   result.Provider,
		DurationMS: result.Duration.Milliseconds(),
	})
}

// stream relays an upstream stream. Errors before the first byte become
// ordinary JSON error responses; after that the stream just ends.
func (h *GenerateHandler) stream(w http.ResponseWriter, r *http.Request, req generation.Request) {
	session, err := h.generator.Stream(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if session == nil {
		respondWithServiceError(w, r, errors.New("generator returned no stream"))
		return
	}

	flush, ok := shared.StartEventStream(w)
	if !ok {
		_ = session.Close()
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	if err := session.Relay(r.Context(), w, flush); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("stream ended early",
			slog.String("product_id", req.ProductID),
			slog.String("model", req.Model))
	}
}
