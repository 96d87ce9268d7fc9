package generation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/llm"
	"github.com/geo-copy/geo-api/internal/platform/logger"
	"github.com/geo-copy/geo-api/internal/provider"
	"github.com/geo-copy/geo-api/internal/redact"
	"github.com/geo-copy/geo-api/internal/store"
)

// Completer sends a prompt to a provider.
type Completer interface {
	Complete(ctx context.Context, cfg provider.Config, model, prompt string, opts ...llm.CallOption) (string, error)
	Stream(ctx context.Context, cfg provider.Config, model, prompt string, opts ...llm.CallOption) (io.ReadCloser, error)
}

// ProviderResolver maps a provider tag to its endpoint and credential.
type ProviderResolver interface {
	Resolve(p domain.Provider) (provider.Config, error)
}

// PromptComposer builds prompts and picks random copy types.
type PromptComposer interface {
	Compose(p domain.Product, ct domain.CopyType) (string, error)
	PickCopyType() domain.CopyType
}

// Request describes one generation.
type Request struct {
	ProductID string
	// CopyType is picked at random when nil.
	CopyType *domain.CopyType
	Model    string
	// CustomPrompt replaces the composed prompt when non-empty.
	CustomPrompt string
}

// Result is the outcome of a buffered generation.
type Result struct {
	Content  string
	CopyType domain.CopyType
	Model    string
	Provider domain.Provider
	Duration time.Duration
}

// Service runs generations against the catalog.
type Service struct {
	products  store.ProductStore
	resolver  ProviderResolver
	completer Completer
	composer  PromptComposer
	logger    *slog.Logger
}

// NewService creates a Service. All collaborators are required.
func NewService(
	products store.ProductStore,
	resolver ProviderResolver,
	completer Completer,
	composer PromptComposer,
	l *slog.Logger,
) *Service {
	if products == nil || resolver == nil || completer == nil || composer == nil {
		panic("generation: nil collaborator")
	}
	if l == nil {
		l = slog.Default()
	}
	return &Service{
		products:  products,
		resolver:  resolver,
		completer: completer,
		composer:  composer,
		logger:    l.With(slog.String("component", "generation_service")),
	}
}

// prepared is everything needed to issue the completion call.
type prepared struct {
	product  domain.Product
	copyType domain.CopyType
	model    domain.Model
	cfg      provider.Config
	prompt   string
}

// prepare validates a request in order: product, model, provider,
// credential, prompt. No network I/O happens here.
func (s *Service) prepare(ctx context.Context, req Request) (prepared, error) {
	if req.ProductID == "" || req.Model == "" {
		return prepared{}, fmt.Errorf("%w: productId and model are required", ErrInvalidRequest)
	}

	var ct domain.CopyType
	if req.CopyType != nil {
		parsed, err := domain.ParseCopyType(string(*req.CopyType))
		if err != nil {
			return prepared{}, err
		}
		ct = parsed
	} else {
		ct = s.composer.PickCopyType()
		logger.FromContextOrDefault(ctx, s.logger).Debug("picked random copy type",
			slog.String("product_id", req.ProductID),
			slog.String("copy_type", ct.String()))
	}

	product, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		return prepared{}, err
	}

	model, ok := domain.FindModel(req.Model)
	if !ok {
		return prepared{}, store.ErrModelNotFound
	}

	cfg, err := s.resolver.Resolve(model.Provider)
	if err != nil {
		return prepared{}, err
	}
	if !cfg.HasCredential() {
		return prepared{}, &CredentialError{Provider: model.Provider}
	}

	prompt := req.CustomPrompt
	if prompt == "" {
		prompt, err = s.composer.Compose(product, ct)
		if err != nil {
			return prepared{}, err
		}
	}

	return prepared{product: product, copyType: ct, model: model, cfg: cfg, prompt: prompt}, nil
}

// Generate runs a buffered generation. A response without content yields
// an empty Content, not an error.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return Result{}, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	start := time.Now()
	content, err := s.completer.Complete(ctx, p.cfg, p.model.ID, p.prompt)
	duration := time.Since(start)

	attrs := []any{
		slog.String("product_id", p.product.ID),
		slog.String("copy_type", p.copyType.String()),
		slog.String("model", p.model.ID),
		slog.String("provider", p.model.Provider.String()),
		slog.Int64("duration_ms", duration.Milliseconds()),
	}
	if err != nil {
		log.Error("LLM generation failed", append(attrs, slog.String("error", redact.Error(err)))...)
		return Result{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	log.Info("LLM generation ok", attrs...)

	return Result{
		Content:  content,
		CopyType: p.copyType,
		Model:    p.model.ID,
		Provider: p.model.Provider,
		Duration: duration,
	}, nil
}

// Stream starts a streaming generation. Validation failures are returned
// before any upstream call; the caller relays the returned session and must
// close it.
func (s *Service) Stream(ctx context.Context, req Request) (*StreamSession, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("product_id", p.product.ID),
		slog.String("copy_type", p.copyType.String()),
		slog.String("model", p.model.ID),
		slog.String("provider", p.model.Provider.String()))

	start := time.Now()
	body, err := s.completer.Stream(ctx, p.cfg, p.model.ID, p.prompt)
	if err != nil {
		log.Error("LLM stream failed to start",
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	return &StreamSession{
		CopyType: p.copyType,
		Model:    p.model.ID,
		Provider: p.model.Provider,
		body:     body,
		started:  start,
		logger:   log,
	}, nil
}
