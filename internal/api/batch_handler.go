package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/geo-copy/geo-api/internal/api/shared"
	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/fanout"
	"github.com/geo-copy/geo-api/internal/platform/logger"
	"github.com/geo-copy/geo-api/internal/store"
)

// BatchRunner runs fan-out generations and reports their progress.
type BatchRunner interface {
	TryRun(ctx context.Context, products []domain.Product, model string, count int) (fanout.Report, error)
	Progress() fanout.Snapshot
}

// BatchHandler handles fan-out generation requests
type BatchHandler struct {
	runner   BatchRunner
	products store.ProductStore
	variants store.VariantWriter
	logger   *slog.Logger
}

// NewBatchHandler creates a new BatchHandler. variants may be nil, in which
// case reports are returned without being saved.
func NewBatchHandler(
	runner BatchRunner,
	products store.ProductStore,
	variants store.VariantWriter,
	l *slog.Logger,
) *BatchHandler {
	if runner == nil {
		panic("runner cannot be nil")
	}
	if products == nil {
		panic("products cannot be nil")
	}
	if l == nil {
		l = slog.Default()
	}
	return &BatchHandler{
		runner:   runner,
		products: products,
		variants: variants,
		logger:   l.With(slog.String("component", "batch_handler")),
	}
}

// RunBatch handles POST /api/generate/batch requests. The run and the saving
// of its variants are detached from the request context so a disconnecting
// client does not abort them.
func (h *BatchHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, ok := domain.FindModel(req.Model); !ok {
		respondWithServiceError(w, r, store.ErrModelNotFound)
		return
	}

	products, err := h.selectProducts(r.Context(), req.ProductIDs)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	runCtx := context.WithoutCancel(r.Context())
	report, err := h.runner.TryRun(runCtx, products, req.Model, req.Count)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if err := h.saveVariants(runCtx, report); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to save generated variants", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// Progress handles GET /api/generate/progress requests
func (h *BatchHandler) Progress(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.runner.Progress())
}

// selectProducts returns the whole catalog for an empty id list, otherwise
// the named products in request order with duplicates removed.
func (h *BatchHandler) selectProducts(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return h.products.List(ctx)
	}

	seen := make(map[string]struct{}, len(ids))
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		p, err := h.products.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (h *BatchHandler) saveVariants(ctx context.Context, report fanout.Report) error {
	if h.variants == nil || len(report.UpdatedIDs) == 0 {
		return nil
	}

	byID := make(map[string]domain.Product, len(report.Products))
	for _, p := range report.Products {
		byID[p.ID] = p
	}

	log := logger.FromContextOrDefault(ctx, h.logger)
	for _, id := range report.UpdatedIDs {
		p, ok := byID[id]
		if !ok {
			continue
		}
		if err := h.variants.ReplaceVariants(ctx, id, p.Variants); err != nil {
			return err
		}
		log.Debug("saved generated variants",
			slog.String("product_id", id),
			slog.Int("variants", len(p.Variants)))
	}
	log.Info("batch variants saved",
		slog.String("run_id", report.RunID),
		slog.Int("products", len(report.UpdatedIDs)))
	return nil
}
