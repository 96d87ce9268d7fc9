package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/platform/logger"
	"github.com/geo-copy/geo-api/internal/store"
)

// Overlay serves products from a read-only store and keeps replaced variant
// sets in process memory on top of it. The underlying store is never written,
// so generated variants are lost on restart.
type Overlay struct {
	base   store.ProductStore
	logger *slog.Logger

	mu       sync.RWMutex
	variants map[string][]domain.GeoVariant
}

// Ensure Overlay implements the store interfaces.
var _ store.Catalog = (*Overlay)(nil)

// NewOverlay wraps base.
func NewOverlay(base store.ProductStore, l *slog.Logger) *Overlay {
	if base == nil {
		panic("base store cannot be nil")
	}
	if l == nil {
		l = slog.Default()
	}
	return &Overlay{
		base:     base,
		logger:   l.With(slog.String("component", "variant_overlay")),
		variants: make(map[string][]domain.GeoVariant),
	}
}

// List implements store.ProductStore.
func (o *Overlay) List(ctx context.Context) ([]domain.Product, error) {
	products, err := o.base.List(ctx)
	if err != nil {
		return nil, err
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	for i, p := range products {
		products[i] = o.apply(p)
	}
	return products, nil
}

// Get implements store.ProductStore.
func (o *Overlay) Get(ctx context.Context, id string) (domain.Product, error) {
	p, err := o.base.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.apply(p), nil
}

// ReplaceVariants implements store.VariantWriter. The product must exist in
// the underlying store.
func (o *Overlay) ReplaceVariants(ctx context.Context, productID string, variants []domain.GeoVariant) error {
	if _, err := o.base.Get(ctx, productID); err != nil {
		return err
	}

	fresh := make([]domain.GeoVariant, len(variants))
	copy(fresh, variants)

	o.mu.Lock()
	o.variants[productID] = fresh
	o.mu.Unlock()

	logger.FromContextOrDefault(ctx, o.logger).Debug("replaced product variants in memory",
		slog.String("product_id", productID),
		slog.Int("variant_count", len(variants)))
	return nil
}

// apply must be called with o.mu held.
func (o *Overlay) apply(p domain.Product) domain.Product {
	if v, ok := o.variants[p.ID]; ok {
		return p.WithVariants(v)
	}
	return p
}
