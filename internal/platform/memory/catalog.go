package memory

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/platform/logger"
	"github.com/geo-copy/geo-api/internal/store"
)

//go:embed seed/catalog.yaml
var defaultSeed []byte

type seedFile struct {
	Products []domain.Product `yaml:"products"`
}

// Catalog is a concurrency-safe product catalog held in memory.
// Products keep the order in which they were loaded.
type Catalog struct {
	mu       sync.RWMutex
	order    []string
	products map[string]domain.Product
	logger   *slog.Logger
}

// Ensure Catalog implements the store interfaces.
var _ store.Catalog = (*Catalog)(nil)

// NewCatalog builds a catalog from products. Every product is validated and
// IDs must be unique.
func NewCatalog(products []domain.Product, l *slog.Logger) (*Catalog, error) {
	if l == nil {
		l = slog.Default()
	}
	c := &Catalog{
		order:    make([]string, 0, len(products)),
		products: make(map[string]domain.Product, len(products)),
		logger:   l.With(slog.String("component", "memory_catalog")),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		if _, dup := c.products[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", store.ErrInvalidEntity, p.ID)
		}
		c.order = append(c.order, p.ID)
		c.products[p.ID] = p.WithVariants(p.Variants)
	}
	return c, nil
}

// ParseSeed decodes a YAML catalog document.
func ParseSeed(data []byte) ([]domain.Product, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}
	return seed.Products, nil
}

// Load builds a catalog from the YAML file at path, or from the embedded
// default seed when path is empty.
func Load(path string, l *slog.Logger) (*Catalog, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog seed %s: %w", path, err)
		}
		data = b
	}

	products, err := ParseSeed(data)
	if err != nil {
		return nil, err
	}
	return NewCatalog(products, l)
}

// List implements store.ProductStore.
func (c *Catalog) List(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		p := c.products[id]
		out = append(out, p.WithVariants(p.Variants))
	}
	return out, nil
}

// Get implements store.ProductStore.
func (c *Catalog) Get(ctx context.Context, id string) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[id]
	if !ok {
		return domain.Product{}, store.ErrProductNotFound
	}
	return p.WithVariants(p.Variants), nil
}

// ReplaceVariants implements store.VariantWriter.
func (c *Catalog) ReplaceVariants(ctx context.Context, productID string, variants []domain.GeoVariant) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[productID]
	if !ok {
		return store.ErrProductNotFound
	}
	c.products[productID] = p.WithVariants(variants)

	log.Debug("replaced product variants",
		slog.String("product_id", productID),
		slog.Int("variant_count", len(variants)))
	return nil
}
