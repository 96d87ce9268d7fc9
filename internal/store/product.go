package store

import (
	"context"

	"github.com/geo-copy/geo-api/internal/domain"
)

// ProductStore provides read access to the product catalog.
type ProductStore interface {
	// List returns every product in catalog order.
	List(ctx context.Context) ([]domain.Product, error)

	// Get returns the product with the given ID.
	// Returns ErrProductNotFound if it does not exist.
	Get(ctx context.Context, id string) (domain.Product, error)
}

// VariantWriter replaces a product's variant collection.
type VariantWriter interface {
	// ReplaceVariants swaps the whole variant set of the product.
	// Returns ErrProductNotFound if it does not exist.
	ReplaceVariants(ctx context.Context, productID string, variants []domain.GeoVariant) error
}

// Catalog is a product store that also accepts variant updates.
type Catalog interface {
	ProductStore
	VariantWriter
}
