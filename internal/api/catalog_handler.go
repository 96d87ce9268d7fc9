package api

import (
	"log/slog"
	"net/http"

	"github.com/geo-copy/geo-api/internal/api/shared"
	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/store"
)

// CatalogHandler serves read-only product and model listings.
type CatalogHandler struct {
	products store.ProductStore
	logger   *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(products store.ProductStore, l *slog.Logger) *CatalogHandler {
	if products == nil {
		panic("products cannot be nil")
	}
	if l == nil {
		l = slog.Default()
	}
	return &CatalogHandler{
		products: products,
		logger:   l.With(slog.String("component", "catalog_handler")),
	}
}

// ListProducts handles GET /api/products requests
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id} requests
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := getPathParam(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, product)
}

// ListModels handles GET /api/models requests
func (h *CatalogHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, domain.AvailableModels())
}
