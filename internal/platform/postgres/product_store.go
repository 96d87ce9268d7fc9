package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/platform/logger"
	"github.com/geo-copy/geo-api/internal/store"
)

const productColumns = `id, name, category, price, original_price, image, human_readable, variants`

// ProductStore implements store.ProductStore on a PostgreSQL products table.
// Import is its only write path; generated variants are never stored.
type ProductStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure ProductStore implements the store interface.
var _ store.ProductStore = (*ProductStore)(nil)

// NewProductStore creates a ProductStore. If logger is nil, the default
// logger is used.
func NewProductStore(db *sql.DB, l *slog.Logger) *ProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if l == nil {
		l = slog.Default()
	}
	return &ProductStore{
		db:     db,
		logger: l.With(slog.String("component", "product_store")),
	}
}

// List implements store.ProductStore.
func (s *ProductStore) List(ctx context.Context) ([]domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY position, id`)
	if err != nil {
		log.Error("failed to list products", slog.String("error", err.Error()))
		return nil, store.NewStoreError("product", "list", MapError(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, store.NewStoreError("product", "list", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("product", "list", MapError(err))
	}
	return products, nil
}

// Get implements store.ProductStore.
func (s *ProductStore) Get(ctx context.Context, id string) (domain.Product, error) {
	return getProduct(ctx, s.db, id)
}

// Import inserts products that are not yet present, keeping the given
// order, and reports how many rows were added. Existing rows are left as is.
func (s *ProductStore) Import(ctx context.Context, products []domain.Product) (int, error) {
	inserted := 0
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		inserted = 0
		for i, p := range products {
			if err := p.Validate(); err != nil {
				return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
			}
			human, err := json.Marshal(p.HumanReadable)
			if err != nil {
				return fmt.Errorf("failed to encode product %s: %w", p.ID, err)
			}
			variants := p.Variants
			if variants == nil {
				variants = []domain.GeoVariant{}
			}
			encodedVariants, err := json.Marshal(variants)
			if err != nil {
				return fmt.Errorf("failed to encode product %s: %w", p.ID, err)
			}

			result, err := tx.ExecContext(ctx, `
				INSERT INTO products (`+productColumns+`, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (id) DO NOTHING`,
				p.ID, p.Name, string(p.Category), p.Price, p.OriginalPrice, p.Image,
				human, encodedVariants, i)
			if err != nil {
				return MapError(err)
			}
			if n, err := result.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, store.NewStoreError("product", "import", err)
	}

	s.logger.Info("imported catalog products",
		slog.Int("offered", len(products)),
		slog.Int("inserted", inserted))
	return inserted, nil
}

func getProduct(ctx context.Context, db store.DBTX, id string) (domain.Product, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, store.ErrProductNotFound
		}
		return domain.Product{}, store.NewStoreError("product", "get", MapError(err))
	}
	return p, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p             domain.Product
		category      string
		originalPrice sql.NullFloat64
		human         []byte
		variants      []byte
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&category,
		&p.Price,
		&originalPrice,
		&p.Image,
		&human,
		&variants,
	); err != nil {
		return domain.Product{}, err
	}

	p.Category = domain.Category(category)
	if originalPrice.Valid {
		v := originalPrice.Float64
		p.OriginalPrice = &v
	}
	if len(human) > 0 {
		if err := json.Unmarshal(human, &p.HumanReadable); err != nil {
			return domain.Product{}, fmt.Errorf("%w: product %s human_readable: %v",
				store.ErrInvalidEntity, p.ID, err)
		}
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return domain.Product{}, fmt.Errorf("%w: product %s variants: %v",
				store.ErrInvalidEntity, p.ID, err)
		}
	}
	return p, nil
}
