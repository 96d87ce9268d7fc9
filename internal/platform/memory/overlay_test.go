package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geo-copy/geo-api/internal/domain"
	"github.com/geo-copy/geo-api/internal/store"
)

// readOnlyStore exposes only the read side of a catalog.
type readOnlyStore struct {
	c   *Catalog
	err error
}

func (s readOnlyStore) List(ctx context.Context) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.c.List(ctx)
}

func (s readOnlyStore) Get(ctx context.Context, id string) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	return s.c.Get(ctx, id)
}

func TestOverlay_ReplaceVariantsLeavesBaseUntouched(t *testing.T) {
	ctx := context.Background()
	base, err := NewCatalog([]domain.Product{
		{ID: "a", Name: "Alpha", Category: domain.CategoryScenario, Variants: []domain.GeoVariant{{KeyConclusion: "old a"}}},
		{ID: "b", Name: "Beta", Category: domain.CategoryConstraint, Variants: []domain.GeoVariant{{KeyConclusion: "old b"}}},
	}, nil)
	require.NoError(t, err)
	o := NewOverlay(readOnlyStore{c: base}, nil)

	fresh := []domain.GeoVariant{{KeyConclusion: "new a", CopyType: domain.CopyTypeProblem}}
	require.NoError(t, o.ReplaceVariants(ctx, "a", fresh))
	fresh[0].KeyConclusion = "mutated"

	got, err := o.Get(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got.Variants, 1)
	assert.Equal(t, "new a", got.Variants[0].KeyConclusion)

	products, err := o.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "new a", products[0].Variants[0].KeyConclusion)
	assert.Equal(t, "old b", products[1].Variants[0].KeyConclusion)

	stored, err := base.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "old a", stored.Variants[0].KeyConclusion)
}

func TestOverlay_Errors(t *testing.T) {
	ctx := context.Background()
	base, err := Load("", nil)
	require.NoError(t, err)

	o := NewOverlay(readOnlyStore{c: base}, nil)
	assert.ErrorIs(t, o.ReplaceVariants(ctx, "nope", nil), store.ErrProductNotFound)
	_, err = o.Get(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrProductNotFound)

	boom := errors.New("db down")
	broken := NewOverlay(readOnlyStore{c: base, err: boom}, nil)
	_, err = broken.List(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, broken.ReplaceVariants(ctx, "p1", nil), boom)

	assert.Panics(t, func() { NewOverlay(nil, nil) })
}
