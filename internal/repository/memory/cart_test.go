package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarantar/storefront/internal/domain"
	apperrors "github.com/pasarantar/storefront/pkg/errors"
)

func sampleCart(sessionID string) *domain.Cart {
	cart := domain.NewCart(sessionID)
	cart.AddItem(
		domain.ProductSnapshot{ID: "p1", Name: "Udang Vaname", Slug: "udang-vaname"},
		domain.VariantSnapshot{ID: "v1", ProductID: "p1", Weight: "250", Unit: "gr", Price: 45000, InStock: true},
		1,
	)
	return cart
}

func TestCartRepository_SaveAndGet(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleCart("sess-1")))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(45000), got.Total)
	assert.Equal(t, 1, got.Version)
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	repo := NewCartRepository()
	_, err := repo.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartRepository_Get_ReturnsCopy(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sampleCart("sess-1")))

	first, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	first.Clear()

	second, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, second.Items, 1)
}

func TestCartRepository_SaveIfVersion(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	cart := sampleCart("sess-1")
	require.NoError(t, repo.SaveIfVersion(ctx, cart, 0))

	stale := sampleCart("sess-1")
	err := repo.SaveIfVersion(ctx, stale, 0)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	fresh, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NoError(t, repo.SaveIfVersion(ctx, fresh, fresh.Version))
	assert.Equal(t, 2, fresh.Version)
}

func TestCartRepository_Delete(t *testing.T) {
	repo := NewCartRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleCart("sess-1")))
	require.NoError(t, repo.Delete(ctx, "sess-1"))

	_, err := repo.Get(ctx, "sess-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, repo.Delete(ctx, "sess-1"))
}
