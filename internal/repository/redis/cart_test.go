package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarantar/storefront/internal/domain"
	apperrors "github.com/pasarantar/storefront/pkg/errors"
)

func setupRepo(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCartRepository(client, time.Hour), mr
}

func sampleCart(sessionID string) *domain.Cart {
	cart := domain.NewCart(sessionID)
	cart.AddItem(
		domain.ProductSnapshot{ID: "p1", Name: "Ayam Kampung Utuh", Slug: "ayam-kampung-utuh"},
		domain.VariantSnapshot{ID: "v1", ProductID: "p1", Weight: "900", Unit: "gr", Price: 85000, InStock: true},
		2,
	)
	return cart
}

func TestCartRepository_SaveAndGet(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	cart := sampleCart("sess-1")
	require.NoError(t, repo.Save(ctx, cart))
	assert.Equal(t, 1, cart.Version)

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.SessionID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p1", got.Items[0].Product.ID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, int64(170000), got.Total)
	assert.Equal(t, 1, got.Version)
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupRepo(t)

	_, err := repo.Get(context.Background(), "sess-missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartRepository_Get_CorruptDocument(t *testing.T) {
	repo, mr := setupRepo(t)
	require.NoError(t, mr.Set("cart:sess-1", "{not json"))

	_, err := repo.Get(context.Background(), "sess-1")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartRepository_SaveIfVersion_NewCart(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	cart := sampleCart("sess-1")
	require.NoError(t, repo.SaveIfVersion(ctx, cart, 0))
	assert.Equal(t, 1, cart.Version)
}

func TestCartRepository_SaveIfVersion_Conflict(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	cart := sampleCart("sess-1")
	require.NoError(t, repo.SaveIfVersion(ctx, cart, 0))

	// a second writer asserting the stale version loses
	stale := sampleCart("sess-1")
	err := repo.SaveIfVersion(ctx, stale, 0)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	// the version returned by Get wins
	fresh, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NoError(t, repo.SaveIfVersion(ctx, fresh, fresh.Version))
	assert.Equal(t, 2, fresh.Version)
}

func TestCartRepository_SaveIfVersion_OverwritesCorruptDocument(t *testing.T) {
	repo, mr := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("cart:sess-1", "{not json"))

	// the shopper's next mutation starts from the empty-cart fallback and
	// must be able to replace the corrupt blob
	cart := sampleCart("sess-1")
	require.NoError(t, repo.SaveIfVersion(ctx, cart, 0))

	got, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Len(t, got.Items, 1)
}

func TestCartRepository_SaveIfVersion_ExpectsAbsent(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	first := sampleCart("sess-1")
	require.NoError(t, repo.SaveIfVersion(ctx, first, 0))

	again := sampleCart("sess-1")
	err := repo.SaveIfVersion(ctx, again, 0)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestCartRepository_SetsTTL(t *testing.T) {
	repo, mr := setupRepo(t)

	require.NoError(t, repo.Save(context.Background(), sampleCart("sess-1")))
	assert.Equal(t, time.Hour, mr.TTL("cart:sess-1"))

	mr.FastForward(2 * time.Hour)
	_, err := repo.Get(context.Background(), "sess-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartRepository_Delete(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleCart("sess-1")))
	require.NoError(t, repo.Delete(ctx, "sess-1"))

	_, err := repo.Get(ctx, "sess-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	// deleting again is fine
	assert.NoError(t, repo.Delete(ctx, "sess-1"))
}
