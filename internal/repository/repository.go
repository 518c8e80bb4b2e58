package repository

import (
	"context"

	"github.com/pasarantar/storefront/internal/domain"
)

// CartRepository persists session carts. Implementations store the cart as a
// single document keyed by session ID.
type CartRepository interface {
	// Get loads the cart for a session. Returns apperrors.ErrNotFound when
	// no cart exists for the session.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save stores the cart unconditionally and bumps its version.
	Save(ctx context.Context, cart *domain.Cart) error

	// SaveIfVersion stores the cart only if the persisted version still
	// matches expectedVersion (0 means "no cart stored yet"). Returns
	// apperrors.ErrConflict when another writer got there first.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) error

	// Delete removes the session's cart. Deleting an absent cart is not an
	// error.
	Delete(ctx context.Context, sessionID string) error
}
