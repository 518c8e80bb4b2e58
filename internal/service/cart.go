package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pasarantar/storefront/internal/domain"
	"github.com/pasarantar/storefront/internal/event"
	"github.com/pasarantar/storefront/internal/notifier"
	"github.com/pasarantar/storefront/internal/repository"
	apperrors "github.com/pasarantar/storefront/pkg/errors"
	"github.com/pasarantar/storefront/pkg/logger"
)

// conflictRetries bounds how often a mutation is replayed when a concurrent
// writer wins the version check.
const conflictRetries = 3

// CartService owns the session cart lifecycle. Mutations never fail the
// shopper: a cart that cannot be loaded starts over empty and a cart that
// cannot be persisted stays valid for the current response, with the failure
// logged.
type CartService struct {
	repo     repository.CartRepository
	notifier *notifier.Notifier
	events   *event.Producer
	log      *slog.Logger
}

func NewCartService(repo repository.CartRepository, n *notifier.Notifier, events *event.Producer, log *slog.Logger) *CartService {
	return &CartService{repo: repo, notifier: n, events: events, log: log}
}

// Get returns the session's cart. A missing or unreadable cart yields a
// fresh empty one; read failures are logged, never surfaced.
func (s *CartService) Get(ctx context.Context, sessionID string) *domain.Cart {
	cart, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.WithContext(ctx, s.log).Warn("failed to load cart, starting empty",
				slog.String("error", err.Error()))
		}
		return domain.NewCart(sessionID)
	}
	return cart
}

// AddItem adds the variant to the cart, merging with an existing line for the
// same (product, variant) pair, and shows a confirmation toast.
func (s *CartService) AddItem(ctx context.Context, sessionID, customerID string, product domain.ProductSnapshot, variant domain.VariantSnapshot, quantity int, note string) (*domain.Cart, error) {
	if product.ID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if err := variant.Validate(); err != nil {
		return nil, err
	}

	cart := s.mutate(ctx, sessionID, func(c *domain.Cart) bool {
		if customerID != "" {
			c.CustomerID = customerID
		}
		c.AddItem(product, variant, quantity)
		if note != "" {
			c.UpdateNote(product.ID, variant.ID, note)
		}
		return true
	})

	s.notifier.ShowItem(sessionID, product.Name, product.ImageURL, variant.WeightLabel())
	return cart, nil
}

// UpdateQuantity sets the quantity of the matching line item, clamped to the
// allowed range. An unknown (product, variant) pair leaves the cart as is.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID, variantID string, quantity int) *domain.Cart {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) bool {
		return c.UpdateQuantity(productID, variantID, quantity)
	})
}

// UpdateNote sets the note on the matching line item. An unknown pair leaves
// the cart as is.
func (s *CartService) UpdateNote(ctx context.Context, sessionID, productID, variantID, note string) *domain.Cart {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) bool {
		return c.UpdateNote(productID, variantID, note)
	})
}

// RemoveItem deletes the matching line item. Removing an absent pair is a
// no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID, variantID string) *domain.Cart {
	return s.mutate(ctx, sessionID, func(c *domain.Cart) bool {
		return c.RemoveItem(productID, variantID)
	})
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) *domain.Cart {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		logger.WithContext(ctx, s.log).Error("failed to clear cart",
			slog.String("error", err.Error()))
	}
	s.events.CartCleared(ctx, sessionID)
	return domain.NewCart(sessionID)
}

// mutate loads the cart, applies fn and persists the result with an
// optimistic version check, retrying on conflict. fn reports whether it
// changed anything; an untouched cart is returned without a write. A
// persistence failure after retries is logged and the mutated in-memory cart
// is returned so the shopper's action still takes effect for this response.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(*domain.Cart) bool) *domain.Cart {
	var cart *domain.Cart
	for attempt := 0; attempt < conflictRetries; attempt++ {
		cart = s.Get(ctx, sessionID)
		expected := cart.Version
		if !fn(cart) {
			return cart
		}

		err := s.repo.SaveIfVersion(ctx, cart, expected)
		if err == nil {
			s.events.CartUpdated(ctx, cart)
			return cart
		}
		if errors.Is(err, apperrors.ErrConflict) {
			continue
		}

		logger.WithContext(ctx, s.log).Error("failed to persist cart",
			slog.String("error", err.Error()))
		return cart
	}

	logger.WithContext(ctx, s.log).Warn("cart mutation abandoned after repeated conflicts",
		slog.Int("attempts", conflictRetries))
	return cart
}
