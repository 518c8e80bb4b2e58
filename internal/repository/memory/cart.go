package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pasarantar/storefront/internal/domain"
	apperrors "github.com/pasarantar/storefront/pkg/errors"
)

// CartRepository is an in-memory cart store used in tests and local
// development where no Redis is available. Carts never expire.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string][]byte)}
}

func (r *CartRepository) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	r.mu.RLock()
	data, ok := r.carts[sessionID]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFound("cart", sessionID)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode stored cart")
	}
	return &cart, nil
}

func (r *CartRepository) Save(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart.Version++
	data, err := json.Marshal(cart)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode cart")
	}
	r.carts[cart.SessionID] = data
	return nil
}

func (r *CartRepository) SaveIfVersion(_ context.Context, cart *domain.Cart, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if data, ok := r.carts[cart.SessionID]; ok {
		var current domain.Cart
		if err := json.Unmarshal(data, &current); err != nil {
			return apperrors.Wrap(err, "failed to decode stored cart")
		}
		if current.Version != expectedVersion {
			return apperrors.Conflict(fmt.Sprintf("cart for session %s was modified concurrently", cart.SessionID))
		}
	} else if expectedVersion != 0 {
		return apperrors.Conflict(fmt.Sprintf("cart for session %s was modified concurrently", cart.SessionID))
	}

	cart.Version = expectedVersion + 1
	data, err := json.Marshal(cart)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode cart")
	}
	r.carts[cart.SessionID] = data
	return nil
}

func (r *CartRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}
