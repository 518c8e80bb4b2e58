package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pasarantar/storefront/internal/domain"
	apperrors "github.com/pasarantar/storefront/pkg/errors"
)

const keyPrefix = "cart:"

// saveIfVersionScript stores the cart document only when the version embedded
// in the currently stored document matches ARGV[2]. An expected version of 0
// asserts that no document exists yet. A stored document that does not decode
// as JSON is treated as absent and overwritten, so a corrupt blob cannot wedge
// the session until its TTL expires.
var saveIfVersionScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
  local ok, doc = pcall(cjson.decode, cur)
  if ok and type(doc) == 'table' then
    if tonumber(doc.version) ~= tonumber(ARGV[2]) then
      return 0
    end
  end
elseif tonumber(ARGV[2]) ~= 0 then
  return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'EX', ARGV[3])
return 1
`)

// CartRepository stores each session's cart as a JSON document under
// "cart:<sessionID>" with a rolling TTL.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return keyPrefix + sessionID
}

func (r *CartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NotFound("cart", sessionID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load cart")
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode stored cart")
	}
	return &cart, nil
}

func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	cart.Version++
	data, err := json.Marshal(cart)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode cart")
	}
	if err := r.client.Set(ctx, cartKey(cart.SessionID), data, r.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to save cart")
	}
	return nil
}

func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) error {
	cart.Version = expectedVersion + 1
	data, err := json.Marshal(cart)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode cart")
	}

	ok, err := saveIfVersionScript.Run(ctx, r.client,
		[]string{cartKey(cart.SessionID)},
		string(data), expectedVersion, int(r.ttl.Seconds()),
	).Int()
	if err != nil {
		return apperrors.Wrap(err, "failed to save cart")
	}
	if ok != 1 {
		return apperrors.Conflict(fmt.Sprintf("cart for session %s was modified concurrently", cart.SessionID))
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return apperrors.Wrap(err, "failed to delete cart")
	}
	return nil
}
