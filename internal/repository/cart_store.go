package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront-service/internal/models"
)

// CartTTL is how long an idle cart survives in Redis
const CartTTL = 30 * 24 * time.Hour

// Cart is the Redis-backed cart payload
type Cart struct {
	Lines     []models.CartLine `json:"lines"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// CartStore persists carts in Redis. When Redis is not configured every
// operation degrades to a no-op: checkout still works, the storefront just
// manages the cart client-side.
type CartStore interface {
	Get(ctx context.Context, cartID string) (*Cart, error)
	Save(ctx context.Context, cartID string, cart *Cart) error
	Clear(ctx context.Context, cartID string) error
}

type cartStore struct {
	redis *redis.Client
}

// NewCartStore creates a new cart store backed by the given Redis client
func NewCartStore(redisClient *redis.Client) CartStore {
	return &cartStore{redis: redisClient}
}

func cartKey(cartID string) string {
	return fmt.Sprintf("storefront:cart:%s", cartID)
}

func (s *cartStore) Get(ctx context.Context, cartID string) (*Cart, error) {
	if s.redis == nil || cartID == "" {
		return nil, nil
	}
	data, err := s.redis.Get(ctx, cartKey(cartID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var cart Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("corrupt cart payload: %w", err)
	}
	return &cart, nil
}

func (s *cartStore) Save(ctx context.Context, cartID string, cart *Cart) error {
	if s.redis == nil || cartID == "" {
		return nil
	}
	cart.UpdatedAt = time.Now()
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, cartKey(cartID), data, CartTTL).Err()
}

func (s *cartStore) Clear(ctx context.Context, cartID string) error {
	if s.redis == nil || cartID == "" {
		return nil
	}
	return s.redis.Del(ctx, cartKey(cartID)).Err()
}
