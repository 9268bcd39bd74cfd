package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ivanoskov/finance_app/internal/model"
)

const (
	productListKey = "products:all"
	productListTTL = 5 * time.Minute
)

// ProductCache is a redis-backed cache for the unfiltered product list. The
// store stays authoritative: a miss or any redis error falls through to the
// database and the entry is rebuilt on the next list.
type ProductCache struct {
	client *redis.Client
}

// New connects to redis and verifies the connection with a ping.
func New(addr string) (*ProductCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &ProductCache{client: client}, nil
}

func (c *ProductCache) Close() error {
	return c.client.Close()
}

// GetProducts returns the cached product list. The second return value is
// false on miss, decode failure, or redis error.
func (c *ProductCache) GetProducts(ctx context.Context) ([]model.Product, bool) {
	raw, err := c.client.Get(ctx, productListKey).Result()
	if err != nil {
		return nil, false
	}

	var products []model.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, false
	}
	return products, true
}

// SetProducts caches the product list with a short TTL. Errors are ignored;
// the cache is best-effort.
func (c *ProductCache) SetProducts(ctx context.Context, products []model.Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, productListKey, raw, productListTTL).Err()
}

// Invalidate drops the cached list after any product mutation.
func (c *ProductCache) Invalidate(ctx context.Context) {
	_ = c.client.Del(ctx, productListKey).Err()
}
