package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Pesokrava/storefront/internal/domain"
)

const catalogKey = "storefront:catalog"

// RedisCache caches the catalog source's product list so reloads do not hit
// PostgreSQL every time
type RedisCache struct {
	client     redis.Cmdable
	catalogTTL time.Duration
}

// NewRedisCache creates a new Redis cache instance
func NewRedisCache(client redis.Cmdable, catalogTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     client,
		catalogTTL: catalogTTL,
	}
}

// GetCatalog returns the cached product list or domain.ErrNotFound on a miss
func (c *RedisCache) GetCatalog(ctx context.Context) ([]domain.Product, error) {
	val, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var products []domain.Product
	if err := json.Unmarshal(val, &products); err != nil {
		return nil, err
	}

	return products, nil
}

// SetCatalog stores the product list
func (c *RedisCache) SetCatalog(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogKey, data, c.catalogTTL).Err()
}

// InvalidateCatalog drops the cached product list
func (c *RedisCache) InvalidateCatalog(ctx context.Context) error {
	err := c.client.Del(ctx, catalogKey).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
