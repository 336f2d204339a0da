package memory

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
)

// Cache implements port.CacheRepository in process memory. The default
// for single instance deployments and tests.
type Cache struct {
	cache *gocache.Cache
}

func New() port.CacheRepository {
	return &Cache{
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	value, found := c.cache.Get(key)

	if !found {
		return nil, domain.ErrNotFound
	}

	return value.([]byte), nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) error {
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}

	return nil
}

func (c *Cache) Close() error {
	c.cache.Flush()
	return nil
}
