package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/port"
)

// Cache implements port.CacheRepository backed by Redis. Used when
// several API instances must share one response cache.
type Cache struct {
	client *redis.Client
}

func New(ctx context.Context, url string) (port.CacheRepository, error) {
	opts, err := redis.ParseURL(url)

	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{client: client}, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}

		return nil, err
	}

	return data, nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) error {
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 100).Result()

		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		if next == 0 {
			return nil
		}

		cursor = next
	}
}

func (c *Cache) Close() error {
	return c.client.Close()
}
