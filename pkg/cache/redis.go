package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "operion:analysis:"

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis wraps an existing client. An empty prefix uses the default one.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &Redis{client: client, prefix: prefix}
}

// NewRedisFromURL connects using a redis:// or rediss:// URL.
func NewRedisFromURL(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	return NewRedis(redis.NewClient(opts), ""), nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// New returns the cache named by url: "" disables caching, "memory" is in-process,
// redis:// and rediss:// connect to Redis.
func New(url string) (Cache, error) {
	switch {
	case url == "":
		return nil, nil //nolint:nilnil // no cache configured
	case url == "memory":
		return NewMemory(), nil
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		return NewRedisFromURL(url)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, url)
	}
}
