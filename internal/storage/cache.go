package storage

import (
	"context"
	"fmt"

	"github.com/qepting91/reddit-trends/internal/config"
	"github.com/qepting91/reddit-trends/internal/domain"
)

// NewCache selects the cache backend named by the config. The returned close
// function releases backend resources and is never nil.
func NewCache(ctx context.Context, cfg *config.Config) (domain.PostCache, func() error, error) {
	noop := func() error { return nil }
	switch cfg.CacheBackend {
	case "memory":
		mc, err := NewMemoryCache()
		return mc, noop, err
	case "file":
		return NewFileCache(cfg.CacheFile), noop, nil
	case "redis":
		client, err := DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisCache(client), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown CACHE_BACKEND: %s", cfg.CacheBackend)
	}
}
