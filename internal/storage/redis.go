package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/metrics"
)

// CacheKey names the hash holding one field per window label.
const CacheKey = "reddit_posts_cache"

// RedisCache stores each window's posts as a JSON field of one hash.
type RedisCache struct {
	rdb goredis.Cmdable
}

func NewRedisCache(rdb goredis.Cmdable) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// DialRedis parses a redis:// URL and returns a connected client.
func DialRedis(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (rc *RedisCache) Get(ctx context.Context, window domain.Window) ([]domain.Post, bool) {
	data, err := rc.rdb.HGet(ctx, CacheKey, string(window)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			slog.Warn("Redis cache HGET failed, treating as miss", "window", window, "err", err)
		}
		metrics.CacheLookups.WithLabelValues("redis", "miss").Inc()
		return nil, false
	}

	var posts []domain.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		slog.Warn("Failed to unmarshal cached posts, treating as miss", "window", window, "err", err)
		metrics.CacheLookups.WithLabelValues("redis", "miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("redis", "hit").Inc()
	return posts, true
}

func (rc *RedisCache) Set(ctx context.Context, window domain.Window, posts []domain.Post) domain.WriteResult {
	if posts == nil {
		posts = []domain.Post{}
	}
	encoded, err := json.Marshal(posts)
	if err != nil {
		return domain.WriteResult{Backend: "redis", Err: err}
	}
	if err := rc.rdb.HSet(ctx, CacheKey, string(window), encoded).Err(); err != nil {
		return domain.WriteResult{Backend: "redis", Err: err}
	}
	return domain.WriteResult{Backend: "redis"}
}
