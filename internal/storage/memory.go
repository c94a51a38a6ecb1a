package storage

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/metrics"
)

// MemoryCache is a process-local cache; it lives as long as the process.
type MemoryCache struct {
	entries *lru.Cache[domain.Window, []domain.Post]
}

// NewMemoryCache sizes the LRU to hold every window label.
func NewMemoryCache() (*MemoryCache, error) {
	c, err := lru.New[domain.Window, []domain.Post](len(domain.Windows))
	if err != nil {
		return nil, err
	}
	return &MemoryCache{entries: c}, nil
}

func (mc *MemoryCache) Get(_ context.Context, window domain.Window) ([]domain.Post, bool) {
	posts, ok := mc.entries.Get(window)
	if !ok {
		metrics.CacheLookups.WithLabelValues("memory", "miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("memory", "hit").Inc()
	return clonePosts(posts), true
}

func (mc *MemoryCache) Set(_ context.Context, window domain.Window, posts []domain.Post) domain.WriteResult {
	mc.entries.Add(window, clonePosts(posts))
	return domain.WriteResult{Backend: "memory"}
}

func clonePosts(posts []domain.Post) []domain.Post {
	out := make([]domain.Post, len(posts))
	copy(out, posts)
	return out
}
