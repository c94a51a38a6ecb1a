package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/metrics"
)

// FileCache keeps every window in one JSON document, the same shape as the
// browser's "reddit_posts_cache" entry: {"day": [...], "month": [...]}.
// The mutex serialises read-modify-write cycles within the process.
type FileCache struct {
	FilePath string
	mu       sync.Mutex
}

func NewFileCache(path string) *FileCache {
	return &FileCache{FilePath: path}
}

func (fc *FileCache) Get(_ context.Context, window domain.Window) ([]domain.Post, bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	doc, err := fc.load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("File cache unreadable, treating as miss", "path", fc.FilePath, "err", err)
		}
		metrics.CacheLookups.WithLabelValues("file", "miss").Inc()
		return nil, false
	}
	posts, ok := doc[window]
	if !ok || posts == nil {
		metrics.CacheLookups.WithLabelValues("file", "miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("file", "hit").Inc()
	return posts, true
}

func (fc *FileCache) Set(_ context.Context, window domain.Window, posts []domain.Post) domain.WriteResult {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	doc, err := fc.load()
	if err != nil {
		// A corrupt or missing document is replaced wholesale.
		doc = make(map[domain.Window][]domain.Post)
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	doc[window] = posts

	if err := fc.store(doc); err != nil {
		return domain.WriteResult{Backend: "file", Err: err}
	}
	return domain.WriteResult{Backend: "file"}
}

func (fc *FileCache) load() (map[domain.Window][]domain.Post, error) {
	raw, err := os.ReadFile(fc.FilePath)
	if err != nil {
		return nil, err
	}
	doc := make(map[domain.Window][]domain.Post)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fc.FilePath, err)
	}
	return doc, nil
}

// store writes to a sibling temp file and renames it into place.
func (fc *FileCache) store(doc map[domain.Window][]domain.Post) error {
	if err := os.MkdirAll(filepath.Dir(fc.FilePath), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(fc.FilePath), ".cache-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := json.NewEncoder(f)
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), fc.FilePath)
}
