package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/metrics"
)

// PageSize is the listing limit sent with every page request.
const PageSize = 100

// DefaultMaxPages matches the ten-page sweep the dashboards use.
const DefaultMaxPages = 10

// Fetcher walks a listing page by page.
type Fetcher struct {
	Source     domain.PageSource
	Normalizer Normalizer
	MaxPages   int
	Logger     *slog.Logger
}

func NewFetcher(src domain.PageSource, n Normalizer, maxPages int) *Fetcher {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Fetcher{Source: src, Normalizer: n, MaxPages: maxPages, Logger: slog.Default()}
}

// FetchAll requests pages sequentially until MaxPages, an empty page or a
// missing cursor. Any page error aborts the run and discards collected posts.
func (f *Fetcher) FetchAll(ctx context.Context, category string, window domain.Window) ([]domain.Post, error) {
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	defer func() {
		metrics.FetchDuration.WithLabelValues(string(window)).Observe(time.Since(start).Seconds())
	}()

	var all []domain.Post
	cursor := ""
	for page := 0; page < f.MaxPages; page++ {
		listing, err := f.Source.FetchPage(ctx, category, window, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d of r/%s (%s): %w", page+1, category, window, err)
		}

		posts := f.Normalizer.NormalizeListing(listing)
		if len(posts) == 0 {
			logger.Debug("Empty page, stopping", "page", page+1, "window", window)
			break
		}
		metrics.PostsNormalized.Add(float64(len(posts)))
		all = append(all, posts...)

		cursor = listing.NextCursor()
		if cursor == "" {
			break
		}
	}

	logger.Info("Fetch complete", "category", category, "window", window, "posts", len(all))
	return all, nil
}
