package collector

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/metrics"
)

var mockCategories = []string{"technology", "worldnews", "gaming", "science", "pics"}

// MockClient implements domain.PageSource but returns fake listings
type MockClient struct {
	Pages   int
	Latency time.Duration
}

func NewMockClient(pages int, latency time.Duration) *MockClient {
	return &MockClient{Pages: pages, Latency: latency}
}

func (mc *MockClient) FetchPage(ctx context.Context, category string, window domain.Window, cursor string) (*domain.Listing, error) {
	// Simulate network latency (nice for testing concurrency)
	if mc.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(mc.Latency):
		}
	}

	page := 0
	if cursor != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(cursor, "mock_"))
		if err != nil || !strings.HasPrefix(cursor, "mock_") {
			return nil, fmt.Errorf("bad mock cursor %q", cursor)
		}
		page = n
	}
	metrics.PagesFetched.WithLabelValues("mock", "ok").Inc()

	now := time.Now().Unix()
	children := make([]domain.Child, 0, PageSize)
	for i := 0; i < PageSize; i++ {
		sub := mockCategories[rand.Intn(len(mockCategories))]
		subs := 1000 * (len(sub) + 1)
		children = append(children, domain.Child{Kind: "t3", Data: &domain.RawPost{
			ID:                   fmt.Sprintf("mock_%s_%d_%d", category, page, i),
			Title:                fmt.Sprintf("[%s] Simulated trending story #%d about %s", sub, i, window),
			Score:                rand.Intn(5000),
			NumComments:          rand.Intn(500),
			Subreddit:            sub,
			SubredditSubscribers: &subs,
			Author:               "simulated_user",
			CreatedUTC:           float64(now - int64(rand.Intn(86400))),
			Permalink:            fmt.Sprintf("/r/%s/comments/mock%d_%d/", sub, page, i),
		}})
	}

	data := &domain.ListingData{Children: children}
	if page+1 < mc.Pages {
		next := fmt.Sprintf("mock_%d", page+1)
		data.After = &next
	}
	return &domain.Listing{Kind: "Listing", Data: data}, nil
}
