package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/metrics"
	"golang.org/x/time/rate"
)

// APIClient pages through listings with go-reddit's read-only client.
type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

func NewAPIClient(userAgent string) (*APIClient, error) {
	client, err := reddit.NewReadonlyClient(reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, err
	}

	// API Rate Limit: ~60 reqs/min (safe buffer)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &APIClient{client: client, limiter: limiter}, nil
}

func (ac *APIClient) FetchPage(ctx context.Context, category string, window domain.Window, cursor string) (*domain.Listing, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	posts, resp, err := ac.client.Subreddit.TopPosts(ctx, category, &reddit.ListPostOptions{
		ListOptions: reddit.ListOptions{Limit: PageSize, After: cursor},
		Time:        string(window),
	})
	if err != nil {
		metrics.PagesFetched.WithLabelValues("api", "error").Inc()
		return nil, fmt.Errorf("reddit api error: %w", err)
	}
	metrics.PagesFetched.WithLabelValues("api", "ok").Inc()

	children := make([]domain.Child, 0, len(posts))
	for _, p := range posts {
		children = append(children, domain.Child{Kind: "t3", Data: rawFromPost(p)})
	}
	data := &domain.ListingData{Children: children}
	if resp != nil && resp.After != "" {
		after := resp.After
		data.After = &after
	}
	return &domain.Listing{Kind: "Listing", Data: data}, nil
}

// rawFromPost converts a typed go-reddit post back into the listing schema
// so both sources share one normalizer.
func rawFromPost(p *reddit.Post) *domain.RawPost {
	if p == nil {
		return nil
	}
	raw := &domain.RawPost{
		ID:          p.ID,
		Title:       p.Title,
		Score:       p.Score,
		NumComments: p.NumberOfComments,
		Subreddit:   p.SubredditName,
		Author:      p.Author,
		Permalink:   strings.TrimPrefix(p.Permalink, DefaultBaseURL),
		Over18:      p.NSFW,
	}
	if p.SubredditSubscribers > 0 {
		subs := p.SubredditSubscribers
		raw.SubredditSubscribers = &subs
	}
	if p.Created != nil {
		raw.CreatedUTC = float64(p.Created.Time.Unix())
	}
	return raw
}
