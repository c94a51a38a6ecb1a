package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/metrics"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://www.reddit.com"

// PublicClient reads the unauthenticated top.json listing, optionally through
// a proxy that takes the escaped target URL appended to its prefix.
type PublicClient struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	userAgent   string
	baseURL     string
	proxyPrefix string
}

type PublicOption func(*PublicClient)

func WithBaseURL(u string) PublicOption {
	return func(pc *PublicClient) { pc.baseURL = u }
}

func WithProxy(prefix string) PublicOption {
	return func(pc *PublicClient) { pc.proxyPrefix = prefix }
}

func WithLimiter(l *rate.Limiter) PublicOption {
	return func(pc *PublicClient) { pc.limiter = l }
}

func NewPublicClient(userAgent string, opts ...PublicOption) (*PublicClient, error) {
	pc := &PublicClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// Public JSON Limit: 1 req / 2 seconds (Stricter)
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		userAgent: userAgent,
		baseURL:   DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(pc)
	}
	return pc, nil
}

// PageURL builds the request URL for one page, proxied when a prefix is set.
func (pc *PublicClient) PageURL(category string, window domain.Window, cursor string) string {
	params := url.Values{}
	params.Set("t", string(window))
	params.Set("limit", strconv.Itoa(PageSize))
	if cursor != "" {
		params.Set("after", cursor)
	}
	target := fmt.Sprintf("%s/r/%s/top.json?%s", pc.baseURL, url.PathEscape(category), params.Encode())
	if pc.proxyPrefix == "" {
		return target
	}
	return pc.proxyPrefix + url.QueryEscape(target)
}

func (pc *PublicClient) FetchPage(ctx context.Context, category string, window domain.Window, cursor string) (*domain.Listing, error) {
	if err := pc.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pc.PageURL(category, window, cursor), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", pc.userAgent)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		metrics.PagesFetched.WithLabelValues("public", "error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.PagesFetched.WithLabelValues("public", "error").Inc()
		return nil, fmt.Errorf("reddit request failed: %d", resp.StatusCode)
	}

	var listing domain.Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		metrics.PagesFetched.WithLabelValues("public", "error").Inc()
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	metrics.PagesFetched.WithLabelValues("public", "ok").Inc()
	return &listing, nil
}
