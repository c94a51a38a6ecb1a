package collector

import (
	"fmt"
	"time"

	"github.com/qepting91/reddit-trends/internal/config"
	"github.com/qepting91/reddit-trends/internal/domain"
)

// NewSource selects the correct page source based on the collector mode
func NewSource(cfg *config.Config) (domain.PageSource, error) {
	switch cfg.CollectorMode {
	case "api":
		return NewAPIClient(cfg.UserAgent)
	case "public":
		if cfg.UserAgent == "" {
			return nil, fmt.Errorf("REDDIT_USER_AGENT is required for public mode")
		}
		return NewPublicClient(cfg.UserAgent, WithBaseURL(cfg.BaseURL), WithProxy(cfg.CorsProxy))
	case "mock":
		return NewMockClient(cfg.MaxPages, time.Duration(cfg.MockLatencyMS)*time.Millisecond), nil
	default:
		return nil, fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", cfg.CollectorMode)
	}
}

// NewFetcherFromConfig wires the configured source, filter and page limit.
func NewFetcherFromConfig(cfg *config.Config) (*Fetcher, error) {
	src, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}
	return NewFetcher(src, Normalizer{FilterRestricted: cfg.FilterNSFW}, cfg.MaxPages), nil
}
