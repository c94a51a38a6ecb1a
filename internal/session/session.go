// Package session owns the load lifecycle: cache lookup, fetch on miss,
// cache write, and cancellation of superseded fetches.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/metrics"
)

// ErrSuperseded is returned by a fetch that a newer fetch of the same window
// replaced before it finished. Its posts are dropped and never cached.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

// Fetcher is the paginated fetch capability, satisfied by *collector.Fetcher.
type Fetcher interface {
	FetchAll(ctx context.Context, category string, window domain.Window) ([]domain.Post, error)
}

// Result is one loaded post sequence.
type Result struct {
	RunID     string
	Window    domain.Window
	Posts     []domain.Post
	FromCache bool
	LoadedAt  time.Time
}

// Status is the short line shown to the user after a load.
func (r *Result) Status() string {
	if r.FromCache {
		return fmt.Sprintf("Loaded %d posts from cache", len(r.Posts))
	}
	return fmt.Sprintf("Loaded %d posts successfully", len(r.Posts))
}

// ErrorStatus formats a failed load for display.
func ErrorStatus(err error) string {
	return "Error: " + err.Error()
}

// inflight is one running fetch. done closes once posts and err are final.
type inflight struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	posts  []domain.Post
	err    error
}

type Session struct {
	fetcher  Fetcher
	cache    domain.PostCache
	category string
	clock    clockwork.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	gen     uint64
	running map[domain.Window]*inflight
}

type Option func(*Session)

func WithClock(c clockwork.Clock) Option {
	return func(s *Session) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func New(f Fetcher, cache domain.PostCache, category string, opts ...Option) *Session {
	s := &Session{
		fetcher:  f,
		cache:    cache,
		category: category,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
		running:  make(map[domain.Window]*inflight),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns cached posts for window unless force is set or the cache
// misses. On a miss it joins a fetch of the same window already in flight,
// or starts one. A forced load always starts a new fetch and cancels any
// fetch of the same window still running. A joined fetch runs under the
// context of the load that started it.
func (s *Session) Load(ctx context.Context, window domain.Window, force bool) (*Result, error) {
	runID := uuid.NewString()
	logger := s.logger.With("run_id", runID, "window", window)

	// The lookup shares the lock with the cache write so a load can never
	// miss both a finished fetch and its cached result.
	s.mu.Lock()
	if !force {
		if posts, ok := s.cache.Get(ctx, window); ok {
			s.mu.Unlock()
			logger.Info("Using cached data", "posts", len(posts))
			return &Result{RunID: runID, Window: window, Posts: posts, FromCache: true, LoadedAt: s.clock.Now()}, nil
		}
		if cur, ok := s.running[window]; ok {
			s.mu.Unlock()
			logger.Info("Joining in-flight fetch")
			return s.wait(ctx, cur, runID, window)
		}
	}
	run := s.begin(ctx, window)
	s.mu.Unlock()

	logger.Info("Fetching listing", "category", s.category)
	posts, err := s.fetcher.FetchAll(run.ctx, s.category, window)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(run.done)
	if cur, ok := s.running[window]; !ok || cur.gen != run.gen {
		logger.Info("Discarding superseded fetch")
		run.err = ErrSuperseded
		return nil, ErrSuperseded
	}
	run.cancel()
	delete(s.running, window)

	if err != nil {
		logger.Error("Fetch failed", "err", err)
		run.err = err
		return nil, err
	}

	// Written under the lock so an older run can never overwrite a newer one.
	if res := s.cache.Set(ctx, window, posts); !res.OK() {
		metrics.CacheWriteFailures.WithLabelValues(res.Backend).Inc()
		logger.Warn("Failed to cache data", "backend", res.Backend, "err", res.Err)
	}
	run.posts = posts
	return &Result{RunID: runID, Window: window, Posts: posts, LoadedAt: s.clock.Now()}, nil
}

type started struct {
	*inflight
	ctx context.Context
}

// begin registers a new fetch for window, cancelling the previous one.
// Callers hold s.mu.
func (s *Session) begin(ctx context.Context, window domain.Window) started {
	if prev, ok := s.running[window]; ok {
		prev.cancel()
	}
	s.gen++
	fetchCtx, cancel := context.WithCancel(ctx)
	run := &inflight{gen: s.gen, cancel: cancel, done: make(chan struct{})}
	s.running[window] = run
	return started{inflight: run, ctx: fetchCtx}
}

// wait blocks until run settles. When run was superseded it follows the
// newer fetch of the same window, or reads what that fetch cached.
func (s *Session) wait(ctx context.Context, run *inflight, runID string, window domain.Window) (*Result, error) {
	for {
		select {
		case <-run.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if !errors.Is(run.err, ErrSuperseded) {
			break
		}
		s.mu.Lock()
		next, ok := s.running[window]
		s.mu.Unlock()
		if !ok {
			if posts, hit := s.cache.Get(ctx, window); hit {
				return &Result{RunID: runID, Window: window, Posts: posts, FromCache: true, LoadedAt: s.clock.Now()}, nil
			}
			return nil, ErrSuperseded
		}
		run = next
	}
	if run.err != nil {
		return nil, run.err
	}
	return &Result{RunID: runID, Window: window, Posts: run.posts, LoadedAt: s.clock.Now()}, nil
}

// Category is the subreddit every load targets.
func (s *Session) Category() string { return s.category }
