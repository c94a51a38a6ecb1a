package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/storage"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, call int) ([]domain.Post, error)
}

func (f *fakeFetcher) FetchAll(ctx context.Context, _ string, _ domain.Window) ([]domain.Post, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	return f.fn(ctx, n)
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type failingCache struct{ gets int }

func (c *failingCache) Get(context.Context, domain.Window) ([]domain.Post, bool) {
	c.gets++
	return nil, false
}

func (c *failingCache) Set(context.Context, domain.Window, []domain.Post) domain.WriteResult {
	return domain.WriteResult{Backend: "broken", Err: errors.New("quota exceeded")}
}

func posts(ids ...string) []domain.Post {
	out := make([]domain.Post, len(ids))
	for i, id := range ids {
		out[i] = domain.Post{ID: id, Category: "all"}
	}
	return out
}

func newMemoryCache(t *testing.T) *storage.MemoryCache {
	t.Helper()
	mc, err := storage.NewMemoryCache()
	require.NoError(t, err)
	return mc
}

func TestLoad_MissFetchesAndCaches(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))
	f := &fakeFetcher{fn: func(context.Context, int) ([]domain.Post, error) { return posts("a", "b"), nil }}
	cache := newMemoryCache(t)
	s := New(f, cache, "all", WithClock(clock))

	res, err := s.Load(context.Background(), domain.WindowMonth, false)

	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, "Loaded 2 posts successfully", res.Status())
	assert.Equal(t, clock.Now(), res.LoadedAt)
	assert.NotEmpty(t, res.RunID)

	cached, ok := cache.Get(context.Background(), domain.WindowMonth)
	require.True(t, ok)
	assert.Equal(t, posts("a", "b"), cached)
}

func TestLoad_HitSkipsFetch(t *testing.T) {
	f := &fakeFetcher{fn: func(context.Context, int) ([]domain.Post, error) { return posts("fresh"), nil }}
	cache := newMemoryCache(t)
	cache.Set(context.Background(), domain.WindowDay, posts("cached"))
	s := New(f, cache, "all")

	res, err := s.Load(context.Background(), domain.WindowDay, false)

	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, "Loaded 1 posts from cache", res.Status())
	assert.Equal(t, 0, f.Calls())
}

func TestLoad_ForceBypassesCache(t *testing.T) {
	f := &fakeFetcher{fn: func(context.Context, int) ([]domain.Post, error) { return posts("fresh"), nil }}
	cache := newMemoryCache(t)
	cache.Set(context.Background(), domain.WindowDay, posts("cached"))
	s := New(f, cache, "all")

	res, err := s.Load(context.Background(), domain.WindowDay, true)

	require.NoError(t, err)
	assert.Equal(t, "fresh", res.Posts[0].ID)
	got, _ := cache.Get(context.Background(), domain.WindowDay)
	assert.Equal(t, "fresh", got[0].ID)
}

func TestLoad_FetchFailureLeavesCacheUntouched(t *testing.T) {
	f := &fakeFetcher{fn: func(context.Context, int) ([]domain.Post, error) {
		return nil, errors.New("reddit request failed: 500")
	}}
	cache := newMemoryCache(t)
	cache.Set(context.Background(), domain.WindowWeek, posts("old"))
	s := New(f, cache, "all")

	res, err := s.Load(context.Background(), domain.WindowWeek, true)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "Error: reddit request failed: 500", ErrorStatus(err))
	got, ok := cache.Get(context.Background(), domain.WindowWeek)
	require.True(t, ok)
	assert.Equal(t, "old", got[0].ID)
}

func TestLoad_CacheWriteFailureIsSwallowed(t *testing.T) {
	f := &fakeFetcher{fn: func(context.Context, int) ([]domain.Post, error) { return posts("x"), nil }}
	cache := &failingCache{}
	s := New(f, cache, "all")

	res, err := s.Load(context.Background(), domain.WindowAll, false)

	require.NoError(t, err)
	assert.Len(t, res.Posts, 1)
	assert.Equal(t, 1, cache.gets)
}

func TestLoad_NewerFetchSupersedesOlder(t *testing.T) {
	started := make(chan struct{})
	f := &fakeFetcher{fn: func(ctx context.Context, call int) ([]domain.Post, error) {
		if call == 1 {
			close(started)
			<-ctx.Done()
			return posts("stale"), nil
		}
		return posts("fresh"), nil
	}}
	cache := newMemoryCache(t)
	s := New(f, cache, "all")

	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Load(context.Background(), domain.WindowDay, true)
		firstErr <- err
	}()
	<-started

	res, err := s.Load(context.Background(), domain.WindowDay, true)
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.Posts[0].ID)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded load never returned")
	}

	got, ok := cache.Get(context.Background(), domain.WindowDay)
	require.True(t, ok)
	assert.Equal(t, "fresh", got[0].ID)
}

func TestLoad_WindowsDoNotCancelEachOther(t *testing.T) {
	f := &fakeFetcher{fn: func(ctx context.Context, _ int) ([]domain.Post, error) {
		return posts("p"), ctx.Err()
	}}
	s := New(f, newMemoryCache(t), "all")

	_, err := s.Load(context.Background(), domain.WindowDay, true)
	require.NoError(t, err)
	_, err = s.Load(context.Background(), domain.WindowWeek, true)
	require.NoError(t, err)
	assert.Equal(t, "all", s.Category())
}

func TestLoad_ConcurrentColdLoadsShareOneFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := &fakeFetcher{fn: func(_ context.Context, call int) ([]domain.Post, error) {
		if call == 1 {
			close(started)
			<-release
			return posts("shared"), nil
		}
		return posts("duplicate"), nil
	}}
	s := New(f, newMemoryCache(t), "all")

	type outcome struct {
		res *Result
		err error
	}
	results := make(chan outcome, 2)
	load := func() {
		res, err := s.Load(context.Background(), domain.WindowMonth, false)
		results <- outcome{res, err}
	}

	go load()
	<-started
	go load()
	time.Sleep(20 * time.Millisecond)
	close(release)

	for i := 0; i < 2; i++ {
		select {
		case o := <-results:
			require.NoError(t, o.err)
			assert.Equal(t, "shared", o.res.Posts[0].ID)
		case <-time.After(5 * time.Second):
			t.Fatal("load never returned")
		}
	}
	assert.Equal(t, 1, f.Calls())
}

func TestLoad_JoinedLoadFollowsRefresh(t *testing.T) {
	started := make(chan struct{})
	f := &fakeFetcher{fn: func(ctx context.Context, call int) ([]domain.Post, error) {
		if call == 1 {
			close(started)
			<-ctx.Done()
			return posts("stale"), nil
		}
		return posts("fresh"), nil
	}}
	s := New(f, newMemoryCache(t), "all")

	first := make(chan error, 1)
	go func() {
		_, err := s.Load(context.Background(), domain.WindowWeek, false)
		first <- err
	}()
	<-started

	type outcome struct {
		res *Result
		err error
	}
	joined := make(chan outcome, 1)
	go func() {
		res, err := s.Load(context.Background(), domain.WindowWeek, false)
		joined <- outcome{res, err}
	}()
	time.Sleep(20 * time.Millisecond)

	res, err := s.Load(context.Background(), domain.WindowWeek, true)
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.Posts[0].ID)

	select {
	case err := <-first:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded load never returned")
	}
	select {
	case o := <-joined:
		require.NoError(t, o.err)
		assert.Equal(t, "fresh", o.res.Posts[0].ID)
	case <-time.After(5 * time.Second):
		t.Fatal("joined load never returned")
	}
	assert.Equal(t, 2, f.Calls())
}
