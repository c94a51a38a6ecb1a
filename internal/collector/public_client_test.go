package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/qepting91/reddit-trends/internal/domain"
)

func newTestPublicClient(t *testing.T, baseURL string, opts ...PublicOption) *PublicClient {
	t.Helper()
	opts = append([]PublicOption{WithBaseURL(baseURL), WithLimiter(rate.NewLimiter(rate.Inf, 1))}, opts...)
	pc, err := NewPublicClient("trends-test/1.0", opts...)
	require.NoError(t, err)
	return pc
}

func TestPublicClient_FetchPage(t *testing.T) {
	var got *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	pc := newTestPublicClient(t, server.URL)
	listing, err := pc.FetchPage(context.Background(), "all", domain.WindowWeek, "t3_prev")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/r/all/top.json", got.URL.Path)
	assert.Equal(t, "week", got.URL.Query().Get("t"))
	assert.Equal(t, "100", got.URL.Query().Get("limit"))
	assert.Equal(t, "t3_prev", got.URL.Query().Get("after"))
	assert.Equal(t, "trends-test/1.0", got.Header.Get("User-Agent"))
	assert.Len(t, listing.Data.Children, 3)
	assert.Equal(t, "t3_ccc", listing.NextCursor())
}

func TestPublicClient_FirstPageOmitsAfter(t *testing.T) {
	var query url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"data":{"children":[]}}`))
	}))
	defer server.Close()

	_, err := newTestPublicClient(t, server.URL).FetchPage(context.Background(), "all", domain.WindowDay, "")

	require.NoError(t, err)
	assert.False(t, query.Has("after"))
}

func TestPublicClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	listing, err := newTestPublicClient(t, server.URL).FetchPage(context.Background(), "all", domain.WindowDay, "")

	assert.Error(t, err)
	assert.Nil(t, listing)
	assert.Contains(t, err.Error(), "reddit request failed: 429")
}

func TestPublicClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	_, err := newTestPublicClient(t, server.URL).FetchPage(context.Background(), "all", domain.WindowDay, "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decode listing")
}

func TestPublicClient_ProxyURL(t *testing.T) {
	pc := newTestPublicClient(t, "https://www.reddit.com", WithProxy("https://proxy.example/?url="))

	u := pc.PageURL("all", domain.WindowMonth, "")

	require.Contains(t, u, "https://proxy.example/?url=")
	parsed, err := url.Parse(u)
	require.NoError(t, err)
	target, err := url.Parse(parsed.Query().Get("url"))
	require.NoError(t, err)
	assert.Equal(t, "www.reddit.com", target.Host)
	assert.Equal(t, "/r/all/top.json", target.Path)
	assert.Equal(t, "month", target.Query().Get("t"))
}

func TestPublicClient_FetchAllAgainstServer(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("after") == "" {
			w.Write([]byte(samplePage))
			return
		}
		w.Write([]byte(`{"data":{"after":null,"children":[]}}`))
	}))
	defer server.Close()

	f := NewFetcher(newTestPublicClient(t, server.URL), Normalizer{FilterRestricted: true}, 5)
	posts, err := f.FetchAll(context.Background(), "all", domain.WindowDay)

	require.NoError(t, err)
	assert.Equal(t, 2, requests)
	assert.Equal(t, []string{"aaa", "ccc"}, ids(posts))
}

func TestPublicClient_FetchAllKeepsPageWithMalformedChild(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(mixedPage))
	}))
	defer server.Close()

	f := NewFetcher(newTestPublicClient(t, server.URL), Normalizer{}, 3)
	posts, err := f.FetchAll(context.Background(), "all", domain.WindowDay)

	require.NoError(t, err)
	assert.Equal(t, []string{"good", "tail"}, ids(posts))
}
