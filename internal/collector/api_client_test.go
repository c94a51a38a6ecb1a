package collector

import (
	"context"
	"testing"
	"time"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/reddit-trends/internal/domain"
)

func TestRawFromPost(t *testing.T) {
	created := time.Unix(1700000000, 0)
	p := &reddit.Post{
		ID:                   "abc",
		Title:                "Typed post",
		Score:                42,
		NumberOfComments:     7,
		SubredditName:        "golang",
		SubredditSubscribers: 1234,
		Author:               "gopher",
		Permalink:            "/r/golang/comments/abc/typed_post/",
		NSFW:                 true,
		Created:              &reddit.Timestamp{Time: created},
	}

	raw := rawFromPost(p)
	require.NotNil(t, raw)

	post, err := Normalizer{}.Normalize(domain.Child{Data: raw})
	require.NoError(t, err)
	assert.Equal(t, "abc", post.ID)
	assert.Equal(t, 42, post.Score)
	assert.Equal(t, 7, post.CommentCount)
	assert.Equal(t, "golang", post.Category)
	require.NotNil(t, post.CategorySize)
	assert.Equal(t, 1234, *post.CategorySize)
	assert.Equal(t, int64(1700000000), post.CreatedAt)
	assert.Equal(t, "https://reddit.com/r/golang/comments/abc/typed_post/", post.Permalink)
	assert.True(t, post.Restricted)
}

func TestRawFromPost_AbsoluteAndMissing(t *testing.T) {
	raw := rawFromPost(&reddit.Post{ID: "x", Permalink: "https://www.reddit.com/r/pics/comments/x/"})
	assert.Equal(t, "/r/pics/comments/x/", raw.Permalink)
	assert.Nil(t, raw.SubredditSubscribers)
	assert.Zero(t, raw.CreatedUTC)

	assert.Nil(t, rawFromPost(nil))
}

func TestMockClient_Paginates(t *testing.T) {
	f := NewFetcher(NewMockClient(3, 0), Normalizer{}, 10)

	posts, err := f.FetchAll(context.Background(), "all", domain.WindowDay)

	require.NoError(t, err)
	assert.Len(t, posts, 3*PageSize)
	assert.Equal(t, "mock_all_0_0", posts[0].ID)
	assert.Equal(t, "mock_all_2_99", posts[len(posts)-1].ID)
}

func TestMockClient_BadCursor(t *testing.T) {
	_, err := NewMockClient(2, 0).FetchPage(context.Background(), "all", domain.WindowDay, "t3_zzz")
	assert.Error(t, err)
}
