package collector

import (
	"errors"
	"fmt"
	"math"

	"github.com/qepting91/reddit-trends/internal/domain"
)

// PermalinkOrigin is prepended to the relative permalink of every post.
const PermalinkOrigin = "https://reddit.com"

var (
	ErrRestricted      = errors.New("post is flagged over_18")
	ErrMalformedRecord = errors.New("listing child has no usable data payload")
)

// Normalizer turns listing children into domain posts.
type Normalizer struct {
	// FilterRestricted drops over_18 posts instead of passing them through.
	FilterRestricted bool
}

// Normalize maps one listing child. A rejected child returns one of the
// package sentinel errors and a zero Post.
func (n Normalizer) Normalize(c domain.Child) (domain.Post, error) {
	if c.DecodeErr != nil {
		return domain.Post{}, fmt.Errorf("%w: %v", ErrMalformedRecord, c.DecodeErr)
	}
	d := c.Data
	if d == nil {
		return domain.Post{}, ErrMalformedRecord
	}
	if n.FilterRestricted && d.Over18 {
		return domain.Post{}, ErrRestricted
	}

	p := domain.Post{
		ID:           d.ID,
		Title:        d.Title,
		Score:        d.Score,
		CommentCount: d.NumComments,
		Category:     d.Subreddit,
		Author:       d.Author,
		CreatedAt:    int64(math.Floor(d.CreatedUTC)),
		Restricted:   d.Over18,
	}
	if d.SubredditSubscribers != nil {
		size := *d.SubredditSubscribers
		p.CategorySize = &size
	}
	if d.Permalink != "" {
		p.Permalink = PermalinkOrigin + d.Permalink
	}
	return p, nil
}

// NormalizeListing maps every accepted child of a page, keeping page order.
// A listing without its data or children container yields no posts.
func (n Normalizer) NormalizeListing(l *domain.Listing) []domain.Post {
	if l == nil || l.Data == nil || len(l.Data.Children) == 0 {
		return nil
	}
	posts := make([]domain.Post, 0, len(l.Data.Children))
	for _, c := range l.Data.Children {
		p, err := n.Normalize(c)
		if err != nil {
			continue
		}
		posts = append(posts, p)
	}
	return posts
}
