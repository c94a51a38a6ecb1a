package domain

import (
	"context"
	"encoding/json"
	"fmt"
)

// Window is the coarse recency filter requested from the listing source.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// Windows lists every supported window label, finest first.
var Windows = []Window{WindowDay, WindowWeek, WindowMonth, WindowAll}

// ParseWindow validates a window label coming from a flag or query string.
func ParseWindow(s string) (Window, error) {
	for _, w := range Windows {
		if string(w) == s {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown window %q (use day, week, month or all)", s)
}

// Post is the clean data structure produced by the normalizer
type Post struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Score        int    `json:"score"`
	CommentCount int    `json:"comments"`
	Category     string `json:"subreddit"`
	CategorySize *int   `json:"subreddit_subscribers,omitempty"`
	Author       string `json:"author"`
	CreatedAt    int64  `json:"created_utc"`
	Permalink    string `json:"url,omitempty"`
	Restricted   bool   `json:"nsfw"`
}

// Listing mirrors the listing envelope returned by /r/{sub}/top.json.
// Every container is a pointer so a missing field decodes as nil instead of failing.
type Listing struct {
	Kind string       `json:"kind"`
	Data *ListingData `json:"data"`
}

type ListingData struct {
	After    *string `json:"after"`
	Children []Child `json:"children"`
}

type Child struct {
	Kind string   `json:"kind"`
	Data *RawPost `json:"data"`

	// DecodeErr is set when the data payload was present but did not fit
	// RawPost. Data is nil in that case.
	DecodeErr error `json:"-"`
}

// UnmarshalJSON decodes the data payload on its own so one bad child does not
// fail the whole page.
func (c *Child) UnmarshalJSON(b []byte) error {
	var raw struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		*c = Child{DecodeErr: err}
		return nil
	}
	*c = Child{Kind: raw.Kind}
	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil
	}
	var d RawPost
	if err := json.Unmarshal(raw.Data, &d); err != nil {
		c.DecodeErr = err
		return nil
	}
	c.Data = &d
	return nil
}

// RawPost holds the subset of link fields the normalizer reads.
type RawPost struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Score                int     `json:"score"`
	NumComments          int     `json:"num_comments"`
	Subreddit            string  `json:"subreddit"`
	SubredditSubscribers *int    `json:"subreddit_subscribers"`
	Author               string  `json:"author"`
	CreatedUTC           float64 `json:"created_utc"`
	Permalink            string  `json:"permalink"`
	Over18               bool    `json:"over_18"`
}

// NextCursor returns the continuation token, or "" when the listing has none.
func (l *Listing) NextCursor() string {
	if l == nil || l.Data == nil || l.Data.After == nil {
		return ""
	}
	return *l.Data.After
}

// PageSource defines the interface for fetching one page of a listing.
// An empty cursor requests the first page.
type PageSource interface {
	FetchPage(ctx context.Context, category string, window Window, cursor string) (*Listing, error)
}
