package trends

import (
	"sort"

	"github.com/qepting91/reddit-trends/internal/domain"
)

// DefaultTopK is how many posts each category keeps on its leaderboard.
const DefaultTopK = 5

// CategoryBoard is the leaderboard entry for one category.
type CategoryBoard struct {
	Subscribers *int          `json:"subscribers,omitempty"`
	TopPosts    []domain.Post `json:"top_posts"`
}

// Leaderboard maps category to its best posts by score.
type Leaderboard map[string]*CategoryBoard

// Insert appends p to its category, re-sorts by score descending (stable, so
// an equal score ranks below posts already present) and truncates to k.
// Subscribers is last-write-wins over observed sizes only: a non-nil
// CategorySize replaces the recorded count, a nil one leaves it as is.
func (lb Leaderboard) Insert(p domain.Post, k int) {
	if k <= 0 {
		k = DefaultTopK
	}
	c := categoryOf(p)
	b, ok := lb[c]
	if !ok {
		b = &CategoryBoard{}
		lb[c] = b
	}
	if p.CategorySize != nil {
		size := *p.CategorySize
		b.Subscribers = &size
	}

	b.TopPosts = append(b.TopPosts, p)
	sort.SliceStable(b.TopPosts, func(i, j int) bool { return b.TopPosts[i].Score > b.TopPosts[j].Score })
	if len(b.TopPosts) > k {
		b.TopPosts = b.TopPosts[:k]
	}
}

// BuildLeaderboard folds posts in order into a fresh leaderboard.
func BuildLeaderboard(posts []domain.Post, k int) Leaderboard {
	lb := make(Leaderboard)
	for _, p := range posts {
		lb.Insert(p, k)
	}
	return lb
}

// Categories returns the category names sorted by subscriber count descending,
// then by name. Unknown subscriber counts sort last.
func (lb Leaderboard) Categories() []string {
	names := make([]string, 0, len(lb))
	for c := range lb {
		names = append(names, c)
	}
	sort.Slice(names, func(i, j int) bool {
		si, sj := lb[names[i]].Subscribers, lb[names[j]].Subscribers
		switch {
		case si != nil && sj != nil && *si != *sj:
			return *si > *sj
		case si != nil && sj == nil:
			return true
		case si == nil && sj != nil:
			return false
		}
		return names[i] < names[j]
	})
	return names
}
