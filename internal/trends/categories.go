package trends

import (
	"sort"

	"github.com/qepting91/reddit-trends/internal/domain"
)

// UnknownCategory labels posts that arrived without a subreddit name.
const UnknownCategory = "Unknown"

func categoryOf(p domain.Post) string {
	if p.Category == "" {
		return UnknownCategory
	}
	return p.Category
}

// CategoryStat summarises one category.
type CategoryStat struct {
	Count        int `json:"count"`
	AverageScore int `json:"average_score"`
}

// CategoryStats maps category to its post count and rounded mean score.
type CategoryStats map[string]CategoryStat

func ComputeCategoryStats(posts []domain.Post) CategoryStats {
	type acc struct{ total, count int }
	sums := make(map[string]*acc)
	for _, p := range posts {
		c := categoryOf(p)
		a, ok := sums[c]
		if !ok {
			a = &acc{}
			sums[c] = a
		}
		a.total += p.Score
		a.count++
	}

	stats := make(CategoryStats, len(sums))
	for c, a := range sums {
		stats[c] = CategoryStat{Count: a.count, AverageScore: roundHalfUp(a.total, a.count)}
	}
	return stats
}

// CategoryCount is one bar of the posts-per-category distribution.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Distribution orders categories by post count, descending. Equal counts keep
// the order in which the category was first seen.
func Distribution(posts []domain.Post) []CategoryCount {
	index := make(map[string]int)
	var out []CategoryCount
	for _, p := range posts {
		c := categoryOf(p)
		i, ok := index[c]
		if !ok {
			i = len(out)
			index[c] = i
			out = append(out, CategoryCount{Category: c})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
