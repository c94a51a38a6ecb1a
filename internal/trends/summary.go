package trends

import (
	"time"

	"github.com/qepting91/reddit-trends/internal/domain"
)

// Summary bundles every view for one post sequence and window.
type Summary struct {
	Window       domain.Window   `json:"window"`
	Granularity  string          `json:"granularity"`
	Total        int             `json:"total"`
	Buckets      []BucketCount   `json:"buckets"`
	Scores       []ScorePoint    `json:"scores"`
	Categories   CategoryStats   `json:"categories"`
	Distribution []CategoryCount `json:"distribution"`
	Leaderboard  Leaderboard     `json:"leaderboard"`
	Keywords     KeywordTable    `json:"-"`
	TopKeywords  []KeywordCount  `json:"top_keywords"`
}

// Summarize computes all views. Average score is always bucketed by day.
func Summarize(posts []domain.Post, w domain.Window, topK int, loc *time.Location) *Summary {
	g := GranularityFor(w)
	kt := KeywordFrequency(posts)
	return &Summary{
		Window:       w,
		Granularity:  g.String(),
		Total:        len(posts),
		Buckets:      BucketCounts(posts, g, loc),
		Scores:       AverageScoreByBucket(posts, Daily, loc),
		Categories:   ComputeCategoryStats(posts),
		Distribution: Distribution(posts),
		Leaderboard:  BuildLeaderboard(posts, topK),
		Keywords:     kt,
		TopKeywords:  kt.Top(20),
	}
}
