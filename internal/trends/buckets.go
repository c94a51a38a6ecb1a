package trends

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/qepting91/reddit-trends/internal/domain"
)

// Granularity selects the width of a time bucket.
type Granularity int

const (
	Daily Granularity = iota
	Hourly
)

const (
	dayLayout  = "2006-01-02"
	hourLayout = "2006-01-02 15:00"
)

// GranularityFor buckets by hour for the finest window and by day otherwise.
func GranularityFor(w domain.Window) Granularity {
	if w == domain.WindowDay {
		return Hourly
	}
	return Daily
}

func (g Granularity) String() string {
	if g == Hourly {
		return "hour"
	}
	return "day"
}

// BucketKey formats createdAt (unix seconds) in the calendar of loc.
// A nil loc means time.Local.
func BucketKey(createdAt int64, g Granularity, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(createdAt, 0).In(loc)
	if g == Hourly {
		return t.Format(hourLayout)
	}
	return t.Format(dayLayout)
}

// BucketCount is one row of a time series.
type BucketCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// BucketCounts counts posts per bucket. Empty buckets are absent and keys
// come back in ascending order.
func BucketCounts(posts []domain.Post, g Granularity, loc *time.Location) []BucketCount {
	counts := make(map[string]int)
	for _, p := range posts {
		counts[BucketKey(p.CreatedAt, g, loc)]++
	}
	out := make([]BucketCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, BucketCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// TrendPoint tracks one keyword within a bucket.
type TrendPoint struct {
	Key      string  `json:"key"`
	Mentions int     `json:"mentions"`
	Total    int     `json:"total"`
	Percent  float64 `json:"percent"`
}

// KeywordTrend counts, per bucket, posts whose lowercased title contains
// keyword, alongside that bucket's share of all posts rounded to two decimals.
func KeywordTrend(posts []domain.Post, keyword string, g Granularity, loc *time.Location) []TrendPoint {
	needle := strings.ToLower(keyword)
	points := make(map[string]*TrendPoint)
	for _, p := range posts {
		key := BucketKey(p.CreatedAt, g, loc)
		tp, ok := points[key]
		if !ok {
			tp = &TrendPoint{Key: key}
			points[key] = tp
		}
		tp.Total++
		if strings.Contains(strings.ToLower(p.Title), needle) {
			tp.Mentions++
		}
	}

	out := make([]TrendPoint, 0, len(points))
	for _, tp := range points {
		tp.Percent = math.Round(float64(tp.Mentions)/float64(tp.Total)*10000) / 100
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ScorePoint is the rounded mean score of one bucket.
type ScorePoint struct {
	Key          string `json:"key"`
	AverageScore int    `json:"average_score"`
}

// AverageScoreByBucket averages scores per bucket, ascending by key.
func AverageScoreByBucket(posts []domain.Post, g Granularity, loc *time.Location) []ScorePoint {
	type acc struct{ total, count int }
	sums := make(map[string]*acc)
	for _, p := range posts {
		key := BucketKey(p.CreatedAt, g, loc)
		a, ok := sums[key]
		if !ok {
			a = &acc{}
			sums[key] = a
		}
		a.total += p.Score
		a.count++
	}

	out := make([]ScorePoint, 0, len(sums))
	for k, a := range sums {
		out = append(out, ScorePoint{Key: k, AverageScore: roundHalfUp(a.total, a.count)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// roundHalfUp divides and rounds .5 toward positive infinity.
func roundHalfUp(total, count int) int {
	return int(math.Floor(float64(total)/float64(count) + 0.5))
}
