package trends

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/qepting91/reddit-trends/internal/domain"
)

// ErrInsufficientData means the pool has fewer than two distinct candidates.
var ErrInsufficientData = errors.New("need at least two distinct candidates for a question")

// Rand is the subset of *rand.Rand (math/rand/v2) the question generator needs.
type Rand interface {
	IntN(n int) int
}

type QuestionKind string

const (
	KindCategory QuestionKind = "category"
	KindKeyword  QuestionKind = "keyword"
)

// Question is a two-way comparison. Correct is First only when its metric is
// strictly greater; ties and unknown metrics resolve to Second.
type Question struct {
	Kind    QuestionKind `json:"kind"`
	First   string       `json:"first"`
	Second  string       `json:"second"`
	Correct string       `json:"correct"`
}

// Check reports whether choice names the correct answer.
func (q Question) Check(choice string) bool {
	return choice == q.Correct
}

// Prompt phrases the question for window w.
func (q Question) Prompt(w domain.Window) string {
	span := "In the past " + string(w)
	if w == domain.WindowAll {
		span = "Of all time"
	}
	if q.Kind == KindCategory {
		return fmt.Sprintf("%s, which subreddit is more popular?", span)
	}
	return fmt.Sprintf("%s, which keyword is used more frequently?", span)
}

// drawPair picks two different indexes in [0, n) uniformly.
func drawPair(n int, r Rand) (int, int) {
	i := r.IntN(n)
	j := r.IntN(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// CategoryQuestion compares the subscriber counts of two observed categories.
func CategoryQuestion(lb Leaderboard, r Rand) (Question, error) {
	names := make([]string, 0, len(lb))
	for c := range lb {
		names = append(names, c)
	}
	if len(names) < 2 {
		return Question{}, fmt.Errorf("category question: %w", ErrInsufficientData)
	}
	sort.Strings(names)

	i, j := drawPair(len(names), r)
	q := Question{Kind: KindCategory, First: names[i], Second: names[j], Correct: names[j]}
	a, b := lb[q.First].Subscribers, lb[q.Second].Subscribers
	if a != nil && b != nil && *a > *b {
		q.Correct = q.First
	}
	return q, nil
}

// KeywordQuestion compares the frequencies of two keywords.
func KeywordQuestion(kt KeywordTable, r Rand) (Question, error) {
	words := make([]string, 0, len(kt))
	for w := range kt {
		words = append(words, w)
	}
	if len(words) < 2 {
		return Question{}, fmt.Errorf("keyword question: %w", ErrInsufficientData)
	}
	sort.Strings(words)

	i, j := drawPair(len(words), r)
	q := Question{Kind: KindKeyword, First: words[i], Second: words[j], Correct: words[j]}
	if kt[q.First] > kt[q.Second] {
		q.Correct = q.First
	}
	return q, nil
}

// RandomQuestion flips a coin between the two kinds and falls back to the
// other kind when the chosen pool is too small.
func RandomQuestion(lb Leaderboard, kt KeywordTable, r Rand) (Question, error) {
	first, second := KindCategory, KindKeyword
	if r.IntN(2) == 1 {
		first, second = second, first
	}

	q, err := questionOf(first, lb, kt, r)
	if errors.Is(err, ErrInsufficientData) {
		q, err = questionOf(second, lb, kt, r)
	}
	return q, err
}

func questionOf(kind QuestionKind, lb Leaderboard, kt KeywordTable, r Rand) (Question, error) {
	if kind == KindCategory {
		return CategoryQuestion(lb, r)
	}
	return KeywordQuestion(kt, r)
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand draws from math/rand/v2's global source, safe for concurrent use.
var DefaultRand Rand = globalRand{}
