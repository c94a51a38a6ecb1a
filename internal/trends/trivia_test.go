package trends

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qepting91/reddit-trends/internal/domain"
)

// scriptedRand returns its values in order, each reduced modulo n.
type scriptedRand struct {
	values []int
	next   int
}

func (s *scriptedRand) IntN(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

func TestCategoryQuestion_LargerSubscribersWins(t *testing.T) {
	lb := BuildLeaderboard([]domain.Post{
		{Category: "big", CategorySize: intPtr(900)},
		{Category: "small", CategorySize: intPtr(10)},
	}, DefaultTopK)

	// sorted pool: [big, small]; draws 0 then 0 -> second index skips to 1
	q, err := CategoryQuestion(lb, &scriptedRand{values: []int{0, 0}})
	require.NoError(t, err)
	assert.Equal(t, Question{Kind: KindCategory, First: "big", Second: "small", Correct: "big"}, q)

	q, err = CategoryQuestion(lb, &scriptedRand{values: []int{1, 0}})
	require.NoError(t, err)
	assert.Equal(t, "small", q.First)
	assert.Equal(t, "big", q.Second)
	assert.Equal(t, "big", q.Correct)
}

func TestCategoryQuestion_TieAndUnknownPickSecond(t *testing.T) {
	lb := BuildLeaderboard([]domain.Post{
		{Category: "a", CategorySize: intPtr(50)},
		{Category: "b", CategorySize: intPtr(50)},
		{Category: "c"},
	}, DefaultTopK)

	q, err := CategoryQuestion(lb, &scriptedRand{values: []int{0, 0}})
	require.NoError(t, err)
	assert.Equal(t, "a", q.First)
	assert.Equal(t, "b", q.Second)
	assert.Equal(t, "b", q.Correct)

	// a vs c: c has no subscriber count, so a is not strictly greater
	q, err = CategoryQuestion(lb, &scriptedRand{values: []int{0, 1}})
	require.NoError(t, err)
	assert.Equal(t, "c", q.Second)
	assert.Equal(t, "c", q.Correct)
}

func TestKeywordQuestion(t *testing.T) {
	kt := KeywordTable{"alpha": 4, "beta": 4, "gamma": 9}

	q, err := KeywordQuestion(kt, &scriptedRand{values: []int{2, 0}})
	require.NoError(t, err)
	assert.Equal(t, Question{Kind: KindKeyword, First: "gamma", Second: "alpha", Correct: "gamma"}, q)

	q, err = KeywordQuestion(kt, &scriptedRand{values: []int{0, 0}})
	require.NoError(t, err)
	assert.Equal(t, "beta", q.Second)
	assert.Equal(t, "beta", q.Correct, "ties resolve to the second element")
}

func TestQuestions_InsufficientData(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	_, err := CategoryQuestion(BuildLeaderboard([]domain.Post{{Category: "only"}, {Category: "only"}}, DefaultTopK), r)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = KeywordQuestion(KeywordTable{"lonely": 3}, r)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = RandomQuestion(Leaderboard{}, KeywordTable{}, r)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestRandomQuestion_FallsBackToOtherKind(t *testing.T) {
	kt := KeywordTable{"one": 1, "two": 2}

	// coin says category first; pool is empty so keyword is used
	q, err := RandomQuestion(Leaderboard{}, kt, &scriptedRand{values: []int{0, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, KindKeyword, q.Kind)
}

func TestRandomQuestion_AlwaysDistinct(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	lb := BuildLeaderboard([]domain.Post{
		{Category: "a", CategorySize: intPtr(1)},
		{Category: "b", CategorySize: intPtr(2)},
		{Category: "c", CategorySize: intPtr(3)},
	}, DefaultTopK)
	kt := KeywordTable{"x": 1, "y": 2, "z": 3}

	for i := 0; i < 200; i++ {
		q, err := RandomQuestion(lb, kt, r)
		require.NoError(t, err)
		assert.NotEqual(t, q.First, q.Second)
		assert.True(t, q.Check(q.Correct))
		assert.Contains(t, []string{q.First, q.Second}, q.Correct)
	}
}

func TestQuestion_Prompt(t *testing.T) {
	assert.Equal(t, "In the past month, which subreddit is more popular?",
		Question{Kind: KindCategory}.Prompt(domain.WindowMonth))
	assert.Equal(t, "Of all time, which keyword is used more frequently?",
		Question{Kind: KindKeyword}.Prompt(domain.WindowAll))
}
