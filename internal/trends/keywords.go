package trends

import (
	"sort"
	"strings"
	"unicode"

	"github.com/qepting91/reddit-trends/internal/domain"
)

// stopWords is the closed list of filler words never counted as keywords.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "if": {}, "then": {}, "else": {},
	"on": {}, "in": {}, "at": {}, "to": {}, "from": {}, "by": {}, "with": {}, "about": {},
	"for": {}, "of": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "they": {}, "we": {},
	"it": {}, "its": {}, "as": {}, "not": {}, "no": {}, "yes": {},
	"my": {}, "your": {}, "our": {}, "their": {},
}

// IsStopWord reports whether w is on the stop-word list.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// Tokenize lowercases title, strips everything but [a-z0-9] and whitespace,
// then keeps words longer than two characters that are not stop words.
func Tokenize(title string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, strings.ToLower(title))

	var out []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 2 || IsStopWord(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// KeywordTable counts keyword occurrences across titles.
type KeywordTable map[string]int

// Add tokenizes title and counts every surviving token, repeats included.
func (kt KeywordTable) Add(title string) {
	for _, w := range Tokenize(title) {
		kt[w]++
	}
}

// KeywordFrequency builds a fresh table from the titles of posts.
func KeywordFrequency(posts []domain.Post) KeywordTable {
	kt := make(KeywordTable)
	for _, p := range posts {
		kt.Add(p.Title)
	}
	return kt
}

// KeywordCount is one row of a ranked keyword list.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Top returns the n most frequent keywords, ties broken alphabetically.
// n <= 0 returns all of them.
func (kt KeywordTable) Top(n int) []KeywordCount {
	out := make([]KeywordCount, 0, len(kt))
	for k, c := range kt {
		out = append(out, KeywordCount{Keyword: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
