package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-trends/internal/trends"
)

var (
	triviaFlags  loadFlags
	triviaRounds int
	triviaRand   = trends.DefaultRand
)

var triviaCmd = &cobra.Command{
	Use:   "trivia",
	Short: "Guess which subreddit or keyword is bigger",
	Long: `Play trend trivia on a loaded window. Each round compares two
subreddits by subscribers or two keywords by mentions. Answer 1 or 2.`,
	RunE: runTrivia,
}

func init() {
	rootCmd.AddCommand(triviaCmd)

	triviaFlags.register(triviaCmd)
	triviaCmd.Flags().IntVarP(&triviaRounds, "rounds", "n", 1, "number of questions")
}

func runTrivia(cmd *cobra.Command, args []string) error {
	window, err := triviaFlags.apply()
	if err != nil {
		return err
	}

	sess, closeCache, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer closeCache()

	res, err := sess.Load(cmd.Context(), window, triviaFlags.force)
	if err != nil {
		return fmt.Errorf("loading %s: %w", window, err)
	}
	lb := trends.BuildLeaderboard(res.Posts, trends.DefaultTopK)
	kt := trends.KeywordFrequency(res.Posts)

	printer := newPrinter(cmd)
	in := bufio.NewScanner(cmd.InOrStdin())
	score, answered := 0, 0
	for round := 1; round <= triviaRounds; round++ {
		q, err := trends.RandomQuestion(lb, kt, triviaRand)
		if err != nil {
			return err
		}

		printer.Header(fmt.Sprintf("Question %d: %s", round, q.Prompt(res.Window)))
		printer.Status(fmt.Sprintf("  1) %s\n  2) %s", q.First, q.Second))
		if !in.Scan() {
			break
		}
		answered++

		if q.Check(answerOf(q, in.Text())) {
			score++
			printer.Success("CORRECT!")
		} else {
			printer.Failure("INCORRECT! The answer was " + q.Correct)
		}
	}
	printer.Status(fmt.Sprintf("\nScore: %d/%d", score, answered))
	return in.Err()
}

// answerOf maps "1", "2" or a typed name onto a choice.
func answerOf(q trends.Question, input string) string {
	switch s := strings.TrimSpace(input); s {
	case "1":
		return q.First
	case "2":
		return q.Second
	default:
		name := strings.TrimPrefix(s, "r/")
		for _, c := range []string{q.First, q.Second} {
			if strings.EqualFold(name, c) {
				return c
			}
		}
		return name
	}
}
