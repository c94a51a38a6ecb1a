package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-trends/internal/output"
	"github.com/qepting91/reddit-trends/internal/trends"
)

var (
	fetchFlags    loadFlags
	fetchJSON     bool
	fetchTopWords int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a window and print its summary",
	Long: `Load the top posts for a window, from cache when possible, and print
per-subreddit stats, the top keywords and the leaderboard.

Examples:
  trendviz fetch                       # Past month of r/all
  trendviz fetch -w day -c golang      # Past day of r/golang, hourly buckets
  trendviz fetch --force --pages 3     # Refetch three pages, bypassing the cache
  trendviz fetch --json                # Emit the summary as JSON`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchFlags.register(fetchCmd)
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "output the summary as JSON")
	fetchCmd.Flags().IntVar(&fetchTopWords, "keywords", 10, "number of keywords to list")
}

func runFetch(cmd *cobra.Command, args []string) error {
	window, err := fetchFlags.apply()
	if err != nil {
		return err
	}

	sess, closeCache, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer closeCache()

	res, err := sess.Load(cmd.Context(), window, fetchFlags.force)
	if err != nil {
		return fmt.Errorf("loading %s: %w", window, err)
	}
	sum := trends.Summarize(res.Posts, res.Window, trends.DefaultTopK, time.Local)

	if fetchJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	printer := newPrinter(cmd)
	printer.Header(fmt.Sprintf("r/%s top posts (%s)", sess.Category(), res.Window))
	printer.Success(res.Status())
	return printSummary(printer, sum, fetchTopWords)
}

func printSummary(printer *output.Printer, sum *trends.Summary, topWords int) error {
	printer.Header("Posts per " + sum.Granularity)
	buckets := printer.Table([]string{"BUCKET", "POSTS"})
	for _, b := range sum.Buckets {
		buckets.AddRow(b.Key, strconv.Itoa(b.Count))
	}
	if err := buckets.Render(); err != nil {
		return err
	}

	printer.Header("Subreddits")
	cats := printer.Table([]string{"SUBREDDIT", "POSTS", "AVG SCORE"})
	for _, cc := range sum.Distribution {
		cats.AddRow(cc.Category, strconv.Itoa(cc.Count), strconv.Itoa(sum.Categories[cc.Category].AverageScore))
	}
	if err := cats.Render(); err != nil {
		return err
	}

	printer.Header("Top keywords")
	kws := printer.Table([]string{"KEYWORD", "MENTIONS"})
	for _, kc := range sum.Keywords.Top(topWords) {
		kws.AddRow(kc.Keyword, strconv.Itoa(kc.Count))
	}
	if err := kws.Render(); err != nil {
		return err
	}

	printer.Header("Leaderboard")
	board := printer.Table([]string{"SUBREDDIT", "SUBSCRIBERS", "SCORE", "TITLE"})
	for _, cat := range sum.Leaderboard.Categories() {
		b := sum.Leaderboard[cat]
		subs := "-"
		if b.Subscribers != nil {
			subs = strconv.Itoa(*b.Subscribers)
		}
		for _, p := range b.TopPosts {
			board.AddRow(cat, subs, strconv.Itoa(p.Score), p.Title)
		}
	}
	return board.Render()
}
