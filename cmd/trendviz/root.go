package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-trends/internal/collector"
	"github.com/qepting91/reddit-trends/internal/config"
	"github.com/qepting91/reddit-trends/internal/domain"
	"github.com/qepting91/reddit-trends/internal/output"
	"github.com/qepting91/reddit-trends/internal/session"
	"github.com/qepting91/reddit-trends/internal/storage"
)

var (
	envFile string
	noColor bool
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trendviz",
	Short: "Reddit top-post trend visualizer",
	Long: `trendviz pages through a subreddit's top listing for a time window,
caches the result, and summarizes it as time buckets, per-subreddit stats,
leaderboards and keyword counts.

Example usage:
  trendviz fetch --window week       # Print summary tables for the past week
  trendviz serve                     # Start the chart dashboard
  trendviz trivia --rounds 3         # Play a few rounds of trend trivia
  trendviz advise "my post idea"     # Ask the idea helper (needs GEMINI_API_KEY)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func initConfig(cmd *cobra.Command) error {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	var err error
	cfg, err = config.Load(files...)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	logger.Debug("configuration loaded",
		"collector_mode", cfg.CollectorMode,
		"cache_backend", cfg.CacheBackend,
		"category", cfg.Category,
	)
	return nil
}

// loadFlags are shared by every command that loads a window.
type loadFlags struct {
	window   string
	category string
	pages    int
	force    bool
}

func (lf *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&lf.window, "window", "w", "month", "time window: day, week, month or all")
	cmd.Flags().StringVarP(&lf.category, "category", "c", "", "subreddit to read (default REDDIT_CATEGORY)")
	cmd.Flags().IntVar(&lf.pages, "pages", 0, "maximum pages to fetch (default MAX_PAGES)")
	cmd.Flags().BoolVarP(&lf.force, "force", "f", false, "skip the cache and refetch")
}

func (lf *loadFlags) reset() {
	lf.window, lf.category, lf.pages, lf.force = "month", "", 0, false
}

// apply folds flag overrides into the loaded config.
func (lf *loadFlags) apply() (domain.Window, error) {
	w, err := domain.ParseWindow(lf.window)
	if err != nil {
		return "", err
	}
	if lf.category != "" {
		cfg.Category = lf.category
	}
	if lf.pages > 0 {
		cfg.MaxPages = lf.pages
	}
	return w, nil
}

// newSession wires the configured source, cache and session. The returned
// close function releases the cache backend.
func newSession(ctx context.Context) (*session.Session, func() error, error) {
	fetcher, err := collector.NewFetcherFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing collector: %w", err)
	}
	fetcher.Logger = logger

	cache, closeCache, err := storage.NewCache(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s cache: %w", cfg.CacheBackend, err)
	}
	return session.New(fetcher, cache, cfg.Category, session.WithLogger(logger)), closeCache, nil
}

func newPrinter(cmd *cobra.Command) *output.Printer {
	return output.NewPrinter(cmd.OutOrStdout(), !noColor && isTerminal(cmd))
}

func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
