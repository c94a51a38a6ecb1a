package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-trends/internal/advisor"
	"github.com/qepting91/reddit-trends/internal/dashboard"
	"github.com/qepting91/reddit-trends/internal/ingest"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chart dashboard",
	Long: `Serve the trend charts and JSON API on PORT.

The idea helper endpoint is enabled when GEMINI_API_KEY is set. Tracked
keywords are read from TRACKED_KEYWORDS_FILE when it exists.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "listen port (default PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, closeCache, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	opts := []dashboard.Option{dashboard.WithLocation(time.Local)}

	keywords, err := ingest.LoadKeywords(cfg.KeywordsFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Info("No tracked keywords file", "path", cfg.KeywordsFile)
	case err != nil:
		return err
	default:
		logger.Info("Tracked keywords loaded", "count", len(keywords))
		opts = append(opts, dashboard.WithKeywords(keywords))
	}

	if cfg.GeminiAPIKey != "" {
		adv, err := advisor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		opts = append(opts, dashboard.WithAdvisor(adv))
	}

	srv := dashboard.NewServer(sess, opts...)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(cfg.Port) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
