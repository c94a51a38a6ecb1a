package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qepting91/reddit-trends/internal/advisor"
	"github.com/qepting91/reddit-trends/internal/trends"
)

var adviseFlags loadFlags

var adviseCmd = &cobra.Command{
	Use:   "advise <idea>",
	Short: "Ask the idea helper whether a post idea fits current trends",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdvise,
}

func init() {
	rootCmd.AddCommand(adviseCmd)
	adviseFlags.register(adviseCmd)
}

func runAdvise(cmd *cobra.Command, args []string) error {
	window, err := adviseFlags.apply()
	if err != nil {
		return err
	}

	adv, err := advisor.NewGemini(cmd.Context(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}

	sess, closeCache, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer closeCache()

	res, err := sess.Load(cmd.Context(), window, adviseFlags.force)
	if err != nil {
		return fmt.Errorf("loading %s: %w", window, err)
	}

	text, err := adv.Advise(cmd.Context(), strings.Join(args, " "), trends.Summarize(res.Posts, res.Window, trends.DefaultTopK, time.Local))
	if err != nil {
		return err
	}
	newPrinter(cmd).Status(text)
	return nil
}
