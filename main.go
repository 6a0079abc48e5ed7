package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		NewPrinter().Error(err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "story-card <article-url>",
		Short: "Render a story card image from an article's Open Graph metadata",
		Long: `story-card fetches an article, reads its og:image and title, and renders
them through ./index.html in headless Chromium. The #story-container element
is saved to images/article_story-[<title-slug>].png.

Settings are read from .env and STORYCARD_* environment variables.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0])
		},
	}
}

func run(ctx context.Context, articleURL string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(newRunLogger(os.Stderr, cfg.SlogLevel()))
	slog.Debug("configuration loaded",
		"work_dir", cfg.WorkDir,
		"http_timeout", cfg.HTTPTimeout,
		"settle_delay", cfg.SettleDelay,
		"proxy", cfg.ProxyURL() != nil,
	)

	if cfg.InstallBrowsers {
		if err := InstallBrowsers(); err != nil {
			return err
		}
	}

	printer := NewPrinter()
	path, err := GenerateStory(ctx, storyDeps{
		fetcher:  NewFetcher(cfg),
		renderer: NewPlaywrightRenderer(cfg),
		printer:  printer,
	}, articleURL)
	if err != nil {
		return err
	}

	printer.Success("Saved %s", path)
	return nil
}
