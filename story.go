package main

import (
	"context"
	"fmt"
)

type storyRenderer interface {
	Render(ctx context.Context, card StoryCard) (string, error)
}

type storyDeps struct {
	fetcher  *Fetcher
	renderer storyRenderer
	printer  *Printer
}

// GenerateStory runs the whole pipeline for one article and returns the path
// of the written PNG
func GenerateStory(ctx context.Context, deps storyDeps, articleURL string) (string, error) {
	meta, err := FetchArticleMetadata(ctx, deps.fetcher, articleURL)
	if err != nil {
		return "", err
	}
	deps.printer.Info("og_image = %s", meta.ImageURL)
	deps.printer.Info("title = %s", meta.Title)
	deps.printer.Info("Generating image...")

	fontColor, err := ChooseFontColor(ctx, deps.fetcher, meta.ImageURL)
	if err != nil {
		return "", fmt.Errorf("choosing font color: %w", err)
	}

	path, err := deps.renderer.Render(ctx, StoryCard{
		ImageURL:   meta.ImageURL,
		Caption:    meta.Title,
		FontColor:  fontColor,
		OutputPath: StoryImagePath(meta.Title),
	})
	if err != nil {
		return "", fmt.Errorf("rendering story card: %w", err)
	}

	return path, nil
}
