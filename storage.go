package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const outputDir = "images"

// StoryImagePath derives the output file from an article title, e.g.
// "Hello World" -> images/article_story-[hello-world].png
func StoryImagePath(title string) string {
	return filepath.Join(outputDir, fmt.Sprintf("article_story-[%s].png", slugify(title)))
}

// slugify lowercases title and joins its whitespace-separated words with
// hyphens. Path separators are replaced so the file always lands in outputDir.
func slugify(title string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(title)), "-")
	return strings.NewReplacer("/", "-", `\`, "-").Replace(slug)
}

// prepareOutputPath makes path absolute under workDir and creates its directory
func prepareOutputPath(workDir, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return path, nil
}
