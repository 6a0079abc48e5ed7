package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer stands in for the browser and writes a placeholder PNG
type fakeRenderer struct {
	t       *testing.T
	workDir string
	cards   []StoryCard
	err     error
}

func (f *fakeRenderer) Render(_ context.Context, card StoryCard) (string, error) {
	f.cards = append(f.cards, card)
	if f.err != nil {
		return "", f.err
	}
	path, err := prepareOutputPath(f.workDir, card.OutputPath)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, encodePNG(f.t, solidImage(4, 4, color.White)), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func newStoryServer(t *testing.T, articleHTML string) *httptest.Server {
	t.Helper()
	dark := encodePNG(t, solidImage(32, 32, color.RGBA{R: 20, G: 20, B: 30, A: 255}))

	mux := http.NewServeMux()
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articleHTML)
	})
	mux.HandleFunc("/cover.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(dark)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestGenerateStory(t *testing.T) {
	server := newStoryServer(t, `<html><head>
		<meta property="og:image" content="/cover.png">
		<title> Hello World </title>
	</head></html>`)

	workDir := t.TempDir()
	renderer := &fakeRenderer{t: t, workDir: workDir}
	var out bytes.Buffer

	path, err := GenerateStory(context.Background(), storyDeps{
		fetcher:  newTestFetcher(),
		renderer: renderer,
		printer:  newTestPrinter(&out),
	}, server.URL+"/article")
	require.NoError(t, err)

	require.Len(t, renderer.cards, 1)
	card := renderer.cards[0]
	assert.Equal(t, server.URL+"/cover.png", card.ImageURL)
	assert.Equal(t, "Hello World", card.Caption)
	assert.Equal(t, FontColorSnow, card.FontColor)
	assert.Equal(t, "images/article_story-[hello-world].png", card.OutputPath)

	assert.Equal(t, filepath.Join(workDir, "images", "article_story-[hello-world].png"), path)
	entries, err := os.ReadDir(filepath.Join(workDir, "images"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.Contains(t, out.String(), "og_image = "+server.URL+"/cover.png")
	assert.Contains(t, out.String(), "title = Hello World")
}

func TestGenerateStory_ExtractionFailureSkipsRender(t *testing.T) {
	server := newStoryServer(t, `<html><head><title>No image</title></head></html>`)
	renderer := &fakeRenderer{t: t, workDir: t.TempDir()}
	var out bytes.Buffer

	_, err := GenerateStory(context.Background(), storyDeps{
		fetcher:  newTestFetcher(),
		renderer: renderer,
		printer:  newTestPrinter(&out),
	}, server.URL+"/article")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingMetadata)
	assert.Empty(t, renderer.cards)
}

func TestGenerateStory_ImageFetchFailure(t *testing.T) {
	server := newStoryServer(t, `<html><head>
		<meta property="og:image" content="/missing.png">
		<title>Broken image</title>
	</head></html>`)
	renderer := &fakeRenderer{t: t, workDir: t.TempDir()}
	var out bytes.Buffer

	_, err := GenerateStory(context.Background(), storyDeps{
		fetcher:  newTestFetcher(),
		renderer: renderer,
		printer:  newTestPrinter(&out),
	}, server.URL+"/article")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)
	assert.Empty(t, renderer.cards)
}

func TestGenerateStory_RenderFailure(t *testing.T) {
	server := newStoryServer(t, `<html><head>
		<meta property="og:image" content="/cover.png">
		<title>Render fails</title>
	</head></html>`)
	renderErr := errors.New("browser crashed")
	renderer := &fakeRenderer{t: t, workDir: t.TempDir(), err: renderErr}
	var out bytes.Buffer

	_, err := GenerateStory(context.Background(), storyDeps{
		fetcher:  newTestFetcher(),
		renderer: renderer,
		printer:  newTestPrinter(&out),
	}, server.URL+"/article")
	require.Error(t, err)
	assert.ErrorIs(t, err, renderErr)
}
