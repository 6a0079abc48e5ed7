package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

const (
	maxArticleSize = 10 * 1024 * 1024 // 10MB
	htmlAccept     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// FetchArticleMetadata downloads an article page and returns its og:image and
// title. The URL is validated before any request is made.
func FetchArticleMetadata(ctx context.Context, f *Fetcher, articleURL string) (ArticleMetadata, error) {
	base, err := url.Parse(articleURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return ArticleMetadata{}, fmt.Errorf("%w: article is not a valid URL: %q", ErrInvalidInput, articleURL)
	}

	resp, err := f.Get(ctx, articleURL, htmlAccept)
	if err != nil {
		return ArticleMetadata{}, err
	}
	defer resp.Body.Close()

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxArticleSize), resp.Header.Get("Content-Type"))
	if err != nil {
		return ArticleMetadata{}, fmt.Errorf("decoding article body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return ArticleMetadata{}, fmt.Errorf("parsing HTML: %w", err)
	}

	meta, err := parseArticleMetadata(base, doc)
	if err != nil {
		return ArticleMetadata{}, err
	}

	slog.Debug("article metadata extracted", "url", articleURL, "image", meta.ImageURL, "title", meta.Title)
	return meta, nil
}

func parseArticleMetadata(base *url.URL, doc *goquery.Document) (ArticleMetadata, error) {
	var image string
	doc.Find(`head meta[property="og:image"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		image = strings.TrimSpace(s.AttrOr("content", ""))
		return image == ""
	})
	if image == "" {
		return ArticleMetadata{}, &MissingMetadataError{URL: base.String(), Field: "og:image"}
	}

	title := strings.TrimSpace(doc.Find("head title").First().Text())
	if title == "" {
		return ArticleMetadata{}, &MissingMetadataError{URL: base.String(), Field: "title"}
	}

	return ArticleMetadata{
		URL:      base.String(),
		ImageURL: resolveReference(base, image),
		Title:    title,
	}, nil
}

// resolveReference makes a relative og:image absolute against the article URL
func resolveReference(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
