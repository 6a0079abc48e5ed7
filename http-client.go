package main

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Fetcher issues the run's outbound GET requests
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher builds the HTTP client used for the article page and the preview image
func NewFetcher(cfg *Config) *Fetcher {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if proxy := cfg.ProxyURL(); proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &Fetcher{
		client: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: transport,
		},
		userAgent: cfg.UserAgent,
	}
}

// Get fetches rawURL and returns the response only for 2xx statuses. The
// caller owns the body.
func (f *Fetcher) Get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	return resp, nil
}
