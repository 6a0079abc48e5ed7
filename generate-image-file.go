package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/net/http/httpproxy"
)

const (
	templateFile     = "index.html"
	storyContainerID = "story-container"

	// The template is laid out for a large window and then cropped to the
	// container, so the viewport has to fit the whole card
	viewportWidth  = 2500
	viewportHeight = 3500
)

// PlaywrightRenderer renders story cards from the local template in headless Chromium
type PlaywrightRenderer struct {
	WorkDir     string
	SettleDelay time.Duration
	Proxy       *url.URL
	ProxyBypass string
}

// NewPlaywrightRenderer routes the browser through the same proxy as the
// HTTP client: STORYCARD_PROXY first, then HTTPS_PROXY/HTTP_PROXY
func NewPlaywrightRenderer(cfg *Config) *PlaywrightRenderer {
	r := &PlaywrightRenderer{
		WorkDir:     cfg.WorkDir,
		SettleDelay: cfg.SettleDelay,
		Proxy:       cfg.ProxyURL(),
	}
	if r.Proxy == nil {
		r.Proxy, r.ProxyBypass = environmentProxy()
	}
	return r
}

func environmentProxy() (*url.URL, string) {
	env := httpproxy.FromEnvironment()
	raw := env.HTTPSProxy
	if raw == "" {
		raw = env.HTTPProxy
	}
	if raw == "" {
		return nil, ""
	}

	// Like net/http, a bare host:port means an http proxy
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if u, err = url.Parse("http://" + raw); err != nil || u.Host == "" {
			slog.Warn("ignoring unparseable proxy from environment", "proxy", raw)
			return nil, ""
		}
	}
	return u, env.NoProxy
}

// InstallBrowsers downloads the Playwright driver and Chromium
func InstallBrowsers() error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return fmt.Errorf("error installing playwright: %w", err)
	}
	return nil
}

// Render fills the template with card and screenshots #story-container into
// card.OutputPath. The browser is released on every return path.
func (r *PlaywrightRenderer) Render(ctx context.Context, card StoryCard) (string, error) {
	templatePath := filepath.Join(r.WorkDir, templateFile)
	if _, err := os.Stat(templatePath); err != nil {
		return "", fmt.Errorf("story template not found: %w", err)
	}

	outputPath, err := prepareOutputPath(r.WorkDir, card.OutputPath)
	if err != nil {
		return "", err
	}

	pw, err := playwright.Run()
	if err != nil {
		return "", fmt.Errorf("could not start Playwright: %w", err)
	}
	defer func() {
		if err := pw.Stop(); err != nil {
			slog.Warn("could not stop Playwright", "error", err)
		}
	}()

	browser, err := pw.Chromium.Launch(launchOptions(r.Proxy, r.ProxyBypass))
	if err != nil {
		return "", fmt.Errorf("could not launch browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			slog.Warn("could not close browser", "error", err)
		}
	}()

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: viewportWidth, Height: viewportHeight},
	})
	if err != nil {
		return "", fmt.Errorf("could not create page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto(fileURL(templatePath), playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return "", fmt.Errorf("could not open story template: %w", err)
	}

	for _, hook := range templateHooks(card) {
		slog.Debug("calling template hook", "hook", hook.name, "value", hook.value)
		if _, err := page.Evaluate(fmt.Sprintf("(value) => %s(value)", hook.name), hook.value); err != nil {
			return "", fmt.Errorf("template hook %s failed: %w", hook.name, err)
		}
	}

	if _, err := page.Evaluate(imagesSettledScript); err != nil {
		return "", fmt.Errorf("waiting for story images: %w", err)
	}

	if err := sleepContext(ctx, r.SettleDelay); err != nil {
		return "", err
	}

	container := page.Locator("#" + storyContainerID)
	if err := container.WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}); err != nil {
		return "", fmt.Errorf("could not find #%s: %w", storyContainerID, err)
	}

	if _, err := container.Screenshot(playwright.LocatorScreenshotOptions{
		Path: playwright.String(outputPath),
	}); err != nil {
		return "", fmt.Errorf("could not take screenshot: %w", err)
	}

	slog.Info("story image saved", "path", outputPath)
	return outputPath, nil
}

// imagesSettledScript resolves once every image in the card has loaded or
// failed, so the screenshot never catches a half-loaded preview
const imagesSettledScript = `() => Promise.all(
	Array.from(document.querySelectorAll("#` + storyContainerID + ` img"))
		.filter((img) => !img.complete)
		.map((img) => new Promise((resolve) => {
			img.addEventListener("load", resolve, { once: true });
			img.addEventListener("error", resolve, { once: true });
		}))
).then(() => true)`

type templateHook struct {
	name  string
	value string
}

// templateHooks lists the template functions in the order they are called.
// Values are passed as evaluation arguments, never spliced into the script.
func templateHooks(card StoryCard) []templateHook {
	return []templateHook{
		{name: "setImages", value: card.ImageURL},
		{name: "setFigCaption", value: strings.TrimSpace(card.Caption)},
		{name: "setFontColor", value: string(card.FontColor)},
	}
}

func launchOptions(proxy *url.URL, bypass string) playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	}
	if proxy == nil {
		return opts
	}

	// Chromium takes credentials separately from the server address
	p := &playwright.Proxy{
		Server: (&url.URL{Scheme: proxy.Scheme, Host: proxy.Host}).String(),
	}
	if bypass != "" {
		p.Bypass = playwright.String(bypass)
	}
	if proxy.User != nil {
		p.Username = playwright.String(proxy.User.Username())
		if password, ok := proxy.User.Password(); ok {
			p.Password = playwright.String(password)
		}
	}
	opts.Proxy = p
	return opts
}

func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
