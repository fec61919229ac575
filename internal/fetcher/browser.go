package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/newsgraph-io/newsgraph/internal/config"
	"github.com/newsgraph-io/newsgraph/internal/types"
)

// jsonLDSelector is the DOM signal that client-side rendering has produced
// the page's structured data.
const jsonLDSelector = `script[type="application/ld+json"]`

// BrowserFetcher implements Fetcher using a headless browser via Rod.
// Each Fetch acquires a dedicated page and closes it on every exit path;
// pages are never shared across concurrent fetches.
type BrowserFetcher struct {
	cfg    *config.BrowserConfig
	logger *slog.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowserFetcher creates a browser fetcher. The browser process is
// launched lazily on the first rendered fetch.
func NewBrowserFetcher(cfg *config.Config, logger *slog.Logger) *BrowserFetcher {
	return &BrowserFetcher{
		cfg:    &cfg.Browser,
		logger: logger.With("component", "browser_fetcher"),
	}
}

// connect launches Chromium and connects to it, once.
func (bf *BrowserFetcher) connect() (*rod.Browser, error) {
	bf.mu.Lock()
	defer bf.mu.Unlock()

	if bf.browser != nil {
		return bf.browser, nil
	}

	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	bf.browser = browser
	bf.logger.Info("browser ready", "stealth", bf.cfg.Stealth)
	return browser, nil
}

// Fetch navigates a fresh page to the URL, waits for the structured-data
// signal (or the stability window), and returns the rendered DOM.
func (bf *BrowserFetcher) Fetch(ctx context.Context, url string) (*types.Response, error) {
	start := time.Now()

	browser, err := bf.connect()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: true}
	}

	var page *rod.Page
	if bf.cfg.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: fmt.Errorf("open page: %w", err), Retryable: true}
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Timeout(bf.cfg.NavigateTimeout).Navigate(url); err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: true}
	}

	if err := page.Timeout(bf.cfg.NavigateTimeout).WaitLoad(); err != nil {
		bf.logger.Warn("page load timeout, continuing", "url", url, "error", err)
	}

	// Wait for the JSON-LD script to appear; fall back to a stability
	// window if it never does.
	if _, err := page.Timeout(bf.cfg.NavigateTimeout).Element(jsonLDSelector); err != nil {
		bf.logger.Debug("structured-data signal not observed", "url", url, "error", err)
		if err := page.Timeout(bf.cfg.NavigateTimeout).WaitStable(bf.cfg.StableWindow); err != nil {
			bf.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: true}
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	duration := time.Since(start)
	resp := types.NewRenderedResponse(url, finalURL, []byte(html), duration)

	bf.logger.Debug("rendered fetch complete",
		"url", url,
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return resp, nil
}

// Close shuts down the browser process.
func (bf *BrowserFetcher) Close() error {
	bf.mu.Lock()
	defer bf.mu.Unlock()
	if bf.browser != nil {
		err := bf.browser.Close()
		bf.browser = nil
		return err
	}
	return nil
}
