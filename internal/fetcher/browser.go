package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/types"
)

// BrowserFetcher implements Fetcher using a headless browser via Rod.
// Each Fetch gets a fresh page that is always closed on exit, so one bad
// navigation cannot poison later fetches.
type BrowserFetcher struct {
	browser *rod.Browser
	cfg     *config.FetcherConfig
	logger  *slog.Logger
	mu      sync.Mutex
	rng     *rand.Rand
}

// NewBrowserFetcher launches a headless Chromium and connects to it.
func NewBrowserFetcher(cfg *config.FetcherConfig, logger *slog.Logger) (*BrowserFetcher, error) {
	launchURL, err := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled").
		Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	bf := &BrowserFetcher{
		browser: browser,
		cfg:     cfg,
		logger:  logger.With("component", "browser_fetcher"),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	bf.logger.Info("browser fetcher ready", "stealth", cfg.Stealth)
	return bf, nil
}

// Fetch navigates to a URL and returns the rendered page content.
func (bf *BrowserFetcher) Fetch(ctx context.Context, rawURL string, opts Options) (*Page, error) {
	start := time.Now()

	page, err := bf.newPage()
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}
	defer page.Close()

	if ua := bf.pickUserAgent(); ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			bf.logger.Warn("failed to set user agent", "error", err)
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = bf.cfg.ArticleTimeout
	}
	page = page.Context(ctx).Timeout(timeout)

	if err := page.Navigate(rawURL); err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}

	switch opts.Wait {
	case WaitNetworkIdle:
		wait := page.WaitRequestIdle(300*time.Millisecond, nil, nil, nil)
		wait()
	default:
		if err := page.WaitDOMStable(300*time.Millisecond, 0); err != nil {
			bf.logger.Debug("dom stability timeout, continuing", "url", rawURL, "error", err)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}

	finalURL := rawURL
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	duration := time.Since(start)
	bf.logger.Debug("fetched",
		"url", rawURL,
		"final_url", finalURL,
		"size", len(html),
		"duration", duration,
	)

	return &Page{
		URL:           rawURL,
		FinalURL:      finalURL,
		HTML:          html,
		FetchedAt:     time.Now(),
		FetchDuration: duration,
	}, nil
}

// Close shuts down the browser and releases resources.
func (bf *BrowserFetcher) Close() error {
	if bf.browser != nil {
		return bf.browser.Close()
	}
	return nil
}

// newPage creates a fresh page, stealth-patched when configured.
func (bf *BrowserFetcher) newPage() (*rod.Page, error) {
	if bf.cfg.Stealth {
		return stealth.Page(bf.browser)
	}
	return bf.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}

// pickUserAgent rotates through the configured user agents.
func (bf *BrowserFetcher) pickUserAgent() string {
	if len(bf.cfg.UserAgents) == 0 {
		return ""
	}
	bf.mu.Lock()
	defer bf.mu.Unlock()
	return bf.cfg.UserAgents[bf.rng.Intn(len(bf.cfg.UserAgents))]
}
