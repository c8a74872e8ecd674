// Package outlet resolves a news outlet name to its website URL, so runs can
// be started from a human name instead of a URL.
package outlet

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/newstrace/newstrace/internal/fetcher"
	"github.com/newstrace/newstrace/internal/types"
)

// knownOutlets short-circuits the lookup for major publications.
var knownOutlets = map[string]string{
	"bbc":                     "https://www.bbc.com",
	"bbc news":                "https://www.bbc.com/news",
	"cnn":                     "https://www.cnn.com",
	"reuters":                 "https://www.reuters.com",
	"the guardian":            "https://www.theguardian.com",
	"guardian":                "https://www.theguardian.com",
	"the new york times":      "https://www.nytimes.com",
	"new york times":          "https://www.nytimes.com",
	"nyt":                     "https://www.nytimes.com",
	"the washington post":     "https://www.washingtonpost.com",
	"washington post":         "https://www.washingtonpost.com",
	"al jazeera":              "https://www.aljazeera.com",
	"associated press":        "https://apnews.com",
	"ap news":                 "https://apnews.com",
	"bloomberg":               "https://www.bloomberg.com",
	"the wall street journal": "https://www.wsj.com",
	"wall street journal":     "https://www.wsj.com",
	"financial times":         "https://www.ft.com",
	"npr":                     "https://www.npr.org",
	"the hindu":               "https://www.thehindu.com",
	"times of india":          "https://timesofindia.indiatimes.com",
}

// skipHosts never count as an outlet's own site.
var skipHosts = []string{
	"wikipedia.org", "facebook.com", "twitter.com", "x.com",
	"instagram.com", "linkedin.com", "youtube.com", "duckduckgo.com",
}

const searchURL = "https://html.duckduckgo.com/html/"

// Resolver maps outlet names to websites.
type Resolver struct {
	client *fetcher.HTTPClient
	logger *slog.Logger
}

func NewResolver(client *fetcher.HTTPClient, logger *slog.Logger) *Resolver {
	return &Resolver{
		client: client,
		logger: logger.With("component", "outlet_resolver"),
	}
}

// Resolve returns the website URL for an outlet name. A URL passed in comes
// straight back out. Known outlets resolve from the table; anything else
// goes through a web search, and the winning candidate must be reachable.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", types.ErrOutletNotFound
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name, nil
	}

	if site, ok := knownOutlets[strings.ToLower(name)]; ok {
		return site, nil
	}

	site, err := r.search(ctx, name)
	if err != nil {
		return "", err
	}
	if !r.client.Reachable(ctx, site) {
		return "", fmt.Errorf("outlet %q: candidate %s unreachable: %w", name, site, types.ErrOutletNotFound)
	}
	r.logger.Info("outlet resolved", "outlet", name, "site", site)
	return site, nil
}

// search asks DuckDuckGo's HTML endpoint and returns the first result that
// is not a social network or encyclopedia.
func (r *Resolver) search(ctx context.Context, name string) (string, error) {
	params := url.Values{"q": {name + " news website official"}}
	resp, err := r.client.Get(ctx, searchURL, params, "text/html")
	if err != nil {
		return "", fmt.Errorf("outlet search %q: %w", name, err)
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("outlet search %q: status %d: %w", name, resp.StatusCode, types.ErrOutletNotFound)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return "", fmt.Errorf("outlet search %q: parse: %w", name, err)
	}

	var site string
	doc.Find("a.result__a, .result__url, a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		candidate := unwrapRedirect(href)
		if candidate == "" || skipHost(candidate) {
			return true
		}
		u, err := url.Parse(candidate)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return true
		}
		site = u.Scheme + "://" + u.Host
		return false
	})

	if site == "" {
		return "", fmt.Errorf("outlet %q: no usable result: %w", name, types.ErrOutletNotFound)
	}
	return site, nil
}

// unwrapRedirect follows DuckDuckGo's uddg indirection to the target URL.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return href
	}
	return ""
}

func skipHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, skip := range skipHosts {
		if host == skip || strings.HasSuffix(host, "."+skip) {
			return true
		}
	}
	return false
}
