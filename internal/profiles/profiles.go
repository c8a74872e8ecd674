// Package profiles locates on-site author profile pages and harvests
// enrichment from them. Existence is probed over cheap HTTP; only pages that
// answer are rendered in the browser.
package profiles

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/sync/semaphore"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/extract"
	"github.com/newstrace/newstrace/internal/fetcher"
	"github.com/newstrace/newstrace/internal/observability"
	"github.com/newstrace/newstrace/internal/types"
)

// slugPatterns are the common author-page path shapes, probed in order.
var slugPatterns = []string{
	"/author/%s", "/authors/%s", "/journalist/%s", "/contributor/%s",
	"/contributors/%s", "/profile/%s", "/writers/%s", "/staff/%s", "/people/%s",
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns an author name into a URL slug, e.g. "Jane O'Brien" into
// "jane-o-brien".
func Slugify(name string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// Finder probes for and harvests author profile pages.
type Finder struct {
	client  *fetcher.HTTPClient
	browser fetcher.Fetcher
	cfg     *config.Config
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewFinder(client *fetcher.HTTPClient, browser fetcher.Fetcher, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Finder {
	return &Finder{
		client:  client,
		browser: browser,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With("component", "profile_finder"),
	}
}

// Locate probes the slug patterns for an author and returns the first
// profile URL that answers, or types.ErrProfileNotFound.
func (f *Finder) Locate(ctx context.Context, siteURL, authorName string) (string, error) {
	base, err := url.Parse(siteURL)
	if err != nil || base.Host == "" {
		return "", fmt.Errorf("parse site url %q: %w", siteURL, types.ErrInvalidURL)
	}
	slug := Slugify(authorName)
	if slug == "" {
		return "", types.ErrProfileNotFound
	}
	root := base.Scheme + "://" + base.Host

	for _, pattern := range slugPatterns {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		candidate := root + fmt.Sprintf(pattern, slug)
		probeCtx, cancel := context.WithTimeout(ctx, f.cfg.Fetcher.ProfileProbeTimeout)
		ok := f.client.Reachable(probeCtx, candidate)
		cancel()
		if ok {
			f.metrics.ProfilePagesFound.Add(1)
			return candidate, nil
		}
	}
	return "", types.ErrProfileNotFound
}

// Harvest renders a located profile page and extracts enrichment from it.
func (f *Finder) Harvest(ctx context.Context, profileURL string) (*types.Enrichment, error) {
	page, err := f.browser.Fetch(ctx, profileURL, fetcher.Options{
		Timeout: f.cfg.Fetcher.ProfilePageTimeout,
	})
	if err != nil {
		return nil, err
	}
	doc, err := htmlquery.Parse(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse profile page: %w", err)
	}

	e := &types.Enrichment{ProfileURL: profileURL}
	e.Role = firstText(doc,
		`//*[contains(@class,"author-role") or contains(@class,"job-title") or contains(@class,"position") or @itemprop="jobTitle"]`)
	e.Bio = firstText(doc,
		`//*[contains(@class,"author-bio") or contains(@class,"bio") or contains(@class,"author-description") or @itemprop="description"]`)
	e.Beat = firstText(doc,
		`//*[contains(@class,"beat") or contains(@class,"author-topics")]`)

	if node := htmlquery.FindOne(doc, `//a[starts-with(@href,"mailto:")]`); node != nil {
		addr := strings.TrimPrefix(htmlquery.SelectAttr(node, "href"), "mailto:")
		if i := strings.Index(addr, "?"); i >= 0 {
			addr = addr[:i]
		}
		e.Email = strings.TrimSpace(addr)
	}

	var hrefs []string
	for _, a := range htmlquery.Find(doc, `//a[@href]`) {
		hrefs = append(hrefs, htmlquery.SelectAttr(a, "href"))
	}
	social := extract.ClassifyLinks(hrefs)
	e.Twitter = social.Twitter.Handle
	e.LinkedIn = social.LinkedIn.Handle
	e.Instagram = social.Instagram.Handle
	e.Facebook = social.Facebook.Handle

	return e, nil
}

// EnrichAll runs profile enrichment over the top profiles with bounded
// concurrency. Authors without a profile page are left untouched; per-author
// failures are logged and skipped.
func (f *Finder) EnrichAll(ctx context.Context, siteURL string, profiles []*types.AuthorProfile) {
	limit := f.cfg.Enrichment.ProfileLimit
	if limit <= 0 || limit > len(profiles) {
		limit = len(profiles)
	}
	workers := f.cfg.Enrichment.ProfileWorkers
	if workers <= 0 {
		workers = 5
	}
	sem := semaphore.NewWeighted(int64(workers))

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, p := range profiles[:limit] {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(p *types.AuthorProfile) {
			defer func() {
				sem.Release(1)
				wg.Done()
			}()

			profileURL, err := f.Locate(ctx, siteURL, p.Name)
			if err != nil {
				return
			}
			enrichment, err := f.Harvest(ctx, profileURL)
			if err != nil {
				f.logger.Debug("profile harvest failed",
					"author", p.Name, "url", profileURL, "error", err)
				return
			}
			mu.Lock()
			p.Merge(enrichment)
			mu.Unlock()
		}(p)
	}
	wg.Wait()
}

// firstText returns the trimmed inner text of the first node matching expr.
func firstText(doc *html.Node, expr string) string {
	node := htmlquery.FindOne(doc, expr)
	if node == nil {
		return ""
	}
	return strings.Join(strings.Fields(htmlquery.InnerText(node)), " ")
}
