// Package discover finds article URLs for a news site. A cheap JSON API
// probe runs first; when no endpoint answers, discovery falls back to a
// browser crawl of the site's section front pages.
package discover

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/fetcher"
	"github.com/newstrace/newstrace/internal/observability"
	"github.com/newstrace/newstrace/internal/types"
	"github.com/newstrace/newstrace/internal/urlutil"
)

// Discoverer resolves a site's article URLs, API-first with crawl fallback.
type Discoverer struct {
	prober  *APIProber
	crawler *SectionCrawler
	fetcher fetcher.Fetcher
	cfg     *config.Config
	metrics *observability.Metrics
	logger  *slog.Logger
}

func New(f fetcher.Fetcher, client *fetcher.HTTPClient, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Discoverer {
	return &Discoverer{
		prober:  NewAPIProber(client, &cfg.Discovery, logger),
		crawler: NewSectionCrawler(f, &cfg.Discovery, cfg.Fetcher.SectionTimeout, logger),
		fetcher: f,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With("component", "discoverer"),
	}
}

// Discover returns up to MaxArticles article URLs for the site at baseURL.
// API results are authoritative when present; the crawl fallback never runs
// behind a working endpoint. Zero discovered URLs is types.ErrNoArticlesFound.
func (d *Discoverer) Discover(ctx context.Context, baseURL string) ([]string, error) {
	max := d.cfg.Discovery.MaxArticles

	urls, err := d.prober.Discover(ctx, baseURL, max)
	if err == nil {
		d.metrics.APIProbeHits.Add(1)
		if len(urls) == 0 {
			// The endpoint answered with titled items but no usable links.
			// It is still authoritative, so the crawl never runs.
			return nil, types.ErrNoArticlesFound
		}
		d.metrics.URLsDiscovered.Add(int64(len(urls)))
		return urls, nil
	}
	if !errors.Is(err, types.ErrNoAPIEndpoint) {
		return nil, err
	}
	d.logger.Info("no api endpoint, crawling sections", "site", baseURL)

	found, err := d.crawl(ctx, baseURL, max)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, types.ErrNoArticlesFound
	}
	d.metrics.URLsDiscovered.Add(int64(len(found)))
	return found, nil
}

func (d *Discoverer) crawl(ctx context.Context, baseURL string, max int) ([]string, error) {
	page, err := d.fetcher.Fetch(ctx, baseURL, fetcher.Options{
		Timeout: d.cfg.Fetcher.DiscoveryTimeout,
		Wait:    fetcher.WaitNetworkIdle,
	})
	if err != nil {
		return nil, err
	}
	doc, err := page.Document()
	if err != nil {
		return nil, err
	}

	found := urlutil.NewSet()
	harvestArticles(doc, baseURL, found)

	sections := FindSections(doc, baseURL, d.cfg.Discovery.MaxSections)
	d.metrics.SectionsFound.Add(int64(len(sections)))
	d.logger.Info("sections found", "site", baseURL, "count", len(sections))

	crawlN := d.cfg.Discovery.CrawlSections
	if crawlN > len(sections) {
		crawlN = len(sections)
	}

	crawlCtx := ctx
	if d.cfg.Discovery.CrawlTimeout > 0 {
		var cancel context.CancelFunc
		crawlCtx, cancel = context.WithTimeout(ctx, d.cfg.Discovery.CrawlTimeout)
		defer cancel()
	}

	var wg sync.WaitGroup
	for _, section := range sections[:crawlN] {
		wg.Add(1)
		go func(section string) {
			defer wg.Done()
			d.crawler.Crawl(crawlCtx, section, baseURL, found, d.cfg.Discovery.SectionTarget)
		}(section)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return found.Values(max), nil
}

// harvestArticles adds same-domain article links from a rendered page.
func harvestArticles(doc *goquery.Document, baseURL string, found *urlutil.Set) {
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := urlutil.Resolve(baseURL, href)
		if abs != "" && urlutil.SameDomain(abs, baseURL) && urlutil.IsArticle(abs, baseURL) {
			found.Add(abs)
		}
	})
}
