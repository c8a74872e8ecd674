// Package pipeline wires the full run together: outlet resolution, URL
// discovery, article scraping, enrichment, aggregation, and storage.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/newstrace/newstrace/internal/aggregate"
	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/discover"
	"github.com/newstrace/newstrace/internal/enrich"
	"github.com/newstrace/newstrace/internal/fetcher"
	"github.com/newstrace/newstrace/internal/observability"
	"github.com/newstrace/newstrace/internal/outlet"
	"github.com/newstrace/newstrace/internal/profiles"
	"github.com/newstrace/newstrace/internal/scrape"
	"github.com/newstrace/newstrace/internal/storage"
	"github.com/newstrace/newstrace/internal/types"
)

// Stats summarizes one pipeline run. A run that discovered URLs but parsed
// nothing out of them still succeeds; the zeros here are the signal.
type Stats struct {
	Site            string        `json:"site"`
	URLsDiscovered  int           `json:"urls_discovered"`
	ArticlesScraped int           `json:"articles_scraped"`
	AuthorsFound    int           `json:"authors_found"`
	Duration        time.Duration `json:"duration"`
	StartedAt       time.Time     `json:"started_at"`
}

// Pipeline owns the run components and their lifecycles.
type Pipeline struct {
	cfg        *config.Config
	browser    fetcher.Fetcher
	client     *fetcher.HTTPClient
	resolver   *outlet.Resolver
	discoverer *discover.Discoverer
	scraper    *scrape.Scraper
	aggregator *aggregate.Aggregator
	finder     *profiles.Finder
	searcher   *enrich.Searcher
	store      storage.Storage
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// New builds a pipeline with a real headless browser behind it.
func New(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	browser, err := fetcher.NewBrowserFetcher(&cfg.Fetcher, logger)
	if err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}
	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		browser.Close()
		return nil, err
	}
	return assemble(cfg, browser, store, logger), nil
}

// assemble wires components around an injected fetcher and store.
func assemble(cfg *config.Config, browser fetcher.Fetcher, store storage.Storage, logger *slog.Logger) *Pipeline {
	metrics := observability.NewMetrics(logger)
	client := fetcher.NewHTTPClient(&cfg.Fetcher, logger)
	return &Pipeline{
		cfg:        cfg,
		browser:    browser,
		client:     client,
		resolver:   outlet.NewResolver(client, logger),
		discoverer: discover.New(browser, client, cfg, metrics, logger),
		scraper:    scrape.New(browser, cfg, metrics, logger),
		aggregator: aggregate.New(logger),
		finder:     profiles.NewFinder(client, browser, cfg, metrics, logger),
		searcher:   enrich.NewSearcher(client, &cfg.Enrichment, metrics, logger),
		store:      store,
		metrics:    metrics,
		logger:     logger.With("component", "pipeline"),
	}
}

// Metrics exposes the run counters, for the metrics endpoint.
func (p *Pipeline) Metrics() *observability.Metrics { return p.metrics }

// Run traces one outlet end to end. The target may be an outlet name or a
// site URL. Zero discovered article URLs is an error; discovered URLs that
// all fail to parse are not, the stats carry the zeros.
func (p *Pipeline) Run(ctx context.Context, target string) (*Stats, error) {
	stats := &Stats{StartedAt: time.Now()}
	defer func() { stats.Duration = time.Since(stats.StartedAt) }()

	site, err := p.resolver.Resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	stats.Site = site
	p.logger.Info("run starting", "site", site)

	urls, err := p.discoverer.Discover(ctx, site)
	if err != nil {
		return nil, err
	}
	stats.URLsDiscovered = len(urls)

	records := p.scraper.Scrape(ctx, urls)
	stats.ArticlesScraped = len(records)

	authorProfiles := p.aggregator.Profiles(records)
	stats.AuthorsFound = len(authorProfiles)

	if p.cfg.Enrichment.ProfilePages {
		p.finder.EnrichAll(ctx, site, authorProfiles)
	}
	if p.cfg.Enrichment.Search && p.cfg.Enrichment.SearchAPIKey != "" {
		p.searcher.EnrichAll(ctx, hostOf(site), authorProfiles)
	}

	if err := p.store.StoreArticles(records); err != nil {
		return nil, err
	}
	if err := p.store.StoreProfiles(authorProfiles); err != nil {
		return nil, err
	}
	p.metrics.RecordsStored.Add(int64(len(records) + len(authorProfiles)))

	p.logger.Info("run finished",
		"site", site,
		"urls", stats.URLsDiscovered,
		"articles", stats.ArticlesScraped,
		"authors", stats.AuthorsFound,
		"duration", time.Since(stats.StartedAt))
	return stats, nil
}

// ResolveOutlet maps an outlet name or URL to the site URL.
func (p *Pipeline) ResolveOutlet(ctx context.Context, target string) (string, error) {
	return p.resolver.Resolve(ctx, target)
}

// DiscoverURLs resolves the target and runs discovery only.
func (p *Pipeline) DiscoverURLs(ctx context.Context, target string) ([]string, error) {
	site, err := p.resolver.Resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	return p.discoverer.Discover(ctx, site)
}

// ScrapeURLs runs the scrape stage over explicit article URLs.
func (p *Pipeline) ScrapeURLs(ctx context.Context, urls []string) []*types.ArticleRecord {
	return p.scraper.Scrape(ctx, urls)
}

// Close releases the browser and flushes storage.
func (p *Pipeline) Close() error {
	var firstErr error
	if err := p.browser.Close(); err != nil {
		firstErr = err
	}
	if err := p.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func hostOf(site string) string {
	u, err := url.Parse(site)
	if err != nil {
		return site
	}
	return u.Hostname()
}
