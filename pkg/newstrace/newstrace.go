// Package newstrace provides a public API for embedding NewsTrace as a
// library.
//
// Example usage:
//
//	tracer, err := newstrace.NewTracer(
//	    newstrace.WithConcurrency(5),
//	    newstrace.WithAuthorTarget(20),
//	    newstrace.WithOutput("json", "./output"),
//	)
//	if err != nil { ... }
//	defer tracer.Close()
//
//	stats, err := tracer.Trace(ctx, "The Guardian")
package newstrace

import (
	"context"
	"io"
	"log/slog"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/pipeline"
	"github.com/newstrace/newstrace/internal/types"
)

// Stats summarizes a trace run.
type Stats = pipeline.Stats

// ArticleRecord is one scraped article with its byline.
type ArticleRecord = types.ArticleRecord

// AuthorProfile is one aggregated journalist profile.
type AuthorProfile = types.AuthorProfile

// Option configures a Tracer.
type Option func(*settings)

type settings struct {
	cfg    *config.Config
	logger *slog.Logger
}

// WithConcurrency sets the number of scrape workers.
func WithConcurrency(n int) Option {
	return func(s *settings) { s.cfg.Scraper.Concurrency = n }
}

// WithMaxArticles caps how many article URLs discovery returns.
func WithMaxArticles(n int) Option {
	return func(s *settings) { s.cfg.Discovery.MaxArticles = n }
}

// WithAuthorTarget stops scraping once this many distinct authors are found.
func WithAuthorTarget(n int) Option {
	return func(s *settings) { s.cfg.Scraper.AuthorTarget = n }
}

// WithOutput selects the storage backend ("json", "csv", "mongo") and its
// output path or URI.
func WithOutput(storageType, path string) Option {
	return func(s *settings) {
		s.cfg.Storage.Type = storageType
		s.cfg.Storage.OutputPath = path
	}
}

// WithSearchEnrichment enables external search enrichment with the given
// API key.
func WithSearchEnrichment(apiKey string) Option {
	return func(s *settings) {
		s.cfg.Enrichment.Search = true
		s.cfg.Enrichment.SearchAPIKey = apiKey
	}
}

// WithoutProfilePages disables on-site profile page enrichment.
func WithoutProfilePages() Option {
	return func(s *settings) { s.cfg.Enrichment.ProfilePages = false }
}

// WithLogger sets the structured logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithConfig replaces the whole default config before other options apply.
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// Tracer is the high-level entry point for tracing outlets.
type Tracer struct {
	p *pipeline.Pipeline
}

// NewTracer builds a Tracer with a headless browser behind it.
func NewTracer(opts ...Option) (*Tracer, error) {
	s := &settings{
		cfg:    config.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	p, err := pipeline.New(s.cfg, s.logger)
	if err != nil {
		return nil, err
	}
	return &Tracer{p: p}, nil
}

// Trace runs the full pipeline for an outlet name or site URL.
func (t *Tracer) Trace(ctx context.Context, target string) (*Stats, error) {
	return t.p.Run(ctx, target)
}

// Discover lists a site's article URLs without scraping them.
func (t *Tracer) Discover(ctx context.Context, target string) ([]string, error) {
	return t.p.DiscoverURLs(ctx, target)
}

// Scrape extracts records from explicit article URLs.
func (t *Tracer) Scrape(ctx context.Context, urls []string) []*ArticleRecord {
	return t.p.ScrapeURLs(ctx, urls)
}

// Close releases the browser and flushes storage.
func (t *Tracer) Close() error {
	return t.p.Close()
}
