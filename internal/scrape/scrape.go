// Package scrape runs the article worker pool: bounded-concurrency fetches
// over batches of discovered URLs, with an early stop once enough distinct
// authors have been attributed.
package scrape

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/extract"
	"github.com/newstrace/newstrace/internal/fetcher"
	"github.com/newstrace/newstrace/internal/observability"
	"github.com/newstrace/newstrace/internal/types"
)

// Scraper drives article extraction over a URL list.
type Scraper struct {
	fetcher   fetcher.Fetcher
	extractor *extract.Extractor
	cfg       *config.Config
	metrics   *observability.Metrics
	logger    *slog.Logger
}

func New(f fetcher.Fetcher, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Scraper {
	return &Scraper{
		fetcher:   f,
		extractor: extract.NewExtractor(logger),
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger.With("component", "scraper"),
	}
}

// Scrape fetches and extracts the given article URLs. Concurrency is bounded
// by the configured worker count, and work proceeds batch by batch so the
// author-target check has a stable point to cut off at. A failed page is
// logged and skipped; the remaining URLs still produce records. Results keep
// the input order of the URLs that succeeded.
func (s *Scraper) Scrape(ctx context.Context, urls []string) []*types.ArticleRecord {
	batchSize := s.cfg.Scraper.BatchSize
	if batchSize <= 0 {
		batchSize = len(urls)
	}
	sem := semaphore.NewWeighted(int64(s.workerCount()))

	var records []*types.ArticleRecord
	authors := make(map[string]struct{})

	for start := 0; start < len(urls); start += batchSize {
		if ctx.Err() != nil {
			break
		}
		if target := s.cfg.Scraper.AuthorTarget; target > 0 && len(authors) >= target {
			s.logger.Info("author target reached",
				"authors", len(authors),
				"scraped", len(records))
			break
		}

		end := start + batchSize
		if end > len(urls) {
			end = len(urls)
		}
		batch := s.scrapeBatch(ctx, sem, urls[start:end])

		for _, rec := range batch {
			if rec == nil {
				continue
			}
			records = append(records, rec)
			if rec.HasAuthor() {
				if _, seen := authors[rec.Author]; !seen {
					authors[rec.Author] = struct{}{}
					s.metrics.AuthorsFound.Add(1)
				}
			} else {
				s.metrics.UnknownBylines.Add(1)
			}
		}
	}

	s.logger.Info("scrape finished",
		"urls", len(urls),
		"records", len(records),
		"authors", len(authors))
	return records
}

// scrapeBatch runs one batch through the pool and returns per-URL results,
// nil where the page failed.
func (s *Scraper) scrapeBatch(ctx context.Context, sem *semaphore.Weighted, urls []string) []*types.ArticleRecord {
	results := make([]*types.ArticleRecord, len(urls))
	var wg sync.WaitGroup

	for i, u := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		s.metrics.ActiveWorkers.Add(1)

		go func(i int, u string) {
			defer func() {
				s.metrics.ActiveWorkers.Add(-1)
				sem.Release(1)
				wg.Done()
			}()
			results[i] = s.scrapeOne(ctx, u)
		}(i, u)
	}

	wg.Wait()
	return results
}

func (s *Scraper) scrapeOne(ctx context.Context, articleURL string) *types.ArticleRecord {
	page, err := s.fetcher.Fetch(ctx, articleURL, fetcher.Options{
		Timeout: s.cfg.Fetcher.ArticleTimeout,
	})
	if err != nil {
		s.metrics.ArticlesFailed.Add(1)
		s.logger.Debug("article fetch failed", "url", articleURL, "error", err)
		return nil
	}
	doc, err := page.Document()
	if err != nil {
		s.metrics.ArticlesFailed.Add(1)
		s.logger.Debug("article parse failed", "url", articleURL, "error", err)
		return nil
	}

	rec := s.extractor.Article(doc, articleURL)
	s.metrics.ArticlesScraped.Add(1)
	return rec
}

func (s *Scraper) workerCount() int {
	if n := s.cfg.Scraper.Concurrency; n > 0 {
		return n
	}
	return 10
}
