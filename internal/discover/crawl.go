package discover

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/fetcher"
	"github.com/newstrace/newstrace/internal/urlutil"
)

// paginationSelectors locate next-page links on a section front.
var paginationSelectors = []string{
	`a[rel="next"]`, "a.next", ".pagination a", ".pager a", `a[class*="load-more"]`,
}

const maxPaginationLinks = 2

// SectionCrawler walks section front pages breadth-first, collecting
// same-domain article links and following a small number of pagination
// links per page.
type SectionCrawler struct {
	fetcher fetcher.Fetcher
	cfg     *config.DiscoveryConfig
	timeout time.Duration
	logger  *slog.Logger
}

func NewSectionCrawler(f fetcher.Fetcher, cfg *config.DiscoveryConfig, sectionTimeout time.Duration, logger *slog.Logger) *SectionCrawler {
	return &SectionCrawler{
		fetcher: f,
		cfg:     cfg,
		timeout: sectionTimeout,
		logger:  logger.With("component", "section_crawler"),
	}
}

// Crawl walks one section starting at sectionURL and adds discovered article
// URLs to found. It stops when the per-section page cap is hit, the shared
// set reaches target, or ctx is done. A page that fails to load is skipped,
// not fatal.
func (c *SectionCrawler) Crawl(ctx context.Context, sectionURL, baseURL string, found *urlutil.Set, target int) {
	visited := urlutil.NewSet()
	queue := []string{sectionURL}

	pages := 0
	for len(queue) > 0 && pages < c.cfg.MaxPagesPerSection {
		if ctx.Err() != nil {
			return
		}
		if target > 0 && found.Len() >= target {
			c.logger.Debug("section target reached", "section", sectionURL, "found", found.Len())
			return
		}

		pageURL := queue[0]
		queue = queue[1:]
		if !visited.Add(pageURL) {
			continue
		}
		pages++

		c.sleep(ctx)
		page, err := c.fetcher.Fetch(ctx, pageURL, fetcher.Options{Timeout: c.timeout})
		if err != nil {
			c.logger.Debug("section page fetch failed", "url", pageURL, "error", err)
			continue
		}
		doc, err := page.Document()
		if err != nil {
			continue
		}

		resolveBase := page.FinalURL
		if resolveBase == "" {
			resolveBase = pageURL
		}
		queue = append(queue, c.harvest(doc, resolveBase, baseURL, found)...)
	}
}

// harvest pulls article links out of a page and returns pagination links
// worth following next. Relative hrefs resolve against the page they sit on,
// not the site root.
func (c *SectionCrawler) harvest(doc *goquery.Document, pageURL, baseURL string, found *urlutil.Set) []string {
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := urlutil.Resolve(pageURL, href)
		if abs == "" || !urlutil.SameDomain(abs, baseURL) {
			return
		}
		if urlutil.IsArticle(abs, baseURL) {
			found.Add(abs)
		}
	})

	var next []string
	for _, sel := range paginationSelectors {
		doc.Find(sel).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if len(next) >= maxPaginationLinks {
				return false
			}
			href, _ := a.Attr("href")
			abs := urlutil.Resolve(pageURL, href)
			if abs != "" && urlutil.SameDomain(abs, baseURL) && !urlutil.IsArticle(abs, baseURL) {
				next = append(next, abs)
			}
			return true
		})
		if len(next) >= maxPaginationLinks {
			break
		}
	}
	return next
}

// sleep waits a jittered interval between page loads, bailing early when the
// context ends.
func (c *SectionCrawler) sleep(ctx context.Context) {
	min, max := c.cfg.MinDelay, c.cfg.MaxDelay
	if max <= min {
		max = min + time.Millisecond
	}
	// Crawl runs from one goroutine per section; the top-level rand source
	// is safe for concurrent use where a per-crawler rand.Rand is not.
	d := min + time.Duration(rand.Int63n(int64(max-min)))
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
