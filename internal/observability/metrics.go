package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters across a pipeline run.
type Metrics struct {
	// Discovery metrics
	URLsDiscovered atomic.Int64
	SectionsFound  atomic.Int64
	APIProbeHits   atomic.Int64

	// Scrape metrics
	ArticlesScraped atomic.Int64
	ArticlesFailed  atomic.Int64
	AuthorsFound    atomic.Int64
	UnknownBylines  atomic.Int64

	// Enrichment metrics
	ProfilePagesFound atomic.Int64
	SearchHits        atomic.Int64

	// Engine metrics
	ActiveWorkers atomic.Int32
	RecordsStored atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"newstrace_urls_discovered_total", "Article URLs discovered", m.URLsDiscovered.Load()},
		{"newstrace_sections_found_total", "Section pages found", m.SectionsFound.Load()},
		{"newstrace_api_probe_hits_total", "API endpoints that answered", m.APIProbeHits.Load()},
		{"newstrace_articles_scraped_total", "Articles scraped", m.ArticlesScraped.Load()},
		{"newstrace_articles_failed_total", "Article fetches that failed", m.ArticlesFailed.Load()},
		{"newstrace_authors_found_total", "Distinct authors attributed", m.AuthorsFound.Load()},
		{"newstrace_unknown_bylines_total", "Articles without a byline", m.UnknownBylines.Load()},
		{"newstrace_profile_pages_found_total", "Author profile pages located", m.ProfilePagesFound.Load()},
		{"newstrace_search_hits_total", "External search enrichment hits", m.SearchHits.Load()},
		{"newstrace_active_workers", "Currently active scrape workers", int64(m.ActiveWorkers.Load())},
		{"newstrace_records_stored_total", "Records written to storage", m.RecordsStored.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all counters as a map for end-of-run logging.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"urls_discovered":     m.URLsDiscovered.Load(),
		"sections_found":      m.SectionsFound.Load(),
		"api_probe_hits":      m.APIProbeHits.Load(),
		"articles_scraped":    m.ArticlesScraped.Load(),
		"articles_failed":     m.ArticlesFailed.Load(),
		"authors_found":       m.AuthorsFound.Load(),
		"unknown_bylines":     m.UnknownBylines.Load(),
		"profile_pages_found": m.ProfilePagesFound.Load(),
		"search_hits":         m.SearchHits.Load(),
		"records_stored":      m.RecordsStored.Load(),
	}
}
