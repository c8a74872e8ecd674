package enrich

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/fetcher"
	"github.com/newstrace/newstrace/internal/observability"
	"github.com/newstrace/newstrace/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const searchPayload = `{
	"knowledge_graph": {
		"title": "Jane Smith",
		"type": "Journalist",
		"description": "Jane Smith is a political journalist."
	},
	"organic_results": [
		{
			"title": "Jane Smith | Daily Test",
			"link": "https://daily.test/author/jane-smith",
			"snippet": "Jane Smith is a senior reporter at The Daily Test covering politics."
		},
		{
			"title": "Jane Smith (@janedoe)",
			"link": "https://twitter.com/janedoe",
			"snippet": "Jane Smith. Politics reporter."
		},
		{
			"title": "Some Other Person",
			"link": "https://twitter.com/stranger",
			"snippet": "nothing to do with the query"
		}
	]
}`

func newTestSearcher(endpoint string) *Searcher {
	cfg := &config.EnrichmentConfig{
		Search:         true,
		SearchAPIKey:   "test-key",
		SearchEndpoint: endpoint,
		SearchLimit:    30,
	}
	client := fetcher.NewHTTPClient(&config.FetcherConfig{}, testLogger())
	return NewSearcher(client, cfg, observability.NewMetrics(testLogger()), testLogger())
}

func TestSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("api_key") != "test-key" {
			http.Error(w, "missing key", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, searchPayload)
	}))
	defer srv.Close()

	s := newTestSearcher(srv.URL)
	e, err := s.Search(context.Background(), "Jane Smith", "daily.test")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotQuery != `"Jane Smith" daily.test journalist` {
		t.Errorf("query = %q", gotQuery)
	}
	if e.Role != "Journalist" {
		t.Errorf("Role = %q", e.Role)
	}
	if e.Bio != "Jane Smith is a political journalist." {
		t.Errorf("Bio = %q", e.Bio)
	}
	if e.Workplace != "The Daily Test" {
		t.Errorf("Workplace = %q", e.Workplace)
	}
	if e.Twitter != "@janedoe" {
		t.Errorf("Twitter = %q (result not mentioning the author must be ignored)", e.Twitter)
	}
}

func TestSearchIgnoresUnrelatedResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"organic_results":[{"title":"Someone Else","link":"https://twitter.com/stranger","snippet":"unrelated"}]}`)
	}))
	defer srv.Close()

	s := newTestSearcher(srv.URL)
	e, err := s.Search(context.Background(), "Jane Smith", "daily.test")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !e.IsEmpty() {
		t.Errorf("expected empty enrichment, got %+v", e)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := newTestSearcher(srv.URL)
	if _, err := s.Search(context.Background(), "Jane Smith", "daily.test"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestEnrichAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, searchPayload)
	}))
	defer srv.Close()

	s := newTestSearcher(srv.URL)
	profiles := []*types.AuthorProfile{
		{Name: "Jane Smith", Role: "Reporter"},
	}
	s.EnrichAll(context.Background(), "daily.test", profiles)

	if profiles[0].Role != "Journalist" {
		t.Errorf("Role = %q, want search enrichment applied", profiles[0].Role)
	}
	if profiles[0].Workplace != "The Daily Test" {
		t.Errorf("Workplace = %q", profiles[0].Workplace)
	}
}
