package profiles

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/fetcher"
	"github.com/newstrace/newstrace/internal/observability"
	"github.com/newstrace/newstrace/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Fetcher: config.FetcherConfig{
			ProfileProbeTimeout: time.Second,
			ProfilePageTimeout:  time.Second,
		},
		Enrichment: config.EnrichmentConfig{
			ProfilePages:   true,
			ProfileLimit:   50,
			ProfileWorkers: 5,
		},
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Jane Smith", "jane-smith"},
		{"Jane O'Brien", "jane-o-brien"},
		{"  María García  ", "mar-a-garc-a"},
		{"J.J. Abrams", "j-j-abrams"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type stubFetcher struct {
	pages map[string]string
}

func (s *stubFetcher) Fetch(ctx context.Context, rawURL string, opts fetcher.Options) (*fetcher.Page, error) {
	html, ok := s.pages[rawURL]
	if !ok {
		return nil, &types.FetchError{URL: rawURL, StatusCode: 404, Err: errors.New("not found")}
	}
	return &fetcher.Page{URL: rawURL, FinalURL: rawURL, HTML: html, FetchedAt: time.Now()}, nil
}

func (s *stubFetcher) Close() error { return nil }

func TestLocate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/journalist/jane-smith" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFinder(
		fetcher.NewHTTPClient(&config.FetcherConfig{}, testLogger()),
		&stubFetcher{}, testConfig(),
		observability.NewMetrics(testLogger()), testLogger())

	got, err := f.Locate(context.Background(), srv.URL, "Jane Smith")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != srv.URL+"/journalist/jane-smith" {
		t.Errorf("Locate = %q", got)
	}
}

func TestLocateNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewFinder(
		fetcher.NewHTTPClient(&config.FetcherConfig{}, testLogger()),
		&stubFetcher{}, testConfig(),
		observability.NewMetrics(testLogger()), testLogger())

	_, err := f.Locate(context.Background(), srv.URL, "Jane Smith")
	if !errors.Is(err, types.ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
}

const profileHTML = `<html><body>
<h1>Jane Smith</h1>
<span class="author-role">Senior Politics Reporter</span>
<p class="author-bio">Jane   covers national politics and elections.</p>
<a href="mailto:jane@daily.test?subject=tip">Email Jane</a>
<a href="https://twitter.com/janedoe">Twitter</a>
<a href="https://www.linkedin.com/in/jane-doe">LinkedIn</a>
<a href="https://twitter.com/intent/tweet">Share</a>
</body></html>`

func TestHarvest(t *testing.T) {
	profileURL := "https://daily.test/author/jane-smith"
	f := NewFinder(
		fetcher.NewHTTPClient(&config.FetcherConfig{}, testLogger()),
		&stubFetcher{pages: map[string]string{profileURL: profileHTML}},
		testConfig(),
		observability.NewMetrics(testLogger()), testLogger())

	e, err := f.Harvest(context.Background(), profileURL)
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if e.Role != "Senior Politics Reporter" {
		t.Errorf("Role = %q", e.Role)
	}
	if e.Bio != "Jane covers national politics and elections." {
		t.Errorf("Bio = %q", e.Bio)
	}
	if e.Email != "jane@daily.test" {
		t.Errorf("Email = %q", e.Email)
	}
	if e.Twitter != "@janedoe" {
		t.Errorf("Twitter = %q", e.Twitter)
	}
	if e.LinkedIn != "jane-doe" {
		t.Errorf("LinkedIn = %q", e.LinkedIn)
	}
	if e.ProfileURL != profileURL {
		t.Errorf("ProfileURL = %q", e.ProfileURL)
	}
}

func TestEnrichAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/author/jane-smith" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	profileURL := srv.URL + "/author/jane-smith"
	f := NewFinder(
		fetcher.NewHTTPClient(&config.FetcherConfig{}, testLogger()),
		&stubFetcher{pages: map[string]string{profileURL: profileHTML}},
		testConfig(),
		observability.NewMetrics(testLogger()), testLogger())

	profiles := []*types.AuthorProfile{
		{Name: "Jane Smith", Role: "Reporter"},
		{Name: "Nobody Here"},
	}
	f.EnrichAll(context.Background(), srv.URL, profiles)

	if profiles[0].Role != "Senior Politics Reporter" {
		t.Errorf("Role = %q, want enriched value", profiles[0].Role)
	}
	if profiles[0].ProfileURL != profileURL {
		t.Errorf("ProfileURL = %q", profiles[0].ProfileURL)
	}
	if profiles[1].ProfileURL != "" {
		t.Errorf("author without a page must stay untouched: %+v", profiles[1])
	}
}
