package outlet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/fetcher"
	"github.com/newstrace/newstrace/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newResolver() *Resolver {
	return NewResolver(fetcher.NewHTTPClient(&config.FetcherConfig{}, testLogger()), testLogger())
}

func TestResolveKnownOutlet(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"BBC", "https://www.bbc.com"},
		{"The Guardian", "https://www.theguardian.com"},
		{"reuters", "https://www.reuters.com"},
	}
	r := newResolver()
	for _, tt := range tests {
		got, err := r.Resolve(context.Background(), tt.name)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestResolvePassesThroughURL(t *testing.T) {
	r := newResolver()
	got, err := r.Resolve(context.Background(), "https://daily.test")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "https://daily.test" {
		t.Errorf("got %q", got)
	}
}

func TestResolveEmptyName(t *testing.T) {
	r := newResolver()
	if _, err := r.Resolve(context.Background(), "  "); !errors.Is(err, types.ErrOutletNotFound) {
		t.Fatalf("err = %v, want ErrOutletNotFound", err)
	}
}

func TestUnwrapRedirect(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fdaily.test%2F", "https://daily.test/"},
		{"https://daily.test/page", "https://daily.test/page"},
		{"javascript:void(0)", ""},
	}
	for _, tt := range tests {
		if got := unwrapRedirect(tt.href); got != tt.want {
			t.Errorf("unwrapRedirect(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestSkipHost(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://en.wikipedia.org/wiki/Daily_Test", true},
		{"https://twitter.com/dailytest", true},
		{"https://daily.test", false},
	}
	for _, tt := range tests {
		if got := skipHost(tt.url); got != tt.want {
			t.Errorf("skipHost(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
