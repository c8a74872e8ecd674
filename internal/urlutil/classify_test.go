package urlutil

import (
	"fmt"
	"math/rand"
	"testing"
)

const base = "https://www.example.com"

func TestIsArticle(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/article/some-headline", true},
		{"https://example.com/story/breaking", true},
		{"https://example.com/news/local-update", true},
		{"https://example.com/post/opinion-piece", true},
		{"https://example.com/2025/03/12/dated-slug", true},
		{"https://www.example.com/politics/2024/election-night", true},
		{"https://example.com/politics", false},
		{"https://example.com/author/jane-doe", false},
		{"https://example.com/tag/economy", false},
		{"https://example.com/category/sports", false},
		{"https://example.com/search?q=budget", false},
		{"https://example.com/article/photo.jpg", false},
		{"https://example.com/about", false},
		{"https://other.com/article/cross-site", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		if got := IsArticle(tt.url, base); got != tt.want {
			t.Errorf("IsArticle(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestIsSection(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/politics", true},
		{"https://example.com/sports", true},
		{"https://example.com/section/world", true},
		{"https://example.com/topic/climate", true},
		{"https://example.com/business/markets", true},
		{"https://example.com/category/localtopics", true}, // category listings are crawl seeds
		{"https://example.com/category/sports", true},
		{"https://example.com/article/politics-headline", false}, // article wins
		{"https://example.com/politics/2025/02/01/story-slug", false},
		{"https://example.com/author/politics-editor", false},
		{"https://other.com/politics", false},
		{"https://example.com/", false},
	}

	for _, tt := range tests {
		if got := IsSection(tt.url, base); got != tt.want {
			t.Errorf("IsSection(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

// Classification must be mutually exclusive: no URL is both an article and a
// section. Exercised over generated path strings.
func TestClassificationMutuallyExclusive(t *testing.T) {
	segments := []string{
		"article", "story", "news", "post", "politics", "sports",
		"business", "tech", "world", "opinion", "section", "category",
		"topic", "tag", "author", "search", "2024", "2025", "some-slug",
		"a", "breaking-update", "photo.jpg", "index.html",
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		n := 1 + rng.Intn(4)
		path := ""
		for j := 0; j < n; j++ {
			path += "/" + segments[rng.Intn(len(segments))]
		}
		u := fmt.Sprintf("https://example.com%s", path)

		if IsArticle(u, base) && IsSection(u, base) {
			t.Fatalf("URL classified as both article and section: %s", u)
		}
	}
}

func TestSameDomain(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"https://www.example.com/x", "https://example.com", true},
		{"https://news.example.com/x", "https://example.com", true}, // same registrable domain
		{"https://example.com", "https://example.org", false},
		{"https://example.co.uk", "https://other.co.uk", false},
		{"", "https://example.com", false},
	}

	for _, tt := range tests {
		if got := SameDomain(tt.a, tt.b); got != tt.want {
			t.Errorf("SameDomain(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://example.com/politics", "/article/x", "https://example.com/article/x"},
		{"https://example.com/a/b", "c", "https://example.com/a/c"},
		{"https://example.com", "https://example.com/abs", "https://example.com/abs"},
		{"https://example.com", "#frag", ""},
		{"https://example.com", "javascript:void(0)", ""},
		{"https://example.com", "mailto:x@y.com", ""},
		{"https://example.com", "ftp://example.com/f", ""},
	}

	for _, tt := range tests {
		if got := Resolve(tt.base, tt.href); got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"HTTPS://Example.COM/Path/", "https://example.com/Path"},
		{"https://example.com:443/x", "https://example.com/x"},
		{"https://example.com/x?b=2&a=1", "https://example.com/x?a=1&b=2"},
		{"https://example.com/x#frag", "https://example.com/x"},
		{"https://example.com", "https://example.com/"},
	}

	for _, tt := range tests {
		if got := Canonicalize(tt.in); got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSetDedup(t *testing.T) {
	s := NewSet()

	if !s.Add("https://example.com/article/one") {
		t.Error("first insert should be new")
	}
	if s.Add("https://example.com/article/one/") {
		t.Error("canonically-equal URL should not be new")
	}
	if s.Add("https://EXAMPLE.com/article/one") {
		t.Error("case-variant host should not be new")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}

	s.Add("https://example.com/article/two")
	s.Add("https://example.com/article/three")

	vals := s.Values(2)
	if len(vals) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(vals))
	}
	if vals[0] != "https://example.com/article/one" {
		t.Errorf("insertion order not preserved: %v", vals)
	}
}
