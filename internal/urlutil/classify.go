package urlutil

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Path signatures for article pages. A URL qualifies as an article when it
// carries a dated path segment or one of these tokens, and matches none of
// the exclusion signatures.
var articleTokens = []string{"/article", "/story", "/news/", "/post"}

// datedSegment matches a year path segment, e.g. /2025/03/12/slug.
var datedSegment = regexp.MustCompile(`(^|/)(19|20)\d{2}(/|$)`)

// Exclusion signatures for article pages: listing pages, utility pages.
var excludeTokens = []string{
	"/author/", "/tag/", "/category/", "/search",
	"/about", "/contact", "/privacy", "/terms",
	"/feed", "/rss", "/login", "/signup", "/subscribe",
}

// Section classification keeps category listings, which are crawl seeds,
// not articles. Everything else in the article exclusion list still
// disqualifies a section.
var sectionExcludeTokens = []string{
	"/author/", "/tag/", "/search",
	"/about", "/contact", "/privacy", "/terms",
	"/feed", "/rss", "/login", "/signup", "/subscribe",
}

var assetSuffixes = []string{
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".svg",
	".css", ".js", ".ico", ".xml", ".zip", ".mp4",
}

// Section path signatures and topical vocabulary.
var sectionPatterns = []string{"/section/", "/category/", "/topic/"}

var sectionKeywords = []string{
	"politics", "sports", "business", "tech", "world",
	"opinion", "entertainment", "health", "science", "culture",
}

// IsArticle reports whether candidate looks like an article page on the same
// registrable domain as base. Deterministic and side-effect-free; the crawl
// layers rely on consistent classification.
func IsArticle(candidate, base string) bool {
	u, ok := parseSameDomain(candidate, base)
	if !ok {
		return false
	}

	path := strings.ToLower(u.Path)
	if isExcluded(path, excludeTokens) {
		return false
	}

	if datedSegment.MatchString(path) {
		return true
	}
	for _, tok := range articleTokens {
		if strings.Contains(path, tok) {
			return true
		}
	}
	return false
}

// IsSection reports whether candidate looks like a section/listing page worth
// crawling for article links. Mutually exclusive with IsArticle: any URL the
// article predicate claims is never a section.
func IsSection(candidate, base string) bool {
	u, ok := parseSameDomain(candidate, base)
	if !ok {
		return false
	}

	path := strings.ToLower(u.Path)
	if isExcluded(path, sectionExcludeTokens) {
		return false
	}
	if IsArticle(candidate, base) {
		return false
	}

	for _, p := range sectionPatterns {
		if strings.Contains(path, p) {
			return true
		}
	}
	for _, kw := range sectionKeywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

// SameDomain reports whether two URLs share a registrable domain.
// Hosts are compared after stripping a leading "www." label; when the public
// suffix list yields a registrable domain for both, that comparison wins.
func SameDomain(a, b string) bool {
	ha := hostOf(a)
	hb := hostOf(b)
	if ha == "" || hb == "" {
		return false
	}

	ra, errA := publicsuffix.EffectiveTLDPlusOne(ha)
	rb, errB := publicsuffix.EffectiveTLDPlusOne(hb)
	if errA == nil && errB == nil {
		return ra == rb
	}
	return ha == hb
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func parseSameDomain(candidate, base string) (*url.URL, bool) {
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return nil, false
	}
	if !SameDomain(candidate, base) {
		return nil, false
	}
	return u, true
}

func isExcluded(path string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(path, tok) {
			return true
		}
	}
	for _, suf := range assetSuffixes {
		if strings.HasSuffix(path, suf) {
			return true
		}
	}
	return false
}

// Resolve joins a possibly-relative href against a base URL and returns the
// absolute form, or "" when the href is unusable (fragments, javascript:,
// mailto:, non-HTTP schemes).
func Resolve(baseURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
