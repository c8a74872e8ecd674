package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Title resolves the headline: h1, then og:title, then the document title.
func (e *Extractor) Title(doc *goquery.Document) string {
	if h1 := doc.Find("h1").First(); h1.Length() > 0 {
		if t := strings.TrimSpace(h1.Text()); t != "" {
			return t
		}
	}
	if content, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t := strings.TrimSpace(content); t != "" {
			return t
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

var sectionSelectors = []string{
	".breadcrumb a", ".breadcrumbs a", `[class*="breadcrumb"] a`,
}

// Section resolves the article's section: breadcrumb trail, then the
// article:section meta tag, then the first path segment of the canonical URL.
func (e *Extractor) Section(doc *goquery.Document) string {
	for _, sel := range sectionSelectors {
		links := doc.Find(sel)
		if links.Length() < 2 {
			continue
		}
		// Last crumb is usually the article itself; take the one before it.
		if s := strings.TrimSpace(links.Eq(links.Length() - 2).Text()); s != "" {
			return s
		}
	}
	if content, ok := doc.Find(`meta[property="article:section"]`).Attr("content"); ok {
		if s := strings.TrimSpace(content); s != "" {
			return s
		}
	}
	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		if s := sectionFromPath(href); s != "" {
			return s
		}
	}
	return ""
}

// sectionFromPath title-cases the first meaningful path segment of a URL.
func sectionFromPath(rawURL string) string {
	rest := rawURL
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[i+1:]
	} else {
		return ""
	}
	seg, _, _ := strings.Cut(rest, "/")
	seg = strings.TrimSpace(seg)
	if seg == "" || strings.ContainsAny(seg, "?#") {
		return ""
	}
	words := strings.Split(strings.ReplaceAll(seg, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var dateSelectors = []string{".publish-date", ".article-date", ".timestamp"}

// Date resolves the publication date as the raw string the page carries:
// article:published_time meta, then a <time> element (preferring its
// datetime attribute), then common date class hooks.
func (e *Extractor) Date(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok {
		if d := strings.TrimSpace(content); d != "" {
			return d
		}
	}
	if t := doc.Find("time").First(); t.Length() > 0 {
		if dt, ok := t.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			return strings.TrimSpace(dt)
		}
		if d := strings.TrimSpace(t.Text()); d != "" {
			return d
		}
	}
	for _, sel := range dateSelectors {
		if elem := doc.Find(sel).First(); elem.Length() > 0 {
			if d := strings.TrimSpace(elem.Text()); d != "" {
				return d
			}
		}
	}
	return ""
}
