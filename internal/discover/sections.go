package discover

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/newstrace/newstrace/internal/urlutil"
)

// navSelectors are scanned for section links in priority order.
var navSelectors = []string{
	"nav a", "header a", ".menu a", ".navbar a", ".nav a", "footer a",
}

// sectionTerms flag links whose visible text names a news desk even when
// the URL path gives nothing away.
var sectionTerms = []string{
	"news", "politics", "business", "sport", "sports", "world",
	"technology", "tech", "opinion", "culture", "entertainment",
	"health", "science", "lifestyle", "economy",
}

// FindSections harvests candidate section front pages from a rendered home
// page. Results are same-domain, deduplicated, sorted, and capped at max.
func FindSections(doc *goquery.Document, baseURL string, max int) []string {
	found := urlutil.NewSet()

	collect := func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		abs := urlutil.Resolve(baseURL, href)
		if abs == "" || !urlutil.SameDomain(abs, baseURL) {
			return
		}
		if urlutil.IsSection(abs, baseURL) {
			found.Add(abs)
			return
		}
		// Keyword text rescues bare top-level paths like /sport.
		text := strings.ToLower(strings.TrimSpace(a.Text()))
		for _, term := range sectionTerms {
			if text == term {
				if !urlutil.IsArticle(abs, baseURL) && abs != urlutil.Canonicalize(baseURL) {
					found.Add(abs)
				}
				return
			}
		}
	}

	for _, sel := range navSelectors {
		doc.Find(sel).Each(collect)
	}
	doc.Find("a").Each(collect)

	sections := found.Values(0)
	sort.Strings(sections)
	if max > 0 && len(sections) > max {
		sections = sections[:max]
	}
	return sections
}
