package extract

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// AuthorInfo is everything the cascade learned about the byline.
type AuthorInfo struct {
	Name       string
	Role       string
	Email      string
	Bio        string
	ProfileURL string
	Social     SocialLinks
}

// Extractor runs the author/metadata extraction strategies over rendered HTML.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new extraction engine.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger.With("component", "extractor")}
}

const bioSnippetLen = 200

var (
	authorBoxPattern   = regexp.MustCompile(`(?i)author-box|author-card|author-bio|contributor-box`)
	rolePattern        = regexp.MustCompile(`(?i)role|title|position|designation`)
	bioPattern         = regexp.MustCompile(`(?i)bio|description|about`)
	contributorPattern = regexp.MustCompile(`(?i)contributor|writer-info`)

	// "By Jane Smith" in running text; two to four capitalized tokens.
	bylinePattern = regexp.MustCompile(`By\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})`)
)

// bylineSelectors are common CSS hooks for byline elements, in priority order.
var bylineSelectors = []string{
	".byline", ".author-name", ".author", ".contributor-name",
	".writer-name", `[itemprop="author"]`, ".article-author",
	".post-author", ".entry-author", ".story-byline",
}

// Author runs the ordered strategy cascade over the document. The first
// strategy to yield a name that survives the cleaning gate wins; a rejected
// candidate just advances the cascade. When every strategy misses, Name is
// left empty and the caller records the Unknown sentinel.
func (e *Extractor) Author(doc *goquery.Document) AuthorInfo {
	var info AuthorInfo

	// 1. Structured author box/card; harvests role, bio, email, and social
	// links scoped to the container.
	if box := findByClassPattern(doc, authorBoxPattern); box != nil {
		if name := box.Find("h2, h3, h4, strong, a").First(); name.Length() > 0 {
			info.Name = CleanAuthorName(strings.TrimSpace(name.Text()))
		}
		if role := findByClassPattern(box, rolePattern); role != nil {
			info.Role = strings.TrimSpace(role.Text())
		}
		if bio := findInByClassPattern(box, "p, span", bioPattern); bio != nil {
			info.Bio = truncate(strings.TrimSpace(bio.Text()), bioSnippetLen)
		}
		info.Email = ExtractEmail(box)
		info.Social = ExtractSocialLinks(box)
	}

	// 2. Anchor with the semantic author relation.
	if info.Name == "" {
		if rel := doc.Find(`a[rel="author"]`).First(); rel.Length() > 0 {
			info.Name = CleanAuthorName(strings.TrimSpace(rel.Text()))
			if href, ok := rel.Attr("href"); ok && info.Name != "" {
				info.ProfileURL = href
			}
		}
	}

	// 3. Common byline CSS selectors.
	if info.Name == "" {
		for _, sel := range bylineSelectors {
			elem := doc.Find(sel).First()
			if elem.Length() == 0 {
				continue
			}
			if name := CleanAuthorName(strings.TrimSpace(elem.Text())); name != "" {
				info.Name = name
				break
			}
		}
	}

	// 4. Page metadata tags.
	if info.Name == "" {
		if content, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok {
			info.Name = CleanAuthorName(content)
		}
	}
	if info.Name == "" {
		if content, ok := doc.Find(`meta[property="article:author"]`).Attr("content"); ok {
			info.Name = CleanAuthorName(content)
		}
	}

	// 5. Embedded linked-data blocks.
	if info.Name == "" {
		e.authorFromLinkedData(doc, &info)
	}

	// 6. "By <Name>" in the first three paragraphs of body text.
	if info.Name == "" {
		doc.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
			if i >= 3 {
				return false
			}
			if m := bylinePattern.FindStringSubmatch(p.Text()); m != nil {
				if name := CleanAuthorName(m[1]); name != "" {
					info.Name = name
					return false
				}
			}
			return true
		})
	}

	// 7. Generic contributor/writer-info containers.
	if info.Name == "" {
		if c := findByClassPattern(doc, contributorPattern); c != nil {
			if name := c.Find("a, span, strong").First(); name.Length() > 0 {
				info.Name = CleanAuthorName(strings.TrimSpace(name.Text()))
			}
		}
	}

	// Page-wide fallbacks for social and email when the author box had none.
	if info.Social.IsEmpty() {
		info.Social = ExtractSocialLinks(doc.Selection)
	}
	if info.Email == "" {
		info.Email = ExtractEmail(doc.Selection)
	}

	return info
}

// ldAuthor is the shape of a linked-data author object. The author value may
// also be a bare string; decode attempts run over that fixed priority list
// and fall through cleanly on mismatch.
type ldAuthor struct {
	Name        string          `json:"name"`
	JobTitle    string          `json:"jobTitle"`
	Email       string          `json:"email"`
	Description string          `json:"description"`
	SameAs      json.RawMessage `json:"sameAs"`
}

type ldDocument struct {
	Author json.RawMessage `json:"author"`
}

// authorFromLinkedData scans embedded JSON blocks for an author. Malformed
// blocks are skipped; the cascade continues.
func (e *Extractor) authorFromLinkedData(doc *goquery.Document, info *AuthorInfo) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		raw := strings.TrimSpace(script.Text())
		if raw == "" {
			return true
		}

		var ld ldDocument
		if err := json.Unmarshal([]byte(raw), &ld); err != nil {
			var lds []ldDocument
			if err := json.Unmarshal([]byte(raw), &lds); err != nil || len(lds) == 0 {
				return true
			}
			ld = lds[0]
		}
		if len(ld.Author) == 0 {
			return true
		}

		// Nested object first, then bare string.
		var obj ldAuthor
		if err := json.Unmarshal(ld.Author, &obj); err == nil && obj.Name != "" {
			if name := CleanAuthorName(obj.Name); name != "" {
				info.Name = name
				info.Role = obj.JobTitle
				if obj.Email != "" {
					info.Email = obj.Email
				}
				if obj.Description != "" {
					info.Bio = truncate(obj.Description, bioSnippetLen)
				}
				for _, u := range decodeSameAs(obj.SameAs) {
					classifySocialURL(u, &info.Social)
				}
				return false
			}
			return true
		}

		var s string
		if err := json.Unmarshal(ld.Author, &s); err == nil {
			if name := CleanAuthorName(s); name != "" {
				info.Name = name
				return false
			}
		}
		return true
	})
}

// decodeSameAs accepts either a single URL or a list of URLs.
func decodeSameAs(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	return nil
}

// classSearcher is the Find surface shared by *goquery.Document and
// *goquery.Selection.
type classSearcher interface {
	Find(string) *goquery.Selection
}

// findByClassPattern returns the first element under sel whose class
// attribute matches the pattern, or nil.
func findByClassPattern(sel classSearcher, re *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	sel.Find("[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if re.MatchString(class) {
			found = s
			return false
		}
		return true
	})
	return found
}

// findInByClassPattern is findByClassPattern restricted to a tag selector.
func findInByClassPattern(sel *goquery.Selection, tags string, re *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	sel.Find(tags).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if class != "" && re.MatchString(class) {
			found = s
			return false
		}
		return true
	})
	return found
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
