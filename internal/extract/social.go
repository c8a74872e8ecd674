package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SocialLink is one profile link found on a page.
type SocialLink struct {
	Handle string
	URL    string
}

// SocialLinks holds per-platform profile links for one author.
type SocialLinks struct {
	Twitter   SocialLink
	LinkedIn  SocialLink
	Instagram SocialLink
	Facebook  SocialLink
	Medium    SocialLink
}

// IsEmpty reports whether no platform was found.
func (s *SocialLinks) IsEmpty() bool {
	return s.Twitter.URL == "" && s.LinkedIn.URL == "" &&
		s.Instagram.URL == "" && s.Facebook.URL == "" && s.Medium.URL == ""
}

// Path segments that are platform features rather than profiles.
var (
	twitterNonProfile   = map[string]bool{"intent": true, "share": true, "home": true, "hashtag": true, "search": true}
	instagramNonProfile = map[string]bool{"p": true, "reel": true, "reels": true, "tv": true, "explore": true}
	facebookNonProfile  = map[string]bool{"sharer": true, "share": true, "sharer.php": true, "dialog": true}
)

// ExtractSocialLinks scans all anchors in the selection and classifies
// profile links by host. Non-profile paths (share intents, media permalinks)
// are excluded. The first hit per platform wins.
func ExtractSocialLinks(sel *goquery.Selection) SocialLinks {
	var social SocialLinks

	sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		classifySocialURL(href, &social)
	})

	return social
}

// ClassifyLinks folds raw hrefs into per-platform profile links, first hit
// per platform. Used by callers that collect anchors without goquery.
func ClassifyLinks(hrefs []string) SocialLinks {
	var social SocialLinks
	for _, href := range hrefs {
		classifySocialURL(href, &social)
	}
	return social
}

// classifySocialURL files a URL under its platform, if it looks like a
// profile. Handles for twitter/instagram are normalized to carry "@".
func classifySocialURL(rawURL string, social *SocialLinks) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	first := ""
	last := ""
	if len(segments) > 0 && segments[0] != "" {
		first = strings.ToLower(segments[0])
		last = segments[len(segments)-1]
	}

	switch {
	case host == "twitter.com" || host == "x.com":
		if social.Twitter.URL != "" || first == "" || twitterNonProfile[first] {
			return
		}
		social.Twitter = SocialLink{Handle: atPrefixed(last), URL: rawURL}

	case host == "linkedin.com" && first == "in" && len(segments) > 1:
		if social.LinkedIn.URL != "" {
			return
		}
		social.LinkedIn = SocialLink{Handle: last, URL: rawURL}

	case host == "instagram.com":
		if social.Instagram.URL != "" || first == "" || instagramNonProfile[first] {
			return
		}
		social.Instagram = SocialLink{Handle: atPrefixed(last), URL: rawURL}

	case host == "facebook.com":
		if social.Facebook.URL != "" || first == "" || facebookNonProfile[first] {
			return
		}
		social.Facebook = SocialLink{Handle: last, URL: rawURL}

	case host == "medium.com" && strings.HasPrefix(first, "@"):
		if social.Medium.URL != "" {
			return
		}
		social.Medium = SocialLink{Handle: segments[0], URL: rawURL}
	}
}

func atPrefixed(handle string) string {
	if handle == "" || strings.HasPrefix(handle, "@") {
		return handle
	}
	return "@" + handle
}

// emailPattern is a permissive email-shaped matcher for visible text.
var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// Placeholder domains that never identify a real mailbox.
var placeholderDomains = []string{"example.com", "test.com", "domain.com", "email.com"}

// ExtractEmail finds an author email in the selection: an explicit mail link
// wins, otherwise the first valid email-shaped string in the visible text.
func ExtractEmail(sel *goquery.Selection) string {
	mailto := sel.Find(`a[href^="mailto:"]`).First()
	if href, ok := mailto.Attr("href"); ok {
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.Index(addr, "?"); i >= 0 {
			addr = addr[:i]
		}
		if validEmail(addr) {
			return addr
		}
	}

	for _, match := range emailPattern.FindAllString(sel.Text(), -1) {
		if validEmail(match) {
			return match
		}
	}
	return ""
}

func validEmail(email string) bool {
	if len(email) < 5 {
		return false
	}
	at := strings.Index(email, "@")
	if at < 1 || !strings.Contains(email[at:], ".") {
		return false
	}
	lower := strings.ToLower(email)
	for _, domain := range placeholderDomains {
		if strings.Contains(lower, domain) {
			return false
		}
	}
	return true
}
