// Package extract turns rendered article HTML into structured records. An
// ordered cascade of byline strategies feeds a cleaning gate; only names
// that survive the gate are attributed, everything else falls back to the
// Unknown sentinel.
package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/newstrace/newstrace/internal/types"
)

// Article extracts a full article record from a rendered document. It never
// fails: an article whose byline cannot be established still yields a record
// attributed to the Unknown sentinel.
func (e *Extractor) Article(doc *goquery.Document, pageURL string) *types.ArticleRecord {
	title := e.Title(doc)
	info := e.Author(doc)

	// A byline identical to the headline is a mis-selected element, not a
	// person. Reject it after the cascade so no later strategy resurrects it.
	if info.Name != "" && title != "" && strings.EqualFold(info.Name, title) {
		info.Name = ""
	}

	rec := &types.ArticleRecord{
		URL:       pageURL,
		Author:    types.UnknownAuthor,
		Title:     title,
		Section:   e.Section(doc),
		Date:      e.Date(doc),
		ScrapedAt: time.Now().UTC(),
	}

	// Byline enrichment only attaches to a known author; an Unknown record
	// carries no profile fields.
	if info.Name != "" {
		rec.Author = info.Name
		rec.AuthorRole = info.Role
		rec.AuthorEmail = info.Email
		rec.AuthorBio = info.Bio
		rec.Twitter = info.Social.Twitter.Handle
		rec.TwitterURL = info.Social.Twitter.URL
		rec.LinkedIn = info.Social.LinkedIn.Handle
		rec.LinkedInURL = info.Social.LinkedIn.URL
		rec.Instagram = info.Social.Instagram.Handle
		rec.Facebook = info.Social.Facebook.Handle
	}

	e.logger.Debug("extracted article",
		"url", pageURL,
		"author", rec.Author,
		"section", rec.Section)

	return rec
}
