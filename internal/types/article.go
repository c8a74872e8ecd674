package types

import (
	"encoding/json"
	"time"
)

// UnknownAuthor is the sentinel byline used when no strategy produced a
// validated name. ArticleRecord.Author is never the empty string.
const UnknownAuthor = "Unknown"

// ArticleRecord holds the metadata extracted from one article page.
// Records are immutable once built; the aggregator only reads them.
type ArticleRecord struct {
	URL     string `json:"url" bson:"url"`
	Author  string `json:"author" bson:"author"`
	Title   string `json:"title,omitempty" bson:"title,omitempty"`
	Section string `json:"section,omitempty" bson:"section,omitempty"`
	Date    string `json:"date,omitempty" bson:"date,omitempty"`

	// Extended byline fields, only populated when Author != UnknownAuthor.
	AuthorRole  string `json:"author_role,omitempty" bson:"author_role,omitempty"`
	AuthorEmail string `json:"author_email,omitempty" bson:"author_email,omitempty"`
	AuthorBio   string `json:"author_bio,omitempty" bson:"author_bio,omitempty"`
	Twitter     string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	TwitterURL  string `json:"twitter_url,omitempty" bson:"twitter_url,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty" bson:"linkedin_url,omitempty"`
	Instagram   string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	Facebook    string `json:"facebook,omitempty" bson:"facebook,omitempty"`

	ScrapedAt time.Time `json:"scraped_at" bson:"scraped_at"`
}

// HasAuthor reports whether a validated byline was extracted.
func (r *ArticleRecord) HasAuthor() bool {
	return r.Author != "" && r.Author != UnknownAuthor
}

// ToJSON serializes the record.
func (r *ArticleRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// ToFlatMap returns the record as a field→value map for CSV export and
// schema-free sinks. Empty fields are omitted.
func (r *ArticleRecord) ToFlatMap() map[string]string {
	flat := map[string]string{
		"url":    r.URL,
		"author": r.Author,
	}
	put := func(k, v string) {
		if v != "" {
			flat[k] = v
		}
	}
	put("title", r.Title)
	put("section", r.Section)
	put("date", r.Date)
	put("author_role", r.AuthorRole)
	put("author_email", r.AuthorEmail)
	put("author_bio", r.AuthorBio)
	put("twitter", r.Twitter)
	put("twitter_url", r.TwitterURL)
	put("linkedin", r.LinkedIn)
	put("linkedin_url", r.LinkedInURL)
	put("instagram", r.Instagram)
	put("facebook", r.Facebook)
	return flat
}
