// Package aggregate folds article records into per-author profiles.
package aggregate

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/newstrace/newstrace/internal/types"
)

const (
	maxBeatSections   = 3
	maxRecentArticles = 5
)

// dateLayouts are tried in order when normalizing publication dates for
// comparison. Dates that parse compare chronologically; when either side
// fails every layout, the comparison falls back to lexicographic order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Aggregator groups article records by author.
type Aggregator struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logger.With("component", "aggregator")}
}

// Profiles builds one profile per known author from the records, in
// descending order of article count. Records attributed to the Unknown
// sentinel are counted nowhere. The grouping is idempotent: aggregating the
// same records again yields the same profiles.
func (a *Aggregator) Profiles(records []*types.ArticleRecord) []*types.AuthorProfile {
	byAuthor := make(map[string]*types.AuthorProfile)
	var order []string

	for _, rec := range records {
		if rec == nil || !rec.HasAuthor() {
			continue
		}

		p, ok := byAuthor[rec.Author]
		if !ok {
			p = &types.AuthorProfile{Name: rec.Author}
			byAuthor[rec.Author] = p
			order = append(order, rec.Author)
		}

		p.ArticlesCount++
		if len(p.ArticleURLs) < maxRecentArticles {
			p.ArticleURLs = append(p.ArticleURLs, rec.URL)
		}
		if len(p.RecentArticles) < maxRecentArticles && rec.Title != "" {
			p.RecentArticles = append(p.RecentArticles, rec.Title)
		}
		if rec.Date != "" && laterDate(rec.Date, p.MostRecentDate) {
			p.MostRecentDate = rec.Date
		}

		mergeRecordFields(p, rec)
		addBeatSection(p, rec.Section)
	}

	profiles := make([]*types.AuthorProfile, 0, len(order))
	for _, name := range order {
		profiles = append(profiles, byAuthor[name])
	}
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].ArticlesCount > profiles[j].ArticlesCount
	})

	a.logger.Info("aggregated profiles",
		"records", len(records),
		"authors", len(profiles))
	return profiles
}

// mergeRecordFields copies byline enrichment into the profile without
// overwriting anything already present.
func mergeRecordFields(p *types.AuthorProfile, rec *types.ArticleRecord) {
	set := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
		}
	}
	set(&p.Role, rec.AuthorRole)
	set(&p.Email, rec.AuthorEmail)
	set(&p.Bio, rec.AuthorBio)
	set(&p.Twitter, rec.Twitter)
	set(&p.LinkedIn, rec.LinkedIn)
	set(&p.Instagram, rec.Instagram)
	set(&p.Facebook, rec.Facebook)
}

// addBeatSection folds a section into the beat, keeping at most three
// distinct sections in first-seen order.
func addBeatSection(p *types.AuthorProfile, section string) {
	section = strings.TrimSpace(section)
	if section == "" {
		return
	}
	existing := strings.Split(p.Beat, ", ")
	if p.Beat == "" {
		existing = nil
	}
	if len(existing) >= maxBeatSections {
		return
	}
	for _, s := range existing {
		if strings.EqualFold(s, section) {
			return
		}
	}
	if p.Beat == "" {
		p.Beat = section
		return
	}
	p.Beat += ", " + section
}

// laterDate reports whether a sorts after b. Empty b always loses.
func laterDate(a, b string) bool {
	if b == "" {
		return true
	}
	ta, okA := parseDate(a)
	tb, okB := parseDate(b)
	if okA && okB {
		return ta.After(tb)
	}
	return a > b
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
