package aggregate

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/newstrace/newstrace/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rec(author, url, title, section, date string) *types.ArticleRecord {
	return &types.ArticleRecord{Author: author, URL: url, Title: title, Section: section, Date: date}
}

func TestProfilesGrouping(t *testing.T) {
	a := New(testLogger())
	records := []*types.ArticleRecord{
		rec("Jane Smith", "https://d.test/a/1", "One", "Politics", "2026-03-01"),
		rec("John Doe", "https://d.test/a/2", "Two", "Sport", "2026-02-01"),
		rec("Jane Smith", "https://d.test/a/3", "Three", "World", "2026-01-15"),
		rec(types.UnknownAuthor, "https://d.test/a/4", "Four", "Politics", "2026-03-02"),
	}

	profiles := a.Profiles(records)
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2 (Unknown must be excluded)", len(profiles))
	}

	jane := profiles[0]
	if jane.Name != "Jane Smith" {
		t.Fatalf("profiles[0] = %q, want Jane Smith first by article count", jane.Name)
	}
	if jane.ArticlesCount != 2 {
		t.Errorf("ArticlesCount = %d, want 2", jane.ArticlesCount)
	}
	if jane.Beat != "Politics, World" {
		t.Errorf("Beat = %q", jane.Beat)
	}
	if jane.MostRecentDate != "2026-03-01" {
		t.Errorf("MostRecentDate = %q", jane.MostRecentDate)
	}
	if !reflect.DeepEqual(jane.RecentArticles, []string{"One", "Three"}) {
		t.Errorf("RecentArticles = %v", jane.RecentArticles)
	}
	if !reflect.DeepEqual(jane.ArticleURLs, []string{"https://d.test/a/1", "https://d.test/a/3"}) {
		t.Errorf("ArticleURLs = %v", jane.ArticleURLs)
	}
}

func TestProfilesIdempotent(t *testing.T) {
	a := New(testLogger())
	records := []*types.ArticleRecord{
		rec("Jane Smith", "https://d.test/a/1", "One", "Politics", "2026-03-01"),
		rec("Jane Smith", "https://d.test/a/2", "Two", "World", "2026-02-01"),
		rec("John Doe", "https://d.test/a/3", "Three", "Sport", ""),
	}

	first := a.Profiles(records)
	second := a.Profiles(records)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("aggregation not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestProfilesBeatCap(t *testing.T) {
	a := New(testLogger())
	records := []*types.ArticleRecord{
		rec("Jane Smith", "https://d.test/1", "T", "Politics", ""),
		rec("Jane Smith", "https://d.test/2", "T", "World", ""),
		rec("Jane Smith", "https://d.test/3", "T", "politics", ""),
		rec("Jane Smith", "https://d.test/4", "T", "Business", ""),
		rec("Jane Smith", "https://d.test/5", "T", "Culture", ""),
	}

	profiles := a.Profiles(records)
	if profiles[0].Beat != "Politics, World, Business" {
		t.Errorf("Beat = %q, want first three distinct sections", profiles[0].Beat)
	}
}

func TestProfilesRecentArticlesCap(t *testing.T) {
	a := New(testLogger())
	var records []*types.ArticleRecord
	titles := []string{"One", "Two", "Three", "Four", "Five", "Six", "Seven"}
	for i, title := range titles {
		records = append(records, rec("Jane Smith", "https://d.test/"+title, title, "", ""))
		_ = i
	}

	profiles := a.Profiles(records)
	if got := profiles[0].RecentArticles; len(got) != 5 || got[0] != "One" || got[4] != "Five" {
		t.Errorf("RecentArticles = %v, want first five titles", got)
	}
	if got := profiles[0].ArticleURLs; len(got) != 5 || got[0] != "https://d.test/One" || got[4] != "https://d.test/Five" {
		t.Errorf("ArticleURLs = %v, want first five urls", got)
	}
	if profiles[0].ArticlesCount != 7 {
		t.Errorf("ArticlesCount = %d, want every record counted", profiles[0].ArticlesCount)
	}
}

func TestMostRecentDateFormats(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  string
	}{
		{"rfc3339", []string{"2026-01-01T00:00:00Z", "2026-03-01T10:00:00Z", "2026-02-01T00:00:00Z"}, "2026-03-01T10:00:00Z"},
		{"mixed layouts", []string{"January 5, 2026", "2026-03-01"}, "2026-03-01"},
		{"unparseable falls back lexicographic", []string{"vol-2 issue", "vol-10 issue"}, "vol-2 issue"},
		{"empty ignored", []string{"", "2026-01-01"}, "2026-01-01"},
	}
	a := New(testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []*types.ArticleRecord
			for i, d := range tt.dates {
				records = append(records, rec("Jane Smith", "https://d.test/"+string(rune('a'+i)), "T", "", d))
			}
			profiles := a.Profiles(records)
			if got := profiles[0].MostRecentDate; got != tt.want {
				t.Errorf("MostRecentDate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProfilesByFieldEnrichment(t *testing.T) {
	a := New(testLogger())
	r1 := rec("Jane Smith", "https://d.test/1", "One", "", "")
	r1.AuthorRole = "Reporter"
	r2 := rec("Jane Smith", "https://d.test/2", "Two", "", "")
	r2.AuthorRole = "Editor"
	r2.Twitter = "@janedoe"

	profiles := a.Profiles([]*types.ArticleRecord{r1, r2})
	p := profiles[0]
	if p.Role != "Reporter" {
		t.Errorf("Role = %q, first non-empty value must win", p.Role)
	}
	if p.Twitter != "@janedoe" {
		t.Errorf("Twitter = %q", p.Twitter)
	}
}

func TestProfileMergeEnrichment(t *testing.T) {
	p := &types.AuthorProfile{
		Name:  "Jane Smith",
		Role:  "Reporter",
		Email: "",
	}
	p.Merge(&types.Enrichment{
		Role:      "Senior Editor",
		Email:     "jane@daily.test",
		Workplace: "Daily Test",
	})

	if p.Role != "Senior Editor" {
		t.Errorf("Role = %q, enrichment must overwrite", p.Role)
	}
	if p.Email != "jane@daily.test" {
		t.Errorf("Email = %q", p.Email)
	}
	if p.Workplace != "Daily Test" {
		t.Errorf("Workplace = %q", p.Workplace)
	}

	// Empty enrichment fields never erase existing values.
	p.Merge(&types.Enrichment{})
	if p.Role != "Senior Editor" || p.Email != "jane@daily.test" {
		t.Errorf("empty merge erased fields: %+v", p)
	}
}
