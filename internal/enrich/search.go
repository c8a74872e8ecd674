// Package enrich fills author profiles from an external search API when the
// site itself gave up nothing. Lookups are rate limited and best effort.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/extract"
	"github.com/newstrace/newstrace/internal/fetcher"
	"github.com/newstrace/newstrace/internal/observability"
	"github.com/newstrace/newstrace/internal/types"
)

// searchResponse is the slice of the search API payload we read: the organic
// result list and, when present, the knowledge panel.
type searchResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	KnowledgeGraph struct {
		Title       string `json:"title"`
		Type        string `json:"type"`
		Description string `json:"description"`
	} `json:"knowledge_graph"`
}

// workplacePattern pulls an employer out of result snippets, e.g.
// "reporter at The Daily Herald" or "writes for Reuters".
var workplacePattern = regexp.MustCompile(`\b(?i:at|for|with)\s+((?:The\s+)?[A-Z][A-Za-z&.]*(?:\s+[A-Z][A-Za-z&.]*){0,3})`)

// roleWords in a snippet or knowledge-panel type signal a journalism role.
var roleWords = []string{
	"journalist", "reporter", "correspondent", "editor",
	"columnist", "writer", "contributor",
}

// Searcher queries an external search API for author context.
type Searcher struct {
	client  *fetcher.HTTPClient
	cfg     *config.EnrichmentConfig
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewSearcher(client *fetcher.HTTPClient, cfg *config.EnrichmentConfig, metrics *observability.Metrics, logger *slog.Logger) *Searcher {
	return &Searcher{
		client:  client,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger.With("component", "searcher"),
	}
}

// Search looks one author up. The query pins the author name and the outlet
// host so common names do not pull in strangers.
func (s *Searcher) Search(ctx context.Context, authorName, siteHost string) (*types.Enrichment, error) {
	params := url.Values{
		"engine":  {"google"},
		"q":       {fmt.Sprintf("%q %s journalist", authorName, siteHost)},
		"api_key": {s.cfg.SearchAPIKey},
		"num":     {"10"},
	}
	resp, err := s.client.Get(ctx, s.cfg.SearchEndpoint, params, "application/json")
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", authorName, err)
	}
	if resp.StatusCode != 200 || !resp.IsJSON() {
		return nil, fmt.Errorf("search %q: status %d: %w", authorName, resp.StatusCode, types.ErrEnrichmentFailed)
	}

	var payload searchResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("search %q: decode: %w", authorName, err)
	}
	return s.interpret(authorName, &payload), nil
}

// interpret distills an enrichment from the response. Only results that
// mention the author by name contribute.
func (s *Searcher) interpret(authorName string, payload *searchResponse) *types.Enrichment {
	e := &types.Enrichment{}

	if kg := payload.KnowledgeGraph; strings.EqualFold(kg.Title, authorName) {
		if hasRoleWord(kg.Type) {
			e.Role = kg.Type
		}
		e.Bio = kg.Description
	}

	var links []string
	for _, r := range payload.OrganicResults {
		if !strings.Contains(strings.ToLower(r.Title+" "+r.Snippet), strings.ToLower(authorName)) {
			continue
		}
		links = append(links, r.Link)

		if e.Workplace == "" && hasRoleWord(r.Snippet) {
			if m := workplacePattern.FindStringSubmatch(r.Snippet); m != nil {
				e.Workplace = strings.TrimSpace(m[1])
			}
		}
	}

	social := extract.ClassifyLinks(links)
	e.Twitter = social.Twitter.Handle
	e.LinkedIn = social.LinkedIn.Handle
	e.Instagram = social.Instagram.Handle
	e.Facebook = social.Facebook.Handle
	return e
}

// EnrichAll searches the top profiles sequentially with a delay between
// lookups. Failures are logged and skipped.
func (s *Searcher) EnrichAll(ctx context.Context, siteHost string, profiles []*types.AuthorProfile) {
	limit := s.cfg.SearchLimit
	if limit <= 0 || limit > len(profiles) {
		limit = len(profiles)
	}

	for i, p := range profiles[:limit] {
		if i > 0 && s.cfg.SearchDelay > 0 {
			t := time.NewTimer(s.cfg.SearchDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}

		e, err := s.Search(ctx, p.Name, siteHost)
		if err != nil {
			s.logger.Debug("search enrichment failed", "author", p.Name, "error", err)
			continue
		}
		if e.IsEmpty() {
			continue
		}
		s.metrics.SearchHits.Add(1)
		p.Merge(e)
	}
}

func hasRoleWord(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range roleWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
