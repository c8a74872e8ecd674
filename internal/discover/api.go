package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/fetcher"
	"github.com/newstrace/newstrace/internal/types"
	"github.com/newstrace/newstrace/internal/urlutil"
)

// apiPaths are probed in order against the site root and, where the root
// misses, against an api subdomain of the same host.
var apiPaths = []string{
	"/wp-json/wp/v2/posts",
	"/api/articles",
	"/api/posts",
	"/api/news",
	"/api/v1/articles",
	"/api/v2/articles",
	"/articles.json",
	"/posts.json",
}

// listKeys is the priority order for the array key inside an object-shaped
// response. The first present key wins even when it is empty.
var listKeys = []string{"articles", "posts", "data", "items", "results", "content"}

// APIProber discovers article URLs by probing well-known JSON endpoints
// before any browser-driven crawling happens.
type APIProber struct {
	client *fetcher.HTTPClient
	cfg    *config.DiscoveryConfig
	logger *slog.Logger
}

func NewAPIProber(client *fetcher.HTTPClient, cfg *config.DiscoveryConfig, logger *slog.Logger) *APIProber {
	return &APIProber{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "api_prober"),
	}
}

// Discover probes the candidate endpoints and pages through the first one
// that answers with a JSON article list. It returns up to max article URLs,
// or types.ErrNoAPIEndpoint when no endpoint works.
func (p *APIProber) Discover(ctx context.Context, baseURL string, max int) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, types.ErrInvalidURL)
	}

	roots := []string{base.Scheme + "://" + base.Host}
	if host := base.Hostname(); !strings.HasPrefix(host, "api.") && net.ParseIP(host) == nil {
		roots = append(roots, base.Scheme+"://api."+strings.TrimPrefix(base.Hostname(), "www."))
	}

	for _, root := range roots {
		for _, path := range apiPaths {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			endpoint := root + path
			urls, ok := p.pageThrough(ctx, endpoint, max)
			if !ok {
				continue
			}
			p.logger.Info("api endpoint found",
				"endpoint", endpoint,
				"urls", len(urls))
			return urls, nil
		}
	}
	return nil, types.ErrNoAPIEndpoint
}

// pageThrough fetches successive pages from one endpoint. The endpoint
// counts as authoritative once any page yields an item with a non-empty
// title, even when the items carry no usable link; paging stops on an empty
// page, a page contributing nothing new, the max target, or the page cap.
func (p *APIProber) pageThrough(ctx context.Context, endpoint string, max int) ([]string, bool) {
	pageSize := p.cfg.APIPageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	maxPages := max/pageSize + 1
	if p.cfg.APIMaxPages > 0 && maxPages > p.cfg.APIMaxPages {
		maxPages = p.cfg.APIMaxPages
	}

	seen := urlutil.NewSet()
	authoritative := false
	for page := 1; page <= maxPages; page++ {
		params := url.Values{
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(pageSize)},
			"limit":    {strconv.Itoa(pageSize)},
		}
		resp, err := p.client.Get(ctx, endpoint, params, "application/json")
		if err != nil || resp.StatusCode != 200 || !resp.IsJSON() {
			if authoritative {
				break
			}
			return nil, false
		}

		items, ok := decodeItemList(resp.Body)
		if !ok {
			if authoritative {
				break
			}
			return nil, false
		}
		if len(items) == 0 {
			break
		}

		titled := 0
		added := 0
		for _, item := range items {
			if !item.wellFormed() {
				continue
			}
			titled++
			if u := item.articleURL(); u != "" {
				if seen.Add(u) {
					added++
				}
			}
		}
		if titled == 0 {
			if authoritative {
				break
			}
			return nil, false
		}
		authoritative = true
		if added == 0 || seen.Len() >= max {
			break
		}
	}

	if !authoritative {
		return nil, false
	}
	return seen.Values(max), true
}

// apiItem is one entry of an article list. Title and link fields appear
// under several names and may be bare strings or WordPress-style rendered
// objects.
type apiItem struct {
	Title     flexString `json:"title"`
	Link      flexString `json:"link"`
	URL       flexString `json:"url"`
	Href      flexString `json:"href"`
	Permalink flexString `json:"permalink"`
}

// wellFormed reports whether the item carries a non-empty title, which is
// what qualifies its endpoint as a real article source.
func (it apiItem) wellFormed() bool {
	return strings.TrimSpace(string(it.Title)) != ""
}

func (it apiItem) articleURL() string {
	for _, v := range []string{string(it.Link), string(it.URL), string(it.Href), string(it.Permalink)} {
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			return v
		}
	}
	return ""
}

// flexString decodes either a JSON string or an object carrying the value
// under a "rendered" key.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var obj struct {
		Rendered string `json:"rendered"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*f = flexString(obj.Rendered)
		return nil
	}
	*f = ""
	return nil
}

// decodeItemList handles the two response shapes: a bare array of items, or
// an object whose article list sits under one of the known keys.
func decodeItemList(body []byte) ([]apiItem, bool) {
	var items []apiItem
	if err := json.Unmarshal(body, &items); err == nil {
		return items, true
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false
	}
	for _, key := range listKeys {
		raw, present := envelope[key]
		if !present {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, false
		}
		return items, true
	}
	return nil, false
}
