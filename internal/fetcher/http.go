package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/types"
)

const maxBodySize = 10 * 1024 * 1024 // 10MB

// HTTPClient is a plain HTTP client for endpoints that do not need a
// rendered DOM: API probes, reachability checks, and search enrichment.
type HTTPClient struct {
	client     *http.Client
	logger     *slog.Logger
	userAgents []string
	uaIndex    atomic.Int64
}

// NewHTTPClient creates a new HTTP client with shared transport settings.
func NewHTTPClient(cfg *config.FetcherConfig, logger *slog.Logger) *HTTPClient {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true, // decompression handled below, including brotli
	}

	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   15 * time.Second,
		},
		logger:     logger.With("component", "http_client"),
		userAgents: cfg.UserAgents,
	}
}

// Response is the outcome of a plain HTTP GET.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// IsJSON reports whether the response declared a JSON content type.
func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType, "application/json")
}

// Get issues a GET with optional query parameters and decompresses the body.
func (c *HTTPClient) Get(ctx context.Context, rawURL string, params url.Values, accept string) (*Response, error) {
	target := rawURL
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		target = rawURL + sep + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", c.nextUserAgent())
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := decompress(resp)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: err}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Reachable checks whether a URL answers with a non-error status.
// Tries HEAD first, then GET, since some sites reject HEAD.
func (c *HTTPClient) Reachable(ctx context.Context, rawURL string) bool {
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
		if err != nil {
			return false
		}
		req.Header.Set("User-Agent", c.nextUserAgent())

		resp, err := c.client.Do(req)
		if err != nil {
			continue
		}
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		if resp.StatusCode < 400 {
			return true
		}
		if method == http.MethodGet {
			return false
		}
	}
	return false
}

// nextUserAgent rotates through configured user agents round-robin.
func (c *HTTPClient) nextUserAgent() string {
	if len(c.userAgents) == 0 {
		return "Mozilla/5.0 (compatible; newstrace/1.0)"
	}
	i := c.uaIndex.Add(1)
	return c.userAgents[int(i)%len(c.userAgents)]
}

// decompress reads the response body, handling gzip, deflate, and brotli.
func decompress(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	return io.ReadAll(io.LimitReader(reader, maxBodySize))
}
