package fetcher

import (
	"bytes"
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// WaitMode selects the navigation readiness condition.
type WaitMode int

const (
	// WaitDOMReady resolves once the DOM has been parsed. Fast; the default
	// for high-volume article fetches.
	WaitDOMReady WaitMode = iota

	// WaitNetworkIdle resolves once network traffic settles. Slower but more
	// complete; used for the first discovery pass where completeness matters
	// more than speed.
	WaitNetworkIdle
)

// Options controls a single fetch.
type Options struct {
	Timeout time.Duration
	Wait    WaitMode
}

// Page is the rendered result of one fetch.
type Page struct {
	URL           string
	FinalURL      string
	HTML          string
	FetchedAt     time.Time
	FetchDuration time.Duration

	doc *goquery.Document
}

// Document returns a parsed goquery document, lazily initializing it.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(p.HTML)))
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}

// Fetcher renders URLs through a headless browser. A failed fetch is
// non-fatal to callers: they treat the error as "no data from this URL".
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, opts Options) (*Page, error)
	Close() error
}
