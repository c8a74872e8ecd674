package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidURL       = errors.New("invalid URL")
	ErrNoArticlesFound  = errors.New("no article URLs discovered")
	ErrNoAPIEndpoint    = errors.New("no structured API endpoint found")
	ErrOutletNotFound   = errors.New("could not resolve outlet website")
	ErrProfileNotFound  = errors.New("no author profile page found")
	ErrEnrichmentFailed = errors.New("enrichment search failed")
)

// FetchError wraps a failed page fetch. Fetch failures are always recoverable
// at the pipeline level: callers treat them as "no data from this URL".
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StorageError wraps errors from a persistence backend.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
