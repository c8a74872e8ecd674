package urlutil

import "sync"

// Set is a concurrency-safe string set. Insertion is idempotent, so simple
// mutual exclusion around the map is all the coordination the crawl needs.
type Set struct {
	mu   sync.Mutex
	seen map[string]struct{}
	keys []string
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{seen: make(map[string]struct{})}
}

// Add inserts a value after canonicalization. Returns true if it was new.
func (s *Set) Add(rawURL string) bool {
	key := Canonicalize(rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	s.keys = append(s.keys, rawURL)
	return true
}

// Contains reports membership.
func (s *Set) Contains(rawURL string) bool {
	key := Canonicalize(rawURL)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[key]
	return ok
}

// Len returns the set size.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// Values returns the inserted URLs in insertion order, truncated to max when
// max > 0.
func (s *Set) Values(max int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
