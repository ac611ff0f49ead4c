package monitor

import (
	"sync"
	"time"
)

// SeenStore tracks emitted article URLs with their first-seen time. Only
// keyword-matched articles are added, so a non-matching article can be
// re-evaluated on a later cycle. Entries older than the retention window
// are evicted at cycle boundaries, keeping memory bounded for a
// long-running monitor.
type SeenStore struct {
	mu        sync.RWMutex
	retention time.Duration
	urls      map[string]time.Time
}

// NewSeenStore creates a store that retains URLs for the given window.
// The window normally equals the fetch lookback: anything older can no
// longer be returned by a search and need not be remembered.
func NewSeenStore(retention time.Duration) *SeenStore {
	return &SeenStore{
		retention: retention,
		urls:      make(map[string]time.Time),
	}
}

// Seen reports whether the URL was already emitted within the window.
func (s *SeenStore) Seen(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.urls[url]
	return ok
}

// Add marks a URL as emitted.
func (s *SeenStore) Add(url string) {
	s.mu.Lock()
	s.urls[url] = time.Now()
	s.mu.Unlock()
}

// Len returns the number of tracked URLs.
func (s *SeenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.urls)
}

// Evict drops entries first seen before now minus the retention window
// and returns how many were removed.
func (s *SeenStore) Evict(now time.Time) int {
	cutoff := now.Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for url, first := range s.urls {
		if first.Before(cutoff) {
			delete(s.urls, url)
			evicted++
		}
	}
	return evicted
}
