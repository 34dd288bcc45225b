package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// serpLocationsBase is the SerpApi locations endpoint (no API key needed).
// Declared as a var so tests can substitute an httptest server.
var serpLocationsBase = "https://serpapi.com/locations.json"

const locationCacheMax = 100

type locationEntry struct {
	data    []byte
	fetched time.Time
}

// locationCache memoizes location autocomplete responses for a short TTL.
type locationCache struct {
	mu      sync.Mutex
	client  *http.Client
	ttl     time.Duration
	entries map[string]locationEntry
}

func newLocationCache(ttl time.Duration, client *http.Client) *locationCache {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &locationCache{
		client:  client,
		ttl:     ttl,
		entries: make(map[string]locationEntry),
	}
}

// lookup returns the raw JSON for a query, from cache when fresh.
func (lc *locationCache) lookup(ctx context.Context, query, limit string) ([]byte, error) {
	key := query + "|" + limit

	lc.mu.Lock()
	if e, ok := lc.entries[key]; ok && time.Since(e.fetched) < lc.ttl {
		lc.mu.Unlock()
		return e.data, nil
	}
	lc.mu.Unlock()

	params := url.Values{"limit": {limit}}
	if query != "" {
		params.Set("q", query)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serpLocationsBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := lc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching locations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("locations API returned HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()
	if len(lc.entries) >= locationCacheMax {
		lc.evictOldest()
	}
	lc.entries[key] = locationEntry{data: data, fetched: time.Now()}
	return data, nil
}

// evictOldest is called with the lock held.
func (lc *locationCache) evictOldest() {
	var oldest string
	var oldestAt time.Time
	for k, e := range lc.entries {
		if oldest == "" || e.fetched.Before(oldestAt) {
			oldest = k
			oldestAt = e.fetched
		}
	}
	if oldest != "" {
		delete(lc.entries, oldest)
	}
}
