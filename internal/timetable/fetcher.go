package timetable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BrrBrr1/UniboOrario/internal/config"
	"github.com/BrrBrr1/UniboOrario/internal/debuglog"
)

// Result is the outcome of resolving one timetable URL. FromCache is
// true when the data was served from the last-known-good cache after a
// failed fetch, so callers can surface a "showing saved data" notice.
type Result struct {
	Events      []Event
	LastUpdated time.Time
	FromCache   bool
}

// Fetcher resolves timetable URLs against the network, persisting
// successful responses to the cache and falling back to it on failure.
type Fetcher struct {
	client    *http.Client
	cache     Cache
	userAgent string
}

func NewFetcher(cache Cache, cfg *config.Config) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timetable.HTTPTimeout,
		},
		cache:     cache,
		userAgent: cfg.Timetable.UserAgent,
	}
}

// Fetch resolves url. On success (2xx and a well-formed JSON array,
// empty included) the response overwrites the cache entry for url and
// LastUpdated is now. On any failure the cache is consulted; if no
// entry exists the fetch fails with a FetchFailedError wrapping the
// original cause. The cache is never written on the failure path.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	events, err := f.fetchRemote(ctx, url)
	if err != nil {
		debuglog.Warnf("fetch failed for %s, trying cache: %v", url, err)
		return f.fromCache(url, err)
	}

	f.cache.PutCache(url, events)

	return &Result{
		Events:      events,
		LastUpdated: time.Now(),
		FromCache:   false,
	}, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, url string) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching timetable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	// The endpoint serves a bare JSON array of events. Anything else,
	// including a JSON object error page, is malformed.
	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if events == nil {
		events = []Event{}
	}

	return events, nil
}

func (f *Fetcher) fromCache(url string, cause error) (*Result, error) {
	entry, ok := f.cache.GetCache(url)
	if !ok {
		return nil, &FetchFailedError{URL: url, Err: cause}
	}

	debuglog.Infof("serving cached timetable for %s (last updated %s)",
		url, entry.LastUpdated.Format(time.RFC3339))

	return &Result{
		Events:      entry.Data,
		LastUpdated: entry.LastUpdated,
		FromCache:   true,
	}, nil
}
