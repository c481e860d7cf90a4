package timetable

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BrrBrr1/UniboOrario/internal/config"
)

// memCache is an in-memory Cache for fetcher tests.
type memCache struct {
	entries map[string]CacheEntry
	puts    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]CacheEntry)}
}

func (m *memCache) GetCache(url string) (*CacheEntry, bool) {
	entry, ok := m.entries[url]
	if !ok {
		return nil, false
	}
	return &entry, true
}

func (m *memCache) PutCache(url string, events []Event) {
	m.puts++
	m.entries[url] = CacheEntry{URL: url, Data: events, LastUpdated: time.Now()}
}

func TestFetcher_SuccessWritesCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "orario-test/1.0" {
			t.Errorf("unexpected User-Agent %q", ua)
		}
		w.Write([]byte(`[{"cod_modulo":"A","title":"Algebra","start":"2025-11-24T09:00:00","end":"2025-11-24T11:00:00","time":"09:00 - 11:00"}]`))
	}))
	defer server.Close()

	cache := newMemCache()
	fetcher := NewFetcher(cache, config.TestConfig())

	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FromCache {
		t.Error("fresh fetch must not be marked fromCache")
	}
	if len(result.Events) != 1 || result.Events[0].CodModulo != "A" {
		t.Fatalf("unexpected events %+v", result.Events)
	}
	if cache.puts != 1 {
		t.Errorf("expected 1 cache write, got %d", cache.puts)
	}
	if time.Since(result.LastUpdated) > time.Second {
		t.Error("LastUpdated should be the fetch time")
	}
}

func TestFetcher_EmptyArrayIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cache := newMemCache()
	cache.PutCache(server.URL, []Event{{CodModulo: "old"}})

	fetcher := NewFetcher(cache, config.TestConfig())
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FromCache {
		t.Error("a lesson-free week is a success, not a fallback")
	}
	if len(result.Events) != 0 {
		t.Errorf("expected no events, got %d", len(result.Events))
	}

	// The empty list overwrites the previous cache entry.
	entry, ok := cache.GetCache(server.URL)
	if !ok || len(entry.Data) != 0 {
		t.Errorf("cache should hold the empty week, got %+v", entry)
	}
}

func TestFetcher_FallsBackToCacheOnServerError(t *testing.T) {
	failing := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"cod_modulo":"A","title":"Algebra","start":"2025-11-24T09:00:00","end":"2025-11-24T11:00:00","time":"09:00 - 11:00"}]`))
	}))
	defer server.Close()

	cache := newMemCache()
	fetcher := NewFetcher(cache, config.TestConfig())

	failing = false
	first, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("seed fetch: %v", err)
	}

	failing = true
	second, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected cache fallback, got error: %v", err)
	}

	if !second.FromCache {
		t.Error("fallback result must be marked fromCache")
	}
	if len(second.Events) != len(first.Events) || second.Events[0].CodModulo != "A" {
		t.Errorf("fallback should serve the cached batch, got %+v", second.Events)
	}
	if cache.puts != 1 {
		t.Errorf("failed fetch must not write the cache, got %d writes", cache.puts)
	}
}

func TestFetcher_MalformedPayloadFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"maintenance"}`))
	}))
	defer server.Close()

	cache := newMemCache()
	cache.PutCache(server.URL, []Event{{CodModulo: "A", Title: "Algebra"}})

	fetcher := NewFetcher(cache, config.TestConfig())
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("expected cache fallback, got error: %v", err)
	}
	if !result.FromCache || result.Events[0].CodModulo != "A" {
		t.Errorf("expected cached batch, got %+v", result)
	}
}

func TestFetcher_NoNetworkNoCacheFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(newMemCache(), config.TestConfig())
	_, err := fetcher.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected an error")
	}

	var failed *FetchFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected FetchFailedError, got %T: %v", err, err)
	}
	if failed.URL != server.URL {
		t.Errorf("unexpected URL %s", failed.URL)
	}
	if failed.Unwrap() == nil {
		t.Error("expected the original cause to be wrapped")
	}
}

func TestFetcher_FallbackPreservesLastUpdated(t *testing.T) {
	cache := newMemCache()
	stamp := time.Now().Add(-2 * time.Hour)
	cache.entries["http://gone.invalid/tt"] = CacheEntry{
		URL:         "http://gone.invalid/tt",
		Data:        []Event{{CodModulo: "A"}},
		LastUpdated: stamp,
	}

	fetcher := NewFetcher(cache, config.TestConfig())
	result, err := fetcher.Fetch(context.Background(), "http://gone.invalid/tt")
	if err != nil {
		t.Fatalf("expected fallback, got %v", err)
	}
	if !result.LastUpdated.Equal(stamp) {
		t.Errorf("fallback must report the cached timestamp, got %v", result.LastUpdated)
	}
}
