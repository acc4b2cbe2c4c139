package fetchx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/seb7887/fetchx/observability"
)

// CacheEntry is a stored response snapshot with its freshness window.
type CacheEntry struct {
	Response  *Response
	StoredAt  time.Time
	ExpiresAt time.Time
}

// CacheStore holds entries for a single cache middleware instance. Each
// instance owns its store exclusively; differently-configured caches never
// share a key space.
type CacheStore interface {
	Get(key string) (*CacheEntry, bool)
	Set(key string, entry *CacheEntry)
	Delete(key string)
}

// MemoryCacheStore is a mutex-guarded in-process CacheStore.
type MemoryCacheStore struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
}

// NewMemoryCacheStore creates an empty in-memory store.
func NewMemoryCacheStore() *MemoryCacheStore {
	return &MemoryCacheStore{
		entries: make(map[string]*CacheEntry),
	}
}

// Get implements CacheStore.
func (s *MemoryCacheStore) Get(key string) (*CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

// Set implements CacheStore.
func (s *MemoryCacheStore) Set(key string, entry *CacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
}

// Delete implements CacheStore.
func (s *MemoryCacheStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// CacheConfig configures the cache middleware.
type CacheConfig struct {
	// Store holds the snapshots. Defaults to a fresh in-memory store.
	Store CacheStore

	// TTL is the freshness window. Default: one minute.
	TTL time.Duration

	// Now is the clock, overridable in tests. Defaults to time.Now.
	Now func() time.Time

	// Metrics, when set, records cache hits and misses.
	Metrics *observability.MetricsCollector
}

// CacheMiddleware serves fresh snapshots for GET and HEAD requests without
// touching the rest of the chain: a hit short-circuits, so neither the
// terminal transport step nor any later middleware runs.
type CacheMiddleware struct {
	config CacheConfig
}

// NewCacheMiddleware creates a cache middleware with the given
// configuration.
func NewCacheMiddleware(config CacheConfig) *CacheMiddleware {
	if config.Store == nil {
		config.Store = NewMemoryCacheStore()
	}
	if config.TTL == 0 {
		config.TTL = time.Minute
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &CacheMiddleware{
		config: config,
	}
}

// Execute implements the Middleware interface.
func (m *CacheMiddleware) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return next(ctx, req)
	}

	key := req.Method + " " + req.URL
	now := m.config.Now()

	if entry, ok := m.config.Store.Get(key); ok {
		if now.Before(entry.ExpiresAt) {
			if m.config.Metrics != nil {
				m.config.Metrics.RecordCacheHit()
			}
			// rewrap the snapshot; stored envelopes are never handed out
			return entry.Response.Copy(), nil
		}
		m.config.Store.Delete(key)
	}
	if m.config.Metrics != nil {
		m.config.Metrics.RecordCacheMiss()
	}

	resp, err := next(ctx, req)
	if err == nil && resp != nil && resp.OK {
		m.config.Store.Set(key, &CacheEntry{
			Response:  resp.Copy(),
			StoredAt:  now,
			ExpiresAt: now.Add(m.config.TTL),
		})
	}

	return resp, err
}
