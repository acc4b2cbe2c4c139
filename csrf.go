package fetchx

import (
	"context"
	"net/http"
	"sync"
)

// KeyValueStore is the cookie-like key/value collaborator consulted by the
// CSRF middleware: string pairs scoped to wherever the embedding
// application keeps its session state.
type KeyValueStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryKeyValueStore is a mutex-guarded in-process KeyValueStore.
type MemoryKeyValueStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKeyValueStore creates an empty in-memory store.
func NewMemoryKeyValueStore() *MemoryKeyValueStore {
	return &MemoryKeyValueStore{
		values: make(map[string]string),
	}
}

// Get implements KeyValueStore.
func (s *MemoryKeyValueStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set implements KeyValueStore.
func (s *MemoryKeyValueStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	// Store holds the token under TokenKey. Defaults to a fresh in-memory
	// store.
	Store KeyValueStore

	// TokenKey is the store key holding the token. Default: "XSRF-TOKEN".
	TokenKey string

	// HeaderName is the request header carrying the token.
	// Default: "X-XSRF-TOKEN".
	HeaderName string
}

// CSRFMiddleware attaches a CSRF token header to mutating requests. When no
// token is stored the request proceeds untouched.
type CSRFMiddleware struct {
	config CSRFConfig
}

// NewCSRFMiddleware creates a CSRF middleware with the given configuration.
func NewCSRFMiddleware(config CSRFConfig) *CSRFMiddleware {
	if config.Store == nil {
		config.Store = NewMemoryKeyValueStore()
	}
	if config.TokenKey == "" {
		config.TokenKey = "XSRF-TOKEN"
	}
	if config.HeaderName == "" {
		config.HeaderName = "X-XSRF-TOKEN"
	}

	return &CSRFMiddleware{
		config: config,
	}
}

// Store returns the underlying token store so the embedding application can
// seed it.
func (m *CSRFMiddleware) Store() KeyValueStore {
	return m.config.Store
}

// Execute implements the Middleware interface.
func (m *CSRFMiddleware) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	if !isMutating(req.Method) {
		return next(ctx, req)
	}

	token, ok := m.config.Store.Get(m.config.TokenKey)
	if !ok || token == "" {
		return next(ctx, req)
	}

	r := req.Clone()
	r.Header.Set(m.config.HeaderName, token)
	return next(ctx, r)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
