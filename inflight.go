package fetchx

import (
	"context"
	"sync"

	"github.com/seb7887/fetchx/observability"
)

// InflightConfig configures the in-flight request cap.
type InflightConfig struct {
	// MaxInflight is the maximum number of concurrent requests allowed.
	// Default: 100.
	MaxInflight int

	// PerHost applies the cap per target host instead of globally.
	PerHost bool
}

// InflightMiddleware caps concurrent requests with a semaphore. When the
// cap is reached it fails fast with ErrTooManyInflight instead of queueing.
type InflightMiddleware struct {
	mu     sync.RWMutex
	slots  map[string]chan struct{}
	global chan struct{}
	config InflightConfig
}

// NewInflightMiddleware creates an in-flight cap middleware with the given
// configuration.
func NewInflightMiddleware(config InflightConfig) *InflightMiddleware {
	if config.MaxInflight == 0 {
		config.MaxInflight = 100
	}

	m := &InflightMiddleware{
		config: config,
	}
	if config.PerHost {
		m.slots = make(map[string]chan struct{})
	} else {
		m.global = make(chan struct{}, config.MaxInflight)
	}

	return m
}

// Execute implements the Middleware interface.
func (m *InflightMiddleware) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	sem := m.global
	if m.config.PerHost {
		sem = m.semaphoreFor(observability.HostOf(req.URL))
	}

	select {
	case sem <- struct{}{}:
		defer func() { <-sem }()
		return next(ctx, req)
	default:
		return nil, ErrTooManyInflight
	}
}

// Active returns the number of in-flight requests for a host, or the global
// count when the cap is global.
func (m *InflightMiddleware) Active(host string) int {
	if !m.config.PerHost {
		return len(m.global)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if sem, ok := m.slots[host]; ok {
		return len(sem)
	}
	return 0
}

func (m *InflightMiddleware) semaphoreFor(host string) chan struct{} {
	m.mu.RLock()
	sem, ok := m.slots[host]
	m.mu.RUnlock()
	if ok {
		return sem
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sem, ok := m.slots[host]; ok {
		return sem
	}

	sem = make(chan struct{}, m.config.MaxInflight)
	m.slots[host] = sem
	return sem
}
