package fetchx

import (
	"context"
	"sync"
	"time"

	"github.com/seb7887/fetchx/observability"
)

// CircuitState is the state of a single circuit.
type CircuitState int

const (
	// StateClosed lets requests pass through normally.
	StateClosed CircuitState = iota

	// StateOpen fails fast without reaching downstream.
	StateOpen

	// StateHalfOpen lets probe requests through to test recovery.
	StateHalfOpen
)

// String returns the state name.
func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker middleware.
type CircuitBreakerConfig struct {
	// ErrorThreshold is the failure percentage (0-100) that opens the
	// circuit. Default: 50.
	ErrorThreshold int

	// MinRequests is the minimum sample size before the threshold is
	// evaluated. Default: 10.
	MinRequests int

	// SleepWindow is how long an open circuit waits before probing.
	// Default: 5 seconds.
	SleepWindow time.Duration

	// SuccessThreshold is the number of consecutive half-open successes
	// needed to close the circuit. Default: 2.
	SuccessThreshold int

	// IsFailure overrides the default failure classification (loud errors,
	// transport-failure envelopes and 5xx statuses).
	IsFailure func(*Response, error) bool

	// Metrics, when set, publishes per-host circuit state.
	Metrics *observability.MetricsCollector
}

// circuit tracks the counters for one host.
type circuit struct {
	mu sync.Mutex

	state           CircuitState
	failures        int
	successes       int
	requests        int
	lastStateChange time.Time
	config          CircuitBreakerConfig
}

// CircuitBreakerMiddleware fails fast against hosts that keep failing,
// keeping per-host circuits so one bad dependency does not block the rest.
// An open circuit is a client-side refusal, surfaced loudly as
// ErrCircuitOpen rather than as a synthetic envelope.
type CircuitBreakerMiddleware struct {
	mu       sync.RWMutex
	circuits map[string]*circuit
	config   CircuitBreakerConfig
}

// NewCircuitBreakerMiddleware creates a circuit breaker with the given
// configuration.
func NewCircuitBreakerMiddleware(config CircuitBreakerConfig) *CircuitBreakerMiddleware {
	if config.ErrorThreshold == 0 {
		config.ErrorThreshold = 50
	}
	if config.MinRequests == 0 {
		config.MinRequests = 10
	}
	if config.SleepWindow == 0 {
		config.SleepWindow = 5 * time.Second
	}
	if config.SuccessThreshold == 0 {
		config.SuccessThreshold = 2
	}

	return &CircuitBreakerMiddleware{
		circuits: make(map[string]*circuit),
		config:   config,
	}
}

// Execute implements the Middleware interface.
func (m *CircuitBreakerMiddleware) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	host := observability.HostOf(req.URL)
	c := m.circuitFor(host)

	if !c.allow() {
		m.publishState(host, c)
		return nil, ErrCircuitOpen
	}

	resp, err := next(ctx, req)
	c.record(m.isFailure(resp, err))
	m.publishState(host, c)

	return resp, err
}

// State returns the current circuit state for a host, for monitoring.
func (m *CircuitBreakerMiddleware) State(host string) CircuitState {
	m.mu.RLock()
	c, ok := m.circuits[host]
	m.mu.RUnlock()
	if !ok {
		return StateClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (m *CircuitBreakerMiddleware) circuitFor(host string) *circuit {
	m.mu.RLock()
	c, ok := m.circuits[host]
	m.mu.RUnlock()
	if ok {
		return c
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.circuits[host]; ok {
		return c
	}

	c = &circuit{
		state:           StateClosed,
		config:          m.config,
		lastStateChange: time.Now(),
	}
	m.circuits[host] = c
	return c
}

func (m *CircuitBreakerMiddleware) isFailure(resp *Response, err error) bool {
	if m.config.IsFailure != nil {
		return m.config.IsFailure(resp, err)
	}
	if err != nil {
		return true
	}
	if resp == nil {
		return true
	}
	return resp.Status == 0 || resp.Status >= 500
}

func (m *CircuitBreakerMiddleware) publishState(host string, c *circuit) {
	if m.config.Metrics == nil {
		return
	}
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	m.config.Metrics.SetCircuitState(host, int(state))
}

// allow reports whether a request may proceed, transitioning open circuits
// to half-open once the sleep window has passed.
func (c *circuit) allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(c.lastStateChange) > c.config.SleepWindow {
			c.transition(StateHalfOpen)
			return true
		}
		return false
	case StateHalfOpen:
		return true
	default:
		return false
	}
}

func (c *circuit) record(isFailure bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests++
	if isFailure {
		c.failures++
		c.onFailure()
	} else {
		c.successes++
		c.onSuccess()
	}
}

func (c *circuit) onFailure() {
	switch c.state {
	case StateClosed:
		if c.requests >= c.config.MinRequests {
			errorRate := (c.failures * 100) / c.requests
			if errorRate >= c.config.ErrorThreshold {
				c.transition(StateOpen)
			}
		}
	case StateHalfOpen:
		// any probe failure reopens the circuit
		c.transition(StateOpen)
	}
}

func (c *circuit) onSuccess() {
	if c.state == StateHalfOpen && c.successes >= c.config.SuccessThreshold {
		c.transition(StateClosed)
	}
}

// transition resets the counters; callers hold the lock.
func (c *circuit) transition(state CircuitState) {
	c.state = state
	c.failures = 0
	c.successes = 0
	c.requests = 0
	c.lastStateChange = time.Now()
}
