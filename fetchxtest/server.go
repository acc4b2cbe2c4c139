package fetchxtest

import (
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// TestServerConfig shapes the behavior of a TestServer.
type TestServerConfig struct {
	// Latency delays every response by a fixed amount.
	Latency time.Duration

	// FailureRate is the probability (0.0-1.0) of answering 500.
	FailureRate float64

	// StatusCodes is rotated through per request. Defaults to [200].
	StatusCodes []int

	// Handler overrides all other configuration when set.
	Handler http.HandlerFunc
}

// TestServer is an httptest.Server with configurable latency, failure
// injection and status rotation.
type TestServer struct {
	*httptest.Server

	mu           sync.Mutex
	config       TestServerConfig
	requestCount int
	statusIdx    int
}

// NewTestServer creates a started test server with the given configuration.
func NewTestServer(config TestServerConfig) *TestServer {
	if len(config.StatusCodes) == 0 {
		config.StatusCodes = []int{http.StatusOK}
	}

	ts := &TestServer{
		config: config,
	}
	ts.Server = httptest.NewServer(http.HandlerFunc(ts.handle))
	return ts
}

// TestServerOption configures NewTestServerWithOptions.
type TestServerOption func(*TestServerConfig)

// WithStatusCodes sets the status codes the server rotates through.
func WithStatusCodes(codes ...int) TestServerOption {
	return func(c *TestServerConfig) {
		c.StatusCodes = codes
	}
}

// WithLatency delays every response.
func WithLatency(d time.Duration) TestServerOption {
	return func(c *TestServerConfig) {
		c.Latency = d
	}
}

// WithFailureRate makes the server answer 500 with the given probability.
func WithFailureRate(rate float64) TestServerOption {
	return func(c *TestServerConfig) {
		c.FailureRate = rate
	}
}

// WithHandler installs a custom handler, overriding everything else.
func WithHandler(h http.HandlerFunc) TestServerOption {
	return func(c *TestServerConfig) {
		c.Handler = h
	}
}

// NewTestServerWithOptions creates a started test server from options.
func NewTestServerWithOptions(opts ...TestServerOption) *TestServer {
	var config TestServerConfig
	for _, opt := range opts {
		opt(&config)
	}
	return NewTestServer(config)
}

// RequestCount returns the number of requests the server has handled.
func (ts *TestServer) RequestCount() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.requestCount
}

func (ts *TestServer) handle(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	ts.requestCount++
	status := ts.config.StatusCodes[ts.statusIdx%len(ts.config.StatusCodes)]
	ts.statusIdx++
	config := ts.config
	ts.mu.Unlock()

	if config.Handler != nil {
		config.Handler(w, r)
		return
	}

	if config.Latency > 0 {
		time.Sleep(config.Latency)
	}

	if config.FailureRate > 0 && rand.Float64() < config.FailureRate {
		status = http.StatusInternalServerError
	}

	w.WriteHeader(status)
}
