package fetchx

import (
	"context"
	"net/http"
	"time"
)

// Transport abstracts the actual HTTP request execution. The pipeline only
// requires that it accepts a request carrying method, URL, headers, body
// and cancellation, and that abort and connectivity failures remain
// distinguishable through the returned error.
type Transport interface {
	// Do executes an HTTP request and returns the response. The context
	// drives cancellation and timeout.
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// DefaultTransport wraps the standard library's http.Client with pooled
// connections.
type DefaultTransport struct {
	client *http.Client
}

// NewDefaultTransport creates a transport with connection pooling defaults
// (100 max idle connections, 10 per host, 90 second idle timeout).
func NewDefaultTransport() *DefaultTransport {
	return &DefaultTransport{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewTransportWithClient creates a transport backed by a custom http.Client
// for full control over TLS, proxies and pooling.
func NewTransportWithClient(client *http.Client) *DefaultTransport {
	return &DefaultTransport{
		client: client,
	}
}

// Do implements the Transport interface by delegating to the underlying
// http.Client.
func (t *DefaultTransport) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	return t.client.Do(req.WithContext(ctx))
}
