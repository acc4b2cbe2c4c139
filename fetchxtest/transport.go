// Package fetchxtest provides test doubles and assertion helpers for
// exercising fetchx clients: a scriptable mock transport, a configurable
// test server and Prometheus metric assertions.
package fetchxtest

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockTransport is a scriptable fetchx.Transport for tests. It records
// every request it sees and answers with a fixed response, a fixed error,
// or a custom function.
type MockTransport struct {
	mu sync.Mutex

	// Response is returned when Err and Func are unset.
	Response *http.Response

	// Err is returned instead of a response. Takes precedence over
	// Response.
	Err error

	// Func handles requests when set, taking precedence over both.
	Func func(ctx context.Context, req *http.Request) (*http.Response, error)

	// Requests holds every request passed to Do, in order.
	Requests []*http.Request

	// CallCount is the number of Do invocations.
	CallCount int
}

// Do implements the fetchx.Transport interface.
func (m *MockTransport) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.CallCount++
	m.Requests = append(m.Requests, req)
	fn := m.Func
	err := m.Err
	resp := m.Response
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body == nil {
		resp.Body = io.NopCloser(strings.NewReader(""))
	}
	return resp, nil
}

// Reset clears the recorded history.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = nil
	m.CallCount = 0
}

// LastRequest returns the most recent request, or nil when none was made.
func (m *MockTransport) LastRequest() *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	return m.Requests[len(m.Requests)-1]
}

// Calls returns the number of Do invocations.
func (m *MockTransport) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// NewResponse builds an *http.Response with the given status, content type
// and body, ready to hand to a MockTransport.
func NewResponse(status int, contentType, body string) *http.Response {
	header := http.Header{}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// NewJSONResponse builds an application/json response.
func NewJSONResponse(status int, body string) *http.Response {
	return NewResponse(status, "application/json", body)
}
