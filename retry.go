package fetchx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/seb7887/fetchx/backoff"
	"github.com/seb7887/fetchx/observability"
)

// RetryConfig configures the retry middleware.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Default: 3.
	MaxAttempts int

	// Backoff is the delay strategy between attempts. Default: exponential
	// backoff with jitter.
	Backoff backoff.Backoff

	// RetryableStatusCodes lists HTTP statuses worth retrying.
	// Default: 429, 500, 502, 503, 504.
	RetryableStatusCodes []int

	// OnlyIdempotent restricts retries to idempotent methods (GET, PUT,
	// DELETE, HEAD, OPTIONS, TRACE).
	OnlyIdempotent bool

	// ShouldRetry overrides the default per-envelope retry decision.
	ShouldRetry func(*Response) bool

	// Metrics, when set, counts retry attempts per host.
	Metrics *observability.MetricsCollector
}

// RetryMiddleware re-runs the downstream chain on retryable outcomes. It
// relies on the contract's explicit re-entrancy allowance: each attempt
// invokes the continuation again with the same descriptor, so the retry
// never has to reach around the pipeline to the transport.
type RetryMiddleware struct {
	config RetryConfig
}

// NewRetryMiddleware creates a retry middleware with the given
// configuration.
func NewRetryMiddleware(config RetryConfig) *RetryMiddleware {
	if config.MaxAttempts == 0 {
		config.MaxAttempts = 3
	}
	if config.Backoff == nil {
		config.Backoff = backoff.NewExponentialBackoff()
	}
	if config.RetryableStatusCodes == nil {
		config.RetryableStatusCodes = []int{429, 500, 502, 503, 504}
	}

	return &RetryMiddleware{
		config: config,
	}
}

// Execute implements the Middleware interface.
func (m *RetryMiddleware) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	if m.config.OnlyIdempotent && !isIdempotent(req.Method) {
		return next(ctx, req)
	}

	var (
		resp        *Response
		err         error
		attemptErrs error
	)

	for attempt := 0; attempt < m.config.MaxAttempts; attempt++ {
		resp, err = next(ctx, req)
		if err != nil {
			// unexpected failure: fail loud, never retried
			return resp, err
		}

		if !m.shouldRetry(resp) {
			return resp, nil
		}

		if resp.Err != nil {
			attemptErrs = multierr.Append(attemptErrs, fmt.Errorf("attempt %d: %s", attempt+1, resp.Err.Message))
		}
		if m.config.Metrics != nil {
			m.config.Metrics.RecordRetryAttempt(observability.HostOf(req.URL))
		}

		if attempt == m.config.MaxAttempts-1 {
			break
		}

		select {
		case <-time.After(m.config.Backoff.Next(attempt)):
		case <-ctx.Done():
			return abortedResponse(req.URL), nil
		}
	}

	// Attempts exhausted. For transport failures, rewrap the final
	// envelope so its error body carries every attempt's failure.
	if resp != nil && resp.Status == 0 && resp.Err != nil && attemptErrs != nil {
		final := resp.Copy()
		final.Err = &ResponseError{
			Message: resp.Err.Message,
			Body:    attemptErrs,
		}
		return final, nil
	}

	return resp, nil
}

// shouldRetry decides per envelope: network-failure envelopes and
// configured status codes retry, aborts never do.
func (m *RetryMiddleware) shouldRetry(resp *Response) bool {
	if resp == nil {
		return false
	}
	if m.config.ShouldRetry != nil {
		return m.config.ShouldRetry(resp)
	}

	if resp.Status == 0 {
		return resp.StatusText == StatusTextNetworkError
	}

	for _, code := range m.config.RetryableStatusCodes {
		if resp.Status == code {
			return true
		}
	}
	return false
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete,
		http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
