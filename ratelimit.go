package fetchx

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the client-side token bucket.
type RateLimitConfig struct {
	// Rate is the sustained request rate in requests per second. Zero
	// means unlimited.
	Rate rate.Limit

	// Burst is the bucket size. Default: 1.
	Burst int
}

// RateLimitMiddleware throttles outgoing requests with a shared token
// bucket. Waiting respects the request context; a cancellation or timeout
// while queued yields the standard aborted envelope.
type RateLimitMiddleware struct {
	limiter *rate.Limiter
}

// NewRateLimitMiddleware creates a rate-limit middleware with the given
// configuration.
func NewRateLimitMiddleware(config RateLimitConfig) *RateLimitMiddleware {
	limit := config.Rate
	if limit == 0 {
		limit = rate.Inf
	}
	burst := config.Burst
	if burst == 0 {
		burst = 1
	}

	return &RateLimitMiddleware{
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Limiter exposes the underlying token bucket for inspection.
func (m *RateLimitMiddleware) Limiter() *rate.Limiter {
	return m.limiter
}

// Execute implements the Middleware interface.
func (m *RateLimitMiddleware) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return abortedResponse(req.URL), nil
	}
	return next(ctx, req)
}
