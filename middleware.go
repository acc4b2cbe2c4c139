package fetchx

import "context"

// Next is the continuation a middleware invokes to proceed to the next
// pipeline stage (either another middleware or the terminal transport
// step).
type Next func(ctx context.Context, req *Request) (*Response, error)

// Middleware is the single extensibility point of the pipeline.
//
// A middleware must either call next exactly once, optionally with a
// replaced (cloned) request, and return or transform its result, or return
// its own Response without calling next at all (short-circuit, e.g. a cache
// hit). Calling next repeatedly is reserved for retry-style middleware that
// deliberately re-runs the downstream chain per attempt.
//
// The incoming request must be treated as immutable; modifications go
// through Request.Clone.
type Middleware interface {
	// Execute runs the middleware logic around the next stage in the chain.
	Execute(ctx context.Context, req *Request, next Next) (*Response, error)
}

// MiddlewareFunc adapts a plain function to the Middleware interface.
type MiddlewareFunc func(ctx context.Context, req *Request, next Next) (*Response, error)

// Execute implements the Middleware interface.
func (f MiddlewareFunc) Execute(ctx context.Context, req *Request, next Next) (*Response, error) {
	return f(ctx, req, next)
}

// Chain composes the middleware list around a terminal executor. The first
// registered middleware is outermost: requests traverse the list in
// registration order and responses unwind in reverse order, standard
// chain-of-responsibility semantics.
func Chain(middlewares []Middleware, terminal Next) Next {
	next := terminal

	for i := len(middlewares) - 1; i >= 0; i-- {
		m := middlewares[i]
		downstream := next

		next = func(ctx context.Context, req *Request) (*Response, error) {
			return m.Execute(ctx, req, downstream)
		}
	}

	return next
}
