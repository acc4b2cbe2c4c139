package fetchx

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// Sentinel errors that can be checked using errors.Is.
var (
	// ErrCircuitOpen is returned when a circuit breaker refuses a request
	// in the open state.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrTooManyInflight is returned when the in-flight request cap is
	// exceeded.
	ErrTooManyInflight = errors.New("in-flight request limit exceeded")
)

// isAbortError reports whether a transport failure was caused by
// cancellation, either the caller's context or the pipeline's timeout.
// Checked before isNetworkError: context.DeadlineExceeded also satisfies
// net.Error.
func isAbortError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// isNetworkError reports whether a transport failure is an ordinary
// connectivity failure. Anything not recognized here (or by isAbortError)
// is propagated to the caller unhandled, so programming errors are not
// masked as HTTP results.
func isNetworkError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
