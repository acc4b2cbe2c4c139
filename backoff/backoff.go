// Package backoff provides delay strategies for retry-style middleware.
package backoff

import "time"

// Backoff calculates the delay before a retry attempt. The attempt
// parameter is 0-indexed: 0 is the delay after the first failed attempt.
type Backoff interface {
	Next(attempt int) time.Duration
}
