package backoff

import "time"

// LinearBackoff grows the delay linearly: interval * (attempt + 1).
type LinearBackoff struct {
	// Interval is the base delay multiplied by the attempt count.
	Interval time.Duration
}

// NewLinearBackoff creates a linear backoff with the given base interval.
func NewLinearBackoff(interval time.Duration) *LinearBackoff {
	return &LinearBackoff{
		Interval: interval,
	}
}

// Next implements the Backoff interface.
// With interval=100ms: attempt 0 waits 100ms, attempt 1 waits 200ms.
func (l *LinearBackoff) Next(attempt int) time.Duration {
	return l.Interval * time.Duration(attempt+1)
}
