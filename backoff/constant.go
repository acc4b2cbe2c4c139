package backoff

import (
	"math/rand"
	"time"
)

// ConstantBackoff waits a fixed interval between attempts, optionally
// spread by a random jitter to avoid lockstep retries.
type ConstantBackoff struct {
	// Interval is the fixed delay between attempts.
	Interval time.Duration

	// MaxJitter, when positive, adds a random delay in [0, MaxJitter).
	MaxJitter time.Duration
}

// NewConstantBackoff creates a constant backoff without jitter.
func NewConstantBackoff(interval time.Duration) *ConstantBackoff {
	return &ConstantBackoff{
		Interval: interval,
	}
}

// Next implements the Backoff interface.
func (c *ConstantBackoff) Next(int) time.Duration {
	delay := c.Interval
	if c.MaxJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(c.MaxJitter)))
	}
	return delay
}
