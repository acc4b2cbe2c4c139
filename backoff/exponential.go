package backoff

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoff grows the delay exponentially, initial * factor^attempt,
// capped at Max. Jitter randomizes the final delay within [0, delay) to
// avoid thundering-herd retries.
type ExponentialBackoff struct {
	// Initial is the delay after the first failed attempt.
	Initial time.Duration

	// Max caps the calculated delay. Zero means uncapped.
	Max time.Duration

	// Factor is the per-attempt multiplier. Zero defaults to 2.
	Factor float64

	// Jitter randomizes the delay within [0, delay).
	Jitter bool
}

// NewExponentialBackoff creates an exponential backoff with the usual
// defaults: 100ms initial, 30s cap, doubling, jitter on.
func NewExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		Initial: 100 * time.Millisecond,
		Max:     30 * time.Second,
		Factor:  2.0,
		Jitter:  true,
	}
}

// Next implements the Backoff interface.
func (e *ExponentialBackoff) Next(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	factor := e.Factor
	if factor == 0 {
		factor = 2.0
	}

	delay := float64(e.Initial) * math.Pow(factor, float64(attempt))
	if e.Max > 0 && delay > float64(e.Max) {
		delay = float64(e.Max)
	}

	if e.Jitter {
		delay = rand.Float64() * delay
	}

	return time.Duration(delay)
}
