// Package retry runs an operation with exponential backoff while its errors are
// transient. Retries are opt-in: callers that never pass a Config send once.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Config describes a backoff schedule for one request.
//
// Attempt n (0-indexed) waits InitialDelay * Multiplier^n, capped at
// MaxDelay, then scaled by a random factor in [1-Jitter, 1+Jitter]. A
// Retry-After hint on the error wins when it is longer, up to MaxDelay.
type Config struct {
	// MaxAttempts counts the first request. Values below 1 mean a single attempt.
	MaxAttempts int

	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       float64

	// Retryable overrides IsTransient when set.
	Retryable func(error) bool
}

// DefaultConfig suits a shared router endpoint: four attempts spanning
// roughly 0.5s, 1s and 2s of backoff, capped at 30s per wait.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  4,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a Config that sends exactly once.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

func (c Config) attempts() int {
	return max(c.MaxAttempts, 1)
}

func (c Config) retryable(err error) bool {
	if c.Retryable != nil {
		return c.Retryable(err)
	}
	return IsTransient(err)
}

// Delay returns the backoff before retrying after attempt (0-indexed).
// Negative attempts are treated as 0; a zero Multiplier is treated as 1.
func (c Config) Delay(attempt int) time.Duration {
	attempt = max(attempt, 0)
	mult := c.Multiplier
	if mult == 0 {
		mult = 1
	}

	delay := float64(c.InitialDelay) * math.Pow(mult, float64(attempt))
	if c.MaxDelay > 0 {
		delay = math.Min(delay, float64(c.MaxDelay))
	}
	if c.Jitter > 0 {
		delay *= 1 + c.Jitter*(2*rand.Float64()-1)
	}
	return time.Duration(delay)
}
