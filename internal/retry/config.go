// Package retry retries gateway calls with exponential backoff when the
// failure is transient.
package retry

import (
	"math"
	"math/rand/v2"
	"time"
)

// Config holds retry configuration parameters.
type Config struct {
	// MaxAttempts is the maximum number of attempts, counting the first.
	MaxAttempts int

	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	Multiplier float64

	// Jitter randomizes each delay by up to this fraction in either direction.
	Jitter float64
}

// DefaultConfig returns the configuration used for pipeline gateway calls:
// 3 attempts, 500ms initial delay doubling up to 20s, 10% jitter.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     20 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Disabled returns a configuration that makes a single attempt.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// WithAttempts returns a copy of c with MaxAttempts set to n (minimum 1).
func (c Config) WithAttempts(n int) Config {
	c.MaxAttempts = max(n, 1)
	return c
}

// Delay calculates the delay after the given 0-indexed attempt:
// min(maxDelay, initialDelay * multiplier^attempt) scaled by jitter.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if c.MaxDelay > 0 && delay > float64(c.MaxDelay) {
		delay = float64(c.MaxDelay)
	}

	if c.Jitter > 0 {
		delay *= 1.0 + (rand.Float64()*2-1)*c.Jitter
	}

	return time.Duration(delay)
}
