package connector

import (
	"math/rand"
	"time"
)

// RetryConfig tunes the retry-with-backoff policy wrapped around every
// circuit-protected call.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
	Jitter      float64       `yaml:"jitter"` // fraction of the delay, in [0,1]
}

// DefaultRetryConfig returns the tuning used when none is configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Jitter:      0.2,
	}
}

// backoffDelay computes the wait before retry number attempt (1-based).
// A positive hint (Retry-After) takes precedence over the exponential
// schedule; jitter spreads concurrent retries apart.
func backoffDelay(cfg RetryConfig, attempt int, hint time.Duration, rng *rand.Rand) time.Duration {
	delay := cfg.BaseDelay << (attempt - 1)
	if delay <= 0 || delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	if hint > delay {
		delay = hint
	}
	if cfg.Jitter > 0 && rng != nil {
		spread := float64(delay) * cfg.Jitter
		delay += time.Duration((rng.Float64()*2 - 1) * spread)
	}
	if delay < 0 {
		delay = 0
	}
	if delay > cfg.MaxDelay && hint <= cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}
