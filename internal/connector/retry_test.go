package connector

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay_ExponentialSchedule(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}

	assert.Equal(t, 100*time.Millisecond, backoffDelay(cfg, 1, 0, nil))
	assert.Equal(t, 200*time.Millisecond, backoffDelay(cfg, 2, 0, nil))
	assert.Equal(t, 400*time.Millisecond, backoffDelay(cfg, 3, 0, nil))
	assert.Equal(t, 800*time.Millisecond, backoffDelay(cfg, 4, 0, nil))
	// Capped at MaxDelay from then on.
	assert.Equal(t, time.Second, backoffDelay(cfg, 5, 0, nil))
	assert.Equal(t, time.Second, backoffDelay(cfg, 12, 0, nil))
}

func TestBackoffDelay_RetryAfterHintWins(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second}

	// A hint beyond the scheduled delay takes precedence.
	assert.Equal(t, 3*time.Second, backoffDelay(cfg, 1, 3*time.Second, nil))
	// A hint below the scheduled delay does not shorten it.
	assert.Equal(t, 400*time.Millisecond, backoffDelay(cfg, 3, 50*time.Millisecond, nil))
}

func TestBackoffDelay_JitterStaysBounded(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second, Jitter: 0.2}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		d := backoffDelay(cfg, 2, 0, rng)
		assert.GreaterOrEqual(t, d, 160*time.Millisecond)
		assert.LessOrEqual(t, d, 240*time.Millisecond)
	}
}
