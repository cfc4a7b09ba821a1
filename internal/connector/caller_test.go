package connector

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backgroundcheck/x24-platform/internal/domain"
	"github.com/backgroundcheck/x24-platform/pkg/platform/sentinel"
)

// scriptedConnector returns the scripted errors in order, then succeeds.
type scriptedConnector struct {
	id       string
	category domain.Category
	script   []error
	calls    int
}

func (c *scriptedConnector) ID() string { return c.id }

func (c *scriptedConnector) Category() domain.Category { return c.category }

func (c *scriptedConnector) AppliesTo(domain.EntityType) bool { return true }

func (c *scriptedConnector) Call(_ context.Context, _ Request) (*NormalizedResponse, error) {
	defer func() { c.calls++ }()
	if c.calls < len(c.script) {
		if err := c.script[c.calls]; err != nil {
			return nil, err
		}
	}
	return &NormalizedResponse{ConnectorID: c.id, RetrievedAt: time.Now()}, nil
}

func newTestCaller(t *testing.T, conn Connector, breakerCfg BreakerConfig, retryCfg RetryConfig) *Caller {
	t.Helper()
	registry := NewRegistry()
	require.NoError(t, registry.Register(conn))

	caller, err := NewCaller(registry, NewBreakerRegistry(breakerCfg),
		WithRetryConfig(retryCfg),
		withSleep(func(ctx context.Context, _ time.Duration) error { return ctx.Err() }),
	)
	require.NoError(t, err)
	return caller
}

func rateLimited(id string) error {
	return ClassifyStatus(id, http.StatusTooManyRequests, http.Header{})
}

func TestCaller_RetriesRateLimitedThenSucceeds(t *testing.T) {
	conn := &scriptedConnector{
		id:       "sanctions-ofac",
		category: domain.CategorySanctions,
		script:   []error{rateLimited("sanctions-ofac"), rateLimited("sanctions-ofac"), rateLimited("sanctions-ofac")},
	}
	caller := newTestCaller(t, conn,
		BreakerConfig{FailureThreshold: 10, BaseCooldown: time.Second, MaxCooldown: time.Minute},
		RetryConfig{MaxAttempts: 4, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	)

	resp, err := caller.Call(context.Background(), "sanctions-ofac", Request{Name: "Acme Holdings"})
	require.NoError(t, err)
	assert.Equal(t, "sanctions-ofac", resp.ConnectorID)
	assert.Equal(t, 4, conn.calls)
	assert.Equal(t, StateClosed, caller.Breakers().Get("sanctions-ofac").State())
}

func TestCaller_RetriesExhausted(t *testing.T) {
	conn := &scriptedConnector{
		id:     "pep-lists",
		script: []error{rateLimited("pep-lists"), rateLimited("pep-lists"), rateLimited("pep-lists")},
	}
	caller := newTestCaller(t, conn,
		BreakerConfig{FailureThreshold: 10, BaseCooldown: time.Second, MaxCooldown: time.Minute},
		RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	)

	_, err := caller.Call(context.Background(), "pep-lists", Request{Name: "Jane Doe"})
	require.Error(t, err)

	cerr := Classify("pep-lists", err)
	assert.Equal(t, KindRateLimited, cerr.Kind)
	assert.Equal(t, 3, conn.calls)
}

func TestCaller_PermanentFailureNotRetried(t *testing.T) {
	conn := &scriptedConnector{
		id:     "criminal-db",
		script: []error{ClassifyStatus("criminal-db", http.StatusBadRequest, http.Header{})},
	}
	caller := newTestCaller(t, conn,
		DefaultBreakerConfig(),
		RetryConfig{MaxAttempts: 4, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	)

	_, err := caller.Call(context.Background(), "criminal-db", Request{Name: "Jane Doe"})
	require.Error(t, err)
	assert.Equal(t, 1, conn.calls, "permanent failures must propagate without retry")
}

func TestCaller_AuthFailureNotRetried(t *testing.T) {
	conn := &scriptedConnector{
		id:     "threat-feed",
		script: []error{ClassifyStatus("threat-feed", http.StatusUnauthorized, http.Header{})},
	}
	caller := newTestCaller(t, conn,
		DefaultBreakerConfig(),
		RetryConfig{MaxAttempts: 4, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	)

	_, err := caller.Call(context.Background(), "threat-feed", Request{Name: "Jane Doe"})
	require.Error(t, err)

	cerr := Classify("threat-feed", err)
	assert.Equal(t, KindAuthFailure, cerr.Kind)
	assert.Equal(t, 1, conn.calls)
}

func TestCaller_OpenBreakerFailsFast(t *testing.T) {
	conn := &scriptedConnector{
		id: "sanctions-ofac",
		script: []error{
			rateLimited("sanctions-ofac"), rateLimited("sanctions-ofac"), rateLimited("sanctions-ofac"),
		},
	}
	caller := newTestCaller(t, conn,
		BreakerConfig{FailureThreshold: 3, BaseCooldown: time.Hour, MaxCooldown: time.Hour},
		RetryConfig{MaxAttempts: 5, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	)

	// Three retryable failures trip the breaker; the fourth attempt is
	// denied by the gate without reaching the source.
	_, err := caller.Call(context.Background(), "sanctions-ofac", Request{Name: "Acme Holdings"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrCircuitOpen)
	assert.Equal(t, 3, conn.calls)

	// Subsequent calls fail fast with zero attempts.
	_, err = caller.Call(context.Background(), "sanctions-ofac", Request{Name: "Acme Holdings"})
	assert.ErrorIs(t, err, sentinel.ErrCircuitOpen)
	assert.Equal(t, 3, conn.calls)
}

func TestCaller_CancellationStopsRetries(t *testing.T) {
	conn := &scriptedConnector{
		id:     "watchlist-gen",
		script: []error{rateLimited("watchlist-gen"), rateLimited("watchlist-gen")},
	}
	registry := NewRegistry()
	require.NoError(t, registry.Register(conn))

	caller, err := NewCaller(registry, NewBreakerRegistry(DefaultBreakerConfig()),
		WithRetryConfig(RetryConfig{MaxAttempts: 4, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}),
		withSleep(func(_ context.Context, _ time.Duration) error { return context.Canceled }),
	)
	require.NoError(t, err)

	_, err = caller.Call(context.Background(), "watchlist-gen", Request{Name: "Jane Doe"})
	require.Error(t, err)

	cerr := Classify("watchlist-gen", err)
	assert.Equal(t, KindTimeout, cerr.Kind)
	assert.Equal(t, 1, conn.calls, "cancellation during backoff must stop further attempts")
}

func TestCaller_UnknownConnector(t *testing.T) {
	caller, err := NewCaller(NewRegistry(), NewBreakerRegistry(DefaultBreakerConfig()))
	require.NoError(t, err)

	_, err = caller.Call(context.Background(), "nope", Request{Name: "Jane Doe"})
	assert.Error(t, err)
}
