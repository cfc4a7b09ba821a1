package connector

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/backgroundcheck/x24-platform/internal/connector/metrics"
)

// Caller is the single entry point for connector calls. It wraps every call
// in the connector's circuit breaker and the retry-with-backoff policy, and
// classifies failures for the orchestrator.
type Caller struct {
	registry *Registry
	breakers *BreakerRegistry
	retry    RetryConfig
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	rng      *rand.Rand
	sleep    func(ctx context.Context, d time.Duration) error
}

// CallerOption configures the Caller.
type CallerOption func(*Caller)

// WithLogger sets a logger for transition and retry reporting.
func WithLogger(logger *slog.Logger) CallerOption {
	return func(c *Caller) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) CallerOption {
	return func(c *Caller) {
		c.metrics = m
	}
}

// WithRetryConfig overrides the default retry policy.
func WithRetryConfig(cfg RetryConfig) CallerOption {
	return func(c *Caller) {
		if cfg.MaxAttempts > 0 {
			c.retry = cfg
		}
	}
}

// withSleep swaps the backoff sleep for tests.
func withSleep(sleep func(ctx context.Context, d time.Duration) error) CallerOption {
	return func(c *Caller) {
		c.sleep = sleep
	}
}

// NewCaller constructs a caller over the given connector and breaker
// registries.
func NewCaller(registry *Registry, breakers *BreakerRegistry, opts ...CallerOption) (*Caller, error) {
	if registry == nil {
		return nil, fmt.Errorf("connector registry is required")
	}
	if breakers == nil {
		return nil, fmt.Errorf("breaker registry is required")
	}
	c := &Caller{
		registry: registry,
		breakers: breakers,
		retry:    DefaultRetryConfig(),
		tracer:   otel.Tracer("connector"),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Call looks up one connector and issues the circuit-protected, retried
// call. Retryable failures (transient, rate-limited) are re-attempted with
// exponential backoff and jitter, honoring any Retry-After hint; permanent
// and auth failures propagate immediately. Every attempt passes through the
// breaker gate and a retry can itself trip the breaker.
func (c *Caller) Call(ctx context.Context, connectorID string, req Request) (*NormalizedResponse, error) {
	conn, ok := c.registry.Get(connectorID)
	if !ok {
		return nil, fmt.Errorf("connector %s not registered", connectorID)
	}

	ctx, span := c.tracer.Start(ctx, "connector.call",
		trace.WithAttributes(attribute.String("connector.id", connectorID)))
	defer span.End()

	start := time.Now()
	resp, err := c.callWithRetry(ctx, conn, req)
	c.metrics.ObserveCallDuration(connectorID, time.Since(start))
	if err != nil {
		cerr := Classify(connectorID, err)
		span.SetAttributes(attribute.String("connector.failure_kind", string(cerr.Kind)))
		c.metrics.IncrementCall(connectorID, string(cerr.Kind))
		return nil, cerr
	}
	c.metrics.IncrementCall(connectorID, "success")
	return resp, nil
}

func (c *Caller) callWithRetry(ctx context.Context, conn Connector, req Request) (*NormalizedResponse, error) {
	connectorID := conn.ID()
	breaker := c.breakers.Get(connectorID)

	var lastErr *ClassifiedError
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		transition, allowed := breaker.Allow()
		c.observeTransition(ctx, connectorID, transition)
		if !allowed {
			// Fail fast with no network attempt; pointless to retry
			// against a cooling-down breaker within one call.
			return nil, circuitOpenError(connectorID, breaker.CooldownUntil())
		}

		resp, err := conn.Call(ctx, req)
		if err == nil {
			c.observeTransition(ctx, connectorID, breaker.RecordSuccess())
			return resp, nil
		}

		lastErr = Classify(connectorID, err)
		c.observeTransition(ctx, connectorID, breaker.RecordFailure())

		if !lastErr.Retryable() || attempt == c.retry.MaxAttempts {
			return nil, lastErr
		}

		delay := backoffDelay(c.retry, attempt, lastErr.RetryAfter, c.rng)
		c.metrics.IncrementRetry(connectorID, string(lastErr.Kind))
		if c.logger != nil {
			c.logger.DebugContext(ctx, "retrying connector call",
				"connector", connectorID,
				"attempt", attempt,
				"kind", lastErr.Kind,
				"delay", delay,
			)
		}
		if err := c.sleep(ctx, delay); err != nil {
			// Caller cancellation stops retries immediately.
			return nil, Classify(connectorID, err)
		}
	}
	return nil, lastErr
}

// Breakers exposes the shared breaker registry for the operator surface.
func (c *Caller) Breakers() *BreakerRegistry {
	return c.breakers
}

func (c *Caller) observeTransition(ctx context.Context, connectorID string, t Transition) {
	if !t.Changed() {
		return
	}
	c.metrics.IncrementTransition(connectorID, t.From.String(), t.To.String())
	if c.logger != nil {
		c.logger.InfoContext(ctx, "breaker state changed",
			"connector", connectorID,
			"from", t.From.String(),
			"to", t.To.String(),
		)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
