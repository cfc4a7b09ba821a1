package connector

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/backgroundcheck/x24-platform/internal/domain"
)

// CachedConnector decorates a connector with a TTL-bounded Redis cache of
// normalized responses. Candidate records are request-scoped by default;
// this decorator is the explicit opt-in for callers that want reuse between
// assessments of the same entity.
type CachedConnector struct {
	inner  Connector
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedConnector wraps inner with a Redis cache. A nil client returns
// the inner connector unchanged so wiring stays simple when Redis is not
// configured.
func NewCachedConnector(inner Connector, client *redis.Client, ttl time.Duration, logger *slog.Logger) Connector {
	if client == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedConnector{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *CachedConnector) ID() string {
	return c.inner.ID()
}

func (c *CachedConnector) Category() domain.Category {
	return c.inner.Category()
}

func (c *CachedConnector) AppliesTo(t domain.EntityType) bool {
	return c.inner.AppliesTo(t)
}

// Call serves a cached normalized response when present, otherwise calls
// the inner connector and stores the result best-effort. Cache failures
// never fail the lookup.
func (c *CachedConnector) Call(ctx context.Context, req Request) (*NormalizedResponse, error) {
	key, err := c.cacheKey(req)
	if err == nil {
		if cached, found := c.lookup(ctx, key); found {
			return cached, nil
		}
	}

	resp, callErr := c.inner.Call(ctx, req)
	if callErr != nil {
		return nil, callErr
	}

	if err == nil {
		c.store(ctx, key, resp)
	}
	return resp, nil
}

func (c *CachedConnector) cacheKey(req Request) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("digest request: %w", err)
	}
	sum := sha256.Sum256(raw)
	return "screening:candidates:" + c.inner.ID() + ":" + hex.EncodeToString(sum[:]), nil
}

func (c *CachedConnector) lookup(ctx context.Context, key string) (*NormalizedResponse, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil && c.logger != nil {
			c.logger.WarnContext(ctx, "candidate cache lookup failed",
				"connector", c.inner.ID(), "error", err)
		}
		return nil, false
	}
	var resp NormalizedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *CachedConnector) store(ctx context.Context, key string, resp *NormalizedResponse) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "candidate cache store failed",
			"connector", c.inner.ID(), "error", err)
	}
}
