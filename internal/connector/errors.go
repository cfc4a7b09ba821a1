package connector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/backgroundcheck/x24-platform/pkg/platform/sentinel"
)

// Kind buckets connector failures for retry and reporting decisions.
type Kind string

const (
	KindTransient   Kind = "transient"
	KindRateLimited Kind = "rate-limited"
	KindAuthFailure Kind = "auth-failure"
	KindPermanent   Kind = "permanent"
	KindCircuitOpen Kind = "circuit-open"
	KindTimeout     Kind = "timeout"
	KindUnknown     Kind = "unknown"
)

// ClassifiedError is a connector failure with retry semantics attached.
type ClassifiedError struct {
	ConnectorID string
	Kind        Kind
	RetryAfter  time.Duration // backoff hint, only set for rate-limited
	Err         error
}

func (e *ClassifiedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connector %s: %s: %v", e.ConnectorID, e.Kind, e.Err)
	}
	return fmt.Sprintf("connector %s: %s", e.ConnectorID, e.Kind)
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the retry policy may attempt the call again.
// Permanent and auth failures propagate immediately.
func (e *ClassifiedError) Retryable() bool {
	return e.Kind == KindTransient || e.Kind == KindRateLimited
}

// Classify buckets a transport-level error. Timeouts and connection problems
// are transient; a caller-deadline expiry is reported as timeout so the
// orchestrator can distinguish deadline exhaustion from source flakiness.
func Classify(connectorID string, err error) *ClassifiedError {
	var cerr *ClassifiedError
	if errors.As(err, &cerr) {
		return cerr
	}

	kind := KindUnknown
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = KindTimeout
	case isNetTimeout(err):
		kind = KindTransient
	}
	return &ClassifiedError{ConnectorID: connectorID, Kind: kind, Err: err}
}

// ClassifyStatus buckets an HTTP response status per the adapter contract:
// 5xx transient, 429 rate-limited with Retry-After hint, 401/403 auth
// failure, remaining 4xx permanent.
func ClassifyStatus(connectorID string, status int, header http.Header) *ClassifiedError {
	cerr := &ClassifiedError{
		ConnectorID: connectorID,
		Err:         fmt.Errorf("unexpected status %d", status),
	}
	switch {
	case status >= 500:
		cerr.Kind = KindTransient
	case status == http.StatusTooManyRequests:
		cerr.Kind = KindRateLimited
		cerr.RetryAfter = parseRetryAfter(header.Get("Retry-After"))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		cerr.Kind = KindAuthFailure
	case status >= 400:
		cerr.Kind = KindPermanent
	default:
		cerr.Kind = KindUnknown
	}
	return cerr
}

// circuitOpenError builds the fail-fast error returned without a network
// attempt while a breaker is open.
func circuitOpenError(connectorID string, until time.Time) *ClassifiedError {
	return &ClassifiedError{
		ConnectorID: connectorID,
		Kind:        KindCircuitOpen,
		Err:         fmt.Errorf("cooldown until %s: %w", until.Format(time.RFC3339), sentinel.ErrCircuitOpen),
	}
}

func isNetTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
