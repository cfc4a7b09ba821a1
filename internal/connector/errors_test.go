package connector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/backgroundcheck/x24-platform/pkg/platform/sentinel"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"deadline exceeded", context.DeadlineExceeded, KindTimeout},
		{"cancellation", context.Canceled, KindTimeout},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindTimeout},
		{"net timeout", timeoutErr{}, KindTransient},
		{"opaque error", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cerr := Classify("src", tt.err)
			assert.Equal(t, tt.want, cerr.Kind)
			assert.Equal(t, "src", cerr.ConnectorID)
			assert.ErrorIs(t, cerr, tt.err)
		})
	}
}

func TestClassify_PassesThroughClassified(t *testing.T) {
	orig := ClassifyStatus("src", http.StatusServiceUnavailable, http.Header{})
	cerr := Classify("src", fmt.Errorf("wrapped: %w", orig))
	assert.Same(t, orig, cerr)
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status    int
		want      Kind
		retryable bool
	}{
		{http.StatusInternalServerError, KindTransient, true},
		{http.StatusBadGateway, KindTransient, true},
		{http.StatusTooManyRequests, KindRateLimited, true},
		{http.StatusUnauthorized, KindAuthFailure, false},
		{http.StatusForbidden, KindAuthFailure, false},
		{http.StatusBadRequest, KindPermanent, false},
		{http.StatusNotFound, KindPermanent, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			cerr := ClassifyStatus("src", tt.status, http.Header{})
			assert.Equal(t, tt.want, cerr.Kind)
			assert.Equal(t, tt.retryable, cerr.Retryable())
		})
	}
}

func TestClassifyStatus_RetryAfterSeconds(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "7")
	cerr := ClassifyStatus("src", http.StatusTooManyRequests, header)
	assert.Equal(t, 7*time.Second, cerr.RetryAfter)
}

func TestClassifyStatus_RetryAfterHTTPDate(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", time.Now().Add(30*time.Second).UTC().Format(http.TimeFormat))
	cerr := ClassifyStatus("src", http.StatusTooManyRequests, header)
	assert.Greater(t, cerr.RetryAfter, 20*time.Second)
	assert.LessOrEqual(t, cerr.RetryAfter, 30*time.Second)
}

func TestCircuitOpenError(t *testing.T) {
	cerr := circuitOpenError("src", time.Now().Add(time.Minute))
	assert.Equal(t, KindCircuitOpen, cerr.Kind)
	assert.False(t, cerr.Retryable())
	assert.ErrorIs(t, cerr, sentinel.ErrCircuitOpen)
}
