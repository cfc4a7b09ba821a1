package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backgroundcheck/x24-platform/internal/connector"
	"github.com/backgroundcheck/x24-platform/internal/connector/handler"
	"github.com/backgroundcheck/x24-platform/pkg/testutil"
)

func newRouter(breakers *connector.BreakerRegistry) http.Handler {
	r := chi.NewRouter()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler.New(breakers, logger).Register(r)
	return r
}

func trippedRegistry(connectorID string) *connector.BreakerRegistry {
	reg := connector.NewBreakerRegistry(connector.BreakerConfig{
		FailureThreshold: 1, BaseCooldown: time.Hour, MaxCooldown: time.Hour,
	})
	reg.Get(connectorID).RecordFailure()
	return reg
}

func TestHandleStates(t *testing.T) {
	router := newRouter(trippedRegistry("sanctions-ofac"))

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/connectors/breakers"))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "open", body["sanctions-ofac"])
}

func TestHandleReset(t *testing.T) {
	breakers := trippedRegistry("sanctions-ofac")
	router := newRouter(breakers)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/connectors/sanctions-ofac/reset"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, connector.StateClosed, breakers.Get("sanctions-ofac").State())
}

func TestHandleReset_UnknownConnector(t *testing.T) {
	router := newRouter(connector.NewBreakerRegistry(connector.DefaultBreakerConfig()))

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/connectors/never-called/reset"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
