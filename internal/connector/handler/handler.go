// Package handler exposes the operator surface for connector breakers.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/backgroundcheck/x24-platform/internal/connector"
	"github.com/backgroundcheck/x24-platform/pkg/platform/httputil"
	"github.com/backgroundcheck/x24-platform/pkg/platform/sentinel"
)

// Handler exposes breaker diagnostics and the manual reset used after a
// source outage is known to be resolved.
type Handler struct {
	breakers *connector.BreakerRegistry
	logger   *slog.Logger
}

// New constructs a connector operations handler.
func New(breakers *connector.BreakerRegistry, logger *slog.Logger) *Handler {
	return &Handler{breakers: breakers, logger: logger}
}

// Register mounts connector endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/connectors/breakers", h.HandleStates)
	r.Post("/connectors/{id}/reset", h.HandleReset)
}

// HandleStates handles GET /v1/connectors/breakers.
func (h *Handler) HandleStates(w http.ResponseWriter, r *http.Request) {
	states := h.breakers.States()
	body := make(map[string]string, len(states))
	for id, state := range states {
		body[id] = state.String()
	}
	httputil.WriteJSON(w, http.StatusOK, body)
}

// HandleReset handles POST /v1/connectors/{id}/reset.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.breakers.Reset(id) {
		httputil.WriteError(w, sentinel.ErrNotFound)
		return
	}
	h.logger.InfoContext(r.Context(), "breaker reset by operator", "connector", id)
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"connector": id, "state": "closed"})
}
