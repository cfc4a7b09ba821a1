// Package handler wires the assessment endpoints to the orchestrator.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/backgroundcheck/x24-platform/internal/domain"
	"github.com/backgroundcheck/x24-platform/pkg/platform/httputil"
	"github.com/backgroundcheck/x24-platform/pkg/platform/sentinel"
)

// defaultAssessTimeout bounds one screening pass when the caller supplies no
// deadline of its own.
const defaultAssessTimeout = 30 * time.Second

// Service defines the orchestrator operations the handler depends on.
type Service interface {
	Assess(ctx context.Context, entity domain.Entity) (*domain.Assessment, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Assessment, error)
}

// Handler exposes assessments over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an assessment handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts assessment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/assessments", h.HandleAssess)
	r.Get("/assessments/{id}", h.HandleGet)
}

// HandleAssess handles POST /v1/assessments.
func (h *Handler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[AssessRequest](w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultAssessTimeout)
		defer cancel()
	}

	start := time.Now()
	assessment, err := h.service.Assess(ctx, req.ToEntity())
	if err != nil {
		h.logger.ErrorContext(ctx, "assessment failed",
			"entity_name", req.Name,
			"entity_type", req.Type,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "assessment served",
		"assessment_id", assessment.ID.String(),
		"level", string(assessment.Verdict.Level),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromAssessment(assessment))
}

// HandleGet handles GET /v1/assessments/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, fmt.Errorf("malformed assessment id: %w", sentinel.ErrInvalidInput))
		return
	}
	assessment, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAssessment(assessment))
}
