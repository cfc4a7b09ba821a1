package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/backgroundcheck/x24-platform/internal/assessment/metrics"
	"github.com/backgroundcheck/x24-platform/internal/connector"
	"github.com/backgroundcheck/x24-platform/internal/domain"
	"github.com/backgroundcheck/x24-platform/internal/match"
	"github.com/backgroundcheck/x24-platform/internal/risk"
	"github.com/backgroundcheck/x24-platform/pkg/platform/sentinel"
)

// Store persists completed assessments for later retrieval.
type Store interface {
	Save(ctx context.Context, a *domain.Assessment) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Assessment, error)
}

// Publisher emits completed assessments to downstream consumers.
type Publisher interface {
	PublishAssessment(ctx context.Context, a *domain.Assessment) error
}

// Service orchestrates one screening pass: connector fan-out, per-domain
// matching, and risk aggregation. It holds no per-assessment state; every
// call is independent.
type Service struct {
	registry   *connector.Registry
	caller     *connector.Caller
	matcher    *match.Engine
	aggregator *risk.Aggregator
	store      Store
	publisher  Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	now        func() time.Time
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithStore enables persistence of completed assessments.
func WithStore(store Store) ServiceOption {
	return func(s *Service) {
		s.store = store
	}
}

// WithPublisher enables downstream event publication.
func WithPublisher(p Publisher) ServiceOption {
	return func(s *Service) {
		s.publisher = p
	}
}

// NewService constructs the orchestrator over its collaborators.
func NewService(registry *connector.Registry, caller *connector.Caller, matcher *match.Engine, aggregator *risk.Aggregator, opts ...ServiceOption) (*Service, error) {
	if registry == nil {
		return nil, fmt.Errorf("connector registry is required")
	}
	if caller == nil {
		return nil, fmt.Errorf("connector caller is required")
	}
	if matcher == nil {
		return nil, fmt.Errorf("match engine is required")
	}
	if aggregator == nil {
		return nil, fmt.Errorf("risk aggregator is required")
	}
	s := &Service{
		registry:   registry,
		caller:     caller,
		matcher:    matcher,
		aggregator: aggregator,
		tracer:     otel.Tracer("assessment"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// connectorOutcome is one connector's contribution, success or classified
// failure, collected under a shared mutex during the fan-out.
type connectorOutcome struct {
	category   domain.Category
	candidates []domain.CandidateRecord
}

// Assess runs one full screening pass for the entity. All applicable
// connectors are queried concurrently; individual failures degrade coverage
// instead of failing the pass, and deadline expiry abandons whatever is
// still in flight. The verdict over whatever evidence arrived is always
// produced. Re-running with identical inputs yields an identical verdict
// under a fresh assessment ID.
func (s *Service) Assess(ctx context.Context, entity domain.Entity) (*domain.Assessment, error) {
	if err := validateEntity(entity); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "assessment.assess",
		trace.WithAttributes(attribute.String("entity.type", string(entity.Type))))
	defer span.End()

	startedAt := s.now()
	connectors := s.registry.Applicable(entity.Type)
	req := connector.RequestFromEntity(entity)

	var (
		mu       sync.Mutex
		outcomes []connectorOutcome
		failures = make(map[string]string)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, conn := range connectors {
		conn := conn
		g.Go(func() error {
			resp, err := s.caller.Call(gctx, conn.ID(), req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[conn.ID()] = failureKind(err)
				if s.logger != nil {
					s.logger.WarnContext(gctx, "connector failed, degrading coverage",
						"connector", conn.ID(),
						"category", string(conn.Category()),
						"kind", failures[conn.ID()],
					)
				}
				return nil
			}
			outcomes = append(outcomes, connectorOutcome{
				category:   conn.Category(),
				candidates: resp.Candidates,
			})
			return nil
		})
	}
	// Goroutines never return errors; Wait only marks fan-out completion.
	_ = g.Wait()

	evidence, err := s.buildEvidence(entity, outcomes)
	if err != nil {
		return nil, err
	}

	verdict := s.aggregator.Aggregate(evidence)
	assessment := &domain.Assessment{
		ID:                uuid.New(),
		Entity:            entity,
		Verdict:           verdict,
		ConnectorFailures: failures,
		StartedAt:         startedAt,
		CompletedAt:       s.now(),
	}

	s.metrics.ObserveAssessLatency(assessment.CompletedAt.Sub(startedAt))
	s.metrics.IncrementVerdict(string(verdict.Level))
	for _, cat := range verdict.DomainsAbsent {
		s.metrics.IncrementDomainAbsent(string(cat))
	}
	span.SetAttributes(
		attribute.String("verdict.level", string(verdict.Level)),
		attribute.Float64("verdict.score", verdict.Score),
		attribute.Int("connector.failures", len(failures)),
	)

	s.persist(ctx, assessment)
	s.publish(ctx, assessment)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "assessment completed",
			"assessment_id", assessment.ID.String(),
			"level", string(verdict.Level),
			"score", verdict.Score,
			"domains_absent", len(verdict.DomainsAbsent),
			"connector_failures", len(failures),
		)
	}
	return assessment, nil
}

// Get retrieves a previously persisted assessment.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Assessment, error) {
	if s.store == nil {
		return nil, sentinel.ErrNotFound
	}
	return s.store.Get(ctx, id)
}

// buildEvidence merges candidates per category and runs the match engine
// over each domain that produced data. Results leave the engine ordered
// best-first, which the aggregator relies on.
func (s *Service) buildEvidence(entity domain.Entity, outcomes []connectorOutcome) ([]risk.DomainEvidence, error) {
	byCategory := make(map[domain.Category][]domain.CandidateRecord)
	for _, o := range outcomes {
		byCategory[o.category] = append(byCategory[o.category], o.candidates...)
	}

	evidence := make([]risk.DomainEvidence, 0, len(byCategory))
	for _, cat := range domain.Categories() {
		candidates, ok := byCategory[cat]
		if !ok || len(candidates) == 0 {
			continue
		}
		matches, err := s.matcher.Match(entity, candidates)
		if err != nil {
			return nil, fmt.Errorf("matching %s candidates: %w", cat, err)
		}
		evidence = append(evidence, risk.DomainEvidence{Category: cat, Matches: matches})
	}
	return evidence, nil
}

// persist saves the assessment fail-open: a storage outage must not turn a
// computed verdict into a caller-visible error.
func (s *Service) persist(ctx context.Context, a *domain.Assessment) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, a); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to persist assessment",
			"assessment_id", a.ID.String(), "error", err)
	}
}

// publish emits the completed assessment fire-and-forget.
func (s *Service) publish(ctx context.Context, a *domain.Assessment) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAssessment(ctx, a); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to publish assessment",
			"assessment_id", a.ID.String(), "error", err)
	}
}

func validateEntity(e domain.Entity) error {
	if e.Name == "" {
		return fmt.Errorf("entity name is required: %w", sentinel.ErrInvalidInput)
	}
	switch e.Type {
	case domain.EntityPerson, domain.EntityOrganization, domain.EntityAsset:
		return nil
	default:
		return fmt.Errorf("unknown entity type %q: %w", e.Type, sentinel.ErrInvalidInput)
	}
}

// failureKind extracts the classified failure kind for the assessment's
// partial-failure report.
func failureKind(err error) string {
	var cerr *connector.ClassifiedError
	if errors.As(err, &cerr) {
		return string(cerr.Kind)
	}
	return string(connector.KindUnknown)
}
