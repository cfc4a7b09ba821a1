// Package audit emits completed assessments to the downstream compliance
// topic so case-management systems can consume verdicts asynchronously.
package audit

import (
	"time"

	"github.com/backgroundcheck/x24-platform/internal/domain"
)

// VerdictTopic is the Kafka topic completed assessments are published to.
const VerdictTopic = "screening.verdicts"

// VerdictEvent is the wire shape of one published assessment. Keep it
// transport-agnostic; consumers must not need our internal types.
type VerdictEvent struct {
	AssessmentID      string            `json:"assessment_id"`
	EntityName        string            `json:"entity_name"`
	EntityType        string            `json:"entity_type"`
	Score             float64           `json:"score"`
	Level             string            `json:"level"`
	Triggers          []string          `json:"triggers"`
	Overrides         []string          `json:"overrides"`
	DomainsAbsent     []string          `json:"domains_absent,omitempty"`
	InsufficientData  bool              `json:"insufficient_data"`
	ConnectorFailures map[string]string `json:"connector_failures,omitempty"`
	CompletedAt       time.Time         `json:"completed_at"`
}

// FromAssessment projects an assessment onto the event shape.
func FromAssessment(a *domain.Assessment) VerdictEvent {
	ev := VerdictEvent{
		AssessmentID:      a.ID.String(),
		EntityName:        a.Entity.Name,
		EntityType:        string(a.Entity.Type),
		Score:             a.Verdict.Score,
		Level:             string(a.Verdict.Level),
		Triggers:          a.Verdict.Triggers,
		Overrides:         a.Verdict.Overrides,
		InsufficientData:  a.Verdict.InsufficientData,
		ConnectorFailures: a.ConnectorFailures,
		CompletedAt:       a.CompletedAt,
	}
	for _, cat := range a.Verdict.DomainsAbsent {
		ev.DomainsAbsent = append(ev.DomainsAbsent, string(cat))
	}
	return ev
}
