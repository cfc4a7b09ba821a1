package handler

import (
	"time"

	"github.com/backgroundcheck/x24-platform/internal/domain"
)

// MatchResponse is the wire shape of one contributing match.
type MatchResponse struct {
	CandidateID string  `json:"candidate_id"`
	Source      string  `json:"source"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	MatchType   string  `json:"match_type"`
}

// DomainScoreResponse is the wire shape of one domain's contribution.
type DomainScoreResponse struct {
	Category   string          `json:"category"`
	Score      float64         `json:"score"`
	Weight     float64         `json:"weight"`
	TopMatches []MatchResponse `json:"top_matches,omitempty"`
}

// VerdictResponse is the wire shape of the final verdict.
type VerdictResponse struct {
	Score            float64               `json:"score"`
	Level            string                `json:"level"`
	Triggers         []string              `json:"triggers"`
	Overrides        []string              `json:"overrides"`
	Recommendation   string                `json:"recommendation"`
	DomainScores     []DomainScoreResponse `json:"domain_scores"`
	DomainsAbsent    []string              `json:"domains_absent,omitempty"`
	InsufficientData bool                  `json:"insufficient_data"`
}

// AssessmentResponse is the wire shape of a completed assessment.
type AssessmentResponse struct {
	ID                string            `json:"id"`
	EntityName        string            `json:"entity_name"`
	EntityType        string            `json:"entity_type"`
	Verdict           VerdictResponse   `json:"verdict"`
	ConnectorFailures map[string]string `json:"connector_failures,omitempty"`
	StartedAt         time.Time         `json:"started_at"`
	CompletedAt       time.Time         `json:"completed_at"`
}

// FromAssessment maps the domain assessment onto the wire shape.
func FromAssessment(a *domain.Assessment) AssessmentResponse {
	v := a.Verdict
	resp := AssessmentResponse{
		ID:         a.ID.String(),
		EntityName: a.Entity.Name,
		EntityType: string(a.Entity.Type),
		Verdict: VerdictResponse{
			Score:            v.Score,
			Level:            string(v.Level),
			Triggers:         v.Triggers,
			Overrides:        v.Overrides,
			Recommendation:   v.Recommendation,
			InsufficientData: v.InsufficientData,
			DomainScores:     make([]DomainScoreResponse, 0, len(v.DomainScores)),
		},
		ConnectorFailures: a.ConnectorFailures,
		StartedAt:         a.StartedAt,
		CompletedAt:       a.CompletedAt,
	}
	for _, ds := range v.DomainScores {
		dsResp := DomainScoreResponse{
			Category: string(ds.Category),
			Score:    ds.Score,
			Weight:   ds.Weight,
		}
		for _, m := range ds.TopMatches {
			dsResp.TopMatches = append(dsResp.TopMatches, MatchResponse{
				CandidateID: m.Candidate.ID,
				Source:      m.Candidate.Source,
				Name:        m.Candidate.PrimaryName(),
				Score:       m.Score,
				MatchType:   string(m.Type),
			})
		}
		resp.Verdict.DomainScores = append(resp.Verdict.DomainScores, dsResp)
	}
	for _, cat := range v.DomainsAbsent {
		resp.Verdict.DomainsAbsent = append(resp.Verdict.DomainsAbsent, string(cat))
	}
	return resp
}
