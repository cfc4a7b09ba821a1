package handler

import (
	"strings"

	"github.com/backgroundcheck/x24-platform/internal/domain"
)

// AssessRequest is the wire shape of a screening request.
type AssessRequest struct {
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Aliases     []string          `json:"aliases,omitempty"`
	DateOfBirth string            `json:"date_of_birth,omitempty"`
	Nationality string            `json:"nationality,omitempty"`
	Identifiers map[string]string `json:"identifiers,omitempty"`
}

// ToEntity maps the wire request onto the domain entity. Validation proper
// happens in the service; this is a pure projection.
func (r AssessRequest) ToEntity() domain.Entity {
	return domain.Entity{
		Type:        domain.EntityType(strings.ToLower(strings.TrimSpace(r.Type))),
		Name:        strings.TrimSpace(r.Name),
		Aliases:     r.Aliases,
		DateOfBirth: strings.TrimSpace(r.DateOfBirth),
		Nationality: strings.TrimSpace(r.Nationality),
		Identifiers: r.Identifiers,
	}
}
