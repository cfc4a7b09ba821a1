package domain

import (
	strutil "github.com/backgroundcheck/x24-platform/pkg/platform/strings"
)

// EntityType narrows which connectors apply to a query subject.
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityOrganization EntityType = "organization"
	EntityAsset        EntityType = "asset"
)

// Entity is the query subject of one assessment. It is immutable for the
// duration of the assessment; callers build a fresh Entity per run.
type Entity struct {
	Type        EntityType
	Name        string
	Aliases     []string
	DateOfBirth string // ISO 8601 date, empty when unknown
	Nationality string // ISO 3166-1 alpha-2, empty when unknown
	Identifiers map[string]string // scheme (passport, lei, national_id, ...) -> value
}

// NameVariants returns the primary name followed by all aliases, trimmed,
// with blanks and duplicates dropped. Index 0 is always the primary name
// when present.
func (e Entity) NameVariants() []string {
	variants := make([]string, 0, len(e.Aliases)+1)
	variants = append(variants, e.Name)
	variants = append(variants, e.Aliases...)
	return strutil.DedupeAndTrim(variants)
}
