package domain

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the verdict band external consumers rely on.
type RiskLevel string

const (
	LevelLow      RiskLevel = "low"
	LevelMedium   RiskLevel = "medium"
	LevelHigh     RiskLevel = "high"
	LevelCritical RiskLevel = "critical"
)

var levelRank = map[RiskLevel]int{
	LevelLow:      0,
	LevelMedium:   1,
	LevelHigh:     2,
	LevelCritical: 3,
}

// Rank orders levels so triggers and overrides can raise but never lower.
func (l RiskLevel) Rank() int {
	return levelRank[l]
}

// Bump returns the next level up, saturating at critical.
func (l RiskLevel) Bump() RiskLevel {
	switch l {
	case LevelLow:
		return LevelMedium
	case LevelMedium:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// MaxLevel returns the higher of two levels.
func MaxLevel(a, b RiskLevel) RiskLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// DomainScore aggregates the evidence for one category. Score is the maximum
// composite match score among the category's results; a single strong hit is
// never diluted by weak ones. Weight is the renormalized weight that entered
// the composite computation.
type DomainScore struct {
	Category   Category
	Score      float64 // [0,1]
	Weight     float64
	TopMatches []MatchResult
}

// RiskVerdict is the terminal output of one assessment. It is immutable once
// computed; a re-run produces a new verdict rather than mutating this one.
// The numeric score is always the unmodified weighted composite, even when
// an override decided the level.
type RiskVerdict struct {
	Score            float64 // [0,100]
	Level            RiskLevel
	Triggers         []string // fired triggers, in rule order
	Overrides        []string // applied overrides, in rule order
	Recommendation   string
	DomainScores     []DomainScore
	DomainsAbsent    []Category
	InsufficientData bool
}

// Assessment wraps a verdict with the partial-failure metadata the
// orchestrator collected while producing it.
type Assessment struct {
	ID                uuid.UUID
	Entity            Entity
	Verdict           RiskVerdict
	ConnectorFailures map[string]string // connector ID -> classified failure kind
	StartedAt         time.Time
	CompletedAt       time.Time
}
