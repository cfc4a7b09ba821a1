package risk

import (
	"fmt"

	"github.com/backgroundcheck/x24-platform/internal/domain"
)

// topMatchesPerDomain bounds how many contributing matches a DomainScore
// carries into the verdict payload.
const topMatchesPerDomain = 3

// DomainEvidence is the best-effort snapshot of one domain's ordered match
// results, as assembled by the orchestrator.
type DomainEvidence struct {
	Category domain.Category
	Matches  []domain.MatchResult
}

// Aggregator combines per-domain match evidence into a single weighted
// composite score with trigger and override semantics. It is a pure,
// deterministic computation; all configuration is data in the Policy.
type Aggregator struct {
	policy Policy
}

// NewAggregator constructs an aggregator over a validated policy.
func NewAggregator(policy Policy) (*Aggregator, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid risk policy: %w", err)
	}
	return &Aggregator{policy: policy}, nil
}

// Aggregate produces the final verdict from the evidence snapshot.
//
// Per domain the score is the maximum composite match score: one strong hit
// is never diluted by many weak ones. Weights are renormalized over the
// domains that actually produced data, so absence degrades coverage instead
// of silently reading as zero risk. Triggers fire in rule order and may
// each bump the level one step; overrides are evaluated last and take final
// precedence over the band-derived level, monotonically.
func (a *Aggregator) Aggregate(evidence []DomainEvidence) domain.RiskVerdict {
	present := make(map[domain.Category]domain.DomainScore)
	for _, ev := range evidence {
		if len(ev.Matches) == 0 {
			continue
		}
		weight, ok := a.policy.Weights[ev.Category]
		if !ok || weight <= 0 {
			continue
		}
		top := ev.Matches
		if len(top) > topMatchesPerDomain {
			top = top[:topMatchesPerDomain]
		}
		present[ev.Category] = domain.DomainScore{
			Category:   ev.Category,
			Score:      ev.Matches[0].Score, // matches arrive ordered best-first
			TopMatches: top,
		}
	}

	verdict := domain.RiskVerdict{
		Triggers:  []string{},
		Overrides: []string{},
	}

	var weightTotal float64
	for cat := range present {
		weightTotal += a.policy.Weights[cat]
	}

	var domainScores []domain.DomainScore
	for _, cat := range a.policy.weightedCategories() {
		ds, ok := present[cat]
		if !ok {
			verdict.DomainsAbsent = append(verdict.DomainsAbsent, cat)
			continue
		}
		ds.Weight = a.policy.Weights[cat] / weightTotal
		verdict.Score += 100 * ds.Weight * ds.Score
		domainScores = append(domainScores, ds)
	}
	verdict.DomainScores = domainScores

	if len(present) == 0 {
		verdict.InsufficientData = true
		verdict.Level = domain.LevelLow
		verdict.Recommendation = recommend(verdict)
		return verdict
	}

	verdict.Level = a.policy.Bands.Level(verdict.Score)

	for _, rule := range a.policy.Triggers {
		if !triggerFires(rule, present) {
			continue
		}
		verdict.Triggers = append(verdict.Triggers, rule.Name)
		if rule.BumpLevel {
			verdict.Level = verdict.Level.Bump()
		}
	}

	for _, rule := range a.policy.Overrides {
		if !overrideMatches(rule, present) {
			continue
		}
		verdict.Overrides = append(verdict.Overrides, rule.Name)
		verdict.Level = domain.MaxLevel(verdict.Level, rule.Level)
	}

	verdict.Recommendation = recommend(verdict)
	return verdict
}

func triggerFires(rule TriggerRule, present map[domain.Category]domain.DomainScore) bool {
	for _, cond := range rule.Conditions {
		ds, ok := present[cond.Category]
		if !ok || ds.Score < cond.Min {
			return false
		}
	}
	return true
}

func overrideMatches(rule OverrideRule, present map[domain.Category]domain.DomainScore) bool {
	ds, ok := present[rule.Category]
	if !ok || ds.Score < rule.MinScore {
		return false
	}
	if !rule.RequireExact {
		return true
	}
	for _, m := range ds.TopMatches {
		if m.Type == domain.MatchExact {
			return true
		}
	}
	return false
}
