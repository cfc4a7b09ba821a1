package risk

import (
	"fmt"
	"sort"

	"github.com/backgroundcheck/x24-platform/internal/domain"
)

// DomainThreshold is one condition of a trigger rule.
type DomainThreshold struct {
	Category domain.Category `yaml:"category"`
	Min      float64         `yaml:"min"`
}

// TriggerRule is a declarative cross-domain condition. When every listed
// domain has data and meets its threshold the trigger fires: it is appended
// to the verdict and, when BumpLevel is set, raises the risk level one step.
// Triggers never lower a level.
type TriggerRule struct {
	Name       string            `yaml:"name"`
	Conditions []DomainThreshold `yaml:"conditions"`
	BumpLevel  bool              `yaml:"bump_level"`
}

// OverrideRule is an absolute rule independent of the weighted composite.
// Overrides are monotonic: a matched rule raises the level to Level when
// that is higher, and is always recorded for auditability. The numeric
// score is reported unmodified either way.
type OverrideRule struct {
	Name         string           `yaml:"name"`
	Category     domain.Category  `yaml:"category"`
	MinScore     float64          `yaml:"min_score"`
	RequireExact bool             `yaml:"require_exact"`
	Level        domain.RiskLevel `yaml:"level"`
}

// Bands holds the lower bound of each level band. The bands partition
// [0,100]; a score exactly on a boundary belongs to the higher band.
type Bands struct {
	Medium   float64 `yaml:"medium"`
	High     float64 `yaml:"high"`
	Critical float64 `yaml:"critical"`
}

// Level maps a composite score to its band.
func (b Bands) Level(score float64) domain.RiskLevel {
	switch {
	case score >= b.Critical:
		return domain.LevelCritical
	case score >= b.High:
		return domain.LevelHigh
	case score >= b.Medium:
		return domain.LevelMedium
	default:
		return domain.LevelLow
	}
}

// Policy is the declarative configuration surface of the aggregation
// engine: domain weights, trigger and override rule lists, and the level
// bands. Rules are data, evaluated in order, so they are independently
// testable.
type Policy struct {
	Weights   map[domain.Category]float64 `yaml:"weights"`
	Triggers  []TriggerRule               `yaml:"triggers"`
	Overrides []OverrideRule              `yaml:"overrides"`
	Bands     Bands                       `yaml:"bands"`
}

// DefaultPolicy returns the built-in screening policy used when no YAML
// policy file is supplied.
func DefaultPolicy() Policy {
	return Policy{
		Weights: map[domain.Category]float64{
			domain.CategorySanctions:   0.30,
			domain.CategoryThreatActor: 0.20,
			domain.CategoryCriminal:    0.20,
			domain.CategoryPEP:         0.15,
			domain.CategoryOwnership:   0.15,
		},
		Triggers: []TriggerRule{
			{
				Name: "sanctions_ownership_link",
				Conditions: []DomainThreshold{
					{Category: domain.CategorySanctions, Min: 0.70},
					{Category: domain.CategoryOwnership, Min: 0.60},
				},
				BumpLevel: true,
			},
			{
				Name: "pep_criminal_overlap",
				Conditions: []DomainThreshold{
					{Category: domain.CategoryPEP, Min: 0.75},
					{Category: domain.CategoryCriminal, Min: 0.75},
				},
				BumpLevel: true,
			},
		},
		Overrides: []OverrideRule{
			{
				Name:         "sanctions_exact_match",
				Category:     domain.CategorySanctions,
				MinScore:     0.0,
				RequireExact: true,
				Level:        domain.LevelCritical,
			},
			{
				Name:     "sanctions_strong_match",
				Category: domain.CategorySanctions,
				MinScore: 0.90,
				Level:    domain.LevelHigh,
			},
		},
		Bands: Bands{Medium: 25, High: 50, Critical: 75},
	}
}

// Validate checks the structural invariants the aggregation engine relies
// on: non-negative weights with at least one positive, ordered bands, and
// rules that reference weighted categories.
func (p Policy) Validate() error {
	total := 0.0
	for cat, w := range p.Weights {
		if w < 0 {
			return fmt.Errorf("weight for %s is negative", cat)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("at least one positive domain weight is required")
	}
	if !(p.Bands.Medium < p.Bands.High && p.Bands.High < p.Bands.Critical) {
		return fmt.Errorf("bands must be strictly increasing")
	}
	for _, t := range p.Triggers {
		if t.Name == "" {
			return fmt.Errorf("trigger rule without a name")
		}
		if len(t.Conditions) == 0 {
			return fmt.Errorf("trigger %s has no conditions", t.Name)
		}
	}
	for _, o := range p.Overrides {
		if o.Name == "" {
			return fmt.Errorf("override rule without a name")
		}
		if o.Level == "" {
			return fmt.Errorf("override %s has no level", o.Name)
		}
	}
	return nil
}

// weightedCategories lists the categories with positive weight in priority
// order, so absent-domain reporting is deterministic.
func (p Policy) weightedCategories() []domain.Category {
	cats := make([]domain.Category, 0, len(p.Weights))
	for cat, w := range p.Weights {
		if w > 0 {
			cats = append(cats, cat)
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Priority() < cats[j].Priority() })
	return cats
}
