package match

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/backgroundcheck/x24-platform/internal/domain"
	"github.com/backgroundcheck/x24-platform/pkg/platform/sentinel"
)

// Scoring constants: name similarity dominates, phonetic evidence is a
// secondary signal, and attributes act as bounded bonuses/penalties around
// the name-based base score.
const (
	nameWeight     = 0.75
	phoneticWeight = 0.25

	// phoneticThreshold is the floor above which a candidate is considered
	// primarily phonetically matched when orthographic similarity trails.
	phoneticThreshold = 0.8

	dobBonus           = 0.10
	dobPenalty         = 0.10
	nationalityBonus   = 0.05
	nationalityPenalty = 0.05
	identifierBonus    = 0.15
	identifierPenalty  = 0.20
)

// Engine computes per-candidate similarity scores and match classifications.
// It is a synchronous, deterministic computation over already-collected
// data; all state is per-call.
type Engine struct {
	logger *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a logger for skipped-record reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine constructs a matching engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Match scores every candidate against the entity and returns results
// ordered highest composite score first. Ordering is deterministic: ties
// break on corroborating attribute agreement, then source category
// priority, then candidate ID. Malformed candidates (no usable name) are
// skipped and logged; an entity without a usable name fails the pass.
func (e *Engine) Match(entity domain.Entity, candidates []domain.CandidateRecord) ([]domain.MatchResult, error) {
	entityVariants := normalizeVariants(entity.NameVariants())
	if len(entityVariants) == 0 {
		return nil, fmt.Errorf("entity has no usable name: %w", sentinel.ErrInvalidInput)
	}

	results := make([]domain.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		candidateVariants := normalizeVariants(candidate.Names)
		if len(candidateVariants) == 0 {
			if e.logger != nil {
				e.logger.Warn("skipping malformed candidate record",
					"source", candidate.Source, "candidate_id", candidate.ID)
			}
			continue
		}
		results = append(results, scoreCandidate(entity, entityVariants, candidate, candidateVariants))
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if aa, ba := a.Dimensions.Agreements(), b.Dimensions.Agreements(); aa != ba {
			return aa > ba
		}
		if ap, bp := a.Candidate.Category.Priority(), b.Candidate.Category.Priority(); ap != bp {
			return ap < bp
		}
		return a.Candidate.ID < b.Candidate.ID
	})
	return results, nil
}

// scoreCandidate computes all dimensions and the clamped composite for one
// entity/candidate pair.
func scoreCandidate(entity domain.Entity, entityVariants []string, candidate domain.CandidateRecord, candidateVariants []string) domain.MatchResult {
	var (
		dims      domain.DimensionScores
		bestEnt   int
		bestCand  int
		bestScore float64
	)

	for ei, ev := range entityVariants {
		for ci, cv := range candidateVariants {
			if s := editSimilarity(ev, cv); s > bestScore {
				bestScore, bestEnt, bestCand = s, ei, ci
			}
		}
	}
	dims.Name = bestScore

	for _, ev := range entityVariants {
		for _, cv := range candidateVariants {
			if s := phoneticSimilarity(ev, cv); s > dims.Phonetic {
				dims.Phonetic = s
			}
		}
	}

	dims.DOB, dims.DOBKnown = dobScore(entity.DateOfBirth, candidate.DateOfBirth)
	dims.Nationality, dims.NationalityKnown = nationalityScore(entity.Nationality, candidate.Nationality)
	dims.Identifier, dims.IdentifierKnown = identifierScore(entity.Identifiers, candidate.Identifiers)

	score := nameWeight*dims.Name + phoneticWeight*dims.Phonetic
	score += attributeAdjustment(dims)
	score = clamp01(score)

	return domain.MatchResult{
		Candidate:  candidate,
		Dimensions: dims,
		Score:      score,
		Type:       classify(dims, entityVariants, candidateVariants, bestEnt, bestCand),
	}
}

// attributeAdjustment sums the bounded bonus/penalty contributions of the
// attribute dimensions, skipping anything unknown.
func attributeAdjustment(d domain.DimensionScores) float64 {
	var adj float64
	if d.DOBKnown {
		if d.DOB >= 0.5 {
			adj += dobBonus * d.DOB
		} else {
			adj -= dobPenalty
		}
	}
	if d.NationalityKnown {
		if d.Nationality == 1 {
			adj += nationalityBonus
		} else {
			adj -= nationalityPenalty
		}
	}
	if d.IdentifierKnown {
		if d.Identifier == 1 {
			adj += identifierBonus
		} else {
			adj -= identifierPenalty
		}
	}
	return adj
}

// classify assigns the match type. Precedence: exact (primary names equal
// after normalization), then alias (the best-scoring pair involved an alias
// on either side), then phonetic (phonetic evidence dominates a weak
// orthographic score), then fuzzy.
func classify(d domain.DimensionScores, entityVariants, candidateVariants []string, bestEnt, bestCand int) domain.MatchType {
	if entityVariants[0] == candidateVariants[0] {
		return domain.MatchExact
	}
	if bestEnt > 0 || bestCand > 0 {
		return domain.MatchAlias
	}
	if d.Phonetic >= phoneticThreshold && d.Phonetic > d.Name {
		return domain.MatchPhonetic
	}
	return domain.MatchFuzzy
}

func normalizeVariants(raw []string) []string {
	variants := make([]string, 0, len(raw))
	for _, v := range raw {
		if n := Normalize(v); n != "" {
			variants = append(variants, n)
		}
	}
	return variants
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
