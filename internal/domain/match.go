package domain

// MatchType classifies how a candidate matched the query entity.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchAlias    MatchType = "alias"
	MatchPhonetic MatchType = "phonetic"
	MatchFuzzy    MatchType = "fuzzy"
)

// DimensionScores holds the per-dimension similarity signals for one
// entity/candidate pair. All values lie in [0,1]. Attribute dimensions carry
// a Known flag because missing data must be excluded, not scored as zero.
type DimensionScores struct {
	Name     float64
	Phonetic float64

	DOB              float64
	DOBKnown         bool
	Nationality      float64
	NationalityKnown bool
	Identifier       float64
	IdentifierKnown  bool
}

// Agreements counts the non-name attributes that fully corroborate the
// match. Used as the first tie-break when composite scores are equal.
func (d DimensionScores) Agreements() int {
	n := 0
	if d.DOBKnown && d.DOB == 1 {
		n++
	}
	if d.NationalityKnown && d.Nationality == 1 {
		n++
	}
	if d.IdentifierKnown && d.Identifier == 1 {
		n++
	}
	return n
}

// MatchResult scores one candidate against the query entity. Results are
// request-scoped and ordered by the matching engine.
type MatchResult struct {
	Candidate  CandidateRecord
	Dimensions DimensionScores
	Score      float64 // composite match score in [0,1]
	Type       MatchType
}
