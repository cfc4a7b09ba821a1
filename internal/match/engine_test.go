package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backgroundcheck/x24-platform/internal/domain"
	"github.com/backgroundcheck/x24-platform/pkg/platform/sentinel"
)

func personEntity(name string) domain.Entity {
	return domain.Entity{Type: domain.EntityPerson, Name: name}
}

func candidate(id string, cat domain.Category, names ...string) domain.CandidateRecord {
	return domain.CandidateRecord{ID: id, Source: "test-source", Category: cat, Names: names}
}

func TestEngine_ExactMatch(t *testing.T) {
	engine := NewEngine()

	results, err := engine.Match(personEntity("Jane Doe"), []domain.CandidateRecord{
		candidate("c1", domain.CategorySanctions, "Jane Doe"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, domain.MatchExact, results[0].Type)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, 1.0, results[0].Dimensions.Name)
}

func TestEngine_ExactMatchIgnoresCaseAndDiacritics(t *testing.T) {
	engine := NewEngine()

	results, err := engine.Match(personEntity("José García"), []domain.CandidateRecord{
		candidate("c1", domain.CategorySanctions, "JOSE GARCIA"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.MatchExact, results[0].Type)
}

func TestEngine_AliasMatch(t *testing.T) {
	engine := NewEngine()

	// The candidate's primary name differs but an alias agrees exactly.
	results, err := engine.Match(personEntity("Salim Rahman"), []domain.CandidateRecord{
		candidate("c1", domain.CategorySanctions, "Abu Hafs", "Salim Rahman"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, domain.MatchAlias, results[0].Type)
	assert.Equal(t, 1.0, results[0].Dimensions.Name)
}

func TestEngine_PhoneticMatch(t *testing.T) {
	engine := NewEngine()

	// Transliteration variants: weak orthographic score, strong phonetic one.
	results, err := engine.Match(personEntity("Chaykovskiy"), []domain.CandidateRecord{
		candidate("c1", domain.CategoryThreatActor, "Tchaikovsky"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, domain.MatchPhonetic, results[0].Type)
	assert.Equal(t, 1.0, results[0].Dimensions.Phonetic)
	assert.Less(t, results[0].Dimensions.Name, 1.0)
}

func TestEngine_FuzzyMatch(t *testing.T) {
	engine := NewEngine()

	results, err := engine.Match(personEntity("Jane Doe"), []domain.CandidateRecord{
		candidate("c1", domain.CategoryCriminal, "Jane Dow"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, domain.MatchFuzzy, results[0].Type)
	assert.Greater(t, results[0].Score, 0.5)
	assert.Less(t, results[0].Score, 1.0)
}

func TestEngine_AttributesAdjustNotDominate(t *testing.T) {
	engine := NewEngine()
	entity := domain.Entity{Type: domain.EntityPerson, Name: "Jane Doe", DateOfBirth: "1975-03-12"}

	agree := candidate("c1", domain.CategorySanctions, "Jane Dow")
	agree.DateOfBirth = "1975-03-12"
	disagree := candidate("c2", domain.CategorySanctions, "Jane Dow")
	disagree.DateOfBirth = "1952-07-01"
	unknown := candidate("c3", domain.CategorySanctions, "Jane Dow")

	results, err := engine.Match(entity, []domain.CandidateRecord{agree, disagree, unknown})
	require.NoError(t, err)
	require.Len(t, results, 3)

	byID := make(map[string]domain.MatchResult)
	for _, r := range results {
		byID[r.Candidate.ID] = r
	}

	assert.Greater(t, byID["c1"].Score, byID["c3"].Score, "corroborating DOB adds a bonus")
	assert.Less(t, byID["c2"].Score, byID["c3"].Score, "contradicting DOB subtracts a penalty")
	assert.False(t, byID["c3"].Dimensions.DOBKnown, "missing DOB is excluded, not scored as zero")

	// The adjustment is bounded; a name mismatch cannot be rescued by
	// attributes alone.
	assert.Less(t, byID["c1"].Score, 1.0)
}

func TestEngine_OrderingDeterministic(t *testing.T) {
	engine := NewEngine()
	entity := personEntity("Jane Doe")

	// Identical names produce identical scores; order must fall back to
	// category priority, then candidate ID.
	candidates := []domain.CandidateRecord{
		candidate("z9", domain.CategoryWatchlist, "Jane Doe"),
		candidate("a1", domain.CategorySanctions, "Jane Doe"),
		candidate("m5", domain.CategoryPEP, "Jane Doe"),
		candidate("a2", domain.CategorySanctions, "Jane Doe"),
	}

	first, err := engine.Match(entity, candidates)
	require.NoError(t, err)

	ids := func(rs []domain.MatchResult) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.Candidate.ID
		}
		return out
	}
	assert.Equal(t, []string{"a1", "a2", "m5", "z9"}, ids(first))

	second, err := engine.Match(entity, candidates)
	require.NoError(t, err)
	assert.Equal(t, ids(first), ids(second), "same input must produce the same order")
}

func TestEngine_HigherScoreOutranksCategory(t *testing.T) {
	engine := NewEngine()

	results, err := engine.Match(personEntity("Jane Doe"), []domain.CandidateRecord{
		candidate("low", domain.CategorySanctions, "Janet Doerr"),
		candidate("high", domain.CategoryWatchlist, "Jane Doe"),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "high", results[0].Candidate.ID)
}

func TestEngine_SkipsMalformedCandidates(t *testing.T) {
	engine := NewEngine()

	results, err := engine.Match(personEntity("Jane Doe"), []domain.CandidateRecord{
		{ID: "bad", Source: "test-source", Category: domain.CategorySanctions, Names: []string{"  ", "--"}},
		candidate("good", domain.CategorySanctions, "Jane Doe"),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].Candidate.ID)
}

func TestEngine_EntityWithoutUsableName(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Match(domain.Entity{Type: domain.EntityPerson, Name: "  "}, nil)
	assert.ErrorIs(t, err, sentinel.ErrInvalidInput)
}

func TestEngine_ScoresStayInRange(t *testing.T) {
	engine := NewEngine()
	entity := domain.Entity{
		Type:        domain.EntityPerson,
		Name:        "Jane Doe",
		DateOfBirth: "1975-03-12",
		Nationality: "DE",
		Identifiers: map[string]string{"passport": "X123"},
	}

	// Everything corroborates: the clamp must hold the composite at 1.
	full := candidate("c1", domain.CategorySanctions, "Jane Doe")
	full.DateOfBirth = "1975-03-12"
	full.Nationality = "DE"
	full.Identifiers = map[string]string{"passport": "X123"}

	// Everything contradicts: the composite must not go below 0.
	worst := candidate("c2", domain.CategorySanctions, "Zzz Qqq")
	worst.DateOfBirth = "1900-01-01"
	worst.Nationality = "FR"
	worst.Identifiers = map[string]string{"passport": "WRONG"}

	results, err := engine.Match(entity, []domain.CandidateRecord{full, worst})
	require.NoError(t, err)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
	assert.Equal(t, 1.0, results[0].Score)
}
