package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameVariants(t *testing.T) {
	e := Entity{
		Name:    "  Jane Doe ",
		Aliases: []string{"J. Doe", "Jane Doe", "", "  "},
	}
	assert.Equal(t, []string{"Jane Doe", "J. Doe"}, e.NameVariants())

	assert.Empty(t, Entity{Name: "  "}.NameVariants())
}

func TestRiskLevelBump(t *testing.T) {
	assert.Equal(t, LevelMedium, LevelLow.Bump())
	assert.Equal(t, LevelHigh, LevelMedium.Bump())
	assert.Equal(t, LevelCritical, LevelHigh.Bump())
	assert.Equal(t, LevelCritical, LevelCritical.Bump(), "bump saturates at critical")
}

func TestMaxLevel(t *testing.T) {
	assert.Equal(t, LevelCritical, MaxLevel(LevelHigh, LevelCritical))
	assert.Equal(t, LevelHigh, MaxLevel(LevelHigh, LevelLow))
}

func TestCategoryPriority(t *testing.T) {
	assert.Less(t, CategorySanctions.Priority(), CategoryWatchlist.Priority())
	assert.Equal(t, len(Categories()), Category("made-up").Priority(), "unknown categories sort last")
}

func TestDimensionAgreements(t *testing.T) {
	d := DimensionScores{
		DOB: 1, DOBKnown: true,
		Nationality: 0, NationalityKnown: true,
		Identifier: 1, IdentifierKnown: false,
	}
	assert.Equal(t, 1, d.Agreements(), "only known, fully agreeing attributes count")
}
