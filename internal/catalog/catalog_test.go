package catalog

import (
	"testing"

	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CoversEveryPattern(t *testing.T) {
	c := Default()
	for _, p := range domain.AllPatterns {
		variants := c.ForPattern(p)
		require.NotEmpty(t, variants, "pattern %s", p)
		for i := 1; i < len(variants); i++ {
			assert.LessOrEqual(t, variants[i-1].Difficulty, variants[i].Difficulty, "pattern %s must be sorted", p)
		}
		assert.NotEmpty(t, c.MuscleGroups(p))
	}
}

func TestDefault_HomeWithoutEquipmentHasVariantPerPattern(t *testing.T) {
	c := Default()
	none := map[domain.Equipment]bool{}
	for _, p := range domain.AllPatterns {
		if p == domain.PatternVerticalPull {
			// Every vertical pull needs a bar or bands.
			continue
		}
		_, ok := c.Lowest(p, domain.LocationHome, none)
		assert.True(t, ok, "pattern %s should have a bodyweight home variant", p)
	}
}

func TestNext_SkipsUnavailableVariants(t *testing.T) {
	c := Default()
	squat, ok := c.Variant("bodyweight_squat")
	require.True(t, ok)

	next, ok := c.Next(squat, domain.LocationHome, map[domain.Equipment]bool{})
	require.True(t, ok)
	assert.Equal(t, "split_squat", next.ID)

	pistol, _ := c.Variant("pistol_squat")
	_, ok = c.Next(pistol, domain.LocationGym, map[domain.Equipment]bool{domain.EquipmentBarbell: true})
	assert.False(t, ok, "pistol squat is the top lower_push variant")
}

func TestAvailable_GymExcludesHomeOnly(t *testing.T) {
	c := Default()
	for _, v := range c.Available(domain.PatternHorizontalPull, domain.LocationGym, map[domain.Equipment]bool{}) {
		assert.NotEqual(t, "table_row", v.ID)
	}
}

func TestPatternsForArea(t *testing.T) {
	c := Default()
	assert.ElementsMatch(t, []domain.MovementPattern{domain.PatternLowerPush, domain.PatternLowerPull}, c.PatternsForArea("knee"))
	assert.Empty(t, c.PatternsForArea("earlobe"))
	assert.Contains(t, c.GroupsForArea("knee"), domain.MuscleQuads)
}

func TestParse_RejectsBadDifficulty(t *testing.T) {
	_, err := Parse([]byte(`
patterns:
  lower_push:
    muscles: [quads]
    variants:
      - {id: x, name: X, difficulty: 11, location: both}
`))
	require.Error(t, err)
}

func TestParse_RejectsMissingPattern(t *testing.T) {
	_, err := Parse([]byte(`patterns: {}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no variants")
}
