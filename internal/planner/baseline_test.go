package planner

import (
	"testing"
	"time"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestBaselineResolver_NoSignalsDefaultsToBeginner(t *testing.T) {
	r := NewBaselineResolver(catalog.Default(), 0)
	res := r.Resolve(AssessmentInput{UserID: "u1"})

	assert.Equal(t, domain.LevelBeginner, res.Level)
	assert.Empty(t, res.Baselines)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "defaulting to beginner")
}

func TestBaselineResolver_PracticalOnly(t *testing.T) {
	r := NewBaselineResolver(catalog.Default(), DefaultUnlockReps)
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	res := r.Resolve(AssessmentInput{
		UserID: "u1",
		Now:    now,
		Practical: []PracticalTest{
			{Pattern: domain.PatternHorizontalPush, VariantID: "pushup", Reps: 12},
		},
	})

	// (4-1)/9*70 + 30 = 53.3
	assert.InDelta(t, 53.33, res.Score, 0.01)
	assert.Equal(t, domain.LevelIntermediate, res.Level)

	b := res.Baselines[domain.PatternHorizontalPush]
	assert.Equal(t, "pushup", b.VariantID)
	assert.Equal(t, 4, b.Difficulty)
	assert.Equal(t, domain.SourceAssessment, b.Source)
	assert.Equal(t, now, b.AssessedAt)
	assert.NoError(t, b.Validate())
}

func TestBaselineResolver_WeightsSignals(t *testing.T) {
	r := NewBaselineResolver(catalog.Default(), DefaultUnlockReps)
	res := r.Resolve(AssessmentInput{
		QuizScore:     ptr(100.0),
		PhysicalScore: ptr(100.0),
		Practical:     []PracticalTest{{Pattern: domain.PatternHorizontalPush, VariantID: "pushup", Reps: 12}},
	})
	assert.InDelta(t, 81.33, res.Score, 0.01)
	assert.Equal(t, domain.LevelAdvanced, res.Level)
}

func TestBaselineResolver_DeclaredLevelWins(t *testing.T) {
	r := NewBaselineResolver(catalog.Default(), DefaultUnlockReps)
	res := r.Resolve(AssessmentInput{
		DeclaredLevel: ptr(domain.LevelBeginner),
		QuizScore:     ptr(95.0),
	})
	assert.Equal(t, domain.LevelBeginner, res.Level)
}

func TestBaselineResolver_BodyCompositionRefinesLevel(t *testing.T) {
	r := NewBaselineResolver(catalog.Default(), DefaultUnlockReps)
	in := AssessmentInput{
		Practical: []PracticalTest{{Pattern: domain.PatternHorizontalPush, VariantID: "knee_pushup", Reps: 10}},
	}
	assert.Equal(t, domain.LevelIntermediate, r.Resolve(in).Level)

	in.BodyComposition = &BodyComposition{BodyFatPercentage: 34}
	res := r.Resolve(in)
	assert.Equal(t, domain.LevelBeginner, res.Level)
	assert.Contains(t, res.Warnings, "body composition lowered the level estimate")
}

func TestBaselineResolver_KeepsHardestQualifyingVariant(t *testing.T) {
	r := NewBaselineResolver(catalog.Default(), DefaultUnlockReps)
	res := r.Resolve(AssessmentInput{
		Practical: []PracticalTest{
			{Pattern: domain.PatternHorizontalPush, VariantID: "pushup", Reps: 15},
			{Pattern: domain.PatternHorizontalPush, VariantID: "archer_pushup", Reps: 2},
			{Pattern: domain.PatternHorizontalPush, VariantID: "decline_pushup", Reps: 5},
			{Pattern: domain.PatternLowerPush, VariantID: "no_such_squat", Reps: 5},
		},
	})
	assert.Equal(t, "decline_pushup", res.Baselines[domain.PatternHorizontalPush].VariantID)
	assert.NotContains(t, res.Baselines, domain.PatternLowerPush)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "no_such_squat")
}

func TestLevelForScore(t *testing.T) {
	assert.Equal(t, domain.LevelBeginner, LevelForScore(39.9))
	assert.Equal(t, domain.LevelIntermediate, LevelForScore(40))
	assert.Equal(t, domain.LevelIntermediate, LevelForScore(69.9))
	assert.Equal(t, domain.LevelAdvanced, LevelForScore(70))
}
