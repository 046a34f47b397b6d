package adaptation

import (
	"testing"
	"time"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPainEngine() *PainAdaptationEngine {
	return NewPainAdaptationEngine(catalog.Default())
}

func TestPainDecisionTable(t *testing.T) {
	e := newPainEngine()
	tests := []struct {
		severity int
		nature   domain.PainNature
		action   PainAction
		medical  bool
		proceed  bool
		recovery bool
	}{
		{2, domain.NatureMuscularSoreness, ActionContinue, false, true, false},
		{2, domain.NatureSharpAcute, ActionMonitor, false, true, false},
		{5, domain.NatureJointStiffness, ActionReduceLoad, false, true, false},
		{5, domain.NatureSharpAcute, ActionSubstitute, false, true, false},
		{5, domain.NatureBurningNerve, ActionSubstitute, true, true, false},
		{8, domain.NatureDeepAche, ActionSubstituteOrSkip, false, true, false},
		{8, domain.NatureSharpAcute, ActionSkipDeload, true, false, true},
		{9, domain.NatureMuscularSoreness, ActionSkipDeload, false, false, true},
		{9, domain.NatureSharpAcute, ActionStopPattern, true, false, true},
		{3, domain.NatureBurningNerve, ActionMonitor, false, true, false},
		{6, domain.NatureUnknown, ActionSubstitute, false, true, false},
	}
	for _, tt := range tests {
		d, err := e.Decide(domain.PainRecord{Area: "knee", Severity: tt.severity, Nature: tt.nature})
		require.NoError(t, err)
		assert.Equal(t, tt.action, d.Action, "%d %s", tt.severity, tt.nature)
		assert.Equal(t, tt.medical, d.RequiresMedicalAttention, "%d %s medical", tt.severity, tt.nature)
		assert.Equal(t, tt.proceed, !d.BlocksWorkout, "%d %s proceed", tt.severity, tt.nature)
		assert.Equal(t, tt.recovery, d.ActivatesRecovery, "%d %s recovery", tt.severity, tt.nature)
	}
}

func TestPainDecision_LoadReductionScalesWithSeverity(t *testing.T) {
	e := newPainEngine()
	for sev, want := range map[int]float64{4: 15, 5: 22.5, 6: 30} {
		d, err := e.Decide(domain.PainRecord{Area: "hip", Severity: sev, Nature: domain.NatureMuscularSoreness})
		require.NoError(t, err)
		assert.InDelta(t, want, d.LoadReductionPct, 1e-9)
	}
}

func TestPreWorkoutCheck_NoPainProceeds(t *testing.T) {
	a, err := newPainEngine().PreWorkoutCheck(nil, nil)
	require.NoError(t, err)
	assert.True(t, a.CanProceedWithWorkout)
	assert.False(t, a.RequiresMedicalAttention)
	assert.Empty(t, a.Decisions)
}

func TestPreWorkoutCheck_SevereSharpKnee(t *testing.T) {
	a, err := newPainEngine().PreWorkoutCheck([]domain.PainRecord{
		{Area: "knee", Severity: 8, Nature: domain.NatureSharpAcute, Timing: domain.TimingPre},
	}, nil)
	require.NoError(t, err)

	assert.False(t, a.CanProceedWithWorkout)
	assert.True(t, a.ShouldActivateRecovery)
	assert.True(t, a.RequiresMedicalAttention)
	require.Len(t, a.Decisions, 1)
	assert.Contains(t, a.Decisions[0].Patterns, domain.PatternLowerPush)
	assert.True(t, a.Decisions[0].RecommendDeload)
}

func TestPreWorkoutCheck_SeverityNineSharp(t *testing.T) {
	a, err := newPainEngine().PreWorkoutCheck([]domain.PainRecord{
		{Area: "shoulder", Severity: 9, Nature: domain.NatureSharpAcute},
	}, nil)
	require.NoError(t, err)
	assert.False(t, a.CanProceedWithWorkout)
	assert.True(t, a.RequiresMedicalAttention)
}

func TestPreWorkoutCheck_RejectsInvalidRecord(t *testing.T) {
	_, err := newPainEngine().PreWorkoutCheck([]domain.PainRecord{{Area: "knee", Severity: 11, Nature: domain.NatureSharpAcute}}, nil)
	assert.Error(t, err)
}

func TestPreWorkoutCheck_PersistentPainRefersRegardlessOfSeverity(t *testing.T) {
	mem := domain.NewPainMemory("u1")
	mem.Areas["lower_back"] = &domain.AreaMemory{Trend: domain.TrendStable, LastSeverity: 2, UnresolvedStreak: 2}

	a, err := newPainEngine().PreWorkoutCheck([]domain.PainRecord{
		{Area: "lower_back", Severity: 2, Nature: domain.NatureMuscularSoreness},
	}, mem)
	require.NoError(t, err)
	assert.True(t, a.CanProceedWithWorkout)
	assert.Contains(t, a.Recommendations, "lower_back: pain has persisted across sessions, refer to a professional")
}

func TestIntraExerciseCheck_ScopesToExercisePattern(t *testing.T) {
	ex := domain.ExerciseInstance{Name: "Push-up", Pattern: domain.PatternHorizontalPush}
	a, err := newPainEngine().IntraExerciseCheck(domain.PainRecord{Area: "shoulder", Severity: 5, Nature: domain.NatureSharpAcute}, ex, nil)
	require.NoError(t, err)
	require.Len(t, a.Decisions, 1)
	assert.Equal(t, []domain.MovementPattern{domain.PatternHorizontalPush}, a.Decisions[0].Patterns)
	assert.Equal(t, ActionSubstitute, a.Decisions[0].Action)
}

func TestPostExerciseCheck(t *testing.T) {
	e := newPainEngine()
	ex := domain.ExerciseInstance{Name: "Split Squat", Pattern: domain.PatternLowerPush}

	a, err := e.PostExerciseCheck(IncompleteSet{Exercise: ex, RepsCompleted: 10, TargetReps: 10}, nil)
	require.NoError(t, err)
	assert.Empty(t, a.Recommendations)

	a, err = e.PostExerciseCheck(IncompleteSet{Exercise: ex, RepsCompleted: 6, TargetReps: 10, Reason: domain.ReasonFatigue}, nil)
	require.NoError(t, err)
	assert.True(t, a.CanProceedWithWorkout)
	require.Len(t, a.Recommendations, 1)
	assert.Contains(t, a.Recommendations[0], "note fatigue")

	_, err = e.PostExerciseCheck(IncompleteSet{Exercise: ex, RepsCompleted: 6, TargetReps: 10, Reason: domain.ReasonPain}, nil)
	assert.Error(t, err, "pain reason without a report")

	a, err = e.PostExerciseCheck(IncompleteSet{
		Exercise: ex, RepsCompleted: 6, TargetReps: 10, Reason: domain.ReasonPain,
		Pain: &domain.PainRecord{Area: "knee", Severity: 7, Nature: domain.NatureJointStiffness, Timing: domain.TimingPost},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionSubstituteOrSkip, a.Decisions[0].Action)
}

func TestBuildOutcome(t *testing.T) {
	c := catalog.Default()
	at := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)
	session := &domain.WorkoutSession{PainReports: []domain.PainRecord{
		{Area: "knee", Severity: 4},
		{Area: "knee", Severity: 6},
	}}
	exercises := []domain.ExerciseInstance{
		{Pattern: domain.PatternLowerPush, Skip: true},
		{Pattern: domain.PatternLowerPull},
		{Pattern: domain.PatternVerticalPull, Skip: true},
	}
	o := BuildOutcome(c, session, exercises, map[int]int{1: 3}, at)

	assert.Equal(t, 6, o.AreaSeverity["knee"])
	assert.True(t, o.SkippedGroups[domain.MuscleQuads])
	assert.True(t, o.SkippedGroups[domain.MuscleLats])
	// Glutes were trained by the hinge, so not skipped.
	assert.False(t, o.SkippedGroups[domain.MuscleGlutes])
	assert.True(t, o.TrainedGroups[domain.MuscleGlutes])
	assert.Equal(t, at, o.At)
}
