package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetRepsForSet(t *testing.T) {
	perSet := ExerciseInstance{Reps: "7-6-6", RepMode: RepsPerSet}
	assert.Equal(t, 7, perSet.TargetRepsForSet(1))
	assert.Equal(t, 6, perSet.TargetRepsForSet(2))
	assert.Equal(t, 7, perSet.TargetRepsForSet(0))
	assert.Equal(t, 6, perSet.TargetRepsForSet(5), "sets past the scheme repeat the last target")

	rng := ExerciseInstance{Reps: "8-12", RepMode: RepsRange}
	assert.Equal(t, 12, rng.TargetRepsForSet(1))
	assert.Equal(t, 12, rng.TargetRepsForSet(3))

	assert.Zero(t, ExerciseInstance{Reps: "amrap"}.TargetRepsForSet(1))
}

func TestJoinReps(t *testing.T) {
	assert.Equal(t, "3-3-3", JoinReps([]int{3, 3, 3}))
	assert.Equal(t, "10", JoinReps([]int{10}))
	assert.Equal(t, "", JoinReps(nil))
}

func TestRoundLoad(t *testing.T) {
	cases := map[float64]float64{
		42.26: 42.5,
		42.2:  42,
		60:    60,
		0:     0,
		-3:    0,
	}
	for in, want := range cases {
		assert.Equal(t, want, RoundLoad(in), "in=%v", in)
	}
}

func TestBaseline_EstimatedOneRM(t *testing.T) {
	assert.InDelta(t, 116.67, (&Baseline{WeightKg: 100, RMReps: 5}).EstimatedOneRM(), 0.01)
	assert.Equal(t, 80.0, (&Baseline{WeightKg: 80, RMReps: 1}).EstimatedOneRM())
	assert.Zero(t, (&Baseline{MaxReps: 15}).EstimatedOneRM())
}

func TestWeeksSince(t *testing.T) {
	assert.Equal(t, 2, WeeksSince(testNow, testNow.Add(20*24*time.Hour)))
	assert.Zero(t, WeeksSince(testNow, testNow.Add(-time.Hour)))
	assert.Zero(t, WeeksSince(time.Time{}, testNow))
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(testNow), "sunday belongs to the week that started monday")
	assert.Equal(t, monday, WeekStart(time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC)))
	assert.Equal(t, monday, WeekStart(monday.Add(time.Minute)))
}

func TestVolumeLandmarks_ZoneBoundaries(t *testing.T) {
	l := VolumeLandmarks{MEV: 10, MAV: 18, MRV: 22}
	cases := []struct {
		sets int
		zone VolumeZone
	}{
		{9, ZoneBelowMEV},
		{10, ZoneMEVToMAV},
		{12, ZoneMEVToMAV},
		{18, ZoneMAVToMRV},
		{22, ZoneMAVToMRV},
		{23, ZoneAboveMRV},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.zone, l.Zone(tc.sets), "sets=%d", tc.sets)
	}
}

func TestWorkoutSession_FinalizeOnce(t *testing.T) {
	s := &WorkoutSession{Status: SessionInProgress, StartedAt: testNow, Pending: &PendingDecision{Kind: PendingAutoRegulation}}

	end := testNow.Add(45 * time.Minute)
	require.True(t, s.Finalize(true, 2, end))
	assert.Equal(t, SessionAborted, s.Status)
	assert.Equal(t, 45*60, s.DurationSec)
	assert.Equal(t, 2, s.ExercisesCompleted)
	assert.Nil(t, s.Pending)

	assert.False(t, s.Finalize(false, 5, end.Add(time.Hour)))
	assert.Equal(t, SessionAborted, s.Status)
	assert.Equal(t, 2, s.ExercisesCompleted)
}

func TestWorkoutSession_AddAdvisoryDedupes(t *testing.T) {
	s := &WorkoutSession{}
	s.AddAdvisory("consider a deload week")
	s.AddAdvisory("consider a deload week")
	assert.Len(t, s.Advisories, 1)
}

func TestWorkoutSession_EffectiveExercisesLeavesDayUntouched(t *testing.T) {
	day := ProgramDay{
		DayName: "Full Body A",
		Exercises: []ExerciseInstance{
			{Name: "Push-up", Pattern: PatternHorizontalPush, Sets: 3, Reps: "10-10-10", RepMode: RepsPerSet, RestSec: 90, LoadFactor: 1},
			{Name: "Goblet Squat", Pattern: PatternLowerPush, Sets: 3, Reps: "8-12", RepMode: RepsRange, WeightKg: 50, LoadFactor: 1},
		},
	}
	s := &WorkoutSession{}
	s.AddDelta(SessionDelta{Kind: DeltaAutoRegulation, ExerciseIndex: 0, FromSet: 1, Sets: 2, Reps: 8, RestSec: 120})
	s.AddDelta(SessionDelta{Kind: DeltaLoadReduction, ExerciseIndex: 1, LoadFactor: 0.8, Reason: "knee pain: 20% load reduction"})
	s.AddDelta(SessionDelta{Kind: DeltaSkip, ExerciseIndex: 7, Reason: "out of range"})

	out := s.EffectiveExercises(day)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].Sets)
	assert.Equal(t, "10-8", out[0].Reps)
	assert.Equal(t, 120, out[0].RestSec)
	assert.Equal(t, 40.0, out[1].WeightKg)
	assert.InDelta(t, 0.8, out[1].LoadFactor, 1e-9)
	assert.Contains(t, out[1].Notes, "knee pain")

	assert.Equal(t, 3, day.Exercises[0].Sets)
	assert.Equal(t, 50.0, day.Exercises[1].WeightKg)

	s.AddDelta(SessionDelta{Kind: DeltaStopPattern, ExerciseIndex: -1, Pattern: PatternLowerPush, Reason: "stopped"})
	out = s.EffectiveExercises(day)
	assert.True(t, out[1].Skip)
	assert.Equal(t, "stopped", out[1].SkipReason)
	assert.Equal(t, []MovementPattern{PatternHorizontalPush}, ProgramDay{Exercises: out}.Patterns())
}

func TestWorkoutSession_SubstitutionClearsWeight(t *testing.T) {
	day := ProgramDay{Exercises: []ExerciseInstance{{Name: "Back Squat", VariantID: "back_squat", WeightKg: 80, Difficulty: 6}}}
	s := &WorkoutSession{}
	s.AddDelta(SessionDelta{
		Kind:          DeltaSubstitution,
		ExerciseIndex: 0,
		Replacement:   &ExerciseVariant{ID: "box_squat", Name: "Box Squat", Difficulty: 3},
		Reason:        "knee pain 5/10: substituted Box Squat",
	})
	out := s.EffectiveExercises(day)
	assert.Equal(t, "box_squat", out[0].VariantID)
	assert.Equal(t, "Box Squat", out[0].Name)
	assert.Equal(t, 3, out[0].Difficulty)
	assert.Zero(t, out[0].WeightKg)
}

func TestSetLog_SamePayload(t *testing.T) {
	a := SetLog{ExerciseIndex: 2, SetNumber: 1, ExerciseName: "Row", RepsCompleted: 10, RPE: 7}
	b := a
	b.ID = "other"
	b.Timestamp = testNow
	assert.True(t, a.SamePayload(b))
	assert.Equal(t, a.Key(), b.Key())

	b.ExerciseName = "Inverted Row"
	assert.True(t, a.SamePayload(b), "a substituted exercise keeps the logged set")

	b.RepsCompleted = 9
	assert.False(t, a.SamePayload(b))
}

func TestProgram_Day(t *testing.T) {
	p := &Program{WeeklySchedule: []ProgramDay{{DayName: "A"}, {DayName: "B"}}}
	d, err := p.Day(1)
	require.NoError(t, err)
	assert.Equal(t, "B", d.DayName)
	_, err = p.Day(2)
	assert.Error(t, err)
	_, err = p.Day(-1)
	assert.Error(t, err)
}
