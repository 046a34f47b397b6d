package adaptation

import (
	"testing"
	"time"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestVolumeLandmarks_Zone(t *testing.T) {
	l := domain.VolumeLandmarks{MEV: 10, MAV: 18, MRV: 23}
	assert.Equal(t, domain.ZoneBelowMEV, l.Zone(9))
	assert.Equal(t, domain.ZoneMEVToMAV, l.Zone(10))
	assert.Equal(t, domain.ZoneMEVToMAV, l.Zone(12))
	assert.Equal(t, domain.ZoneMAVToMRV, l.Zone(18))
	assert.Equal(t, domain.ZoneMAVToMRV, l.Zone(23))
	assert.Equal(t, domain.ZoneAboveMRV, l.Zone(24))
}

func TestVolumeTracker_SessionVolumeCountsCompletedSets(t *testing.T) {
	tr := NewVolumeTracker(catalog.Default(), nil)
	exercises := []domain.ExerciseInstance{
		{Pattern: domain.PatternLowerPush},
		{Pattern: domain.PatternVerticalPull},
	}
	logs := []domain.SetLog{
		{ExerciseIndex: 0, SetNumber: 1, RepsCompleted: 8},
		{ExerciseIndex: 0, SetNumber: 2, RepsCompleted: 0},
		{ExerciseIndex: 1, SetNumber: 1, RepsCompleted: 5},
		{ExerciseIndex: 1, SetNumber: 2, RepsCompleted: 5},
		{ExerciseIndex: 9, SetNumber: 1, RepsCompleted: 5},
	}
	got := tr.SessionVolume(exercises, logs)
	assert.Equal(t, map[domain.MuscleGroup]int{
		domain.MuscleQuads:  1,
		domain.MuscleGlutes: 1,
		domain.MuscleLats:   2,
		domain.MuscleBiceps: 2,
	}, got)
}

func TestVolumeTracker_Summarize(t *testing.T) {
	tr := NewVolumeTracker(catalog.Default(), map[domain.MuscleGroup]domain.VolumeLandmarks{
		domain.MuscleChest: {MEV: 10, MAV: 18, MRV: 22},
	})
	week := domain.WeekStart(time.Date(2026, 5, 7, 12, 0, 0, 0, time.UTC))
	rows := tr.Summarize("u1", week, map[domain.MuscleGroup]int{domain.MuscleChest: 12, domain.MuscleCore: 30})

	assert.Len(t, rows, 2)
	assert.Equal(t, domain.MuscleChest, rows[0].MuscleGroup)
	assert.Equal(t, domain.ZoneMEVToMAV, rows[0].Zone)
	// Groups without their own landmarks use the fallback.
	assert.Equal(t, domain.ZoneAboveMRV, rows[1].Zone)
	assert.Equal(t, time.Monday, rows[0].WeekStart.Weekday())
}

func TestVolumeTracker_Recommend(t *testing.T) {
	tr := NewVolumeTracker(catalog.Default(), map[domain.MuscleGroup]domain.VolumeLandmarks{
		domain.MuscleChest:  {MEV: 10, MAV: 18, MRV: 22},
		domain.MuscleLats:   {MEV: 10, MAV: 18, MRV: 22},
		domain.MuscleQuads:  {MEV: 10, MAV: 18, MRV: 22},
		domain.MuscleBiceps: {MEV: 10, MAV: 18, MRV: 22},
	})
	weeks := []map[domain.MuscleGroup]int{
		{domain.MuscleChest: 6, domain.MuscleLats: 6, domain.MuscleQuads: 24, domain.MuscleBiceps: 12},
		{domain.MuscleChest: 8, domain.MuscleLats: 7, domain.MuscleQuads: 25, domain.MuscleBiceps: 8},
	}
	recs := tr.Recommend(weeks, map[domain.MuscleGroup]bool{domain.MuscleLats: true})

	assert.Equal(t, domain.VolumeIncrease, recs[domain.MuscleChest].Action)
	assert.Equal(t, domain.VolumeDecrease, recs[domain.MuscleLats].Action, "pain beats low volume")
	assert.Equal(t, domain.VolumeDecrease, recs[domain.MuscleQuads].Action)
	assert.Equal(t, domain.VolumeHold, recs[domain.MuscleBiceps].Action, "one low week is not enough")

	assert.Equal(t, domain.VolumeIncrease, Actions(recs)[domain.MuscleChest])
}

func TestVolumeTracker_RecommendWithoutHistoryHolds(t *testing.T) {
	tr := NewVolumeTracker(catalog.Default(), nil)
	for g, rec := range tr.Recommend(nil, nil) {
		assert.Equal(t, domain.VolumeHold, rec.Action, g)
	}
}

func TestPainGroups(t *testing.T) {
	mem := domain.NewPainMemory("u1")
	mem.Areas["knee"] = &domain.AreaMemory{Trend: domain.TrendWorsening, LastSeverity: 6}
	mem.Areas["wrist"] = &domain.AreaMemory{Trend: domain.TrendImproving, LastSeverity: 2}

	groups := PainGroups(catalog.Default(), mem)
	assert.True(t, groups[domain.MuscleQuads])
	assert.Empty(t, PainGroups(catalog.Default(), nil))
}

func TestVolumeTracker_UntrainedWeekBreaksLowStreak(t *testing.T) {
	tr := NewVolumeTracker(catalog.Default(), map[domain.MuscleGroup]domain.VolumeLandmarks{
		domain.MuscleChest: {MEV: 10, MAV: 18, MRV: 22},
	})
	gap := []map[domain.MuscleGroup]int{
		{domain.MuscleChest: 6},
		{},
		{domain.MuscleChest: 7},
	}
	assert.Equal(t, domain.VolumeHold, tr.Recommend(gap, nil)[domain.MuscleChest].Action)

	idle := []map[domain.MuscleGroup]int{{}, {}, {}, {}}
	assert.Equal(t, domain.VolumeHold, tr.Recommend(idle, nil)[domain.MuscleChest].Action)

	steady := []map[domain.MuscleGroup]int{
		{},
		{domain.MuscleChest: 6},
		{domain.MuscleChest: 7},
	}
	assert.Equal(t, domain.VolumeIncrease, tr.Recommend(steady, nil)[domain.MuscleChest].Action)
}
