package adaptation

import (
	"testing"

	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoRegulation_Evaluate(t *testing.T) {
	engine := AutoRegulationEngine{}
	tests := []struct {
		name     string
		in       SetFeedback
		wantType domain.AdjustmentType
		wantSets int
		wantReps int
		wantRest int
	}{
		{
			name:     "high rpe mid exercise reduces",
			in:       SetFeedback{ExerciseName: "Push-up", SetNumber: 1, PlannedSets: 3, TargetReps: 10, RestSec: 90, RPE: 10},
			wantType: domain.AdjustReduce, wantSets: 2, wantReps: 8, wantRest: 120,
		},
		{
			name:     "pull-up set two of four at rpe 9",
			in:       SetFeedback{ExerciseName: "Pull-up", SetNumber: 2, PlannedSets: 4, TargetReps: 10, RestSec: 120, RPE: 9},
			wantType: domain.AdjustReduce, wantSets: 3, wantReps: 8, wantRest: 150,
		},
		{
			name:     "reduce never drops below completed sets",
			in:       SetFeedback{SetNumber: 3, PlannedSets: 4, TargetReps: 12, RestSec: 60, RPE: 9},
			wantType: domain.AdjustReduce, wantSets: 3, wantReps: 10, wantRest: 90,
		},
		{
			name:     "high rpe on final set is advisory",
			in:       SetFeedback{SetNumber: 3, PlannedSets: 3, TargetReps: 8, RestSec: 90, RPE: 9},
			wantType: domain.AdjustAdvisory, wantSets: 3, wantReps: 8, wantRest: 90,
		},
		{
			name:     "low rpe on final set increases",
			in:       SetFeedback{SetNumber: 3, PlannedSets: 3, TargetReps: 8, RestSec: 90, RPE: 3},
			wantType: domain.AdjustIncrease, wantSets: 4, wantReps: 10, wantRest: 90,
		},
		{
			name:     "low rpe mid exercise maintains",
			in:       SetFeedback{SetNumber: 1, PlannedSets: 3, TargetReps: 8, RestSec: 90, RPE: 3},
			wantType: domain.AdjustMaintain, wantSets: 3, wantReps: 8, wantRest: 90,
		},
		{
			name:     "moderate rpe maintains",
			in:       SetFeedback{SetNumber: 2, PlannedSets: 3, TargetReps: 8, RestSec: 90, RPE: 7},
			wantType: domain.AdjustMaintain, wantSets: 3, wantReps: 8, wantRest: 90,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj, err := engine.Evaluate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, adj.Type)
			assert.Equal(t, tt.wantSets, adj.NewSets)
			assert.Equal(t, tt.wantReps, adj.NewReps)
			assert.Equal(t, tt.wantRest, adj.NewRestSec)
		})
	}
}

func TestAutoRegulation_PullUpScenarioRespectsRepCeiling(t *testing.T) {
	adj, err := AutoRegulationEngine{}.Evaluate(SetFeedback{ExerciseName: "Pull-up", SetNumber: 2, PlannedSets: 4, TargetReps: 12, RestSec: 120, RPE: 9})
	require.NoError(t, err)
	assert.LessOrEqual(t, adj.NewReps, 12-2)
	assert.True(t, adj.Changes())
}

func TestAutoRegulation_RejectsInvalidInput(t *testing.T) {
	_, err := AutoRegulationEngine{}.Evaluate(SetFeedback{SetNumber: 1, PlannedSets: 3, TargetReps: 8, RPE: 11})
	assert.ErrorIs(t, err, ErrInvalidRPE)

	_, err = AutoRegulationEngine{}.Evaluate(SetFeedback{SetNumber: 0, PlannedSets: 3, TargetReps: 8, RPE: 7})
	assert.Error(t, err)
}

func TestReducedReps(t *testing.T) {
	assert.Equal(t, 8, ReducedReps(10))
	assert.Equal(t, 4, ReducedReps(5))   // floor(4.0) beats 3
	assert.Equal(t, 13, ReducedReps(15)) // 13 beats floor(12.0)
	assert.Equal(t, 2, ReducedReps(3))
	assert.Equal(t, 1, ReducedReps(1))
}

func TestResolveRPE(t *testing.T) {
	rpe, rir := 8, 3

	got, err := ResolveRPE(domain.LevelBeginner, &rpe, &rir)
	require.NoError(t, err)
	assert.Equal(t, 8, got, "explicit rpe wins")

	got, err = ResolveRPE(domain.LevelBeginner, nil, &rir)
	require.NoError(t, err)
	assert.Equal(t, 9, got, "beginner overestimates reserve by two")

	_, err = ResolveRPE(domain.LevelBeginner, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRPE)
}
