package adaptation

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/planner"
)

// ErrInvalidRPE is returned for RPE values outside [1,10].
var ErrInvalidRPE = errors.New("rpe must be between 1 and 10")

const (
	highRPE      = 9
	lowRPE       = 4
	extraRestSec = 30
	repDropFloor = 2
	increaseReps = 2
)

// SetFeedback is the state after one completed set and its reported effort.
type SetFeedback struct {
	ExerciseName string
	SetNumber    int // 1-based, the set just completed
	PlannedSets  int
	TargetReps   int
	RestSec      int
	RPE          int
}

// AutoRegulationEngine turns post-set RPE into a proposal for the rest of
// the exercise. It never touches the stored program.
type AutoRegulationEngine struct{}

func (AutoRegulationEngine) Evaluate(f SetFeedback) (domain.Adjustment, error) {
	if f.RPE < 1 || f.RPE > 10 {
		return domain.Adjustment{}, fmt.Errorf("%w: got %d", ErrInvalidRPE, f.RPE)
	}
	if f.SetNumber < 1 || f.PlannedSets < 1 {
		return domain.Adjustment{}, fmt.Errorf("set %d of %d is not a valid position", f.SetNumber, f.PlannedSets)
	}
	last := f.SetNumber >= f.PlannedSets

	switch {
	case f.RPE >= highRPE && !last:
		return domain.Adjustment{
			Type:       domain.AdjustReduce,
			NewSets:    max(f.PlannedSets-1, f.SetNumber),
			NewReps:    ReducedReps(f.TargetReps),
			NewRestSec: f.RestSec + extraRestSec,
			Message:    fmt.Sprintf("RPE %d on set %d of %s: drop a set and take more rest", f.RPE, f.SetNumber, f.ExerciseName),
		}, nil
	case f.RPE >= highRPE:
		return domain.Adjustment{
			Type:       domain.AdjustAdvisory,
			NewSets:    f.PlannedSets,
			NewReps:    f.TargetReps,
			NewRestSec: f.RestSec,
			Message:    fmt.Sprintf("note high fatigue on %s for next session", f.ExerciseName),
		}, nil
	case f.RPE <= lowRPE && last:
		return domain.Adjustment{
			Type:       domain.AdjustIncrease,
			NewSets:    f.PlannedSets + 1,
			NewReps:    f.TargetReps + increaseReps,
			NewRestSec: f.RestSec,
			Message:    fmt.Sprintf("RPE %d on the last set of %s: add a set", f.RPE, f.ExerciseName),
		}, nil
	default:
		return domain.Adjustment{
			Type:       domain.AdjustMaintain,
			NewSets:    f.PlannedSets,
			NewReps:    f.TargetReps,
			NewRestSec: f.RestSec,
		}, nil
	}
}

// ReducedReps is max(target-2, floor(target*0.8)), never below one.
func ReducedReps(target int) int {
	// 80% in integer arithmetic floors exactly.
	byPercent := target * 4 / 5
	return max(target-repDropFloor, byPercent, 1)
}

// ResolveRPE returns the reported RPE, or derives it from a calibrated RIR
// when only reps in reserve were given.
func ResolveRPE(level domain.Level, rpe, rir *int) (int, error) {
	switch {
	case rpe != nil:
		if *rpe < 1 || *rpe > 10 {
			return 0, fmt.Errorf("%w: got %d", ErrInvalidRPE, *rpe)
		}
		return *rpe, nil
	case rir != nil:
		if *rir < 0 {
			return 0, fmt.Errorf("reps in reserve cannot be negative: got %d", *rir)
		}
		return planner.RIRCalibrator{}.RPE(level, *rir), nil
	default:
		return 0, fmt.Errorf("%w: neither rpe nor rir reported", ErrInvalidRPE)
	}
}
