package planner

import (
	"fmt"
	"time"

	"github.com/alexanderramin/repforge/internal/domain"
)

// GoalConfig holds the default loading parameters of one goal.
type GoalConfig struct {
	Sets      map[domain.Level]int
	RepRange  string
	RestSec   int
	Intensity string
	Tempo     string
	// RepsInReserve guides the working weight derived from a loaded baseline.
	RepsInReserve int
}

var goalConfigs = map[domain.Goal]GoalConfig{
	domain.GoalStrength: {
		Sets:          map[domain.Level]int{domain.LevelBeginner: 3, domain.LevelIntermediate: 3, domain.LevelAdvanced: 3},
		RestSec:       180,
		Intensity:     "RPE 8",
		RepsInReserve: 2,
	},
	domain.GoalMuscleGain: {
		Sets:          map[domain.Level]int{domain.LevelBeginner: 3, domain.LevelIntermediate: 4, domain.LevelAdvanced: 4},
		RepRange:      "8-12",
		RestSec:       90,
		Intensity:     "RPE 7-8",
		Tempo:         "3-0-1",
		RepsInReserve: 2,
	},
	domain.GoalFatLoss: {
		Sets:          map[domain.Level]int{domain.LevelBeginner: 3, domain.LevelIntermediate: 3, domain.LevelAdvanced: 4},
		RepRange:      "12-15",
		RestSec:       45,
		Intensity:     "RPE 7",
		RepsInReserve: 3,
	},
	domain.GoalEndurance: {
		Sets:          map[domain.Level]int{domain.LevelBeginner: 2, domain.LevelIntermediate: 3, domain.LevelAdvanced: 3},
		RepRange:      "15-20",
		RestSec:       30,
		Intensity:     "RPE 6-7",
		RepsInReserve: 4,
	},
	domain.GoalPerformance: {
		Sets:          map[domain.Level]int{domain.LevelBeginner: 3, domain.LevelIntermediate: 4, domain.LevelAdvanced: 5},
		RepRange:      "4-6",
		RestSec:       150,
		Intensity:     "RPE 8",
		Tempo:         "X-1-1",
		RepsInReserve: 2,
	},
	domain.GoalMotorRecovery: {
		Sets:          map[domain.Level]int{domain.LevelBeginner: 2, domain.LevelIntermediate: 2, domain.LevelAdvanced: 3},
		RepRange:      "8-10",
		RestSec:       120,
		Intensity:     "RPE 4-5",
		Tempo:         "3-1-3",
		RepsInReserve: 5,
	},
}

// GoalConfigFor returns a copy of the goal's configuration.
func GoalConfigFor(g domain.Goal) (GoalConfig, bool) {
	cfg, ok := goalConfigs[g]
	if !ok {
		return GoalConfig{}, false
	}
	sets := make(map[domain.Level]int, len(cfg.Sets))
	for k, v := range cfg.Sets {
		sets[k] = v
	}
	cfg.Sets = sets
	return cfg, true
}

const (
	// DefaultPreventiveReductionPct is the load cut applied to muscle groups
	// flagged by pain memory.
	DefaultPreventiveReductionPct = 15
	maxVolumeSets                 = 6
	minVolumeSets                 = 2
)

type PrescriberConfig struct {
	UnlockReps             int
	PreventiveReductionPct int
}

func DefaultPrescriberConfig() PrescriberConfig {
	return PrescriberConfig{UnlockReps: DefaultUnlockReps, PreventiveReductionPct: DefaultPreventiveReductionPct}
}

// LoadPrescriber turns a chosen variant into sets, reps, rest and intensity.
type LoadPrescriber struct {
	cfg PrescriberConfig
}

func NewLoadPrescriber(cfg PrescriberConfig) LoadPrescriber {
	if cfg.UnlockReps <= 0 {
		cfg.UnlockReps = DefaultUnlockReps
	}
	if cfg.PreventiveReductionPct <= 0 {
		cfg.PreventiveReductionPct = DefaultPreventiveReductionPct
	}
	return LoadPrescriber{cfg: cfg}
}

// UnlockReps is the effective max-rep target after defaults.
func (lp LoadPrescriber) UnlockReps() int {
	return lp.cfg.UnlockReps
}

// PrescriptionInput is one filled slot awaiting loading parameters.
type PrescriptionInput struct {
	Goal          domain.Goal
	Level         domain.Level
	Candidate     domain.SubstitutionCandidate
	Baseline      *domain.Baseline
	Progression   *domain.ProgressionState
	NextVariantID string
	Reduced       bool
	VolumeAction  domain.VolumeAction
	LowConfidence bool
	Now           time.Time
}

func (lp LoadPrescriber) Prescribe(in PrescriptionInput) domain.ExerciseInstance {
	v := in.Candidate.Variant
	cfg, _ := GoalConfigFor(in.Goal)
	e := domain.ExerciseInstance{
		Name:          v.Name,
		VariantID:     v.ID,
		Pattern:       v.Pattern,
		RestSec:       cfg.RestSec,
		Intensity:     cfg.Intensity,
		Tempo:         cfg.Tempo,
		LoadFactor:    1,
		Difficulty:    v.Difficulty,
		Confidence:    in.Candidate.Confidence,
		Score:         in.Candidate.Score,
		LowConfidence: in.LowConfidence,
	}

	var topReps int
	if in.Goal == domain.GoalStrength {
		topReps = lp.prescribeLinear(&e, in)
	} else {
		e.Sets = adjustSets(cfg.Sets[in.Level], in.VolumeAction)
		e.Reps = cfg.RepRange
		e.RepMode = domain.RepsRange
		topReps = e.TargetRepsForSet(1)
	}

	if in.Baseline != nil && !v.Bodyweight && in.Baseline.VariantID == v.ID {
		if orm := in.Baseline.EstimatedOneRM(); orm > 0 {
			e.WeightKg = domain.RoundLoad(orm / (1 + float64(topReps+cfg.RepsInReserve)/30))
		}
	}
	if in.Candidate.Confidence != domain.ConfidenceHigh && in.Candidate.Confidence != "" {
		e.Notes = appendNote(e.Notes, fmt.Sprintf("%s confidence substitute", in.Candidate.Confidence))
	}
	if in.LowConfidence {
		e.Notes = appendNote(e.Notes, "no baseline for this pattern: starting at the easiest variant")
	}
	if in.Reduced {
		factor := 1 - float64(lp.cfg.PreventiveReductionPct)/100
		e.LoadFactor = factor
		e.WeightKg = domain.RoundLoad(e.WeightKg * factor)
		e.Notes = appendNote(e.Notes, fmt.Sprintf("preventive %d%% load reduction", lp.cfg.PreventiveReductionPct))
	}
	return e
}

func (lp LoadPrescriber) prescribeLinear(e *domain.ExerciseInstance, in PrescriptionInput) int {
	state := in.Progression
	if state == nil || state.VariantID != e.VariantID {
		state = NewProgressionState("", in.Candidate.Variant, lp.cfg.UnlockReps, in.Now)
	}
	sets, reps := RepScheme(state, in.Now)
	e.Sets = sets
	e.Reps = domain.JoinReps(reps)
	e.RepMode = domain.RepsPerSet
	e.Progression = &domain.ProgressionMeta{
		Phase:             state.Phase,
		BaseReps:          state.BaseReps,
		UnlockReps:        state.UnlockReps,
		WeeksElapsed:      domain.WeeksSince(state.AssignedAt, in.Now),
		VariantDifficulty: state.VariantDifficulty,
		NextVariantID:     in.NextVariantID,
	}
	top := 0
	for _, r := range reps {
		top = max(top, r)
	}
	return top
}

func adjustSets(base int, action domain.VolumeAction) int {
	switch action {
	case domain.VolumeIncrease:
		return min(base+1, maxVolumeSets)
	case domain.VolumeDecrease:
		return max(base-1, minVolumeSets)
	}
	return base
}

func appendNote(notes, add string) string {
	if notes == "" {
		return add
	}
	return notes + "; " + add
}
