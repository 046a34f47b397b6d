package domain

import "time"

type ProgressionPhase string

const (
	// PhaseLinear ramps reps on the current variant with the weekly wave.
	PhaseLinear ProgressionPhase = "linear"
	// PhaseUnlockPending means the next variant has been proposed as a retest.
	PhaseUnlockPending ProgressionPhase = "unlock_pending"
	// PhaseVolumeAccumulation adds a fourth set and climbs reps toward the cap.
	PhaseVolumeAccumulation ProgressionPhase = "volume_accumulation"
	// PhaseCeiling is volume accumulation on the top catalog variant.
	PhaseCeiling ProgressionPhase = "ceiling"
)

// ProgressionState tracks the strength state machine for one exercise slot,
// identified by its movement pattern and current variant.
type ProgressionState struct {
	UserID            string           `json:"user_id"`
	Pattern           MovementPattern  `json:"pattern"`
	ExerciseName      string           `json:"exercise_name"`
	VariantID         string           `json:"variant_id"`
	VariantDifficulty int              `json:"variant_difficulty"`
	Phase             ProgressionPhase `json:"phase"`
	BaseReps          int              `json:"base_reps"`
	UnlockReps        int              `json:"unlock_reps"`
	AssignedAt        time.Time        `json:"assigned_at"`
	AccumulationStart *time.Time       `json:"accumulation_start,omitempty"`
	AccumulationReps  int              `json:"accumulation_reps,omitempty"`
	ProposedVariantID string           `json:"proposed_variant_id,omitempty"`
	LastMaxReps       int              `json:"last_max_reps"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// WeeksSince returns whole weeks between from and now, never negative.
func WeeksSince(from, now time.Time) int {
	if from.IsZero() || now.Before(from) {
		return 0
	}
	return int(now.Sub(from).Hours() / (24 * 7))
}

// Accumulating reports whether the four-set accumulation scheme applies,
// including while a retest is pending after accumulation began.
func (s *ProgressionState) Accumulating() bool {
	switch s.Phase {
	case PhaseVolumeAccumulation, PhaseCeiling:
		return true
	case PhaseUnlockPending:
		return s.AccumulationStart != nil
	}
	return false
}
