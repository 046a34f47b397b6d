package domain

import (
	"fmt"
	"time"
)

type BaselineSource string

const (
	SourceAssessment   BaselineSource = "assessment"
	SourceRetestUnlock BaselineSource = "retest_unlock"
)

// Baseline is a user's measured starting capability for one movement pattern.
// Only a completed assessment or a retest unlock may replace it.
type Baseline struct {
	UserID     string          `json:"user_id"`
	Pattern    MovementPattern `json:"pattern"`
	VariantID  string          `json:"variant_id"`
	MaxReps    int             `json:"max_reps"`
	WeightKg   float64         `json:"weight_kg,omitempty"`
	RMReps     int             `json:"rm_reps,omitempty"`
	Difficulty int             `json:"difficulty"`
	Source     BaselineSource  `json:"source"`
	AssessedAt time.Time       `json:"assessed_at"`
}

// Validate reports whether a stored baseline is usable by the planner.
func (b *Baseline) Validate() error {
	if !b.Pattern.Valid() {
		return fmt.Errorf("baseline: unknown pattern %q", b.Pattern)
	}
	if b.VariantID == "" {
		return fmt.Errorf("baseline %s: missing variant", b.Pattern)
	}
	if b.Difficulty < 1 || b.Difficulty > 10 {
		return fmt.Errorf("baseline %s: difficulty %d outside [1,10]", b.Pattern, b.Difficulty)
	}
	if b.MaxReps < 0 || b.WeightKg < 0 {
		return fmt.Errorf("baseline %s: negative capability", b.Pattern)
	}
	if b.Source != SourceAssessment && b.Source != SourceRetestUnlock {
		return fmt.Errorf("baseline %s: unknown source %q", b.Pattern, b.Source)
	}
	return nil
}

// EstimatedOneRM returns an Epley estimate of the one-rep max, or 0 for
// bodyweight baselines.
func (b *Baseline) EstimatedOneRM() float64 {
	if b.WeightKg <= 0 {
		return 0
	}
	reps := b.RMReps
	if reps <= 1 {
		return b.WeightKg
	}
	return b.WeightKg * (1 + float64(reps)/30)
}

// ExerciseVariant is one catalog entry for a movement pattern.
type ExerciseVariant struct {
	ID           string          `json:"id" yaml:"id"`
	Name         string          `json:"name" yaml:"name"`
	Pattern      MovementPattern `json:"pattern" yaml:"-"`
	Difficulty   int             `json:"difficulty" yaml:"difficulty"`
	Equipment    []Equipment     `json:"equipment" yaml:"equipment"`
	Location     Location        `json:"location" yaml:"location"`
	Stresses     []string        `json:"stresses,omitempty" yaml:"stresses"`
	Bodyweight   bool            `json:"bodyweight" yaml:"bodyweight"`
	RecoverySafe bool            `json:"recovery_safe,omitempty" yaml:"recovery_safe"`
}

// DifficultyTier buckets the 1-10 difficulty into the three level tiers.
func (v ExerciseVariant) DifficultyTier() int {
	switch {
	case v.Difficulty <= 3:
		return 1
	case v.Difficulty <= 6:
		return 2
	default:
		return 3
	}
}

// NeedsOnly reports whether every piece of equipment the variant requires is
// in the available set. Bodyweight-only variants always qualify.
func (v ExerciseVariant) NeedsOnly(available map[Equipment]bool) bool {
	for _, e := range v.Equipment {
		if e == EquipmentNone {
			continue
		}
		if !available[e] {
			return false
		}
	}
	return true
}

// LoadsArea reports whether the variant stresses the given body area.
func (v ExerciseVariant) LoadsArea(area string) bool {
	for _, s := range v.Stresses {
		if s == area {
			return true
		}
	}
	return false
}
