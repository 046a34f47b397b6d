package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProgressionPolicy describes how a program advances week over week.
type ProgressionPolicy struct {
	Model       string `json:"model"`
	UnlockReps  int    `json:"unlock_reps,omitempty"`
	Description string `json:"description"`
}

// ProgressionMeta is attached to strength exercises driven by the linear
// progression state machine.
type ProgressionMeta struct {
	Phase             ProgressionPhase `json:"phase"`
	BaseReps          int              `json:"base_reps"`
	UnlockReps        int              `json:"unlock_reps"`
	WeeksElapsed      int              `json:"weeks_elapsed"`
	VariantDifficulty int              `json:"variant_difficulty"`
	NextVariantID     string           `json:"next_variant_id,omitempty"`
}

// ExerciseInstance is one prescribed exercise within a program day.
type ExerciseInstance struct {
	Name          string           `json:"name"`
	VariantID     string           `json:"variant_id"`
	Pattern       MovementPattern  `json:"pattern"`
	Sets          int              `json:"sets"`
	Reps          string           `json:"reps"`
	RepMode       RepMode          `json:"rep_mode"`
	RestSec       int              `json:"rest_sec"`
	Intensity     string           `json:"intensity"`
	Tempo         string           `json:"tempo,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	WeightKg      float64          `json:"weight_kg,omitempty"`
	LoadFactor    float64          `json:"load_factor"`
	Difficulty    int              `json:"difficulty"`
	Confidence    Confidence       `json:"confidence,omitempty"`
	Score         float64          `json:"score"`
	LowConfidence bool             `json:"low_confidence,omitempty"`
	Skip          bool             `json:"skip,omitempty"`
	SkipReason    string           `json:"skip_reason,omitempty"`
	Progression   *ProgressionMeta `json:"progression,omitempty"`
}

// TargetRepsForSet returns the rep target of the 1-based set. Range schemes
// target the top of the range.
func (e ExerciseInstance) TargetRepsForSet(set int) int {
	parts := strings.Split(e.Reps, "-")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return 0
	}
	if e.RepMode == RepsRange {
		return nums[len(nums)-1]
	}
	if set < 1 {
		set = 1
	}
	if set > len(nums) {
		return nums[len(nums)-1]
	}
	return nums[set-1]
}

type ProgramDay struct {
	DayName   string             `json:"day_name"`
	Focus     string             `json:"focus"`
	Exercises []ExerciseInstance `json:"exercises"`
}

// Patterns returns the distinct movement patterns scheduled (not skipped) on the day.
func (d ProgramDay) Patterns() []MovementPattern {
	seen := make(map[MovementPattern]bool)
	var out []MovementPattern
	for _, e := range d.Exercises {
		if e.Skip || seen[e.Pattern] {
			continue
		}
		seen[e.Pattern] = true
		out = append(out, e.Pattern)
	}
	return out
}

// Program is the generated multi-week plan. A new generation supersedes the
// previous one; stored programs are never edited in place.
type Program struct {
	ID                   string            `json:"id"`
	UserID               string            `json:"user_id"`
	Name                 string            `json:"name"`
	Description          string            `json:"description"`
	Split                string            `json:"split"`
	Level                Level             `json:"level"`
	Goal                 Goal              `json:"goal"`
	Location             Location          `json:"location"`
	Equipment            []Equipment       `json:"equipment,omitempty"`
	DaysPerWeek          int               `json:"days_per_week"`
	WeeklySchedule       []ProgramDay      `json:"weekly_schedule"`
	Progression          ProgressionPolicy `json:"progression"`
	TotalWeeks           int               `json:"total_weeks"`
	IncludesDeload       bool              `json:"includes_deload"`
	DeloadFrequency      int               `json:"deload_frequency"`
	RequiresEndCycleTest bool              `json:"requires_end_cycle_test"`
	Flags                []string          `json:"flags,omitempty"`
	Active               bool              `json:"active"`
	CreatedAt            time.Time         `json:"created_at"`
}

// Program flags surfaced to callers.
const (
	FlagBaselineFallback  = "baseline_fallback"
	FlagPainMemoryReset   = "pain_memory_reset"
	FlagLowConfidence     = "low_confidence"
	FlagSkippedSlots      = "skipped_slots"
	FlagPreventiveLoad    = "preventive_load_reduction"
	FlagReassessSuggested = "reassessment_suggested"
)

func (p *Program) HasFlag(flag string) bool {
	for _, f := range p.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

func (p *Program) AddFlag(flag string) {
	if !p.HasFlag(flag) {
		p.Flags = append(p.Flags, flag)
	}
}

// Day returns the 0-based day of the weekly schedule.
func (p *Program) Day(index int) (ProgramDay, error) {
	if index < 0 || index >= len(p.WeeklySchedule) {
		return ProgramDay{}, fmt.Errorf("day %d outside schedule of %d days", index, len(p.WeeklySchedule))
	}
	return p.WeeklySchedule[index], nil
}
