package planner

import (
	"fmt"
	"time"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/domain"
)

const (
	// DefaultUnlockReps is the max-rep target that proposes the next variant.
	DefaultUnlockReps = 12
	// InitialReps is the per-set target on a freshly assigned variant.
	InitialReps = 3
	// MinRetestReps is the reps needed on the next variant to switch to it.
	MinRetestReps = 3
	// LinearSets and AccumulationSets are the set counts per phase.
	LinearSets       = 3
	AccumulationSets = 4
	// AccumulationCap is the rep ceiling of volume accumulation.
	AccumulationCap = 20
	// wavePeriod is the number of weeks per rep step of the linear wave.
	wavePeriod = 3
)

// LinearRepScheme returns per-set reps for the three linear sets.
// Week 0 is the assignment week: every set targets baseReps. From week 1 the
// target rises by one rep every three weeks, and within each three-week block
// one more set reaches the target each week.
func LinearRepScheme(baseReps, weeksElapsed int) []int {
	if baseReps < InitialReps {
		baseReps = InitialReps
	}
	reps := make([]int, LinearSets)
	if weeksElapsed <= 0 {
		for i := range reps {
			reps[i] = baseReps
		}
		return reps
	}
	target := baseReps + weeksElapsed/wavePeriod
	setsAtTarget := weeksElapsed%wavePeriod + 1
	for i := range reps {
		r := target
		if i+1 > setsAtTarget {
			r = target - 1
		}
		reps[i] = max(r, 1)
	}
	return reps
}

// LinearTarget is the top rep target of the linear wave for the week.
func LinearTarget(baseReps, weeksElapsed int) int {
	if baseReps < InitialReps {
		baseReps = InitialReps
	}
	if weeksElapsed <= 0 {
		return baseReps
	}
	return baseReps + weeksElapsed/wavePeriod
}

// AccumulationReps climbs one rep per week from startReps up to the cap.
func AccumulationReps(startReps, weeksElapsed int) int {
	r := max(startReps, InitialReps) + max(weeksElapsed, 0)
	return min(r, AccumulationCap)
}

// RepScheme returns the set count and per-set reps a progression state
// prescribes at now.
func RepScheme(s *domain.ProgressionState, now time.Time) (int, []int) {
	if s.Accumulating() {
		start := s.AssignedAt
		if s.AccumulationStart != nil {
			start = *s.AccumulationStart
		}
		r := AccumulationReps(s.AccumulationReps, domain.WeeksSince(start, now))
		reps := make([]int, AccumulationSets)
		for i := range reps {
			reps[i] = r
		}
		return AccumulationSets, reps
	}
	return LinearSets, LinearRepScheme(s.BaseReps, domain.WeeksSince(s.AssignedAt, now))
}

type ProgressionEventKind string

const (
	EventNone           ProgressionEventKind = "none"
	EventUnlockProposed ProgressionEventKind = "unlock_proposed"
	EventSwitched       ProgressionEventKind = "switched"
	EventAccumulation   ProgressionEventKind = "volume_accumulation"
	EventCeiling        ProgressionEventKind = "ceiling"
)

type ProgressionEvent struct {
	Kind    ProgressionEventKind
	Variant *domain.ExerciseVariant
	Message string
}

// Progressor drives the strength state machine against the catalog,
// restricted to what the user can perform.
type Progressor struct {
	Catalog    *catalog.Catalog
	UnlockReps int
	Location   domain.Location
	Equipment  map[domain.Equipment]bool
}

// NewProgressionState starts a variant at the initial "3-3-3" scheme.
func NewProgressionState(userID string, v domain.ExerciseVariant, unlockReps int, now time.Time) *domain.ProgressionState {
	if unlockReps <= 0 {
		unlockReps = DefaultUnlockReps
	}
	return &domain.ProgressionState{
		UserID:            userID,
		Pattern:           v.Pattern,
		ExerciseName:      v.Name,
		VariantID:         v.ID,
		VariantDifficulty: v.Difficulty,
		Phase:             domain.PhaseLinear,
		BaseReps:          InitialReps,
		UnlockReps:        unlockReps,
		AssignedAt:        now,
		UpdatedAt:         now,
	}
}

// RecordMaxReps processes a max-rep test on the current variant.
func (p Progressor) RecordMaxReps(s *domain.ProgressionState, maxReps int, now time.Time) ProgressionEvent {
	s.LastMaxReps = maxReps
	s.UpdatedAt = now

	switch s.Phase {
	case domain.PhaseUnlockPending, domain.PhaseCeiling:
		return ProgressionEvent{Kind: EventNone}
	case domain.PhaseVolumeAccumulation:
		if maxReps < AccumulationCap {
			return ProgressionEvent{Kind: EventNone}
		}
	default:
		if maxReps < s.UnlockReps {
			return ProgressionEvent{Kind: EventNone}
		}
	}

	current, ok := p.Catalog.Variant(s.VariantID)
	if !ok {
		return ProgressionEvent{Kind: EventNone, Message: fmt.Sprintf("variant %s is no longer in the catalog", s.VariantID)}
	}
	next, ok := p.Catalog.Next(current, p.Location, p.Equipment)
	if !ok {
		p.enterAccumulation(s, domain.PhaseCeiling, now)
		return ProgressionEvent{Kind: EventCeiling, Message: fmt.Sprintf("%s is the top variant: accumulating volume", current.Name)}
	}
	s.Phase = domain.PhaseUnlockPending
	s.ProposedVariantID = next.ID
	return ProgressionEvent{
		Kind:    EventUnlockProposed,
		Variant: &next,
		Message: fmt.Sprintf("%d reps on %s: retest on %s", maxReps, current.Name, next.Name),
	}
}

// RecordRetest processes the retest on the proposed variant. At least three
// reps switch permanently; fewer move the user into volume accumulation.
func (p Progressor) RecordRetest(s *domain.ProgressionState, reps int, now time.Time) (ProgressionEvent, error) {
	if s.Phase != domain.PhaseUnlockPending || s.ProposedVariantID == "" {
		return ProgressionEvent{}, ErrNoRetestPending
	}
	next, ok := p.Catalog.Variant(s.ProposedVariantID)
	if !ok {
		return ProgressionEvent{}, fmt.Errorf("proposed variant %s: not in catalog", s.ProposedVariantID)
	}
	s.UpdatedAt = now

	if reps >= MinRetestReps {
		s.VariantID = next.ID
		s.ExerciseName = next.Name
		s.VariantDifficulty = next.Difficulty
		s.Phase = domain.PhaseLinear
		s.BaseReps = InitialReps
		s.AssignedAt = now
		s.AccumulationStart = nil
		s.AccumulationReps = 0
		s.ProposedVariantID = ""
		return ProgressionEvent{
			Kind:    EventSwitched,
			Variant: &next,
			Message: fmt.Sprintf("switched to %s at 3-3-3", next.Name),
		}, nil
	}

	s.ProposedVariantID = ""
	p.enterAccumulation(s, domain.PhaseVolumeAccumulation, now)
	return ProgressionEvent{
		Kind:    EventAccumulation,
		Message: fmt.Sprintf("%d reps on %s: staying on %s with 4 sets", reps, next.Name, s.ExerciseName),
	}, nil
}

func (p Progressor) enterAccumulation(s *domain.ProgressionState, phase domain.ProgressionPhase, now time.Time) {
	if s.AccumulationStart == nil {
		s.AccumulationReps = LinearTarget(s.BaseReps, domain.WeeksSince(s.AssignedAt, now))
		s.AccumulationStart = &now
	}
	s.Phase = phase
}
