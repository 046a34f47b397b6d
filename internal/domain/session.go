package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAborted    SessionStatus = "aborted"
)

// SetLog is one completed working set. Logs are append-only and keyed by
// (session, exercise index, set number).
type SetLog struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	ExerciseName  string    `json:"exercise_name"`
	ExerciseIndex int       `json:"exercise_index"`
	SetNumber     int       `json:"set_number"`
	RepsCompleted int       `json:"reps_completed"`
	TargetReps    int       `json:"target_reps"`
	WeightUsed    float64   `json:"weight_used"`
	RPE           int       `json:"rpe"`
	RIR           *int      `json:"rir,omitempty"`
	Adjusted      bool      `json:"adjusted"`
	Timestamp     time.Time `json:"timestamp"`
}

// SetKey is the idempotency key of a set log within a session.
type SetKey struct {
	ExerciseIndex int
	SetNumber     int
}

func (l SetLog) Key() SetKey {
	return SetKey{ExerciseIndex: l.ExerciseIndex, SetNumber: l.SetNumber}
}

// SamePayload reports whether two logs for the same key carry the same
// submitted values. The exercise name is derived from the session plan and
// changes when the exercise is substituted, so it is not compared.
func (l SetLog) SamePayload(o SetLog) bool {
	return l.ExerciseIndex == o.ExerciseIndex &&
		l.SetNumber == o.SetNumber &&
		l.RepsCompleted == o.RepsCompleted &&
		l.WeightUsed == o.WeightUsed &&
		l.RPE == o.RPE
}

type AdjustmentType string

const (
	AdjustReduce   AdjustmentType = "reduce"
	AdjustIncrease AdjustmentType = "increase"
	AdjustMaintain AdjustmentType = "maintain"
	AdjustAdvisory AdjustmentType = "advisory"
)

// Adjustment is an auto-regulation proposal for the rest of one exercise.
type Adjustment struct {
	Type       AdjustmentType `json:"type"`
	NewSets    int            `json:"new_sets"`
	NewReps    int            `json:"new_reps"`
	NewRestSec int            `json:"new_rest_sec"`
	Message    string         `json:"message,omitempty"`
}

// Changes reports whether the proposal alters the remaining plan.
func (a Adjustment) Changes() bool {
	return a.Type == AdjustReduce || a.Type == AdjustIncrease
}

// ScoreFactor is one contribution to a substitution score.
type ScoreFactor struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Delta   float64 `json:"delta"`
}

type SubstitutionCandidate struct {
	Variant        ExerciseVariant    `json:"variant"`
	Score          float64            `json:"score"`
	Confidence     Confidence         `json:"confidence"`
	Factors        []ScoreFactor      `json:"factors,omitempty"`
	Recommendation SubstitutionAction `json:"recommendation"`
}

type PendingKind string

const (
	PendingAutoRegulation PendingKind = "autoregulation"
	PendingSubstitution   PendingKind = "substitution"
)

// PendingDecision is a proposal waiting for the user's accept/dismiss.
type PendingDecision struct {
	Kind          PendingKind            `json:"kind"`
	ExerciseIndex int                    `json:"exercise_index"`
	SetNumber     int                    `json:"set_number"`
	Adjustment    *Adjustment            `json:"adjustment,omitempty"`
	Candidate     *SubstitutionCandidate `json:"candidate,omitempty"`
	Reason        string                 `json:"reason,omitempty"`
}

type DeltaKind string

const (
	DeltaAutoRegulation DeltaKind = "autoregulation"
	DeltaLoadReduction  DeltaKind = "load_reduction"
	DeltaSubstitution   DeltaKind = "substitution"
	DeltaSkip           DeltaKind = "skip"
	DeltaStopPattern    DeltaKind = "stop_pattern"
)

// SessionDelta records one in-session change against the stored program day.
// ExerciseIndex is -1 for pattern-wide deltas.
type SessionDelta struct {
	Kind          DeltaKind        `json:"kind"`
	ExerciseIndex int              `json:"exercise_index"`
	Pattern       MovementPattern  `json:"pattern,omitempty"`
	FromSet       int              `json:"from_set,omitempty"`
	Sets          int              `json:"sets,omitempty"`
	Reps          int              `json:"reps,omitempty"`
	RestSec       int              `json:"rest_sec,omitempty"`
	LoadFactor    float64          `json:"load_factor,omitempty"`
	Replacement   *ExerciseVariant `json:"replacement,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// WorkoutSession is the runtime state of one performed program day.
type WorkoutSession struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"user_id"`
	ProgramID          string           `json:"program_id"`
	DayIndex           int              `json:"day_index"`
	DayName            string           `json:"day_name"`
	Status             SessionStatus    `json:"status"`
	StartedAt          time.Time        `json:"started_at"`
	FinalizedAt        *time.Time       `json:"finalized_at,omitempty"`
	DurationSec        int              `json:"duration_sec"`
	ExercisesCompleted int              `json:"exercises_completed"`
	Deltas             []SessionDelta   `json:"deltas,omitempty"`
	Pending            *PendingDecision `json:"pending,omitempty"`
	PainReports        []PainRecord     `json:"pain_reports,omitempty"`
	Advisories         []string         `json:"advisories,omitempty"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func (s *WorkoutSession) Finalized() bool {
	return s.FinalizedAt != nil
}

func (s *WorkoutSession) AddDelta(d SessionDelta) {
	s.Deltas = append(s.Deltas, d)
}

func (s *WorkoutSession) AddAdvisory(msg string) {
	for _, a := range s.Advisories {
		if a == msg {
			return
		}
	}
	s.Advisories = append(s.Advisories, msg)
}

// Finalize closes the session. A second call is a no-op and reports false.
func (s *WorkoutSession) Finalize(aborted bool, exercisesCompleted int, now time.Time) bool {
	if s.Finalized() {
		return false
	}
	s.Status = SessionCompleted
	if aborted {
		s.Status = SessionAborted
	}
	s.FinalizedAt = &now
	s.DurationSec = int(now.Sub(s.StartedAt).Seconds())
	if s.DurationSec < 0 {
		s.DurationSec = 0
	}
	s.ExercisesCompleted = exercisesCompleted
	s.Pending = nil
	s.UpdatedAt = now
	return true
}

// EffectiveExercises applies the recorded deltas, in order, to a copy of the
// stored program day. The day itself is never modified.
func (s *WorkoutSession) EffectiveExercises(day ProgramDay) []ExerciseInstance {
	out := make([]ExerciseInstance, len(day.Exercises))
	copy(out, day.Exercises)
	for _, d := range s.Deltas {
		if d.Kind == DeltaStopPattern {
			for i := range out {
				if out[i].Pattern == d.Pattern {
					out[i].Skip = true
					out[i].SkipReason = d.Reason
				}
			}
			continue
		}
		if d.ExerciseIndex < 0 || d.ExerciseIndex >= len(out) {
			continue
		}
		applyDelta(&out[d.ExerciseIndex], d)
	}
	return out
}

func applyDelta(e *ExerciseInstance, d SessionDelta) {
	switch d.Kind {
	case DeltaAutoRegulation:
		reps := make([]int, d.Sets)
		for i := range reps {
			set := i + 1
			if set <= d.FromSet {
				reps[i] = e.TargetRepsForSet(set)
			} else {
				reps[i] = d.Reps
			}
		}
		e.Sets = d.Sets
		e.Reps = JoinReps(reps)
		e.RepMode = RepsPerSet
		if d.RestSec > 0 {
			e.RestSec = d.RestSec
		}
	case DeltaLoadReduction:
		if e.LoadFactor == 0 {
			e.LoadFactor = 1
		}
		e.LoadFactor *= d.LoadFactor
		e.WeightKg = RoundLoad(e.WeightKg * d.LoadFactor)
		e.Notes = appendNote(e.Notes, d.Reason)
	case DeltaSubstitution:
		if d.Replacement != nil {
			e.Name = d.Replacement.Name
			e.VariantID = d.Replacement.ID
			e.Difficulty = d.Replacement.Difficulty
			e.WeightKg = 0
		}
		e.Notes = appendNote(e.Notes, d.Reason)
	case DeltaSkip:
		e.Skip = true
		e.SkipReason = d.Reason
	}
}

func appendNote(notes, add string) string {
	if add == "" {
		return notes
	}
	if notes == "" {
		return add
	}
	return notes + "; " + add
}

// JoinReps renders per-set reps as "a-b-c".
func JoinReps(reps []int) string {
	parts := make([]string, len(reps))
	for i, r := range reps {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, "-")
}

// RoundLoad rounds a weight to the nearest 0.5 kg plate step.
func RoundLoad(kg float64) float64 {
	if kg <= 0 {
		return 0
	}
	return float64(int(kg*2+0.5)) / 2
}

// ErrSetOutOfOrder is returned when a set arrives with a lower set number
// than one already logged for the same exercise.
type ErrSetOutOfOrder struct {
	ExerciseIndex int
	SetNumber     int
	LastLogged    int
}

func (e *ErrSetOutOfOrder) Error() string {
	return fmt.Sprintf("set %d of exercise %d arrived after set %d", e.SetNumber, e.ExerciseIndex, e.LastLogged)
}
