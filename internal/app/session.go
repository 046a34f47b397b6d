package app

import (
	"fmt"
	"time"

	"github.com/alexanderramin/repforge/internal/adaptation"
	"github.com/alexanderramin/repforge/internal/domain"
)

type StartSessionRequest struct {
	UserID   string
	DayIndex int
	Now      *time.Time
}

// LogSetRequest records one completed set. Effort is reported as RPE, or as
// reps in reserve which is calibrated by level and converted.
type LogSetRequest struct {
	SessionID     string
	ExerciseIndex int
	SetNumber     int
	RepsCompleted int
	WeightUsed    float64
	RPE           *int
	RIR           *int
	Now           *time.Time
}

func (r LogSetRequest) Validate() error {
	var errs ValidationErrors
	if r.SessionID == "" {
		errs.Add("session_id", ValidationMissingField, "session id is required")
	}
	if r.ExerciseIndex < 0 {
		errs.Add("exercise_index", ValidationOutOfRange, "exercise index cannot be negative")
	}
	if r.SetNumber < 1 {
		errs.Add("set_number", ValidationOutOfRange, "set numbers start at 1")
	}
	if r.RepsCompleted < 0 || r.WeightUsed < 0 {
		errs.Add("reps_completed", ValidationOutOfRange, "reps and weight cannot be negative")
	}
	switch {
	case r.RPE == nil && r.RIR == nil:
		errs.Add("rpe", ValidationMissingField, "rpe or rir is required")
	case r.RPE != nil && (*r.RPE < 1 || *r.RPE > 10):
		errs.Add("rpe", ValidationInvalidRPE, fmt.Sprintf("rpe must be between 1 and 10, got %d", *r.RPE))
	case r.RIR != nil && *r.RIR < 0:
		errs.Add("rir", ValidationOutOfRange, "rir cannot be negative")
	}
	return errs.Err()
}

type LogSetResponse struct {
	Log *domain.SetLog
	// Duplicate is set when the set was already logged with the same payload.
	Duplicate bool
	// Adjustment is the auto-regulation outcome for this set. A reduce or
	// increase is also held as the session's pending decision.
	Adjustment *domain.Adjustment
	Session    *SessionView
}

// PainReportInput is one answer to a pain-check prompt.
type PainReportInput struct {
	Area     string
	Severity int
	Nature   string
}

// Record validates the input and converts it into a domain record.
func (p PainReportInput) Record(timing domain.PainTiming, exerciseIndex *int, at time.Time) (domain.PainRecord, error) {
	var errs ValidationErrors
	if p.Area == "" {
		errs.Add("area", ValidationMissingField, "pain area is required")
	}
	if p.Severity < 1 || p.Severity > 10 {
		errs.Add("severity", ValidationInvalidSeverity, fmt.Sprintf("severity must be between 1 and 10, got %d", p.Severity))
	}
	nature := domain.PainNature(p.Nature)
	if p.Nature == "" {
		nature = domain.NatureUnknown
	} else if !nature.Valid() {
		errs.Add("nature", ValidationUnknownPainNature, fmt.Sprintf("unknown pain nature %q", p.Nature))
	}
	if err := errs.Err(); err != nil {
		return domain.PainRecord{}, err
	}
	return domain.PainRecord{
		Area:          p.Area,
		Severity:      p.Severity,
		Nature:        nature,
		Timing:        timing,
		ExerciseIndex: exerciseIndex,
		Timestamp:     at,
	}, nil
}

type PreWorkoutCheckRequest struct {
	SessionID string
	Reports   []PainReportInput
	Now       *time.Time
}

type IntraExerciseCheckRequest struct {
	SessionID     string
	ExerciseIndex int
	Report        PainReportInput
	Now           *time.Time
}

// PostExerciseCheckRequest is the incomplete-set flow.
type PostExerciseCheckRequest struct {
	SessionID     string
	ExerciseIndex int
	SetNumber     int
	Reason        domain.IncompleteReason
	Pain          *PainReportInput
	Now           *time.Time
}

// PainCheckResponse is the assessment plus what was changed in the session.
type PainCheckResponse struct {
	Assessment adaptation.PainAssessment
	Deltas     []domain.SessionDelta
	Session    *SessionView
}

type SkipExerciseRequest struct {
	SessionID     string
	ExerciseIndex int
	Reason        string
	Now           *time.Time
}

type FinalizeSessionRequest struct {
	SessionID string
	Aborted   bool
	Now       *time.Time
}

type FinalizeSessionResponse struct {
	Session *domain.WorkoutSession
	// AlreadyFinalized is set when the call was a repeat and nothing was written.
	AlreadyFinalized bool
	Volume           map[domain.MuscleGroup]int
	Alerts           []domain.MemoryAlert
}

// SessionView is the runtime plan of a session: the stored day with the
// session's deltas applied, plus what has been logged so far.
type SessionView struct {
	Session   *domain.WorkoutSession
	Exercises []domain.ExerciseInstance
	Logs      []domain.SetLog
	// LoggedSets counts logged sets per exercise index.
	LoggedSets map[int]int
}

// NextSet returns the first exercise with sets still to do and the set number
// due, or ok=false when the day is done.
func (v *SessionView) NextSet() (exerciseIndex, setNumber int, ok bool) {
	for i, e := range v.Exercises {
		if e.Skip {
			continue
		}
		if done := v.LoggedSets[i]; done < e.Sets {
			return i, done + 1, true
		}
	}
	return 0, 0, false
}
