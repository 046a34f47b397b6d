package testutil

import (
	"time"

	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/google/uuid"
)

// Fixed clock for fixtures: a Monday, so week arithmetic is easy to read.
var Epoch = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

// Program options
type ProgramOption func(*domain.Program)

func WithGoal(g domain.Goal) ProgramOption {
	return func(p *domain.Program) {
		p.Goal = g
	}
}

func WithLevel(l domain.Level) ProgramOption {
	return func(p *domain.Program) {
		p.Level = l
	}
}

func WithCreatedAt(t time.Time) ProgramOption {
	return func(p *domain.Program) {
		p.CreatedAt = t
	}
}

func WithDays(days ...domain.ProgramDay) ProgramOption {
	return func(p *domain.Program) {
		p.WeeklySchedule = days
		p.DaysPerWeek = len(days)
	}
}

// NewTestExercise returns a range-scheme exercise for the pattern.
func NewTestExercise(name, variantID string, pattern domain.MovementPattern, difficulty int) domain.ExerciseInstance {
	return domain.ExerciseInstance{
		Name:       name,
		VariantID:  variantID,
		Pattern:    pattern,
		Sets:       3,
		Reps:       "8-12",
		RepMode:    domain.RepsRange,
		RestSec:    90,
		Intensity:  "RPE 7-8",
		LoadFactor: 1,
		Difficulty: difficulty,
		Confidence: domain.ConfidenceHigh,
		Score:      100,
	}
}

// NewTestProgram builds a one-day home muscle-gain program with a squat, a
// push-up and a row.
func NewTestProgram(userID string, opts ...ProgramOption) *domain.Program {
	p := &domain.Program{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        "Beginner Muscle Gain",
		Split:       "full_body",
		Level:       domain.LevelBeginner,
		Goal:        domain.GoalMuscleGain,
		Location:    domain.LocationHome,
		DaysPerWeek: 1,
		WeeklySchedule: []domain.ProgramDay{{
			DayName: "FULL BODY A",
			Focus:   "full body",
			Exercises: []domain.ExerciseInstance{
				NewTestExercise("Bodyweight Squat", "bodyweight_squat", domain.PatternLowerPush, 2),
				NewTestExercise("Push-up", "pushup", domain.PatternHorizontalPush, 4),
				NewTestExercise("Table Row", "table_row", domain.PatternHorizontalPull, 2),
			},
		}},
		Progression:          domain.ProgressionPolicy{Model: "volume_landmarks", Description: "test"},
		TotalWeeks:           8,
		IncludesDeload:       true,
		DeloadFrequency:      6,
		RequiresEndCycleTest: true,
		Active:               true,
		CreatedAt:            Epoch,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Baseline options
type BaselineOption func(*domain.Baseline)

func WithBaselineWeight(kg float64, rmReps int) BaselineOption {
	return func(b *domain.Baseline) {
		b.WeightKg = kg
		b.RMReps = rmReps
	}
}

func WithAssessedAt(t time.Time) BaselineOption {
	return func(b *domain.Baseline) {
		b.AssessedAt = t
	}
}

func NewTestBaseline(userID string, pattern domain.MovementPattern, variantID string, difficulty, maxReps int, opts ...BaselineOption) *domain.Baseline {
	b := &domain.Baseline{
		UserID:     userID,
		Pattern:    pattern,
		VariantID:  variantID,
		MaxReps:    maxReps,
		Difficulty: difficulty,
		Source:     domain.SourceAssessment,
		AssessedAt: Epoch,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewTestWorkoutSession returns an in-progress session on day 0 of the program.
func NewTestWorkoutSession(p *domain.Program, startedAt time.Time) *domain.WorkoutSession {
	return &domain.WorkoutSession{
		ID:        uuid.New().String(),
		UserID:    p.UserID,
		ProgramID: p.ID,
		DayIndex:  0,
		DayName:   p.WeeklySchedule[0].DayName,
		Status:    domain.SessionInProgress,
		StartedAt: startedAt,
		UpdatedAt: startedAt,
	}
}

// SetLog options
type SetLogOption func(*domain.SetLog)

func WithRPE(rpe int) SetLogOption {
	return func(l *domain.SetLog) {
		l.RPE = rpe
	}
}

func WithRIR(rir int) SetLogOption {
	return func(l *domain.SetLog) {
		l.RIR = &rir
	}
}

func WithWeight(kg float64) SetLogOption {
	return func(l *domain.SetLog) {
		l.WeightUsed = kg
	}
}

func NewTestSetLog(s *domain.WorkoutSession, exerciseIndex, setNumber, reps int, opts ...SetLogOption) *domain.SetLog {
	l := &domain.SetLog{
		ID:            uuid.New().String(),
		SessionID:     s.ID,
		UserID:        s.UserID,
		ExerciseName:  "exercise",
		ExerciseIndex: exerciseIndex,
		SetNumber:     setNumber,
		RepsCompleted: reps,
		TargetReps:    12,
		RPE:           7,
		Timestamp:     s.StartedAt.Add(time.Duration(exerciseIndex*10+setNumber) * time.Minute),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
