package app

import (
	"time"

	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/planner"
)

// AssessBaselineRequest records a completed assessment.
type AssessBaselineRequest struct {
	UserID          string
	DeclaredLevel   string
	Assessment      AssessmentInput
	BodyComposition *BodyCompositionInput
	Now             *time.Time
}

type AssessBaselineResponse struct {
	Level     domain.Level
	Score     float64
	Baselines map[domain.MovementPattern]domain.Baseline
	Warnings  []string
}

type MaxRepsRequest struct {
	UserID  string
	Pattern string
	MaxReps int
	Now     *time.Time
}

type RetestRequest struct {
	UserID  string
	Pattern string
	Reps    int
	Now     *time.Time
}

type ProgressionResponse struct {
	State *domain.ProgressionState
	Event planner.ProgressionEvent
	// Scheme is the per-set reps the state prescribes this week.
	Scheme []int
}

type VolumeReportRequest struct {
	UserID string
	Week   *time.Time
	// Lookback is the number of completed weeks before Week to consider.
	Lookback int
}

type VolumeReportResponse struct {
	WeekStart       time.Time
	Summary         []domain.WeeklyVolumeSummary
	Recommendations map[domain.MuscleGroup]domain.VolumeRecommendation
}
