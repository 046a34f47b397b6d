package service

import (
	"context"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/repository"
)

type ProgramService interface {
	app.GenerateProgramUseCase
	app.ActiveProgramUseCase
	List(ctx context.Context, userID string) ([]repository.ProgramSummary, error)
}

type WorkoutService interface {
	app.WorkoutSessionUseCase
	Get(ctx context.Context, sessionID string) (*app.SessionView, error)
}

type BaselineService interface {
	Assess(ctx context.Context, req app.AssessBaselineRequest) (*app.AssessBaselineResponse, error)
	List(ctx context.Context, userID string) (map[domain.MovementPattern]domain.Baseline, error)
}

type ProgressionService interface {
	RecordMaxReps(ctx context.Context, req app.MaxRepsRequest) (*app.ProgressionResponse, error)
	RecordRetest(ctx context.Context, req app.RetestRequest) (*app.ProgressionResponse, error)
	Current(ctx context.Context, userID string, pattern domain.MovementPattern) (*app.ProgressionResponse, error)
}

type VolumeService interface {
	Report(ctx context.Context, req app.VolumeReportRequest) (*app.VolumeReportResponse, error)
}
