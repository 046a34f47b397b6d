package app

import (
	"context"

	"github.com/alexanderramin/repforge/internal/domain"
)

type GenerateProgramUseCase interface {
	Generate(ctx context.Context, req GenerateProgramRequest) (*GenerateProgramResponse, error)
}

type ActiveProgramUseCase interface {
	Active(ctx context.Context, userID string) (*domain.Program, error)
}

type WorkoutSessionUseCase interface {
	Start(ctx context.Context, req StartSessionRequest) (*SessionView, error)
	Resume(ctx context.Context, userID string) (*SessionView, error)
	LogSet(ctx context.Context, req LogSetRequest) (*LogSetResponse, error)
	AcceptAdjustment(ctx context.Context, sessionID string) (*SessionView, error)
	DismissAdjustment(ctx context.Context, sessionID string) (*SessionView, error)
	PreWorkoutCheck(ctx context.Context, req PreWorkoutCheckRequest) (*PainCheckResponse, error)
	IntraExerciseCheck(ctx context.Context, req IntraExerciseCheckRequest) (*PainCheckResponse, error)
	PostExerciseCheck(ctx context.Context, req PostExerciseCheckRequest) (*PainCheckResponse, error)
	SkipExercise(ctx context.Context, req SkipExerciseRequest) (*SessionView, error)
	Finalize(ctx context.Context, req FinalizeSessionRequest) (*FinalizeSessionResponse, error)
}
