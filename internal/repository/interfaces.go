package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/repforge/internal/domain"
)

// ProgramSummary is a listing row for a stored program.
type ProgramSummary struct {
	ID        string
	Name      string
	Split     string
	Goal      domain.Goal
	Level     domain.Level
	Active    bool
	CreatedAt time.Time
}

type ProgramRepo interface {
	GetActive(ctx context.Context, userID string) (*domain.Program, error)
	GetByID(ctx context.Context, id string) (*domain.Program, error)
	// Save stores p as the user's active program and deactivates the prior
	// one. Run it inside a unit of work.
	Save(ctx context.Context, p *domain.Program) error
	ListByUser(ctx context.Context, userID string) ([]ProgramSummary, error)
}

type BaselineRepo interface {
	Upsert(ctx context.Context, b *domain.Baseline) error
	ListByUser(ctx context.Context, userID string) (map[domain.MovementPattern]domain.Baseline, error)
}

type ProgressionRepo interface {
	Get(ctx context.Context, userID string, pattern domain.MovementPattern) (*domain.ProgressionState, error)
	ListByUser(ctx context.Context, userID string) (map[domain.MovementPattern]*domain.ProgressionState, error)
	Upsert(ctx context.Context, s *domain.ProgressionState) error
}

type WorkoutSessionRepo interface {
	Create(ctx context.Context, s *domain.WorkoutSession) error
	GetByID(ctx context.Context, id string) (*domain.WorkoutSession, error)
	// GetOpen returns the user's in-progress session.
	GetOpen(ctx context.Context, userID string) (*domain.WorkoutSession, error)
	Update(ctx context.Context, s *domain.WorkoutSession) error
}

type SetLogRepo interface {
	// Append inserts the log unless one already exists for its
	// (session, exercise index, set number); inserted reports which.
	Append(ctx context.Context, l *domain.SetLog) (inserted bool, err error)
	Get(ctx context.Context, sessionID string, key domain.SetKey) (*domain.SetLog, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.SetLog, error)
}

type PainMemoryRepo interface {
	Get(ctx context.Context, userID string) (*domain.PainMemory, error)
	// Save writes m unless a newer UpdatedAt is already stored; applied
	// reports whether the write won.
	Save(ctx context.Context, m *domain.PainMemory) (applied bool, err error)
}

type VolumeRepo interface {
	// RecordSessionVolume stores a finalized session's sets per group once;
	// repeated calls for the same session insert nothing.
	RecordSessionVolume(ctx context.Context, sessionID, userID string, weekStart time.Time, sets map[domain.MuscleGroup]int) (inserted int, err error)
	GetWeeklyVolume(ctx context.Context, userID string, weekStart time.Time) (map[domain.MuscleGroup]int, error)
}
