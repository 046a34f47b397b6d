package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
)

// SQLiteWorkoutSessionRepo stores session runtime state as a JSON body.
// Status and timestamps are mirrored into columns for lookup.
type SQLiteWorkoutSessionRepo struct {
	db db.DBTX
}

func NewSQLiteWorkoutSessionRepo(conn db.DBTX) *SQLiteWorkoutSessionRepo {
	return &SQLiteWorkoutSessionRepo{db: conn}
}

func (r *SQLiteWorkoutSessionRepo) Create(ctx context.Context, s *domain.WorkoutSession) error {
	body, err := encodeBody("workout session", s)
	if err != nil {
		return err
	}
	query := `INSERT INTO workout_sessions (id, user_id, program_id, day_index, status, body, started_at, finalized_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.ProgramID,
		s.DayIndex,
		string(s.Status),
		body,
		formatTime(s.StartedAt),
		nullableTimeToString(s.FinalizedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting workout session: %w", err)
	}
	return nil
}

func (r *SQLiteWorkoutSessionRepo) GetByID(ctx context.Context, id string) (*domain.WorkoutSession, error) {
	query := `SELECT id, body FROM workout_sessions WHERE id = ?`
	return r.scanSession(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteWorkoutSessionRepo) GetOpen(ctx context.Context, userID string) (*domain.WorkoutSession, error) {
	query := `SELECT id, body FROM workout_sessions
		WHERE user_id = ? AND status = 'in_progress'
		ORDER BY started_at DESC LIMIT 1`
	return r.scanSession(r.db.QueryRowContext(ctx, query, userID))
}

func (r *SQLiteWorkoutSessionRepo) Update(ctx context.Context, s *domain.WorkoutSession) error {
	body, err := encodeBody("workout session", s)
	if err != nil {
		return err
	}
	query := `UPDATE workout_sessions SET status = ?, body = ?, finalized_at = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(s.Status),
		body,
		nullableTimeToString(s.FinalizedAt),
		formatTime(s.UpdatedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating workout session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("workout session %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteWorkoutSessionRepo) scanSession(row *sql.Row) (*domain.WorkoutSession, error) {
	var id, body string
	if err := row.Scan(&id, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("workout session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning workout session: %w", err)
	}
	var s domain.WorkoutSession
	if err := decodeBody("workout session "+id, body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
