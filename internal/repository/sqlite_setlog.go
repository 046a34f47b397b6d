package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
)

type SQLiteSetLogRepo struct {
	db db.DBTX
}

func NewSQLiteSetLogRepo(conn db.DBTX) *SQLiteSetLogRepo {
	return &SQLiteSetLogRepo{db: conn}
}

const setLogColumns = `id, session_id, user_id, exercise_name, exercise_index, set_number,
	reps_completed, target_reps, weight_used, rpe, rir, adjusted, logged_at`

func (r *SQLiteSetLogRepo) Append(ctx context.Context, l *domain.SetLog) (bool, error) {
	query := `INSERT OR IGNORE INTO set_logs (` + setLogColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.SessionID,
		l.UserID,
		l.ExerciseName,
		l.ExerciseIndex,
		l.SetNumber,
		l.RepsCompleted,
		l.TargetReps,
		l.WeightUsed,
		l.RPE,
		nullableIntToValue(l.RIR),
		boolToInt(l.Adjusted),
		formatTime(l.Timestamp),
	)
	if err != nil {
		return false, fmt.Errorf("appending set log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("appending set log: %w", err)
	}
	return n == 1, nil
}

func (r *SQLiteSetLogRepo) Get(ctx context.Context, sessionID string, key domain.SetKey) (*domain.SetLog, error) {
	query := `SELECT ` + setLogColumns + ` FROM set_logs
		WHERE session_id = ? AND exercise_index = ? AND set_number = ?`
	l, err := scanSetLog(r.db.QueryRowContext(ctx, query, sessionID, key.ExerciseIndex, key.SetNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("set log: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning set log: %w", err)
	}
	return l, nil
}

func (r *SQLiteSetLogRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.SetLog, error) {
	query := `SELECT ` + setLogColumns + ` FROM set_logs
		WHERE session_id = ? ORDER BY exercise_index, set_number`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing set logs: %w", err)
	}
	defer rows.Close()

	var out []domain.SetLog
	for rows.Next() {
		l, err := scanSetLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning set log row: %w", err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating set logs: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSetLog(s rowScanner) (*domain.SetLog, error) {
	var l domain.SetLog
	var rir sql.NullInt64
	var adjusted int
	var loggedAt string
	err := s.Scan(&l.ID, &l.SessionID, &l.UserID, &l.ExerciseName, &l.ExerciseIndex, &l.SetNumber,
		&l.RepsCompleted, &l.TargetReps, &l.WeightUsed, &l.RPE, &rir, &adjusted, &loggedAt)
	if err != nil {
		return nil, err
	}
	l.RIR = nullIntToPtr(rir)
	l.Adjusted = intToBool(adjusted)
	if l.Timestamp, err = parseTime(loggedAt); err != nil {
		return nil, fmt.Errorf("set log %s: %w: %v", l.ID, ErrCorruptState, err)
	}
	return &l, nil
}
