package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
)

// SQLiteProgressionRepo keeps one progression state per (user, pattern).
type SQLiteProgressionRepo struct {
	db db.DBTX
}

func NewSQLiteProgressionRepo(conn db.DBTX) *SQLiteProgressionRepo {
	return &SQLiteProgressionRepo{db: conn}
}

func (r *SQLiteProgressionRepo) Get(ctx context.Context, userID string, pattern domain.MovementPattern) (*domain.ProgressionState, error) {
	query := `SELECT body FROM progression_state WHERE user_id = ? AND pattern = ?`
	var body string
	err := r.db.QueryRowContext(ctx, query, userID, string(pattern)).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("progression %s: %w", pattern, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning progression: %w", err)
	}
	return decodeProgression(string(pattern), body)
}

func (r *SQLiteProgressionRepo) ListByUser(ctx context.Context, userID string) (map[domain.MovementPattern]*domain.ProgressionState, error) {
	query := `SELECT pattern, body FROM progression_state WHERE user_id = ? ORDER BY pattern`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing progression: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.MovementPattern]*domain.ProgressionState)
	for rows.Next() {
		var pattern, body string
		if err := rows.Scan(&pattern, &body); err != nil {
			return nil, fmt.Errorf("scanning progression row: %w", err)
		}
		s, err := decodeProgression(pattern, body)
		if err != nil {
			return nil, err
		}
		out[s.Pattern] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progression: %w", err)
	}
	return out, nil
}

func (r *SQLiteProgressionRepo) Upsert(ctx context.Context, s *domain.ProgressionState) error {
	body, err := encodeBody("progression", s)
	if err != nil {
		return err
	}
	query := `INSERT INTO progression_state (user_id, pattern, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, pattern) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, s.UserID, string(s.Pattern), body, formatTime(s.UpdatedAt)); err != nil {
		return fmt.Errorf("upserting progression %s: %w", s.Pattern, err)
	}
	return nil
}

func decodeProgression(pattern, body string) (*domain.ProgressionState, error) {
	var s domain.ProgressionState
	if err := decodeBody("progression "+pattern, body, &s); err != nil {
		return nil, err
	}
	if s.VariantID == "" || !s.Pattern.Valid() {
		return nil, fmt.Errorf("progression %s: %w: missing variant or pattern", pattern, ErrCorruptState)
	}
	return &s, nil
}
