package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
)

type SQLitePainMemoryRepo struct {
	db db.DBTX
}

func NewSQLitePainMemoryRepo(conn db.DBTX) *SQLitePainMemoryRepo {
	return &SQLitePainMemoryRepo{db: conn}
}

func (r *SQLitePainMemoryRepo) Get(ctx context.Context, userID string) (*domain.PainMemory, error) {
	query := `SELECT body FROM pain_memory WHERE user_id = ?`
	var body string
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pain memory: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning pain memory: %w", err)
	}
	var m domain.PainMemory
	if err := decodeBody("pain memory", body, &m); err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, fmt.Errorf("pain memory: %w: stored for user %q", ErrCorruptState, m.UserID)
	}
	if m.Areas == nil {
		m.Areas = make(map[string]*domain.AreaMemory)
	}
	if m.MuscleGroups == nil {
		m.MuscleGroups = make(map[domain.MuscleGroup]*domain.GroupMemory)
	}
	for area, a := range m.Areas {
		if a == nil || a.LastSeverity < 0 || a.LastSeverity > 10 {
			return nil, fmt.Errorf("pain memory area %s: %w", area, ErrCorruptState)
		}
	}
	for g, mem := range m.MuscleGroups {
		if mem == nil || mem.SkipStreak < 0 {
			return nil, fmt.Errorf("pain memory muscle group %s: %w", g, ErrCorruptState)
		}
	}
	return &m, nil
}

// Save is last-write-wins on UpdatedAt: an older or equal memory never
// overwrites a newer stored one.
func (r *SQLitePainMemoryRepo) Save(ctx context.Context, m *domain.PainMemory) (bool, error) {
	body, err := encodeBody("pain memory", m)
	if err != nil {
		return false, err
	}
	query := `INSERT INTO pain_memory (user_id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
		WHERE excluded.updated_at > pain_memory.updated_at`
	res, err := r.db.ExecContext(ctx, query, m.UserID, body, formatTime(m.UpdatedAt))
	if err != nil {
		return false, fmt.Errorf("saving pain memory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("saving pain memory: %w", err)
	}
	return n > 0, nil
}
