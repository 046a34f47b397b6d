package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
)

// weekLayout keys session volume by the date of its week's Monday.
const weekLayout = "2006-01-02"

type SQLiteVolumeRepo struct {
	db db.DBTX
}

func NewSQLiteVolumeRepo(conn db.DBTX) *SQLiteVolumeRepo {
	return &SQLiteVolumeRepo{db: conn}
}

func (r *SQLiteVolumeRepo) RecordSessionVolume(ctx context.Context, sessionID, userID string, weekStart time.Time, sets map[domain.MuscleGroup]int) (int, error) {
	query := `INSERT OR IGNORE INTO session_volume (session_id, user_id, week_start, muscle_group, sets)
		VALUES (?, ?, ?, ?, ?)`
	week := domain.WeekStart(weekStart).Format(weekLayout)
	inserted := 0
	for _, g := range sortedGroups(sets) {
		res, err := r.db.ExecContext(ctx, query, sessionID, userID, week, string(g), sets[g])
		if err != nil {
			return inserted, fmt.Errorf("recording %s volume: %w", g, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	return inserted, nil
}

func (r *SQLiteVolumeRepo) GetWeeklyVolume(ctx context.Context, userID string, weekStart time.Time) (map[domain.MuscleGroup]int, error) {
	query := `SELECT muscle_group, SUM(sets) FROM session_volume
		WHERE user_id = ? AND week_start = ? GROUP BY muscle_group`
	rows, err := r.db.QueryContext(ctx, query, userID, domain.WeekStart(weekStart).Format(weekLayout))
	if err != nil {
		return nil, fmt.Errorf("querying weekly volume: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.MuscleGroup]int)
	for rows.Next() {
		var g string
		var sets int
		if err := rows.Scan(&g, &sets); err != nil {
			return nil, fmt.Errorf("scanning weekly volume: %w", err)
		}
		out[domain.MuscleGroup(g)] = sets
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weekly volume: %w", err)
	}
	return out, nil
}

func sortedGroups(m map[domain.MuscleGroup]int) []domain.MuscleGroup {
	out := make([]domain.MuscleGroup, 0, len(m))
	for g := range m {
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}
