package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
)

type SQLiteBaselineRepo struct {
	db db.DBTX
}

func NewSQLiteBaselineRepo(conn db.DBTX) *SQLiteBaselineRepo {
	return &SQLiteBaselineRepo{db: conn}
}

func (r *SQLiteBaselineRepo) Upsert(ctx context.Context, b *domain.Baseline) error {
	if err := b.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO baselines (user_id, pattern, variant_id, max_reps, weight_kg, rm_reps, difficulty, source, assessed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, pattern) DO UPDATE SET
			variant_id = excluded.variant_id,
			max_reps = excluded.max_reps,
			weight_kg = excluded.weight_kg,
			rm_reps = excluded.rm_reps,
			difficulty = excluded.difficulty,
			source = excluded.source,
			assessed_at = excluded.assessed_at`
	_, err := r.db.ExecContext(ctx, query,
		b.UserID,
		string(b.Pattern),
		b.VariantID,
		b.MaxReps,
		b.WeightKg,
		b.RMReps,
		b.Difficulty,
		string(b.Source),
		formatTime(b.AssessedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting baseline %s: %w", b.Pattern, err)
	}
	return nil
}

// ListByUser returns the user's baselines keyed by pattern. Any row that fails
// validation makes the whole set ErrCorruptState so callers can fall back.
func (r *SQLiteBaselineRepo) ListByUser(ctx context.Context, userID string) (map[domain.MovementPattern]domain.Baseline, error) {
	query := `SELECT user_id, pattern, variant_id, max_reps, weight_kg, rm_reps, difficulty, source, assessed_at
		FROM baselines WHERE user_id = ? ORDER BY pattern`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing baselines: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.MovementPattern]domain.Baseline)
	for rows.Next() {
		var b domain.Baseline
		var pattern, source, assessedAt string
		if err := rows.Scan(&b.UserID, &pattern, &b.VariantID, &b.MaxReps, &b.WeightKg, &b.RMReps, &b.Difficulty, &source, &assessedAt); err != nil {
			return nil, fmt.Errorf("scanning baseline row: %w", err)
		}
		b.Pattern = domain.MovementPattern(pattern)
		b.Source = domain.BaselineSource(source)
		if b.AssessedAt, err = parseTime(assessedAt); err != nil {
			return nil, fmt.Errorf("baseline %s: %w: %v", pattern, ErrCorruptState, err)
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		out[b.Pattern] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating baselines: %w", err)
	}
	return out, nil
}
