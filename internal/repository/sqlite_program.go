package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
)

// SQLiteProgramRepo stores generated programs whole as JSON, with the
// columns needed for lookup kept alongside.
type SQLiteProgramRepo struct {
	db db.DBTX
}

func NewSQLiteProgramRepo(conn db.DBTX) *SQLiteProgramRepo {
	return &SQLiteProgramRepo{db: conn}
}

func (r *SQLiteProgramRepo) GetActive(ctx context.Context, userID string) (*domain.Program, error) {
	query := `SELECT id, active, body FROM programs WHERE user_id = ? AND active = 1`
	return r.scanProgram(r.db.QueryRowContext(ctx, query, userID))
}

func (r *SQLiteProgramRepo) GetByID(ctx context.Context, id string) (*domain.Program, error) {
	query := `SELECT id, active, body FROM programs WHERE id = ?`
	return r.scanProgram(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteProgramRepo) Save(ctx context.Context, p *domain.Program) error {
	if p.ID == "" || p.UserID == "" {
		return fmt.Errorf("saving program: id and user id are required")
	}
	p.Active = true
	body, err := encodeBody("program", p)
	if err != nil {
		return err
	}

	deactivate := `UPDATE programs SET active = 0, deactivated_at = ? WHERE user_id = ? AND active = 1`
	if _, err := r.db.ExecContext(ctx, deactivate, formatTime(p.CreatedAt), p.UserID); err != nil {
		return fmt.Errorf("deactivating previous program: %w", err)
	}

	insert := `INSERT INTO programs (id, user_id, name, split, goal, level, active, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`
	_, err = r.db.ExecContext(ctx, insert,
		p.ID,
		p.UserID,
		p.Name,
		p.Split,
		string(p.Goal),
		string(p.Level),
		body,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}
	return nil
}

func (r *SQLiteProgramRepo) ListByUser(ctx context.Context, userID string) ([]ProgramSummary, error) {
	query := `SELECT id, name, split, goal, level, active, created_at
		FROM programs WHERE user_id = ? ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	defer rows.Close()

	var out []ProgramSummary
	for rows.Next() {
		var s ProgramSummary
		var goal, level, createdAt string
		var active int
		if err := rows.Scan(&s.ID, &s.Name, &s.Split, &goal, &level, &active, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning program row: %w", err)
		}
		s.Goal = domain.Goal(goal)
		s.Level = domain.Level(level)
		s.Active = intToBool(active)
		if s.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("program %s created_at: %w: %v", s.ID, ErrCorruptState, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating programs: %w", err)
	}
	return out, nil
}

func (r *SQLiteProgramRepo) scanProgram(row *sql.Row) (*domain.Program, error) {
	var id, body string
	var active int
	if err := row.Scan(&id, &active, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("program: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning program: %w", err)
	}
	var p domain.Program
	if err := decodeBody("program "+id, body, &p); err != nil {
		return nil, err
	}
	if len(p.WeeklySchedule) == 0 {
		return nil, fmt.Errorf("program %s: %w: empty schedule", id, ErrCorruptState)
	}
	// The column is authoritative once a newer program supersedes this one.
	p.Active = intToBool(active)
	return &p, nil
}
