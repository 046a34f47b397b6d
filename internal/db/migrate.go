package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run on
// every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Programs are stored whole; the active flag is the only mutable column.
	`CREATE TABLE IF NOT EXISTS programs (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		name           TEXT NOT NULL,
		split          TEXT NOT NULL,
		goal           TEXT NOT NULL,
		level          TEXT NOT NULL,
		active         INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0,1)),
		body           TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		deactivated_at TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_programs_one_active ON programs(user_id) WHERE active = 1`,
	`CREATE INDEX IF NOT EXISTS idx_programs_user_created ON programs(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS baselines (
		user_id     TEXT NOT NULL,
		pattern     TEXT NOT NULL,
		variant_id  TEXT NOT NULL,
		max_reps    INTEGER NOT NULL DEFAULT 0,
		weight_kg   REAL NOT NULL DEFAULT 0,
		rm_reps     INTEGER NOT NULL DEFAULT 0,
		difficulty  INTEGER NOT NULL,
		source      TEXT NOT NULL,
		assessed_at TEXT NOT NULL,
		PRIMARY KEY (user_id, pattern)
	)`,

	`CREATE TABLE IF NOT EXISTS progression_state (
		user_id    TEXT NOT NULL,
		pattern    TEXT NOT NULL,
		body       TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, pattern)
	)`,

	`CREATE TABLE IF NOT EXISTS workout_sessions (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		program_id   TEXT NOT NULL REFERENCES programs(id),
		day_index    INTEGER NOT NULL,
		status       TEXT NOT NULL DEFAULT 'in_progress'
		             CHECK(status IN ('in_progress','completed','aborted')),
		body         TEXT NOT NULL,
		started_at   TEXT NOT NULL,
		finalized_at TEXT,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user_status ON workout_sessions(user_id, status)`,

	`CREATE TABLE IF NOT EXISTS set_logs (
		id             TEXT PRIMARY KEY,
		session_id     TEXT NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
		user_id        TEXT NOT NULL,
		exercise_name  TEXT NOT NULL,
		exercise_index INTEGER NOT NULL CHECK(exercise_index >= 0),
		set_number     INTEGER NOT NULL CHECK(set_number >= 1),
		reps_completed INTEGER NOT NULL DEFAULT 0,
		target_reps    INTEGER NOT NULL DEFAULT 0,
		weight_used    REAL NOT NULL DEFAULT 0,
		rpe            INTEGER NOT NULL DEFAULT 0,
		adjusted       INTEGER NOT NULL DEFAULT 0,
		logged_at      TEXT NOT NULL,
		UNIQUE (session_id, exercise_index, set_number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_set_logs_session ON set_logs(session_id, exercise_index, set_number)`,
	`ALTER TABLE set_logs ADD COLUMN rir INTEGER`,

	`CREATE TABLE IF NOT EXISTS pain_memory (
		user_id    TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	// One row per finalized session and muscle group; the primary key makes
	// finalization idempotent.
	`CREATE TABLE IF NOT EXISTS session_volume (
		session_id   TEXT NOT NULL,
		user_id      TEXT NOT NULL,
		week_start   TEXT NOT NULL,
		muscle_group TEXT NOT NULL,
		sets         INTEGER NOT NULL CHECK(sets >= 0),
		PRIMARY KEY (session_id, muscle_group)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_session_volume_week ON session_volume(user_id, week_start)`,
}
