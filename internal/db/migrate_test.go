package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"programs", "baselines", "progression_state", "workout_sessions", "set_logs", "pain_memory", "session_volume"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_programs_one_active",
		"idx_programs_user_created",
		"idx_sessions_user_status",
		"idx_set_logs_session",
		"idx_session_volume_week",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_OneActiveProgramPerUser(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO programs (id, user_id, name, split, goal, level, active, body, created_at)
		VALUES (?, 'u1', 'p', 's', 'strength', 'beginner', ?, '{}', '2026-01-01T00:00:00Z')`
	_, err := db.Exec(insert, "p1", 1)
	require.NoError(t, err)
	_, err = db.Exec(insert, "p2", 0)
	require.NoError(t, err)
	_, err = db.Exec(insert, "p3", 1)
	assert.Error(t, err, "second active program for the same user must be rejected")
}

// A database created before set_logs carried an rir column keeps its rows
// and gains the column as NULL.
func TestMigrate_UpgradeAddsRIRColumn(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	legacy := []string{
		`CREATE TABLE programs (id TEXT PRIMARY KEY, user_id TEXT NOT NULL, name TEXT NOT NULL,
			split TEXT NOT NULL, goal TEXT NOT NULL, level TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1, body TEXT NOT NULL, created_at TEXT NOT NULL, deactivated_at TEXT)`,
		`CREATE TABLE workout_sessions (id TEXT PRIMARY KEY, user_id TEXT NOT NULL, program_id TEXT NOT NULL,
			day_index INTEGER NOT NULL, status TEXT NOT NULL DEFAULT 'in_progress', body TEXT NOT NULL,
			started_at TEXT NOT NULL, finalized_at TEXT, updated_at TEXT NOT NULL)`,
		`CREATE TABLE set_logs (id TEXT PRIMARY KEY, session_id TEXT NOT NULL, user_id TEXT NOT NULL,
			exercise_name TEXT NOT NULL, exercise_index INTEGER NOT NULL, set_number INTEGER NOT NULL,
			reps_completed INTEGER NOT NULL DEFAULT 0, target_reps INTEGER NOT NULL DEFAULT 0,
			weight_used REAL NOT NULL DEFAULT 0, rpe INTEGER NOT NULL DEFAULT 0, adjusted INTEGER NOT NULL DEFAULT 0,
			logged_at TEXT NOT NULL, UNIQUE (session_id, exercise_index, set_number))`,
		`INSERT INTO set_logs (id, session_id, user_id, exercise_name, exercise_index, set_number, reps_completed, logged_at)
			VALUES ('l1', 's1', 'u1', 'Push-up', 0, 1, 10, '2026-01-01T00:00:00Z')`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var reps int
	var rir sql.NullInt64
	err = db.QueryRow(`SELECT reps_completed, rir FROM set_logs WHERE id = 'l1'`).Scan(&reps, &rir)
	require.NoError(t, err)
	assert.Equal(t, 10, reps)
	assert.False(t, rir.Valid)
}

func TestResolvePath(t *testing.T) {
	p, err := ResolvePath(MemoryPath)
	require.NoError(t, err)
	assert.Equal(t, MemoryPath, p)

	p, err = ResolvePath("/tmp/repforge.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/repforge.db", p)

	p, err = ResolvePath("~/.repforge/repforge.db")
	require.NoError(t, err)
	assert.NotContains(t, p, "~")

	_, err = ResolvePath("")
	assert.Error(t, err)
}
