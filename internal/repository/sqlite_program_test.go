package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramRepo_SaveAndGetActive_RoundTrip(t *testing.T) {
	repo := NewSQLiteProgramRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	p := testutil.NewTestProgram("u1")
	p.Flags = []string{domain.FlagLowConfidence}
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetActive(ctx, "u1")
	require.NoError(t, err)
	if diff := cmp.Diff(p, got); diff != "" {
		t.Errorf("program round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestProgramRepo_Save_SupersedesPrevious(t *testing.T) {
	repo := NewSQLiteProgramRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	first := testutil.NewTestProgram("u1")
	require.NoError(t, repo.Save(ctx, first))
	second := testutil.NewTestProgram("u1",
		testutil.WithGoal(domain.GoalStrength),
		testutil.WithCreatedAt(testutil.Epoch.AddDate(0, 0, 7)))
	require.NoError(t, repo.Save(ctx, second))

	active, err := repo.GetActive(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	old, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.Active)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.True(t, list[0].Active)
	assert.False(t, list[1].Active)
}

func TestProgramRepo_GetActive_NotFound(t *testing.T) {
	repo := NewSQLiteProgramRepo(testutil.NewTestDB(t))

	_, err := repo.GetActive(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgramRepo_CorruptBody(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProgramRepo(database)
	ctx := context.Background()

	_, err := database.ExecContext(ctx, `INSERT INTO programs (id, user_id, name, split, goal, level, active, body, created_at)
		VALUES ('p1', 'u1', 'x', 'full_body', 'strength', 'beginner', 1, '{not json', '2025-03-03T09:00:00.000000000Z')`)
	require.NoError(t, err)

	_, err = repo.GetActive(ctx, "u1")
	assert.ErrorIs(t, err, ErrCorruptState)
}

func TestProgramRepo_UsersAreIsolated(t *testing.T) {
	repo := NewSQLiteProgramRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testutil.NewTestProgram("u1")))
	b := testutil.NewTestProgram("u2")
	require.NoError(t, repo.Save(ctx, b))

	got, err := repo.GetActive(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
