package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionTestSetup stores a program so sessions satisfy the foreign key.
func sessionTestSetup(t *testing.T) (*SQLiteWorkoutSessionRepo, *domain.Program) {
	t.Helper()
	database := testutil.NewTestDB(t)
	p := testutil.NewTestProgram("u1")
	require.NoError(t, NewSQLiteProgramRepo(database).Save(context.Background(), p))
	return NewSQLiteWorkoutSessionRepo(database), p
}

func TestWorkoutSessionRepo_CreateUpdateGet(t *testing.T) {
	repo, p := sessionTestSetup(t)
	ctx := context.Background()

	s := testutil.NewTestWorkoutSession(p, testutil.Epoch)
	require.NoError(t, repo.Create(ctx, s))

	s.AddDelta(domain.SessionDelta{Kind: domain.DeltaSkip, ExerciseIndex: 1, Reason: "shoulder", CreatedAt: testutil.Epoch})
	s.AddAdvisory("note high fatigue on Push-up for next session")
	s.Pending = &domain.PendingDecision{Kind: domain.PendingAutoRegulation, ExerciseIndex: 0, SetNumber: 1,
		Adjustment: &domain.Adjustment{Type: domain.AdjustReduce, NewSets: 2, NewReps: 10, NewRestSec: 120}}
	s.UpdatedAt = testutil.Epoch.Add(10 * time.Minute)
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Deltas, 1)
	assert.Equal(t, domain.DeltaSkip, got.Deltas[0].Kind)
	assert.Equal(t, []string{"note high fatigue on Push-up for next session"}, got.Advisories)
	require.NotNil(t, got.Pending)
	assert.Equal(t, 2, got.Pending.Adjustment.NewSets)
}

func TestWorkoutSessionRepo_GetOpen(t *testing.T) {
	repo, p := sessionTestSetup(t)
	ctx := context.Background()

	_, err := repo.GetOpen(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	s := testutil.NewTestWorkoutSession(p, testutil.Epoch)
	require.NoError(t, repo.Create(ctx, s))

	open, err := repo.GetOpen(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, s.ID, open.ID)

	s.Finalize(false, 3, testutil.Epoch.Add(time.Hour))
	require.NoError(t, repo.Update(ctx, s))

	_, err = repo.GetOpen(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	done, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, done.Status)
	assert.Equal(t, 3600, done.DurationSec)
	assert.True(t, done.Finalized())
}

func TestWorkoutSessionRepo_Update_NotFound(t *testing.T) {
	repo, p := sessionTestSetup(t)

	s := testutil.NewTestWorkoutSession(p, testutil.Epoch)
	assert.ErrorIs(t, repo.Update(context.Background(), s), ErrNotFound)
}
