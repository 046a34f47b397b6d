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

func testProgression(userID string) *domain.ProgressionState {
	return &domain.ProgressionState{
		UserID:            userID,
		Pattern:           domain.PatternVerticalPull,
		ExerciseName:      "Pull-up",
		VariantID:         "pull_up",
		VariantDifficulty: 6,
		Phase:             domain.PhaseLinear,
		BaseReps:          3,
		UnlockReps:        12,
		AssignedAt:        testutil.Epoch,
		UpdatedAt:         testutil.Epoch,
	}
}

func TestProgressionRepo_UpsertAndGet(t *testing.T) {
	repo := NewSQLiteProgressionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	s := testProgression("u1")
	require.NoError(t, repo.Upsert(ctx, s))

	s.Phase = domain.PhaseUnlockPending
	s.ProposedVariantID = "archer_pull_up"
	s.LastMaxReps = 12
	s.UpdatedAt = testutil.Epoch.AddDate(0, 0, 21)
	require.NoError(t, repo.Upsert(ctx, s))

	got, err := repo.Get(ctx, "u1", domain.PatternVerticalPull)
	require.NoError(t, err)
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("progression mismatch (-want +got):\n%s", diff)
	}

	all, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProgressionRepo_Get_NotFound(t *testing.T) {
	repo := NewSQLiteProgressionRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "u1", domain.PatternCore)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgressionRepo_CorruptBody(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteProgressionRepo(database)
	ctx := context.Background()

	_, err := database.ExecContext(ctx, `INSERT INTO progression_state (user_id, pattern, body, updated_at)
		VALUES ('u1', 'core', '{"pattern":"core"}', '2025-03-03T09:00:00.000000000Z')`)
	require.NoError(t, err)

	_, err = repo.Get(ctx, "u1", domain.PatternCore)
	assert.ErrorIs(t, err, ErrCorruptState)
}
