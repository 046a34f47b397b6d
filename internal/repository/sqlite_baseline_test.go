package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaselineRepo_UpsertReplaces(t *testing.T) {
	repo := NewSQLiteBaselineRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestBaseline("u1", domain.PatternVerticalPull, "chin_up", 5, 8)))
	next := testutil.NewTestBaseline("u1", domain.PatternVerticalPull, "pull_up", 6, 4)
	next.Source = domain.SourceRetestUnlock
	require.NoError(t, repo.Upsert(ctx, next))
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestBaseline("u1", domain.PatternLowerPush, "goblet_squat", 4, 0,
		testutil.WithBaselineWeight(20, 10))))

	got, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "pull_up", got[domain.PatternVerticalPull].VariantID)
	assert.Equal(t, domain.SourceRetestUnlock, got[domain.PatternVerticalPull].Source)
	assert.Equal(t, 20.0, got[domain.PatternLowerPush].WeightKg)
	assert.Equal(t, 10, got[domain.PatternLowerPush].RMReps)
	assert.True(t, testutil.Epoch.Equal(got[domain.PatternLowerPush].AssessedAt))
}

func TestBaselineRepo_UpsertRejectsInvalid(t *testing.T) {
	repo := NewSQLiteBaselineRepo(testutil.NewTestDB(t))

	b := testutil.NewTestBaseline("u1", domain.PatternCore, "plank", 11, 30)
	assert.Error(t, repo.Upsert(context.Background(), b))
}

func TestBaselineRepo_CorruptRow(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteBaselineRepo(database)
	ctx := context.Background()

	_, err := database.ExecContext(ctx, `INSERT INTO baselines (user_id, pattern, variant_id, difficulty, source, assessed_at)
		VALUES ('u1', 'sideways_push', 'x', 3, 'assessment', '2025-03-03T09:00:00.000000000Z')`)
	require.NoError(t, err)

	_, err = repo.ListByUser(ctx, "u1")
	assert.ErrorIs(t, err, ErrCorruptState)
}

func TestBaselineRepo_EmptyUser(t *testing.T) {
	repo := NewSQLiteBaselineRepo(testutil.NewTestDB(t))

	got, err := repo.ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
}
