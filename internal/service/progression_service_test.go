package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/planner"
	"github.com/alexanderramin/repforge/internal/repository"
	"github.com/alexanderramin/repforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *serviceFixture) progression() ProgressionService {
	return NewProgressionService(f.repos, testutil.NewTestUoW(f.db), f.engines, nil)
}

func TestProgressionService_UnlockThenSwitch(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Baselines.Upsert(ctx, testutil.NewTestBaseline(testUser, domain.PatternLowerPush, "bodyweight_squat", 2, 10)))
	svc := f.progression()

	below, err := svc.RecordMaxReps(ctx, app.MaxRepsRequest{UserID: testUser, Pattern: "lower_push", MaxReps: 9, Now: &testutil.Epoch})
	require.NoError(t, err)
	assert.Equal(t, planner.EventNone, below.Event.Kind)
	assert.Equal(t, "bodyweight_squat", below.State.VariantID)
	assert.Equal(t, []int{3, 3, 3}, below.Scheme)

	later := testutil.Epoch.Add(3 * 7 * 24 * time.Hour)
	unlock, err := svc.RecordMaxReps(ctx, app.MaxRepsRequest{UserID: testUser, Pattern: "lower_push", MaxReps: 12, Now: &later})
	require.NoError(t, err)
	require.Equal(t, planner.EventUnlockProposed, unlock.Event.Kind)
	require.NotNil(t, unlock.Event.Variant)
	assert.Equal(t, domain.PhaseUnlockPending, unlock.State.Phase)
	next := unlock.Event.Variant.ID

	switched, err := svc.RecordRetest(ctx, app.RetestRequest{UserID: testUser, Pattern: "lower_push", Reps: 5, Now: &later})
	require.NoError(t, err)
	assert.Equal(t, planner.EventSwitched, switched.Event.Kind)
	assert.Equal(t, next, switched.State.VariantID)
	assert.Equal(t, []int{3, 3, 3}, switched.Scheme)

	baselines, err := f.repos.Baselines.ListByUser(ctx, testUser)
	require.NoError(t, err)
	b := baselines[domain.PatternLowerPush]
	assert.Equal(t, next, b.VariantID)
	assert.Equal(t, domain.SourceRetestUnlock, b.Source)

	_, err = svc.RecordRetest(ctx, app.RetestRequest{UserID: testUser, Pattern: "lower_push", Reps: 5, Now: &later})
	assert.ErrorIs(t, err, planner.ErrNoRetestPending)
}

func TestProgressionService_FailedRetestAccumulatesVolume(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Baselines.Upsert(ctx, testutil.NewTestBaseline(testUser, domain.PatternHorizontalPush, "pushup", 4, 12)))
	svc := f.progression()

	_, err := svc.RecordMaxReps(ctx, app.MaxRepsRequest{UserID: testUser, Pattern: "horizontal_push", MaxReps: 14, Now: &testutil.Epoch})
	require.NoError(t, err)
	resp, err := svc.RecordRetest(ctx, app.RetestRequest{UserID: testUser, Pattern: "horizontal_push", Reps: 2, Now: &testutil.Epoch})
	require.NoError(t, err)
	assert.Equal(t, planner.EventAccumulation, resp.Event.Kind)
	assert.Equal(t, "pushup", resp.State.VariantID)
	assert.Len(t, resp.Scheme, planner.AccumulationSets)

	current, err := svc.Current(ctx, testUser, domain.PatternHorizontalPush)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseVolumeAccumulation, current.State.Phase)
}

func TestProgressionService_SeedsFromEasiestVariant(t *testing.T) {
	f := newServiceFixture(t)
	f.saveProgram(t)

	resp, err := f.progression().RecordMaxReps(context.Background(), app.MaxRepsRequest{UserID: testUser, Pattern: "horizontal_pull", MaxReps: 5, Now: &testutil.Epoch})
	require.NoError(t, err)
	v, ok := f.engines.Catalog.Variant(resp.State.VariantID)
	require.True(t, ok)
	lowest, ok := f.engines.Catalog.Lowest(domain.PatternHorizontalPull, domain.LocationHome, planner.EquipmentSet(domain.LocationHome, nil))
	require.True(t, ok)
	assert.Equal(t, lowest.ID, v.ID)
}

func TestProgressionService_RejectsUnknownPattern(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.progression().RecordMaxReps(context.Background(), app.MaxRepsRequest{UserID: testUser, Pattern: "diagonal", MaxReps: 5})
	var verrs app.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.Has(app.ValidationUnknownPattern))

	_, err = f.progression().Current(context.Background(), testUser, domain.PatternCore)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
