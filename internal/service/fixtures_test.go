package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/repository"
	"github.com/alexanderramin/repforge/internal/testutil"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

type serviceFixture struct {
	db      *sql.DB
	repos   repository.Repos
	engines *Engines
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &serviceFixture{
		db:      database,
		repos:   repository.NewSQLiteRepos(database),
		engines: NewEngines(catalog.Default(), DefaultEngineConfig(), nil),
	}
}

func (f *serviceFixture) workout() WorkoutService {
	return NewWorkoutService(f.repos, testutil.NewTestUoW(f.db), f.engines, nil)
}

// saveProgram stores the fixture program as the user's active program.
func (f *serviceFixture) saveProgram(t *testing.T, opts ...testutil.ProgramOption) *domain.Program {
	t.Helper()
	p := testutil.NewTestProgram(testUser, opts...)
	require.NoError(t, f.repos.Programs.Save(context.Background(), p))
	return p
}

func intPtr(v int) *int { return &v }
