package cli

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/repository"
	"github.com/alexanderramin/repforge/internal/service"
	"github.com/alexanderramin/repforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// testApp wires a full App backed by a temp-file DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("REPFORGE_USER", "")
	database := testutil.NewTestDB(t)
	repos := repository.NewSQLiteRepos(database)
	uow := testutil.NewTestUoW(database)
	engines := service.NewEngines(catalog.Default(), service.DefaultEngineConfig(), nil)

	return &App{
		Programs:    service.NewProgramService(repos, uow, engines, nil),
		Workouts:    service.NewWorkoutService(repos, uow, engines, nil),
		Baselines:   service.NewBaselineService(repos, uow, engines, nil),
		Progression: service.NewProgressionService(repos, uow, engines, nil),
		Volume:      service.NewVolumeService(repos, engines, nil),
		Catalog:     engines.Catalog,
		Landmarks:   engines.Volume.Landmarks,
	}
}

// executeCmd runs a cobra command and captures its output without styling.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

func TestCLI_TrainingDayJourney(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "baseline", "set", "--quiz", "55", "--test", "horizontal_push:pushup:12")
	require.NoError(t, err)
	assert.Contains(t, out, "horizontal_push")
	assert.Contains(t, out, "pushup")

	out, err = executeCmd(t, app, "program", "generate", "--goal", "muscle_gain", "--location", "gym", "--frequency", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "PROGRAM")
	assert.Contains(t, out, "DAY 1")

	out, err = executeCmd(t, app, "program", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "muscle_gain")

	out, err = executeCmd(t, app, "program", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "active")

	out, err = executeCmd(t, app, "session", "start", "--day", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "Next:")

	out, err = executeCmd(t, app, "session", "pain", "--when", "pre", "--report", "knee:2")
	require.NoError(t, err)
	assert.Contains(t, out, "OK to continue")

	out, err = executeCmd(t, app, "session", "log", "--exercise", "0", "--set", "1", "--reps", "10", "--rpe", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged")
	assert.Contains(t, out, "set 1")

	out, err = executeCmd(t, app, "session", "skip", "--exercise", "1", "--reason", "bench taken")
	require.NoError(t, err)
	assert.Contains(t, out, "(skipped)")

	out, err = executeCmd(t, app, "session", "resume")
	require.NoError(t, err)
	assert.Contains(t, out, "1/")

	out, err = executeCmd(t, app, "session", "finish")
	require.NoError(t, err)
	assert.Contains(t, out, "SESSION FINISHED")
	assert.Contains(t, out, "Completed")

	_, err = executeCmd(t, app, "session", "resume")
	assert.Error(t, err, "no session is open after finish")

	out, err = executeCmd(t, app, "volume", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Week of")
	assert.Contains(t, out, "MEV/MAV/MRV")
}

func TestCLI_SessionLogRequiresEffort(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "session", "log", "--session", "s-1", "--reps", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpe")
}

func TestCLI_SessionCommandsWithoutOpenSession(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "session", "log", "--reps", "10", "--rpe", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_NOT_FOUND")
}

func TestCLI_StartWithoutProgram(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "session", "start")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NO_ACTIVE_PROGRAM")
}

func TestCLI_GenerateValidation(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "program", "generate", "--goal", "flying", "--location", "moon", "--frequency", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNKNOWN_GOAL")
	assert.Contains(t, err.Error(), "UNKNOWN_LOCATION")
	assert.Contains(t, err.Error(), "INVALID_FREQUENCY")
}

func TestCLI_PainCheckPointValidation(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "session", "pain", "--session", "s-1", "--when", "later")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown check point")
}

func TestCLI_BaselineSetNeedsInput(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "baseline", "set")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to record")

	out, err := executeCmd(t, app, "baseline", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No baselines recorded.")
}

func TestCLI_ProgressionFlow(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "baseline", "set", "--test", "lower_push:bodyweight_squat:8")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "progression", "show", "--pattern", "lower_push")
	require.NoError(t, err)
	assert.Contains(t, out, "Bodyweight Squat")
	assert.Contains(t, out, "linear")

	out, err = executeCmd(t, app, "progression", "record", "--pattern", "lower_push", "--max-reps", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "unlock at 12 reps")
}

func TestCLI_CatalogList(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "catalog", "list", "--pattern", "core")
	require.NoError(t, err)
	assert.Contains(t, out, "Dead Bug")
	assert.NotContains(t, out, "Push-up")

	out, err = executeCmd(t, app, "catalog", "list", "--pattern", "horizontal_pull", "--location", "gym")
	require.NoError(t, err)
	assert.Contains(t, out, "Barbell Row")
	assert.NotContains(t, out, "Table Row")

	_, err = executeCmd(t, app, "catalog", "list", "--pattern", "twist")
	assert.Error(t, err)
}

func TestParsePracticalTest(t *testing.T) {
	pt, err := parsePracticalTest("lower_push:back_squat:5:82.5")
	require.NoError(t, err)
	assert.Equal(t, "lower_push", pt.Pattern)
	assert.Equal(t, "back_squat", pt.VariantID)
	assert.Equal(t, 5, pt.Reps)
	assert.Equal(t, 82.5, pt.WeightKg)

	for _, bad := range []string{"lower_push", "lower_push:back_squat:x", "a:b:1:kg", "a:b:1:2:3"} {
		_, err := parsePracticalTest(bad)
		assert.Error(t, err, bad)
	}
}

func TestParsePainReport(t *testing.T) {
	r, err := parsePainReport("knee:6:sharp_acute")
	require.NoError(t, err)
	assert.Equal(t, "knee", r.Area)
	assert.Equal(t, 6, r.Severity)
	assert.Equal(t, "sharp_acute", r.Nature)

	r, err = parsePainReport("shoulder:3")
	require.NoError(t, err)
	assert.Empty(t, r.Nature)

	_, err = parsePainReport("knee")
	assert.Error(t, err)
}
