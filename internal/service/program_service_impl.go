package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/alexanderramin/repforge/internal/adaptation"
	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/observability"
	"github.com/alexanderramin/repforge/internal/planner"
	"github.com/alexanderramin/repforge/internal/repository"
	"github.com/google/uuid"
)

// volumeLookbackWeeks is how many completed weeks feed the volume recommendation.
const volumeLookbackWeeks = 4

type programService struct {
	repos    repository.Repos
	uow      db.UnitOfWork
	engines  *Engines
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewProgramService(repos repository.Repos, uow db.UnitOfWork, engines *Engines, logger *slog.Logger, observers ...UseCaseObserver) ProgramService {
	return &programService{
		repos:    repos,
		uow:      uow,
		engines:  engines,
		logger:   discardIfNil(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

// planningState is the stored per-user state read before generation.
type planningState struct {
	baselines     map[domain.MovementPattern]domain.Baseline
	progressions  map[domain.MovementPattern]*domain.ProgressionState
	memory        *domain.PainMemory
	volumeActions map[domain.MuscleGroup]domain.VolumeAction
	flags         []string
	baselineReset bool
	degraded      bool
}

func (s *programService) Generate(ctx context.Context, req app.GenerateProgramRequest) (resp *app.GenerateProgramResponse, err error) {
	startedAt := nowOr(nil)
	fields := map[string]any{"user_id": req.UserID, "goal": req.Goal, "frequency": req.Frequency}
	defer func() { observe(ctx, s.observer, "generate-program", startedAt, fields, err) }()

	parsed, err := req.Validate()
	if err != nil {
		return nil, err
	}
	now := nowOr(req.Now)

	state, err := s.loadPlanningState(ctx, parsed.UserID, now)
	if err != nil {
		return nil, err
	}

	resolution := s.engines.Resolver.Resolve(assessmentInput(parsed, req, now))
	level := resolution.Level
	if state.baselineReset && req.Assessment == nil {
		level = domain.LevelBeginner
	}
	baselines := state.baselines
	for p, b := range resolution.Baselines {
		baselines[p] = b
	}

	program, err := s.engines.Planner.Generate(planner.GenerationInput{
		UserID:            parsed.UserID,
		Level:             level,
		Goal:              parsed.Goal,
		Location:          parsed.Location,
		Frequency:         parsed.Frequency,
		Equipment:         parsed.Equipment,
		PainAreas:         req.PainAreas,
		DisabilityType:    req.DisabilityType,
		SportRole:         req.SportRole,
		SpecificBodyParts: req.SpecificBodyParts,
		Baselines:         baselines,
		Progressions:      state.progressions,
		PainMemory:        state.memory,
		VolumeActions:     state.volumeActions,
		Flags:             state.flags,
		Now:               now,
	})
	if err != nil {
		if errors.Is(err, planner.ErrInvalidFrequency) {
			return nil, app.ValidationErrors{{Field: "frequency", Code: app.ValidationInvalidFrequency, Message: err.Error()}}
		}
		return nil, fmt.Errorf("generating program: %w", err)
	}
	program.ID = uuid.New().String()
	if state.degraded {
		program.AddFlag(domain.FlagReassessSuggested)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRepos := repository.NewSQLiteRepos(tx)
		for _, p := range sortedPatterns(resolution.Baselines) {
			b := resolution.Baselines[p]
			if err := txRepos.Baselines.Upsert(ctx, &b); err != nil {
				return err
			}
		}
		for _, ps := range s.seedProgressions(program, state.progressions, now) {
			if err := txRepos.Progressions.Upsert(ctx, ps); err != nil {
				return err
			}
		}
		return txRepos.Programs.Save(ctx, program)
	})
	if err != nil {
		return nil, fmt.Errorf("saving program: %w", err)
	}

	fields["program_id"] = program.ID
	fields["split"] = program.Split
	fields["level"] = string(level)
	fields["degraded"] = state.degraded
	observability.RecordProgramGenerated(program.Split, string(program.Goal), state.degraded)

	return &app.GenerateProgramResponse{
		Program:       program,
		Level:         level,
		Degraded:      state.degraded,
		Warnings:      resolution.Warnings,
		VolumeActions: state.volumeActions,
	}, nil
}

// seedProgressions starts a linear progression state for every strength
// slot whose variant has no stored state. Stored states for the same variant
// are kept so the weekly wave advances across regenerations.
func (s *programService) seedProgressions(program *domain.Program, stored map[domain.MovementPattern]*domain.ProgressionState, now time.Time) []*domain.ProgressionState {
	seen := make(map[domain.MovementPattern]bool)
	var out []*domain.ProgressionState
	for _, day := range program.WeeklySchedule {
		for _, ex := range day.Exercises {
			if ex.Skip || ex.Progression == nil || seen[ex.Pattern] {
				continue
			}
			seen[ex.Pattern] = true
			if cur := stored[ex.Pattern]; cur != nil && cur.VariantID == ex.VariantID {
				continue
			}
			v, ok := s.engines.Catalog.Variant(ex.VariantID)
			if !ok {
				continue
			}
			out = append(out, planner.NewProgressionState(program.UserID, v, s.engines.UnlockReps, now))
		}
	}
	return out
}

func (s *programService) Active(ctx context.Context, userID string) (*domain.Program, error) {
	return s.repos.Programs.GetActive(ctx, userID)
}

func (s *programService) List(ctx context.Context, userID string) ([]repository.ProgramSummary, error) {
	return s.repos.Programs.ListByUser(ctx, userID)
}

// loadPlanningState reads baselines, progression, pain memory and recent
// volume. Unreadable state degrades to defaults with a WARN log and a flag;
// only storage failures are returned as errors.
func (s *programService) loadPlanningState(ctx context.Context, userID string, now time.Time) (planningState, error) {
	st := planningState{}

	baselines, err := s.repos.Baselines.ListByUser(ctx, userID)
	switch {
	case err == nil:
		st.baselines = baselines
	case errors.Is(err, repository.ErrCorruptState):
		s.logger.WarnContext(ctx, "unreadable baselines, falling back to beginner defaults", "user_id", userID, "error", err)
		st.baselines = make(map[domain.MovementPattern]domain.Baseline)
		st.flags = append(st.flags, domain.FlagBaselineFallback)
		st.baselineReset = true
		st.degraded = true
	default:
		return st, fmt.Errorf("loading baselines: %w", err)
	}

	progressions, err := s.repos.Progressions.ListByUser(ctx, userID)
	switch {
	case err == nil:
		st.progressions = progressions
	case errors.Is(err, repository.ErrCorruptState):
		s.logger.WarnContext(ctx, "unreadable progression state, restarting at 3-3-3", "user_id", userID, "error", err)
		st.progressions = nil
		st.degraded = true
	default:
		return st, fmt.Errorf("loading progression: %w", err)
	}

	memory, reset, err := loadPainMemory(ctx, s.repos.PainMemory, userID, s.logger)
	if err != nil {
		return st, err
	}
	st.memory = memory
	if reset {
		st.flags = append(st.flags, domain.FlagPainMemoryReset)
		st.degraded = true
	}

	var weeks []map[domain.MuscleGroup]int
	for _, w := range previousWeeks(now, volumeLookbackWeeks) {
		totals, err := s.repos.Volume.GetWeeklyVolume(ctx, userID, w)
		if err != nil {
			return st, fmt.Errorf("loading weekly volume: %w", err)
		}
		// Untrained weeks stay in the series as empty totals.
		weeks = append(weeks, totals)
	}
	recs := s.engines.Volume.Recommend(weeks, adaptation.PainGroups(s.engines.Catalog, memory))
	st.volumeActions = adaptation.Actions(recs)
	return st, nil
}

func assessmentInput(parsed app.ParsedProgramRequest, req app.GenerateProgramRequest, now time.Time) planner.AssessmentInput {
	in := planner.AssessmentInput{UserID: parsed.UserID, DeclaredLevel: parsed.Level, Now: now}
	if a := req.Assessment; a != nil {
		in.QuizScore = a.QuizScore
		in.PhysicalScore = a.PhysicalScore
		in.Practical = practicalTests(a.Practical)
	}
	if bc := req.BodyComposition; bc != nil {
		in.BodyComposition = &planner.BodyComposition{BodyFatPercentage: bc.BodyFatPercentage, BodyShape: bc.BodyShape}
	}
	return in
}

func practicalTests(in []app.PracticalTestInput) []planner.PracticalTest {
	out := make([]planner.PracticalTest, 0, len(in))
	for _, pt := range in {
		out = append(out, planner.PracticalTest{
			Pattern:   domain.MovementPattern(pt.Pattern),
			VariantID: pt.VariantID,
			Reps:      pt.Reps,
			WeightKg:  pt.WeightKg,
		})
	}
	return out
}

func sortedPatterns[V any](m map[domain.MovementPattern]V) []domain.MovementPattern {
	out := make([]domain.MovementPattern, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
