package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/planner"
	"github.com/alexanderramin/repforge/internal/repository"
)

type progressionService struct {
	repos    repository.Repos
	uow      db.UnitOfWork
	engines  *Engines
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewProgressionService(repos repository.Repos, uow db.UnitOfWork, engines *Engines, logger *slog.Logger, observers ...UseCaseObserver) ProgressionService {
	return &progressionService{
		repos:    repos,
		uow:      uow,
		engines:  engines,
		logger:   discardIfNil(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

func parsePattern(s string) (domain.MovementPattern, error) {
	p := domain.MovementPattern(s)
	if !p.Valid() {
		return "", app.ValidationErrors{{Field: "pattern", Code: app.ValidationUnknownPattern, Message: fmt.Sprintf("unknown movement pattern %q", s)}}
	}
	return p, nil
}

// progressor restricts variant unlocks to what the active program can use.
func (s *progressionService) progressor(ctx context.Context, repos repository.Repos, userID string) (planner.Progressor, error) {
	p := planner.Progressor{Catalog: s.engines.Catalog, UnlockReps: s.engines.UnlockReps, Location: domain.LocationGym}
	program, err := repos.Programs.GetActive(ctx, userID)
	switch {
	case err == nil:
		p.Location = program.Location
		p.Equipment = planner.EquipmentSet(program.Location, program.Equipment)
	case errors.Is(err, repository.ErrNotFound):
		p.Equipment = planner.EquipmentSet(p.Location, nil)
	default:
		return planner.Progressor{}, err
	}
	return p, nil
}

// currentState loads the pattern's state, seeding it from the baseline (or
// the easiest usable variant) on first use.
func (s *progressionService) currentState(ctx context.Context, repos repository.Repos, pr planner.Progressor, userID string, pattern domain.MovementPattern, now time.Time) (*domain.ProgressionState, error) {
	state, err := repos.Progressions.Get(ctx, userID, pattern)
	switch {
	case err == nil:
		return state, nil
	case errors.Is(err, repository.ErrCorruptState):
		s.logger.WarnContext(ctx, "unreadable progression state, restarting at 3-3-3", "user_id", userID, "pattern", pattern, "error", err)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	var variant domain.ExerciseVariant
	found := false
	if baselines, err := repos.Baselines.ListByUser(ctx, userID); err == nil {
		if b, ok := baselines[pattern]; ok {
			variant, found = s.engines.Catalog.Variant(b.VariantID)
		}
	}
	if !found {
		variant, found = s.engines.Catalog.Lowest(pattern, pr.Location, pr.Equipment)
	}
	if !found {
		return nil, fmt.Errorf("no %s variant available: %w", pattern, repository.ErrNotFound)
	}
	return planner.NewProgressionState(userID, variant, s.engines.UnlockReps, now), nil
}

func (s *progressionService) RecordMaxReps(ctx context.Context, req app.MaxRepsRequest) (resp *app.ProgressionResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": req.UserID, "pattern": req.Pattern, "max_reps": req.MaxReps}
	defer func() { observe(ctx, s.observer, "record-max-reps", startedAt, fields, err) }()

	pattern, err := parsePattern(req.Pattern)
	if err != nil {
		return nil, err
	}
	if req.MaxReps < 0 {
		return nil, app.ValidationErrors{{Field: "max_reps", Code: app.ValidationOutOfRange, Message: "max reps cannot be negative"}}
	}
	now := nowOr(req.Now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteRepos(tx)
		pr, err := s.progressor(ctx, repos, req.UserID)
		if err != nil {
			return err
		}
		state, err := s.currentState(ctx, repos, pr, req.UserID, pattern, now)
		if err != nil {
			return err
		}
		event := pr.RecordMaxReps(state, req.MaxReps, now)
		if err := repos.Progressions.Upsert(ctx, state); err != nil {
			return err
		}
		_, scheme := planner.RepScheme(state, now)
		resp = &app.ProgressionResponse{State: state, Event: event, Scheme: scheme}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["event"] = string(resp.Event.Kind)
	fields["phase"] = string(resp.State.Phase)
	return resp, nil
}

// RecordRetest settles a pending unlock. A switch also replaces the pattern's
// baseline with the new variant.
func (s *progressionService) RecordRetest(ctx context.Context, req app.RetestRequest) (resp *app.ProgressionResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": req.UserID, "pattern": req.Pattern, "reps": req.Reps}
	defer func() { observe(ctx, s.observer, "record-retest", startedAt, fields, err) }()

	pattern, err := parsePattern(req.Pattern)
	if err != nil {
		return nil, err
	}
	if req.Reps < 0 {
		return nil, app.ValidationErrors{{Field: "reps", Code: app.ValidationOutOfRange, Message: "reps cannot be negative"}}
	}
	now := nowOr(req.Now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteRepos(tx)
		pr, err := s.progressor(ctx, repos, req.UserID)
		if err != nil {
			return err
		}
		state, err := repos.Progressions.Get(ctx, req.UserID, pattern)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return planner.ErrNoRetestPending
			}
			return err
		}
		event, err := pr.RecordRetest(state, req.Reps, now)
		if err != nil {
			return err
		}
		if err := repos.Progressions.Upsert(ctx, state); err != nil {
			return err
		}
		if event.Kind == planner.EventSwitched && event.Variant != nil {
			b := domain.Baseline{
				UserID:     req.UserID,
				Pattern:    pattern,
				VariantID:  event.Variant.ID,
				MaxReps:    req.Reps,
				Difficulty: event.Variant.Difficulty,
				Source:     domain.SourceRetestUnlock,
				AssessedAt: now,
			}
			if err := repos.Baselines.Upsert(ctx, &b); err != nil {
				return err
			}
		}
		_, scheme := planner.RepScheme(state, now)
		resp = &app.ProgressionResponse{State: state, Event: event, Scheme: scheme}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["event"] = string(resp.Event.Kind)
	return resp, nil
}

// Current reports the stored state and this week's rep scheme.
func (s *progressionService) Current(ctx context.Context, userID string, pattern domain.MovementPattern) (*app.ProgressionResponse, error) {
	state, err := s.repos.Progressions.Get(ctx, userID, pattern)
	if err != nil {
		return nil, err
	}
	_, scheme := planner.RepScheme(state, time.Now().UTC())
	return &app.ProgressionResponse{State: state, Event: planner.ProgressionEvent{Kind: planner.EventNone}, Scheme: scheme}, nil
}
