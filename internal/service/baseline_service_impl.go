package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/planner"
	"github.com/alexanderramin/repforge/internal/repository"
)

type baselineService struct {
	repos    repository.Repos
	uow      db.UnitOfWork
	engines  *Engines
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewBaselineService(repos repository.Repos, uow db.UnitOfWork, engines *Engines, logger *slog.Logger, observers ...UseCaseObserver) BaselineService {
	return &baselineService{
		repos:    repos,
		uow:      uow,
		engines:  engines,
		logger:   discardIfNil(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

// Assess resolves a completed assessment and replaces the measured baselines.
// Patterns without a progression state start one on the assessed variant.
func (s *baselineService) Assess(ctx context.Context, req app.AssessBaselineRequest) (resp *app.AssessBaselineResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": req.UserID, "practical_tests": len(req.Assessment.Practical)}
	defer func() { observe(ctx, s.observer, "assess-baseline", startedAt, fields, err) }()

	var errs app.ValidationErrors
	if req.UserID == "" {
		errs.Add("user_id", app.ValidationMissingField, "user id is required")
	}
	var declared *domain.Level
	if req.DeclaredLevel != "" {
		l, err := domain.ParseLevel(req.DeclaredLevel)
		if err != nil {
			errs.Add("level", app.ValidationUnknownLevel, err.Error())
		} else {
			declared = &l
		}
	}
	for i, pt := range req.Assessment.Practical {
		field := fmt.Sprintf("assessment.practical[%d]", i)
		if !domain.MovementPattern(pt.Pattern).Valid() {
			errs.Add(field+".pattern", app.ValidationUnknownPattern, fmt.Sprintf("unknown movement pattern %q", pt.Pattern))
		}
		if pt.Reps < 0 || pt.WeightKg < 0 {
			errs.Add(field+".reps", app.ValidationOutOfRange, "reps and weight cannot be negative")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	now := nowOr(req.Now)

	in := planner.AssessmentInput{
		UserID:        req.UserID,
		DeclaredLevel: declared,
		QuizScore:     req.Assessment.QuizScore,
		PhysicalScore: req.Assessment.PhysicalScore,
		Practical:     practicalTests(req.Assessment.Practical),
		Now:           now,
	}
	if bc := req.BodyComposition; bc != nil {
		in.BodyComposition = &planner.BodyComposition{BodyFatPercentage: bc.BodyFatPercentage, BodyShape: bc.BodyShape}
	}
	res := s.engines.Resolver.Resolve(in)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteRepos(tx)
		existing, err := repos.Progressions.ListByUser(ctx, req.UserID)
		if err != nil {
			s.logger.WarnContext(ctx, "unreadable progression state, reseeding from assessment", "user_id", req.UserID, "error", err)
			existing = nil
		}
		for _, p := range sortedPatterns(res.Baselines) {
			b := res.Baselines[p]
			if err := repos.Baselines.Upsert(ctx, &b); err != nil {
				return err
			}
			if _, ok := existing[p]; ok {
				continue
			}
			v, ok := s.engines.Catalog.Variant(b.VariantID)
			if !ok {
				continue
			}
			if err := repos.Progressions.Upsert(ctx, planner.NewProgressionState(req.UserID, v, s.engines.UnlockReps, now)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["level"] = string(res.Level)
	fields["baselines"] = len(res.Baselines)
	return &app.AssessBaselineResponse{
		Level:     res.Level,
		Score:     res.Score,
		Baselines: res.Baselines,
		Warnings:  res.Warnings,
	}, nil
}

func (s *baselineService) List(ctx context.Context, userID string) (map[domain.MovementPattern]domain.Baseline, error) {
	return s.repos.Baselines.ListByUser(ctx, userID)
}
