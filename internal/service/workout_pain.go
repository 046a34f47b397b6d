package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/repforge/internal/adaptation"
	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/observability"
	"github.com/alexanderramin/repforge/internal/planner"
	"github.com/alexanderramin/repforge/internal/repository"
)

func (s *workoutService) PreWorkoutCheck(ctx context.Context, req app.PreWorkoutCheckRequest) (*app.PainCheckResponse, error) {
	now := nowOr(req.Now)
	return s.painCheck(ctx, "pre-workout-check", req.SessionID, func(st *sessionState, memory *domain.PainMemory) (adaptation.PainAssessment, []domain.PainRecord, int, error) {
		records := make([]domain.PainRecord, 0, len(req.Reports))
		for _, r := range req.Reports {
			rec, err := r.Record(domain.TimingPre, nil, now)
			if err != nil {
				return adaptation.PainAssessment{}, nil, 0, err
			}
			records = append(records, rec)
		}
		a, err := s.engines.Pain.PreWorkoutCheck(records, memory)
		return a, records, -1, err
	}, now)
}

func (s *workoutService) IntraExerciseCheck(ctx context.Context, req app.IntraExerciseCheckRequest) (*app.PainCheckResponse, error) {
	now := nowOr(req.Now)
	return s.painCheck(ctx, "intra-exercise-check", req.SessionID, func(st *sessionState, memory *domain.PainMemory) (adaptation.PainAssessment, []domain.PainRecord, int, error) {
		ex, err := st.exercise(req.ExerciseIndex)
		if err != nil {
			return adaptation.PainAssessment{}, nil, 0, err
		}
		idx := req.ExerciseIndex
		rec, err := req.Report.Record(domain.TimingIntra, &idx, now)
		if err != nil {
			return adaptation.PainAssessment{}, nil, 0, err
		}
		a, err := s.engines.Pain.IntraExerciseCheck(rec, ex, memory)
		return a, []domain.PainRecord{rec}, idx, err
	}, now)
}

// PostExerciseCheck runs the incomplete-set flow against the logged set.
func (s *workoutService) PostExerciseCheck(ctx context.Context, req app.PostExerciseCheckRequest) (*app.PainCheckResponse, error) {
	now := nowOr(req.Now)
	return s.painCheck(ctx, "post-exercise-check", req.SessionID, func(st *sessionState, memory *domain.PainMemory) (adaptation.PainAssessment, []domain.PainRecord, int, error) {
		ex, err := st.exercise(req.ExerciseIndex)
		if err != nil {
			return adaptation.PainAssessment{}, nil, 0, err
		}
		var logged *domain.SetLog
		for i := range st.logs {
			if st.logs[i].ExerciseIndex == req.ExerciseIndex && st.logs[i].SetNumber == req.SetNumber {
				logged = &st.logs[i]
			}
		}
		if logged == nil {
			return adaptation.PainAssessment{}, nil, 0, sessionErr(app.SessionErrInvalidExercise,
				"set %d of %s has not been logged", req.SetNumber, ex.Name)
		}
		in := adaptation.IncompleteSet{
			Exercise:      ex,
			RepsCompleted: logged.RepsCompleted,
			TargetReps:    logged.TargetReps,
			Reason:        req.Reason,
		}
		var records []domain.PainRecord
		if req.Pain != nil {
			idx := req.ExerciseIndex
			rec, err := req.Pain.Record(domain.TimingPost, &idx, now)
			if err != nil {
				return adaptation.PainAssessment{}, nil, 0, err
			}
			in.Pain = &rec
			records = append(records, rec)
		}
		a, err := s.engines.Pain.PostExerciseCheck(in, memory)
		if err != nil {
			code := app.ValidationOutOfRange
			if req.Reason == domain.ReasonPain {
				code = app.ValidationMissingField
			}
			return adaptation.PainAssessment{}, nil, 0, app.ValidationErrors{{Field: "reason", Code: code, Message: err.Error()}}
		}
		return a, records, req.ExerciseIndex, nil
	}, now)
}

type painEvaluator func(st *sessionState, memory *domain.PainMemory) (a adaptation.PainAssessment, records []domain.PainRecord, scope int, err error)

// painCheck loads the session, evaluates the check, records the reports and
// turns every decision into session deltas. scope is the exercise the check
// is bound to, or -1 for the whole day.
func (s *workoutService) painCheck(ctx context.Context, name, sessionID string, eval painEvaluator, now time.Time) (resp *app.PainCheckResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": sessionID}
	defer func() { observe(ctx, s.observer, name, startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteRepos(tx)
		st, err := loadSessionState(ctx, repos, sessionID)
		if err != nil {
			return err
		}
		if err := st.requireOpen(); err != nil {
			return err
		}
		memory, _, err := loadPainMemory(ctx, repos.PainMemory, st.session.UserID, s.logger)
		if err != nil {
			return err
		}
		assessment, records, scope, err := eval(st, memory)
		if err != nil {
			return err
		}

		st.session.PainReports = append(st.session.PainReports, records...)
		before := len(st.session.Deltas)
		for _, d := range assessment.Decisions {
			s.applyPainDecision(st, memory, d, scope, now)
			observability.RecordPainDecision(string(d.Action))
		}
		for _, rec := range assessment.Recommendations {
			st.session.AddAdvisory(rec)
		}
		if assessment.RequiresMedicalAttention {
			st.session.AddAdvisory("seek medical attention before loading the painful area again")
		}
		st.session.UpdatedAt = now
		if err := repos.Sessions.Update(ctx, st.session); err != nil {
			return err
		}

		resp = &app.PainCheckResponse{
			Assessment: assessment,
			Deltas:     slices.Clone(st.session.Deltas[before:]),
			Session:    st.view(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["can_proceed"] = resp.Assessment.CanProceedWithWorkout
	fields["medical"] = resp.Assessment.RequiresMedicalAttention
	fields["deltas"] = len(resp.Deltas)
	if resp.Assessment.RequiresMedicalAttention {
		s.logger.WarnContext(ctx, "pain check requires medical attention", "session_id", sessionID)
	}
	return resp, nil
}

// applyPainDecision records the deltas one decision calls for. Decisions
// never touch the stored program.
func (s *workoutService) applyPainDecision(st *sessionState, memory *domain.PainMemory, d adaptation.PainDecision, scope int, now time.Time) {
	if d.Action == adaptation.ActionStopPattern {
		for _, p := range d.Patterns {
			st.session.AddDelta(domain.SessionDelta{
				Kind:          domain.DeltaStopPattern,
				ExerciseIndex: -1,
				Pattern:       p,
				Reason:        fmt.Sprintf("%s pain %d/10: pattern stopped for today", d.Area, d.Severity),
				CreatedAt:     now,
			})
		}
		return
	}

	exercises := st.exercises()
	for i, ex := range exercises {
		if ex.Skip || !slices.Contains(d.Patterns, ex.Pattern) {
			continue
		}
		if scope >= 0 && i != scope {
			continue
		}
		switch d.Action {
		case adaptation.ActionReduceLoad:
			st.session.AddDelta(domain.SessionDelta{
				Kind:          domain.DeltaLoadReduction,
				ExerciseIndex: i,
				Pattern:       ex.Pattern,
				LoadFactor:    1 - d.LoadReductionPct/100,
				Reason:        fmt.Sprintf("%s pain: %.0f%% load reduction", d.Area, d.LoadReductionPct),
				CreatedAt:     now,
			})
		case adaptation.ActionSubstitute, adaptation.ActionSubstituteOrSkip:
			s.substitute(st, memory, d, i, ex, now)
		case adaptation.ActionSkipDeload:
			st.session.AddDelta(skipDelta(i, ex, fmt.Sprintf("%s pain %d/10: skipped", d.Area, d.Severity), now))
			st.session.AddAdvisory("consider a deload week")
		}
	}
}

// substitute swaps the exercise for the best pain-safe variant of its pattern.
// HIGH confidence applies directly, MEDIUM and LOW wait for the user, and
// anything lower skips the exercise.
func (s *workoutService) substitute(st *sessionState, memory *domain.PainMemory, d adaptation.PainDecision, index int, ex domain.ExerciseInstance, now time.Time) {
	pain := memory.ActiveAreas()
	for _, r := range st.session.PainReports {
		pain[r.Area] = max(pain[r.Area], r.Severity)
	}
	slot := planner.SlotContext{
		Pattern:          ex.Pattern,
		TargetDifficulty: ex.Difficulty,
		Location:         st.program.Location,
		Equipment:        planner.EquipmentSet(st.program.Location, st.program.Equipment),
		PainAreas:        pain,
		Exclude:          map[string]bool{ex.VariantID: true},
	}
	candidates := s.engines.Catalog.Available(ex.Pattern, st.program.Location, slot.Equipment)
	best, ok, why := s.engines.Planner.Scorer.Select(candidates, slot)
	reason := fmt.Sprintf("%s pain %d/10", d.Area, d.Severity)

	switch {
	case !ok:
		st.session.AddDelta(skipDelta(index, ex, reason+": "+why, now))
	case best.Confidence == domain.ConfidenceHigh:
		replacement := best.Variant
		st.session.AddDelta(domain.SessionDelta{
			Kind:          domain.DeltaSubstitution,
			ExerciseIndex: index,
			Pattern:       ex.Pattern,
			Replacement:   &replacement,
			Reason:        fmt.Sprintf("%s: substituted %s", reason, replacement.Name),
			CreatedAt:     now,
		})
	case st.session.Pending == nil:
		st.session.Pending = &domain.PendingDecision{
			Kind:          domain.PendingSubstitution,
			ExerciseIndex: index,
			Candidate:     &best,
			Reason:        fmt.Sprintf("%s: %s confidence substitute %s", reason, best.Confidence, best.Variant.Name),
		}
	default:
		// Only one decision can wait for the user at a time.
		st.session.AddDelta(skipDelta(index, ex, reason+": no substitute confirmed", now))
	}
}

func skipDelta(index int, ex domain.ExerciseInstance, reason string, now time.Time) domain.SessionDelta {
	return domain.SessionDelta{
		Kind:          domain.DeltaSkip,
		ExerciseIndex: index,
		Pattern:       ex.Pattern,
		Reason:        reason,
		CreatedAt:     now,
	}
}
