package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/repforge/internal/adaptation"
	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/db"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/observability"
	"github.com/alexanderramin/repforge/internal/repository"
	"github.com/google/uuid"
)

type workoutService struct {
	repos    repository.Repos
	uow      db.UnitOfWork
	engines  *Engines
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewWorkoutService(repos repository.Repos, uow db.UnitOfWork, engines *Engines, logger *slog.Logger, observers ...UseCaseObserver) WorkoutService {
	return &workoutService{
		repos:    repos,
		uow:      uow,
		engines:  engines,
		logger:   discardIfNil(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

// sessionState is a session together with the program day it runs and the
// sets logged so far.
type sessionState struct {
	session *domain.WorkoutSession
	program *domain.Program
	day     domain.ProgramDay
	logs    []domain.SetLog
}

func loadSessionState(ctx context.Context, repos repository.Repos, sessionID string) (*sessionState, error) {
	session, err := repos.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, sessionErr(app.SessionErrNotFound, "session %s not found", sessionID)
		}
		return nil, err
	}
	program, err := repos.Programs.GetByID(ctx, session.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("loading program of session %s: %w", sessionID, err)
	}
	day, err := program.Day(session.DayIndex)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	logs, err := repos.SetLogs.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &sessionState{session: session, program: program, day: day, logs: logs}, nil
}

func (st *sessionState) exercises() []domain.ExerciseInstance {
	return st.session.EffectiveExercises(st.day)
}

func (st *sessionState) view() *app.SessionView {
	logged := make(map[int]int)
	for _, l := range st.logs {
		logged[l.ExerciseIndex]++
	}
	return &app.SessionView{
		Session:    st.session,
		Exercises:  st.exercises(),
		Logs:       st.logs,
		LoggedSets: logged,
	}
}

// lastLogged is the highest set number logged for the exercise, 0 if none.
func (st *sessionState) lastLogged(exerciseIndex int) int {
	last := 0
	for _, l := range st.logs {
		if l.ExerciseIndex == exerciseIndex {
			last = max(last, l.SetNumber)
		}
	}
	return last
}

func (st *sessionState) requireOpen() error {
	if st.session.Finalized() {
		return sessionErr(app.SessionErrFinalized, "session %s was finalized at %s", st.session.ID, st.session.FinalizedAt.Format(time.RFC3339))
	}
	return nil
}

func (st *sessionState) exercise(index int) (domain.ExerciseInstance, error) {
	exercises := st.exercises()
	if index < 0 || index >= len(exercises) {
		return domain.ExerciseInstance{}, sessionErr(app.SessionErrInvalidExercise, "exercise %d outside day of %d exercises", index, len(exercises))
	}
	return exercises[index], nil
}

func (s *workoutService) Start(ctx context.Context, req app.StartSessionRequest) (view *app.SessionView, err error) {
	startedAt := time.Now()
	fields := map[string]any{"user_id": req.UserID, "day_index": req.DayIndex}
	defer func() { observe(ctx, s.observer, "start-session", startedAt, fields, err) }()

	var errs app.ValidationErrors
	if req.UserID == "" {
		errs.Add("user_id", app.ValidationMissingField, "user id is required")
	}
	if req.DayIndex < 0 {
		errs.Add("day_index", app.ValidationOutOfRange, "day index cannot be negative")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	now := nowOr(req.Now)

	var st *sessionState
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteRepos(tx)
		program, err := repos.Programs.GetActive(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return sessionErr(app.SessionErrNoActiveProgram, "user %s has no active program", req.UserID)
			}
			return err
		}
		day, err := program.Day(req.DayIndex)
		if err != nil {
			return app.ValidationErrors{{Field: "day_index", Code: app.ValidationOutOfRange, Message: err.Error()}}
		}
		open, err := repos.Sessions.GetOpen(ctx, req.UserID)
		switch {
		case err == nil:
			return sessionErr(app.SessionErrAlreadyOpen, "session %s is still in progress", open.ID)
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		session := &domain.WorkoutSession{
			ID:        uuid.New().String(),
			UserID:    req.UserID,
			ProgramID: program.ID,
			DayIndex:  req.DayIndex,
			DayName:   day.DayName,
			Status:    domain.SessionInProgress,
			StartedAt: now,
			UpdatedAt: now,
		}
		if err := repos.Sessions.Create(ctx, session); err != nil {
			return err
		}
		st = &sessionState{session: session, program: program, day: day}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["session_id"] = st.session.ID
	return st.view(), nil
}

// Resume returns the user's open session with its persisted logs merged in.
func (s *workoutService) Resume(ctx context.Context, userID string) (*app.SessionView, error) {
	session, err := s.repos.Sessions.GetOpen(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, sessionErr(app.SessionErrNotFound, "user %s has no session in progress", userID)
		}
		return nil, err
	}
	return s.Get(ctx, session.ID)
}

func (s *workoutService) Get(ctx context.Context, sessionID string) (*app.SessionView, error) {
	st, err := loadSessionState(ctx, s.repos, sessionID)
	if err != nil {
		return nil, err
	}
	return st.view(), nil
}

func (s *workoutService) LogSet(ctx context.Context, req app.LogSetRequest) (resp *app.LogSetResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": req.SessionID, "exercise_index": req.ExerciseIndex, "set_number": req.SetNumber}
	defer func() { observe(ctx, s.observer, "log-set", startedAt, fields, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := nowOr(req.Now)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteRepos(tx)
		st, err := loadSessionState(ctx, repos, req.SessionID)
		if err != nil {
			return err
		}
		if err := st.requireOpen(); err != nil {
			return err
		}
		ex, err := st.exercise(req.ExerciseIndex)
		if err != nil {
			return err
		}
		rpe, err := adaptation.ResolveRPE(st.program.Level, req.RPE, req.RIR)
		if err != nil {
			return app.ValidationErrors{{Field: "rpe", Code: app.ValidationInvalidRPE, Message: err.Error()}}
		}

		log := domain.SetLog{
			ID:            uuid.New().String(),
			SessionID:     st.session.ID,
			UserID:        st.session.UserID,
			ExerciseName:  ex.Name,
			ExerciseIndex: req.ExerciseIndex,
			SetNumber:     req.SetNumber,
			RepsCompleted: req.RepsCompleted,
			TargetReps:    ex.TargetRepsForSet(req.SetNumber),
			WeightUsed:    req.WeightUsed,
			RPE:           rpe,
			RIR:           req.RIR,
			Adjusted:      adjustedBefore(st.session, req.ExerciseIndex, req.SetNumber),
			Timestamp:     now,
		}

		// A resubmitted set is a no-op when identical and a conflict otherwise.
		existing, err := repos.SetLogs.Get(ctx, st.session.ID, log.Key())
		switch {
		case err == nil:
			if !existing.SamePayload(log) {
				return sessionErr(app.SessionErrConflictingSet, "set %d of exercise %d is already logged with different values", req.SetNumber, req.ExerciseIndex)
			}
			resp = &app.LogSetResponse{Log: existing, Duplicate: true, Session: st.view()}
			return nil
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		if ex.Skip {
			return sessionErr(app.SessionErrInvalidExercise, "%s is skipped: %s", ex.Name, ex.SkipReason)
		}
		if req.SetNumber > ex.Sets {
			return sessionErr(app.SessionErrInvalidExercise, "%s has %d sets", ex.Name, ex.Sets)
		}
		if last := st.lastLogged(req.ExerciseIndex); req.SetNumber < last {
			oo := &domain.ErrSetOutOfOrder{ExerciseIndex: req.ExerciseIndex, SetNumber: req.SetNumber, LastLogged: last}
			return sessionErr(app.SessionErrOutOfOrderSet, "%s", oo.Error())
		}
		if p := st.session.Pending; p != nil && p.Kind == domain.PendingSubstitution && p.ExerciseIndex == req.ExerciseIndex {
			return sessionErr(app.SessionErrPendingUnresolved, "accept or dismiss the substitution for %s first", ex.Name)
		}

		inserted, err := repos.SetLogs.Append(ctx, &log)
		if err != nil {
			return err
		}
		if !inserted {
			return sessionErr(app.SessionErrConflictingSet, "set %d of exercise %d was logged concurrently", req.SetNumber, req.ExerciseIndex)
		}
		st.logs = append(st.logs, log)

		// Logging past a pending proposal dismisses it.
		if p := st.session.Pending; p != nil && p.Kind == domain.PendingAutoRegulation {
			st.session.Pending = nil
		}

		adj, err := s.engines.AutoReg.Evaluate(adaptation.SetFeedback{
			ExerciseName: ex.Name,
			SetNumber:    req.SetNumber,
			PlannedSets:  ex.Sets,
			TargetReps:   log.TargetReps,
			RestSec:      ex.RestSec,
			RPE:          rpe,
		})
		if err != nil {
			return err
		}
		switch {
		case adj.Changes():
			st.session.Pending = &domain.PendingDecision{
				Kind:          domain.PendingAutoRegulation,
				ExerciseIndex: req.ExerciseIndex,
				SetNumber:     req.SetNumber,
				Adjustment:    &adj,
				Reason:        adj.Message,
			}
		case adj.Type == domain.AdjustAdvisory:
			st.session.AddAdvisory(adj.Message)
		}
		st.session.UpdatedAt = now
		if err := repos.Sessions.Update(ctx, st.session); err != nil {
			return err
		}

		observability.RecordAdjustment(string(adj.Type))
		resp = &app.LogSetResponse{Log: &log, Adjustment: &adj, Session: st.view()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["duplicate"] = resp.Duplicate
	fields["rpe"] = resp.Log.RPE
	if resp.Adjustment != nil {
		fields["adjustment"] = string(resp.Adjustment.Type)
	}
	return resp, nil
}

// adjustedBefore reports whether an accepted auto-regulation already changed
// the exercise before this set.
func adjustedBefore(s *domain.WorkoutSession, exerciseIndex, setNumber int) bool {
	for _, d := range s.Deltas {
		if d.Kind == domain.DeltaAutoRegulation && d.ExerciseIndex == exerciseIndex && d.FromSet < setNumber {
			return true
		}
	}
	return false
}

// AcceptAdjustment applies the pending proposal to the rest of its exercise
// for this session only.
func (s *workoutService) AcceptAdjustment(ctx context.Context, sessionID string) (*app.SessionView, error) {
	return s.resolvePending(ctx, sessionID, true)
}

// DismissAdjustment drops the pending proposal; the session continues on the
// unchanged plan.
func (s *workoutService) DismissAdjustment(ctx context.Context, sessionID string) (*app.SessionView, error) {
	return s.resolvePending(ctx, sessionID, false)
}

func (s *workoutService) resolvePending(ctx context.Context, sessionID string, accept bool) (view *app.SessionView, err error) {
	startedAt := time.Now()
	name := "dismiss-adjustment"
	if accept {
		name = "accept-adjustment"
	}
	fields := map[string]any{"session_id": sessionID}
	defer func() { observe(ctx, s.observer, name, startedAt, fields, err) }()

	now := time.Now().UTC()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteRepos(tx)
		st, err := loadSessionState(ctx, repos, sessionID)
		if err != nil {
			return err
		}
		if err := st.requireOpen(); err != nil {
			return err
		}
		p := st.session.Pending
		if p == nil {
			return sessionErr(app.SessionErrNoPending, "session %s has nothing pending", sessionID)
		}
		fields["kind"] = string(p.Kind)

		if accept {
			switch p.Kind {
			case domain.PendingAutoRegulation:
				st.session.AddDelta(domain.SessionDelta{
					Kind:          domain.DeltaAutoRegulation,
					ExerciseIndex: p.ExerciseIndex,
					FromSet:       p.SetNumber,
					Sets:          p.Adjustment.NewSets,
					Reps:          p.Adjustment.NewReps,
					RestSec:       p.Adjustment.NewRestSec,
					Reason:        p.Adjustment.Message,
					CreatedAt:     now,
				})
			case domain.PendingSubstitution:
				replacement := p.Candidate.Variant
				st.session.AddDelta(domain.SessionDelta{
					Kind:          domain.DeltaSubstitution,
					ExerciseIndex: p.ExerciseIndex,
					Pattern:       replacement.Pattern,
					Replacement:   &replacement,
					Reason:        p.Reason,
					CreatedAt:     now,
				})
			}
		}
		st.session.Pending = nil
		st.session.UpdatedAt = now
		if err := repos.Sessions.Update(ctx, st.session); err != nil {
			return err
		}
		view = st.view()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *workoutService) SkipExercise(ctx context.Context, req app.SkipExerciseRequest) (view *app.SessionView, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": req.SessionID, "exercise_index": req.ExerciseIndex}
	defer func() { observe(ctx, s.observer, "skip-exercise", startedAt, fields, err) }()

	now := nowOr(req.Now)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteRepos(tx)
		st, err := loadSessionState(ctx, repos, req.SessionID)
		if err != nil {
			return err
		}
		if err := st.requireOpen(); err != nil {
			return err
		}
		ex, err := st.exercise(req.ExerciseIndex)
		if err != nil {
			return err
		}
		if ex.Skip {
			view = st.view()
			return nil
		}
		reason := req.Reason
		if reason == "" {
			reason = "skipped by user"
		}
		st.session.AddDelta(domain.SessionDelta{
			Kind:          domain.DeltaSkip,
			ExerciseIndex: req.ExerciseIndex,
			Pattern:       ex.Pattern,
			Reason:        reason,
			CreatedAt:     now,
		})
		if p := st.session.Pending; p != nil && p.ExerciseIndex == req.ExerciseIndex {
			st.session.Pending = nil
		}
		st.session.UpdatedAt = now
		if err := repos.Sessions.Update(ctx, st.session); err != nil {
			return err
		}
		view = st.view()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Finalize closes the session, records its weekly volume and folds it into
// pain memory in one transaction. Repeating it writes nothing.
func (s *workoutService) Finalize(ctx context.Context, req app.FinalizeSessionRequest) (resp *app.FinalizeSessionResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"session_id": req.SessionID, "aborted": req.Aborted}
	defer func() { observe(ctx, s.observer, "finalize-session", startedAt, fields, err) }()

	now := nowOr(req.Now)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := repository.NewSQLiteRepos(tx)
		st, err := loadSessionState(ctx, repos, req.SessionID)
		if err != nil {
			return err
		}
		if st.session.Finalized() {
			resp = &app.FinalizeSessionResponse{Session: st.session, AlreadyFinalized: true}
			return nil
		}

		view := st.view()
		completed := 0
		for i, ex := range view.Exercises {
			if !ex.Skip && view.LoggedSets[i] >= ex.Sets {
				completed++
			}
		}
		st.session.Finalize(req.Aborted, completed, now)

		volume := s.engines.Volume.SessionVolume(view.Exercises, st.logs)
		if _, err := repos.Volume.RecordSessionVolume(ctx, st.session.ID, st.session.UserID, domain.WeekStart(st.session.StartedAt), volume); err != nil {
			return err
		}

		memory, _, err := loadPainMemory(ctx, repos.PainMemory, st.session.UserID, s.logger)
		if err != nil {
			return err
		}
		outcome := adaptation.BuildOutcome(s.engines.Catalog, st.session, view.Exercises, view.LoggedSets, now)
		alerts := memory.Apply(outcome)
		if _, err := repos.PainMemory.Save(ctx, memory); err != nil {
			return err
		}
		for _, a := range alerts {
			st.session.AddAdvisory(a.Message)
		}

		if err := repos.Sessions.Update(ctx, st.session); err != nil {
			return err
		}
		resp = &app.FinalizeSessionResponse{Session: st.session, Volume: volume, Alerts: alerts}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["already_finalized"] = resp.AlreadyFinalized
	if !resp.AlreadyFinalized {
		fields["status"] = string(resp.Session.Status)
		fields["exercises_completed"] = resp.Session.ExercisesCompleted
		observability.RecordSessionFinalized(string(resp.Session.Status))
		if len(resp.Alerts) > 0 {
			s.logger.InfoContext(ctx, "pain memory alerts raised", "session_id", req.SessionID, "alerts", len(resp.Alerts))
		}
	}
	return resp, nil
}
