package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/cli/formatter"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run a workout session",
	}
	cmd.PersistentFlags().String("session", "", "Session ID (defaults to the open session)")

	cmd.AddCommand(
		newSessionStartCmd(a),
		newSessionResumeCmd(a),
		newSessionShowCmd(a),
		newSessionLogCmd(a),
		newSessionAcceptCmd(a),
		newSessionDismissCmd(a),
		newSessionPainCmd(a),
		newSessionSkipCmd(a),
		newSessionRestCmd(a),
		newSessionFinishCmd(a),
	)
	return cmd
}

// sessionID returns the --session flag, or the user's open session.
func sessionID(ctx context.Context, cmd *cobra.Command, a *App) (string, error) {
	if id, _ := cmd.Flags().GetString("session"); id != "" {
		return id, nil
	}
	view, err := a.Workouts.Resume(ctx, a.UserID)
	if err != nil {
		return "", err
	}
	return view.Session.ID, nil
}

func newSessionStartCmd(a *App) *cobra.Command {
	var day int
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a session for a day of the active program",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.Workouts.Start(cmd.Context(), app.StartSessionRequest{UserID: a.UserID, DayIndex: day - 1})
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSession(view))
			return nil
		},
	}
	cmd.Flags().IntVar(&day, "day", 1, "Program day (1-based)")
	return cmd
}

func newSessionResumeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Show the open session with everything logged so far",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := a.Workouts.Resume(cmd.Context(), a.UserID)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSession(view))
			return nil
		},
	}
}

func newSessionShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show a session, open or finished",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sessionID(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			view, err := a.Workouts.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSession(view))
			return nil
		},
	}
}

func newSessionLogCmd(a *App) *cobra.Command {
	var req app.LogSetRequest
	var rpe, rir int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a completed set",
		Example: `  repforge session log --exercise 0 --set 1 --reps 10 --rpe 8
  repforge session log --exercise 2 --set 3 --reps 6 --weight 60 --rir 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sessionID(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			req.SessionID = id
			if cmd.Flags().Changed("rpe") {
				req.RPE = &rpe
			}
			if cmd.Flags().Changed("rir") {
				req.RIR = &rir
			}
			resp, err := a.Workouts.LogSet(cmd.Context(), req)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatLogSet(resp))
			return nil
		},
	}
	fs := cmd.Flags()
	fs.IntVar(&req.ExerciseIndex, "exercise", 0, "Exercise index in the session")
	fs.IntVar(&req.SetNumber, "set", 1, "Set number (1-based)")
	fs.IntVar(&req.RepsCompleted, "reps", 0, "Reps completed")
	fs.Float64Var(&req.WeightUsed, "weight", 0, "Load in kg (0 for bodyweight)")
	fs.IntVar(&rpe, "rpe", 0, "Rate of perceived exertion (1-10)")
	fs.IntVar(&rir, "rir", 0, "Reps in reserve, converted to RPE for your level")
	cmd.MarkFlagsMutuallyExclusive("rpe", "rir")
	cmd.MarkFlagsOneRequired("rpe", "rir")
	_ = cmd.MarkFlagRequired("reps")
	return cmd
}

func newSessionAcceptCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "accept",
		Short: "Accept the pending adjustment or substitution",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sessionID(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			view, err := a.Workouts.AcceptAdjustment(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSession(view))
			return nil
		},
	}
}

func newSessionDismissCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss",
		Short: "Dismiss the pending adjustment or substitution",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sessionID(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			view, err := a.Workouts.DismissAdjustment(cmd.Context(), id)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSession(view))
			return nil
		},
	}
}

func newSessionSkipCmd(a *App) *cobra.Command {
	var req app.SkipExerciseRequest
	cmd := &cobra.Command{
		Use:   "skip",
		Short: "Skip an exercise for the rest of the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sessionID(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			req.SessionID = id
			view, err := a.Workouts.SkipExercise(cmd.Context(), req)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatSession(view))
			return nil
		},
	}
	cmd.Flags().IntVar(&req.ExerciseIndex, "exercise", 0, "Exercise index in the session")
	cmd.Flags().StringVar(&req.Reason, "reason", "", "Why the exercise is skipped")
	_ = cmd.MarkFlagRequired("exercise")
	return cmd
}

func newSessionFinishCmd(a *App) *cobra.Command {
	var aborted bool
	cmd := &cobra.Command{
		Use:   "finish",
		Short: "Finalize the session and update volume and pain history",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sessionID(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			resp, err := a.Workouts.Finalize(cmd.Context(), app.FinalizeSessionRequest{SessionID: id, Aborted: aborted})
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatFinalize(resp))
			return nil
		},
	}
	cmd.Flags().BoolVar(&aborted, "abort", false, "Mark the session aborted")
	return cmd
}

// painOptions are the flags of session pain.
type painOptions struct {
	when     string
	reports  []string
	area     string
	severity int
	nature   string
	exercise int
	set      int
	reason   string
}

func (o *painOptions) report() app.PainReportInput {
	return app.PainReportInput{Area: o.area, Severity: o.severity, Nature: o.nature}
}

func newSessionPainCmd(a *App) *cobra.Command {
	var o painOptions
	cmd := &cobra.Command{
		Use:   "pain",
		Short: "Report pain before, during or after an exercise",
		Example: `  repforge session pain --when pre --report knee:3 --report shoulder:5:joint_stiffness
  repforge session pain --when intra --exercise 1 --area knee --severity 6 --nature sharp_acute
  repforge session pain --when post --exercise 1 --set 2 --reason fatigue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sessionID(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			if o.area == "" && len(o.reports) == 0 && o.when != "post" && a.interactive() {
				if err := painForm(&o).Run(); err != nil {
					return err
				}
			}
			resp, err := runPainCheck(cmd.Context(), a, id, &o)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatPainCheck(resp))
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&o.when, "when", "pre", "Check point: pre, intra or post")
	fs.StringArrayVar(&o.reports, "report", nil, "Pre-workout report as area:severity[:nature] (repeatable)")
	fs.StringVar(&o.area, "area", "", "Painful area")
	fs.IntVar(&o.severity, "severity", 0, "Severity (1-10)")
	fs.StringVar(&o.nature, "nature", "", "Pain nature")
	fs.IntVar(&o.exercise, "exercise", 0, "Exercise index for intra and post checks")
	fs.IntVar(&o.set, "set", 0, "Set number for post checks")
	fs.StringVar(&o.reason, "reason", string(domain.ReasonPain), "Why the set was incomplete: pain, fatigue or other")
	return cmd
}

func runPainCheck(ctx context.Context, a *App, sessionID string, o *painOptions) (*app.PainCheckResponse, error) {
	switch o.when {
	case "pre":
		req := app.PreWorkoutCheckRequest{SessionID: sessionID}
		for _, raw := range o.reports {
			r, err := parsePainReport(raw)
			if err != nil {
				return nil, err
			}
			req.Reports = append(req.Reports, r)
		}
		if o.area != "" {
			req.Reports = append(req.Reports, o.report())
		}
		return a.Workouts.PreWorkoutCheck(ctx, req)
	case "intra":
		if o.area == "" {
			return nil, errors.New("intra check needs --area and --severity")
		}
		return a.Workouts.IntraExerciseCheck(ctx, app.IntraExerciseCheckRequest{
			SessionID:     sessionID,
			ExerciseIndex: o.exercise,
			Report:        o.report(),
		})
	case "post":
		req := app.PostExerciseCheckRequest{
			SessionID:     sessionID,
			ExerciseIndex: o.exercise,
			SetNumber:     o.set,
			Reason:        domain.IncompleteReason(o.reason),
		}
		if o.area != "" {
			r := o.report()
			req.Pain = &r
		}
		return a.Workouts.PostExerciseCheck(ctx, req)
	default:
		return nil, fmt.Errorf("unknown check point %q: want pre, intra or post", o.when)
	}
}
