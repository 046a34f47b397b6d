package cli

import (
	"errors"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBaselineCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Record and inspect assessment baselines",
	}
	cmd.AddCommand(newBaselineSetCmd(a), newBaselineListCmd(a))
	return cmd
}

func newBaselineSetCmd(a *App) *cobra.Command {
	var declared string
	var assess assessmentFlags

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Record an assessment and store its baselines",
		Example: `  repforge baseline set --quiz 60 --test horizontal_push:pushup:15
  repforge baseline set --test lower_push:back_squat:5:80`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := assess.assessment(cmd.Flags())
			if err != nil {
				return err
			}
			if in == nil && declared == "" {
				return errors.New("nothing to record: pass --level, --quiz, --physical or --test")
			}
			req := app.AssessBaselineRequest{
				UserID:          a.UserID,
				DeclaredLevel:   declared,
				BodyComposition: assess.bodyComposition(cmd.Flags()),
			}
			if in != nil {
				req.Assessment = *in
			}
			resp, err := a.Baselines.Assess(cmd.Context(), req)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatAssessment(resp))
			return nil
		},
	}
	cmd.Flags().StringVar(&declared, "level", "", "Declared level; overrides the computed one")
	assess.register(cmd.Flags())
	return cmd
}

func newBaselineListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored baselines",
		RunE: func(cmd *cobra.Command, args []string) error {
			baselines, err := a.Baselines.List(cmd.Context(), a.UserID)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatBaselines(baselines))
			return nil
		},
	}
}
