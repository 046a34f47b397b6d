package cli

import (
	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/cli/formatter"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/spf13/cobra"
)

func newProgressionCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progression",
		Short: "Drive the strength progression of a movement pattern",
	}
	cmd.AddCommand(
		newProgressionRecordCmd(a),
		newProgressionRetestCmd(a),
		newProgressionShowCmd(a),
	)
	return cmd
}

func newProgressionRecordCmd(a *App) *cobra.Command {
	var pattern string
	var maxReps int
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a max-reps set on the current variant",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.Progression.RecordMaxReps(cmd.Context(), app.MaxRepsRequest{
				UserID:  a.UserID,
				Pattern: pattern,
				MaxReps: maxReps,
			})
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatProgression(resp))
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "Movement pattern")
	cmd.Flags().IntVar(&maxReps, "max-reps", 0, "Reps achieved")
	_ = cmd.MarkFlagRequired("pattern")
	_ = cmd.MarkFlagRequired("max-reps")
	return cmd
}

func newProgressionRetestCmd(a *App) *cobra.Command {
	var pattern string
	var reps int
	cmd := &cobra.Command{
		Use:   "retest",
		Short: "Record the retest on a proposed harder variant",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.Progression.RecordRetest(cmd.Context(), app.RetestRequest{
				UserID:  a.UserID,
				Pattern: pattern,
				Reps:    reps,
			})
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatProgression(resp))
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "Movement pattern")
	cmd.Flags().IntVar(&reps, "reps", 0, "Reps achieved on the harder variant")
	_ = cmd.MarkFlagRequired("pattern")
	_ = cmd.MarkFlagRequired("reps")
	return cmd
}

func newProgressionShowCmd(a *App) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the progression state of a pattern",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.Progression.Current(cmd.Context(), a.UserID, domain.MovementPattern(pattern))
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatProgression(resp))
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "Movement pattern")
	_ = cmd.MarkFlagRequired("pattern")
	return cmd
}
