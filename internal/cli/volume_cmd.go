package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newVolumeCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volume",
		Short: "Weekly training volume against landmarks",
	}
	cmd.AddCommand(newVolumeShowCmd(a))
	return cmd
}

func newVolumeShowCmd(a *App) *cobra.Command {
	var week string
	var lookback int
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show sets per muscle group and next week's recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.VolumeReportRequest{UserID: a.UserID, Lookback: lookback}
			if week != "" {
				t, err := time.Parse(time.DateOnly, week)
				if err != nil {
					return fmt.Errorf("--week must be YYYY-MM-DD: %w", err)
				}
				req.Week = &t
			}
			resp, err := a.Volume.Report(cmd.Context(), req)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatVolumeReport(resp, a.Landmarks))
			return nil
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "Any date in the week to report (default this week)")
	cmd.Flags().IntVar(&lookback, "lookback", 0, "Completed weeks of history to consider")
	return cmd
}
