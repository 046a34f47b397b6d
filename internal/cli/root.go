package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/cli/formatter"
	"github.com/alexanderramin/repforge/internal/service"
	"github.com/spf13/cobra"
)

const defaultUserID = "default"

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Programs    service.ProgramService
	Workouts    service.WorkoutService
	Baselines   service.BaselineService
	Progression service.ProgressionService
	Volume      service.VolumeService
	Catalog     *catalog.Catalog
	Landmarks   formatter.LandmarkFunc

	// MetricsAddr is the default listen address of serve-metrics.
	MetricsAddr string
	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool

	// UserID is bound to the --user flag.
	UserID string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "repforge" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "repforge",
		Short:         "Adaptive strength training planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	user := os.Getenv("REPFORGE_USER")
	if user == "" {
		user = defaultUserID
	}
	root.PersistentFlags().StringVar(&a.UserID, "user", user, "User the command acts for")

	root.AddCommand(
		newProgramCmd(a),
		newBaselineCmd(a),
		newProgressionCmd(a),
		newSessionCmd(a),
		newVolumeCmd(a),
		newCatalogCmd(a),
		newServeMetricsCmd(a),
	)
	return root
}

func printOut(cmd *cobra.Command, s string) {
	_, _ = io.WriteString(cmd.OutOrStdout(), s)
	if len(s) > 0 && s[len(s)-1] != '\n' {
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}
}
