package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/cli/formatter"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newProgramCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "program",
		Short: "Generate and inspect training programs",
	}
	cmd.AddCommand(
		newProgramGenerateCmd(a),
		newProgramShowCmd(a),
		newProgramListCmd(a),
	)
	return cmd
}

func newProgramGenerateCmd(a *App) *cobra.Command {
	var req app.GenerateProgramRequest
	var assess assessmentFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new program, superseding the active one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Goal == "" && a.interactive() {
				if err := programWizard(&req).Run(); err != nil {
					return err
				}
			}
			req.UserID = a.UserID
			assessment, err := assess.assessment(cmd.Flags())
			if err != nil {
				return err
			}
			req.Assessment = assessment
			req.BodyComposition = assess.bodyComposition(cmd.Flags())

			resp, err := a.Programs.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatGenerated(resp))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&req.Goal, "goal", "", "Training goal")
	fs.StringVar(&req.Level, "level", "", "Level override (beginner, intermediate, advanced)")
	fs.StringVar(&req.Location, "location", "", "Where you train (home, gym)")
	fs.IntVar(&req.Frequency, "frequency", 3, "Training days per week (1-6)")
	fs.StringSliceVar(&req.Equipment, "equipment", nil, "Available equipment")
	fs.StringToIntVar(&req.PainAreas, "pain", nil, "Current pain as area=severity")
	fs.StringVar(&req.DisabilityType, "disability", "", "Disability type, if any")
	fs.StringVar(&req.SportRole, "sport-role", "", "Sport role for performance goals")
	fs.StringSliceVar(&req.SpecificBodyParts, "body-part", nil, "Body parts to emphasise")
	assess.register(fs)
	return cmd
}

// programWizard asks for the fields generate cannot default.
func programWizard(req *app.GenerateProgramRequest) *huh.Form {
	goals := make([]huh.Option[string], 0, len(domain.AllGoals))
	for _, g := range domain.AllGoals {
		goals = append(goals, huh.NewOption(string(g), string(g)))
	}
	freq := make([]huh.Option[int], 0, 6)
	for n := 1; n <= 6; n++ {
		freq = append(freq, huh.NewOption(strconv.Itoa(n)+" days", n))
	}
	if req.Location == "" {
		req.Location = string(domain.LocationGym)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Goal").Options(goals...).Value(&req.Goal),
			huh.NewSelect[string]().Title("Location").Options(
				huh.NewOption("Gym", string(domain.LocationGym)),
				huh.NewOption("Home", string(domain.LocationHome)),
			).Value(&req.Location),
			huh.NewSelect[int]().Title("Days per week").Options(freq...).Value(&req.Frequency),
		),
	).WithTheme(repforgeHuhTheme()).WithShowHelp(false)
}

func newProgramShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active program",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.Programs.Active(cmd.Context(), a.UserID)
			if err != nil {
				return fmt.Errorf("no active program for %s: %w", a.UserID, err)
			}
			printOut(cmd, formatter.FormatProgram(p))
			return nil
		},
	}
}

func newProgramListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			programs, err := a.Programs.List(cmd.Context(), a.UserID)
			if err != nil {
				return err
			}
			printOut(cmd, formatter.FormatProgramList(programs))
			return nil
		},
	}
}
