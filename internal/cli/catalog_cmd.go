package cli

import (
	"fmt"

	"github.com/alexanderramin/repforge/internal/cli/formatter"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the exercise catalog",
	}
	cmd.AddCommand(newCatalogListCmd(a))
	return cmd
}

func newCatalogListCmd(a *App) *cobra.Command {
	var pattern, location string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exercise variants by pattern and difficulty",
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := domain.AllPatterns
			if pattern != "" {
				p := domain.MovementPattern(pattern)
				if !p.Valid() {
					return fmt.Errorf("unknown pattern %q", pattern)
				}
				patterns = []domain.MovementPattern{p}
			}
			var where domain.Location
			if location != "" {
				l, err := domain.ParseLocation(location)
				if err != nil {
					return err
				}
				where = l
			}

			out := make(map[domain.MovementPattern][]domain.ExerciseVariant, len(patterns))
			for _, p := range patterns {
				for _, v := range a.Catalog.ForPattern(p) {
					if where == "" || v.Location.Supports(where) {
						out[p] = append(out[p], v)
					}
				}
			}
			printOut(cmd, formatter.FormatCatalog(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "Only this movement pattern")
	cmd.Flags().StringVar(&location, "location", "", "Only variants usable at home or gym")
	return cmd
}
