package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/repforge/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// restModel counts down the rest interval before the next set.
type restModel struct {
	next  string
	total time.Duration
	timer timer.Model
	bar   progress.Model
	done  bool
}

func newRestModel(next string, rest time.Duration) restModel {
	return restModel{
		next:  next,
		total: rest,
		timer: timer.NewWithInterval(rest, time.Second),
		bar:   progress.New(progress.WithSolidFill(string(formatter.ColorGreen)), progress.WithoutPercentage(), progress.WithWidth(30)),
	}
}

func (m restModel) Init() tea.Cmd {
	return m.timer.Init()
}

func (m restModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c", "enter", " ":
			m.done = true
			return m, tea.Quit
		}
	case timer.TickMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd
	case timer.TimeoutMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m restModel) elapsed() float64 {
	if m.total <= 0 {
		return 1
	}
	return min(float64(m.total-m.timer.Timeout)/float64(m.total), 1)
}

func (m restModel) View() string {
	if m.done {
		return formatter.StyleGreen.Render("Rest over: "+m.next) + "\n"
	}
	return fmt.Sprintf("%s\n%s %s\n%s\n",
		formatter.Bold("Rest before "+m.next),
		m.bar.ViewAs(m.elapsed()),
		formatter.FormatRest(int(m.timer.Timeout.Seconds())),
		formatter.Dim("enter or q to skip"))
}

func newSessionRestCmd(a *App) *cobra.Command {
	var exercise int
	cmd := &cobra.Command{
		Use:   "rest",
		Short: "Count down the prescribed rest before the next set",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sessionID(cmd.Context(), cmd, a)
			if err != nil {
				return err
			}
			view, err := a.Workouts.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			idx, set, ok := view.NextSet()
			if cmd.Flags().Changed("exercise") {
				idx, set, ok = exercise, view.LoggedSets[exercise]+1, exercise >= 0 && exercise < len(view.Exercises)
			}
			if !ok {
				printOut(cmd, "Nothing left to rest for.")
				return nil
			}
			ex := view.Exercises[idx]
			next := fmt.Sprintf("%s set %d", ex.Name, set)
			rest := time.Duration(ex.RestSec) * time.Second

			if !a.interactive() || rest <= 0 {
				printOut(cmd, fmt.Sprintf("Rest %s before %s", formatter.FormatRest(ex.RestSec), next))
				return nil
			}
			_, err = tea.NewProgram(newRestModel(next, rest), tea.WithOutput(cmd.OutOrStdout()), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	cmd.Flags().IntVar(&exercise, "exercise", 0, "Exercise index (defaults to the next one due)")
	return cmd
}
