package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/repository"
)

// FormatProgram renders a program with one table per training day.
func FormatProgram(p *domain.Program) string {
	var b strings.Builder
	b.WriteString(Bold(p.Name) + "\n")
	if p.Description != "" {
		b.WriteString(Dim(p.Description) + "\n")
	}
	b.WriteString(fmt.Sprintf("%s  %s  %s  %d days/week  %d weeks\n",
		StylePurple.Render(string(p.Goal)),
		StyleBlue.Render(string(p.Level)),
		Dim(string(p.Location)),
		p.DaysPerWeek, p.TotalWeeks))
	if p.IncludesDeload {
		b.WriteString(Dim(fmt.Sprintf("Deload every %d weeks", p.DeloadFrequency)) + "\n")
	}
	if p.Progression.Description != "" {
		b.WriteString(Dim("Progression: "+p.Progression.Description) + "\n")
	}
	if len(p.Flags) > 0 {
		b.WriteString(StyleYellow.Render("Flags: "+strings.Join(p.Flags, ", ")) + "\n")
	}

	for i, day := range p.WeeklySchedule {
		b.WriteString("\n")
		title := fmt.Sprintf("Day %d: %s", i+1, day.DayName)
		if day.Focus != "" {
			title += " (" + day.Focus + ")"
		}
		b.WriteString(Header(title) + "\n")
		b.WriteString(RenderTable(exerciseHeaders, exerciseRows(day.Exercises, nil)))
	}
	return RenderBox("Program", b.String())
}

var exerciseHeaders = []string{"#", "EXERCISE", "SETS", "REPS", "LOAD", "REST", "INTENSITY", "NOTES"}

// exerciseRows renders exercise instances; logged, when non-nil, adds a
// done/total column value to the sets cell.
func exerciseRows(exercises []domain.ExerciseInstance, logged map[int]int) [][]string {
	rows := make([][]string, 0, len(exercises))
	for i, e := range exercises {
		name := e.Name
		if e.LowConfidence {
			name += StyleYellow.Render(" *")
		}
		sets := strconv.Itoa(e.Sets)
		if logged != nil {
			sets = fmt.Sprintf("%d/%d", logged[i], e.Sets)
		}
		load := FormatWeight(e.WeightKg)
		if e.LoadFactor > 0 && e.LoadFactor < 1 {
			load += StyleYellow.Render(fmt.Sprintf(" x%.2f", e.LoadFactor))
		}
		notes := e.Notes
		if e.Skip {
			name = StyleDim.Render(e.Name + " (skipped)")
			notes = e.SkipReason
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			name,
			sets,
			e.Reps,
			load,
			FormatRest(e.RestSec),
			e.Intensity,
			Dim(notes),
		})
	}
	return rows
}

// FormatGenerated renders a generation response: the program plus warnings
// and the volume actions that shaped it.
func FormatGenerated(resp *app.GenerateProgramResponse) string {
	var b strings.Builder
	b.WriteString(FormatProgram(resp.Program))
	b.WriteString("\n")
	if resp.Degraded {
		b.WriteString(StyleYellow.Render("Stored training state was unreadable; defaults were used. A re-assessment is recommended.") + "\n")
	}
	for _, w := range resp.Warnings {
		b.WriteString(StyleYellow.Render("! ") + w + "\n")
	}
	for _, g := range sortedKeys(resp.VolumeActions) {
		if a := resp.VolumeActions[g]; a != domain.VolumeHold {
			b.WriteString(Dim(fmt.Sprintf("volume %s: %s", g, a)) + "\n")
		}
	}
	return b.String()
}

// FormatProgramList renders stored programs, newest first as given.
func FormatProgramList(programs []repository.ProgramSummary) string {
	if len(programs) == 0 {
		return "No programs found.\n"
	}
	headers := []string{"ID", "NAME", "GOAL", "LEVEL", "CREATED", ""}
	rows := make([][]string, 0, len(programs))
	for _, p := range programs {
		active := ""
		if p.Active {
			active = StyleGreen.Render("● active")
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			p.Name,
			string(p.Goal),
			string(p.Level),
			HumanDate(p.CreatedAt),
			active,
		})
	}
	return RenderBox("Programs", RenderTable(headers, rows))
}
