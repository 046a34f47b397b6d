package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/alexanderramin/repforge/internal/planner"
)

// FormatBaselines renders stored baselines in pattern order.
func FormatBaselines(baselines map[domain.MovementPattern]domain.Baseline) string {
	if len(baselines) == 0 {
		return "No baselines recorded.\n"
	}
	headers := []string{"PATTERN", "VARIANT", "DIFF", "MAX REPS", "LOAD", "SOURCE", "ASSESSED"}
	var rows [][]string
	for _, p := range domain.AllPatterns {
		bl, ok := baselines[p]
		if !ok {
			continue
		}
		load := FormatWeight(bl.WeightKg)
		if bl.RMReps > 0 {
			load += Dim(fmt.Sprintf(" (%dRM)", bl.RMReps))
		}
		rows = append(rows, []string{
			string(p),
			bl.VariantID,
			strconv.Itoa(bl.Difficulty),
			strconv.Itoa(bl.MaxReps),
			load,
			Dim(string(bl.Source)),
			HumanDate(bl.AssessedAt),
		})
	}
	return RenderBox("Baselines", RenderTable(headers, rows))
}

// FormatAssessment renders the resolved level and the baselines it stored.
func FormatAssessment(resp *app.AssessBaselineResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Level: %s %s\n", StyleBlue.Render(string(resp.Level)), Dim(fmt.Sprintf("(score %.0f)", resp.Score))))
	for _, w := range resp.Warnings {
		b.WriteString(StyleYellow.Render("! ") + w + "\n")
	}
	b.WriteString(FormatBaselines(resp.Baselines))
	return b.String()
}

// FormatProgression renders a progression state and the event that changed it.
func FormatProgression(resp *app.ProgressionResponse) string {
	st := resp.State
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", Bold(st.ExerciseName), StylePurple.Render(string(st.Phase)), Dim(string(st.Pattern))))
	reps := make([]string, len(resp.Scheme))
	for i, r := range resp.Scheme {
		reps[i] = strconv.Itoa(r)
	}
	b.WriteString(fmt.Sprintf("This week: %d sets (%s)  unlock at %d reps\n", len(resp.Scheme), strings.Join(reps, "-"), st.UnlockReps))
	if resp.Event.Message != "" {
		style := StyleDim
		switch resp.Event.Kind {
		case planner.EventUnlockProposed, planner.EventSwitched:
			style = StyleGreen
		case planner.EventAccumulation, planner.EventCeiling:
			style = StyleYellow
		}
		b.WriteString(style.Render(resp.Event.Message) + "\n")
	}
	return b.String()
}
