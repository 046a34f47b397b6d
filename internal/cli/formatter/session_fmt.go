package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/domain"
)

// FormatSession renders the runtime plan of a session with logged progress,
// the decision awaiting the user, and any advisories.
func FormatSession(v *app.SessionView) string {
	s := v.Session
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", Bold(s.DayName), StatusPill(s.Status), TruncID(s.ID)))
	b.WriteString(Dim("Started "+HumanTimestamp(s.StartedAt)) + "\n\n")
	b.WriteString(RenderTable(exerciseHeaders, exerciseRows(v.Exercises, v.LoggedSets)))

	if s.Status == domain.SessionInProgress {
		if idx, set, ok := v.NextSet(); ok {
			b.WriteString("\n" + StyleBlue.Render(fmt.Sprintf("Next: %s set %d", v.Exercises[idx].Name, set)) + "\n")
		} else {
			b.WriteString("\n" + StyleGreen.Render("All planned sets logged. Finish the session when ready.") + "\n")
		}
	} else {
		b.WriteString(fmt.Sprintf("\n%d exercises completed in %s\n", s.ExercisesCompleted, FormatDuration(s.DurationSec)))
	}
	if s.Pending != nil {
		b.WriteString("\n" + FormatPending(s.Pending) + "\n")
	}
	if len(s.Advisories) > 0 {
		b.WriteString("\n")
		for _, a := range s.Advisories {
			b.WriteString(StyleYellow.Render("! ") + a + "\n")
		}
	}
	return RenderBox("Session", b.String())
}

// FormatPending describes a decision waiting for accept or dismiss.
func FormatPending(p *domain.PendingDecision) string {
	var what string
	switch p.Kind {
	case domain.PendingAutoRegulation:
		a := p.Adjustment
		what = fmt.Sprintf("%s after set %d: %d sets x %d reps, rest %s", a.Type, p.SetNumber, a.NewSets, a.NewReps, FormatRest(a.NewRestSec))
		if a.Message != "" {
			what += Dim(" (" + a.Message + ")")
		}
	case domain.PendingSubstitution:
		c := p.Candidate
		what = fmt.Sprintf("substitute %s %s (score %.0f)", c.Variant.Name, ConfidencePill(c.Confidence), c.Score)
	}
	if p.Reason != "" && p.Kind == domain.PendingSubstitution {
		what += "\n  " + Dim(p.Reason)
	}
	return StylePurple.Render("? ") + fmt.Sprintf("exercise %d: ", p.ExerciseIndex) + what +
		"\n  " + Dim("repforge session accept | repforge session dismiss")
}

// FormatLogSet confirms a logged set and shows the auto-regulation outcome.
func FormatLogSet(resp *app.LogSetResponse) string {
	l := resp.Log
	var b strings.Builder
	verb := "Logged"
	if resp.Duplicate {
		verb = "Already logged"
	}
	b.WriteString(fmt.Sprintf("%s %s set %d: %d/%d reps @ RPE %d, %s\n",
		verb, l.ExerciseName, l.SetNumber, l.RepsCompleted, l.TargetReps, l.RPE, FormatWeight(l.WeightUsed)))
	if a := resp.Adjustment; a != nil {
		switch a.Type {
		case domain.AdjustAdvisory:
			b.WriteString(StyleYellow.Render("! ") + a.Message + "\n")
		case domain.AdjustReduce, domain.AdjustIncrease:
			if p := resp.Session.Session.Pending; p != nil {
				b.WriteString(FormatPending(p) + "\n")
			}
		}
	}
	return b.String()
}

// FormatPainCheck renders a pain assessment and the session changes it made.
func FormatPainCheck(resp *app.PainCheckResponse) string {
	a := resp.Assessment
	var b strings.Builder
	if a.CanProceedWithWorkout {
		b.WriteString(StyleGreen.Render("● OK to continue") + "\n")
	} else {
		b.WriteString(StyleRed.Render("✖ Stop loading the affected areas today") + "\n")
	}
	if a.RequiresMedicalAttention {
		b.WriteString(StyleRed.Render("Seek medical attention before loading this area again.") + "\n")
	}
	for _, d := range a.Decisions {
		b.WriteString(fmt.Sprintf("%s %s: %s\n",
			SeverityStyle(d.Severity).Render(fmt.Sprintf("%d/10", d.Severity)), d.Area, d.Action))
	}
	for _, r := range a.Recommendations {
		b.WriteString(Dim("  "+r) + "\n")
	}
	if len(resp.Deltas) > 0 {
		b.WriteString("\n" + Header("Session changes") + "\n")
		for _, d := range resp.Deltas {
			b.WriteString(fmt.Sprintf("- %s: %s\n", d.Kind, d.Reason))
		}
	}
	if p := resp.Session.Session.Pending; p != nil && p.Kind == domain.PendingSubstitution {
		b.WriteString("\n" + FormatPending(p) + "\n")
	}
	return b.String()
}

// FormatFinalize summarises a finished session.
func FormatFinalize(resp *app.FinalizeSessionResponse) string {
	s := resp.Session
	var b strings.Builder
	if resp.AlreadyFinalized {
		b.WriteString(Dim("Session was already finalized.") + "\n")
	}
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", Bold(s.DayName), StatusPill(s.Status), FormatDuration(s.DurationSec)))
	b.WriteString(fmt.Sprintf("%d exercises completed\n", s.ExercisesCompleted))
	if len(resp.Volume) > 0 {
		parts := make([]string, 0, len(resp.Volume))
		for _, g := range sortedKeys(resp.Volume) {
			parts = append(parts, fmt.Sprintf("%s %d", g, resp.Volume[g]))
		}
		b.WriteString(Dim("Sets: "+strings.Join(parts, ", ")) + "\n")
	}
	for _, a := range resp.Alerts {
		b.WriteString(StyleYellow.Render("! ") + a.Message + "\n")
	}
	return RenderBox("Session finished", b.String())
}
