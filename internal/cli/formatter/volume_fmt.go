package formatter

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/alexanderramin/repforge/internal/domain"
)

// LandmarkFunc looks up the volume landmarks of a muscle group.
type LandmarkFunc func(domain.MuscleGroup) domain.VolumeLandmarks

// FormatVolumeReport renders the week's sets per muscle group against its
// landmarks, followed by next week's recommendations.
func FormatVolumeReport(resp *app.VolumeReportResponse, landmarks LandmarkFunc) string {
	var b strings.Builder
	b.WriteString(Dim("Week of "+resp.WeekStart.Format("Jan 2, 2006")) + "\n\n")

	if len(resp.Summary) == 0 {
		b.WriteString("No sets logged this week.\n")
	} else {
		headers := []string{"MUSCLE", "SETS", "MEV/MAV/MRV", "ZONE", ""}
		rows := make([][]string, 0, len(resp.Summary))
		for _, s := range resp.Summary {
			l := landmarks(s.MuscleGroup)
			rows = append(rows, []string{
				string(s.MuscleGroup),
				strconv.Itoa(s.SetsCompleted),
				Dim(fmt.Sprintf("%d/%d/%d", l.MEV, l.MAV, l.MRV)),
				ZoneStyle(s.Zone).Render(string(s.Zone)),
				RenderVolumeBar(s.SetsCompleted, l, 16),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}

	if len(resp.Recommendations) > 0 {
		b.WriteString("\n" + Header("Next week") + "\n")
		for _, g := range sortedKeys(resp.Recommendations) {
			r := resp.Recommendations[g]
			b.WriteString(fmt.Sprintf("%-12s %s  %s\n", g, actionLabel(r.Action), Dim(r.Reason)))
		}
	}
	return RenderBox("Volume", b.String())
}

func actionLabel(a domain.VolumeAction) string {
	switch a {
	case domain.VolumeIncrease:
		return StyleGreen.Render("▲ increase")
	case domain.VolumeDecrease:
		return StyleRed.Render("▼ decrease")
	default:
		return StyleDim.Render("● hold")
	}
}

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}
