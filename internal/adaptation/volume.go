package adaptation

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/domain"
)

// DefaultLandmarks are weekly set landmarks per muscle group.
var DefaultLandmarks = map[domain.MuscleGroup]domain.VolumeLandmarks{
	domain.MuscleQuads:      {MEV: 8, MAV: 16, MRV: 20},
	domain.MuscleGlutes:     {MEV: 6, MAV: 14, MRV: 20},
	domain.MuscleHamstrings: {MEV: 6, MAV: 14, MRV: 20},
	domain.MuscleChest:      {MEV: 10, MAV: 18, MRV: 22},
	domain.MuscleUpperBack:  {MEV: 10, MAV: 18, MRV: 25},
	domain.MuscleLats:       {MEV: 10, MAV: 18, MRV: 25},
	domain.MuscleShoulders:  {MEV: 8, MAV: 18, MRV: 24},
	domain.MuscleTriceps:    {MEV: 6, MAV: 14, MRV: 20},
	domain.MuscleBiceps:     {MEV: 8, MAV: 16, MRV: 22},
	domain.MuscleCore:       {MEV: 6, MAV: 16, MRV: 25},
}

var fallbackLandmarks = domain.VolumeLandmarks{MEV: 10, MAV: 18, MRV: 23}

// lowWeeksForIncrease is how many consecutive weeks below MEV suggest more volume.
const lowWeeksForIncrease = 2

// VolumeTracker aggregates completed sets per muscle group and turns weekly
// totals into next-cycle recommendations.
type VolumeTracker struct {
	catalog   *catalog.Catalog
	landmarks map[domain.MuscleGroup]domain.VolumeLandmarks
}

func NewVolumeTracker(c *catalog.Catalog, landmarks map[domain.MuscleGroup]domain.VolumeLandmarks) *VolumeTracker {
	if landmarks == nil {
		landmarks = DefaultLandmarks
	}
	return &VolumeTracker{catalog: c, landmarks: landmarks}
}

func (t *VolumeTracker) Landmarks(g domain.MuscleGroup) domain.VolumeLandmarks {
	if l, ok := t.landmarks[g]; ok {
		return l
	}
	return fallbackLandmarks
}

// SessionVolume counts completed sets per muscle group. A set counts when at
// least one rep was completed; it counts once for every primary group of the
// exercise's pattern.
func (t *VolumeTracker) SessionVolume(exercises []domain.ExerciseInstance, logs []domain.SetLog) map[domain.MuscleGroup]int {
	out := make(map[domain.MuscleGroup]int)
	for _, l := range logs {
		if l.RepsCompleted <= 0 || l.ExerciseIndex < 0 || l.ExerciseIndex >= len(exercises) {
			continue
		}
		for _, g := range t.catalog.MuscleGroups(exercises[l.ExerciseIndex].Pattern) {
			out[g]++
		}
	}
	return out
}

// Summarize classifies weekly totals into zones, one row per group with sets,
// ordered by group name.
func (t *VolumeTracker) Summarize(userID string, weekStart time.Time, totals map[domain.MuscleGroup]int) []domain.WeeklyVolumeSummary {
	groups := make([]domain.MuscleGroup, 0, len(totals))
	for g := range totals {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })

	out := make([]domain.WeeklyVolumeSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, domain.WeeklyVolumeSummary{
			UserID:        userID,
			WeekStart:     weekStart,
			MuscleGroup:   g,
			SetsCompleted: totals[g],
			Zone:          t.Landmarks(g).Zone(totals[g]),
		})
	}
	return out
}

// Recommend derives the next-cycle action for every tracked group. weeks holds
// consecutive weekly totals, oldest first, with empty maps for untrained weeks; painGroups are groups under pain
// escalation. Above MRV or pain decreases; below MEV for two straight weeks
// without pain increases; anything else holds.
func (t *VolumeTracker) Recommend(weeks []map[domain.MuscleGroup]int, painGroups map[domain.MuscleGroup]bool) map[domain.MuscleGroup]domain.VolumeRecommendation {
	out := make(map[domain.MuscleGroup]domain.VolumeRecommendation)
	for g := range t.trackedGroups(weeks, painGroups) {
		l := t.Landmarks(g)
		rec := domain.VolumeRecommendation{MuscleGroup: g, Action: domain.VolumeHold, Reason: "within landmarks"}
		latest := 0
		if len(weeks) > 0 {
			latest = weeks[len(weeks)-1][g]
		}

		switch {
		case painGroups[g]:
			rec.Action = domain.VolumeDecrease
			rec.Reason = "pain escalation on this group"
		case len(weeks) > 0 && l.Zone(latest) == domain.ZoneAboveMRV:
			rec.Action = domain.VolumeDecrease
			rec.Reason = fmt.Sprintf("%d sets last week is above MRV (%d)", latest, l.MRV)
		case lowStreak(weeks, g, l) >= lowWeeksForIncrease:
			rec.Action = domain.VolumeIncrease
			rec.Reason = fmt.Sprintf("below MEV (%d) for %d consecutive weeks", l.MEV, lowStreak(weeks, g, l))
		}
		out[g] = rec
	}
	return out
}

// Actions reduces recommendations to the map the planner consumes.
func Actions(recs map[domain.MuscleGroup]domain.VolumeRecommendation) map[domain.MuscleGroup]domain.VolumeAction {
	out := make(map[domain.MuscleGroup]domain.VolumeAction, len(recs))
	for g, r := range recs {
		out[g] = r.Action
	}
	return out
}

// PainGroups maps escalating pain areas onto the muscle groups they affect.
func PainGroups(c *catalog.Catalog, memory *domain.PainMemory) map[domain.MuscleGroup]bool {
	out := make(map[domain.MuscleGroup]bool)
	if memory == nil {
		return out
	}
	for _, area := range memory.EscalatingAreas() {
		for _, g := range c.GroupsForArea(area) {
			out[g] = true
		}
	}
	return out
}

func (t *VolumeTracker) trackedGroups(weeks []map[domain.MuscleGroup]int, painGroups map[domain.MuscleGroup]bool) map[domain.MuscleGroup]bool {
	set := make(map[domain.MuscleGroup]bool)
	for g := range t.landmarks {
		set[g] = true
	}
	for _, w := range weeks {
		for g := range w {
			set[g] = true
		}
	}
	for g := range painGroups {
		set[g] = true
	}
	return set
}

// lowStreak counts trailing trained weeks below MEV. A week with no training
// at all ends the streak.
func lowStreak(weeks []map[domain.MuscleGroup]int, g domain.MuscleGroup, l domain.VolumeLandmarks) int {
	n := 0
	for i := len(weeks) - 1; i >= 0; i-- {
		if len(weeks[i]) == 0 || weeks[i][g] >= l.MEV {
			break
		}
		n++
	}
	return n
}
