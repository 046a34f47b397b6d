package domain

import (
	"fmt"
	"sort"
	"time"
)

// PainRecord is one pain report collected by a pre-, intra- or post-exercise check.
type PainRecord struct {
	Area          string     `json:"area"`
	Severity      int        `json:"severity"`
	Nature        PainNature `json:"nature"`
	Timing        PainTiming `json:"timing"`
	ExerciseIndex *int       `json:"exercise_index,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
}

func (r PainRecord) Validate() error {
	if r.Area == "" {
		return fmt.Errorf("pain record: area is required")
	}
	if r.Severity < 1 || r.Severity > 10 {
		return fmt.Errorf("pain record %s: severity %d outside [1,10]", r.Area, r.Severity)
	}
	if !r.Nature.Valid() {
		return fmt.Errorf("pain record %s: unknown nature %q", r.Area, r.Nature)
	}
	return nil
}

type PainTrend string

const (
	TrendNew       PainTrend = "new"
	TrendImproving PainTrend = "improving"
	TrendStable    PainTrend = "stable"
	TrendWorsening PainTrend = "worsening"
	TrendResolved  PainTrend = "resolved"
)

// AreaMemory is the cross-session history of one painful body area.
type AreaMemory struct {
	Trend            PainTrend `json:"trend"`
	LastSeverity     int       `json:"last_severity"`
	UnresolvedStreak int       `json:"unresolved_streak"`
	ReferralAdvised  bool      `json:"referral_advised"`
	LastReportedAt   time.Time `json:"last_reported_at"`
}

// GroupMemory tracks consecutive sessions in which a muscle group's
// exercises were skipped.
type GroupMemory struct {
	SkipStreak          int  `json:"skip_streak"`
	PreventiveReduction bool `json:"preventive_reduction"`
}

// PainMemory is per-user state carried between sessions.
type PainMemory struct {
	UserID       string                       `json:"user_id"`
	Areas        map[string]*AreaMemory       `json:"areas"`
	MuscleGroups map[MuscleGroup]*GroupMemory `json:"muscle_groups"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

func NewPainMemory(userID string) *PainMemory {
	return &PainMemory{
		UserID:       userID,
		Areas:        make(map[string]*AreaMemory),
		MuscleGroups: make(map[MuscleGroup]*GroupMemory),
	}
}

// SessionOutcome is what a finished session contributes to pain memory.
type SessionOutcome struct {
	// Worst severity reported per area during the session.
	AreaSeverity  map[string]int
	SkippedGroups map[MuscleGroup]bool
	TrainedGroups map[MuscleGroup]bool
	At            time.Time
}

// MemoryAlert is raised when a streak crosses its threshold.
type MemoryAlert struct {
	Area        string      `json:"area,omitempty"`
	MuscleGroup MuscleGroup `json:"muscle_group,omitempty"`
	Message     string      `json:"message"`
}

const (
	// ReferralStreak is the number of consecutive sessions of unresolved pain
	// in one area that triggers a referral advisory.
	ReferralStreak = 3
	// SkipStreakThreshold is the number of consecutive sessions with skipped
	// work for a muscle group that triggers preventive load reduction.
	SkipStreakThreshold = 3
)

// Apply folds one session outcome into the memory and returns new alerts.
// Outcomes older than the last update are ignored (last write wins).
func (m *PainMemory) Apply(o SessionOutcome) []MemoryAlert {
	if !m.UpdatedAt.IsZero() && !o.At.After(m.UpdatedAt) {
		return nil
	}
	if m.Areas == nil {
		m.Areas = make(map[string]*AreaMemory)
	}
	if m.MuscleGroups == nil {
		m.MuscleGroups = make(map[MuscleGroup]*GroupMemory)
	}
	var alerts []MemoryAlert

	for _, area := range m.sortedAreas(o.AreaSeverity) {
		sev, reported := o.AreaSeverity[area]
		mem := m.Areas[area]
		known := mem != nil
		if !known {
			if !reported {
				continue
			}
			mem = &AreaMemory{Trend: TrendNew}
			m.Areas[area] = mem
		}
		if !reported || sev <= 0 {
			mem.Trend = TrendResolved
			mem.UnresolvedStreak = 0
			mem.ReferralAdvised = false
			continue
		}
		if known && mem.Trend != TrendResolved {
			switch {
			case sev > mem.LastSeverity:
				mem.Trend = TrendWorsening
			case sev < mem.LastSeverity:
				mem.Trend = TrendImproving
			default:
				mem.Trend = TrendStable
			}
		} else {
			mem.Trend = TrendNew
		}
		mem.LastSeverity = sev
		mem.LastReportedAt = o.At
		mem.UnresolvedStreak++
		if mem.UnresolvedStreak >= ReferralStreak && !mem.ReferralAdvised {
			mem.ReferralAdvised = true
			alerts = append(alerts, MemoryAlert{
				Area:    area,
				Message: fmt.Sprintf("Pain in %s has persisted for %d sessions: refer to a professional", area, mem.UnresolvedStreak),
			})
		}
	}

	for _, g := range m.sortedGroups(o.SkippedGroups, o.TrainedGroups) {
		mem := m.MuscleGroups[g]
		if mem == nil {
			mem = &GroupMemory{}
			m.MuscleGroups[g] = mem
		}
		switch {
		case o.SkippedGroups[g]:
			mem.SkipStreak++
			if mem.SkipStreak >= SkipStreakThreshold && !mem.PreventiveReduction {
				mem.PreventiveReduction = true
				alerts = append(alerts, MemoryAlert{
					MuscleGroup: g,
					Message:     fmt.Sprintf("%s work skipped in %d consecutive sessions: load reduced 15%% until resolved", g, mem.SkipStreak),
				})
			}
		case o.TrainedGroups[g]:
			mem.SkipStreak = 0
			mem.PreventiveReduction = false
		}
	}

	m.UpdatedAt = o.At
	return alerts
}

// ReducedGroups returns muscle groups under preventive load reduction.
func (m *PainMemory) ReducedGroups() map[MuscleGroup]bool {
	out := make(map[MuscleGroup]bool)
	for g, mem := range m.MuscleGroups {
		if mem != nil && mem.PreventiveReduction {
			out[g] = true
		}
	}
	return out
}

// ActiveAreas returns areas whose pain has not resolved, with last severity.
func (m *PainMemory) ActiveAreas() map[string]int {
	out := make(map[string]int)
	for area, mem := range m.Areas {
		if mem != nil && mem.Trend != TrendResolved && mem.LastSeverity > 0 {
			out[area] = mem.LastSeverity
		}
	}
	return out
}

// EscalatingAreas returns areas that are worsening or flagged for referral.
func (m *PainMemory) EscalatingAreas() []string {
	var out []string
	for area, mem := range m.Areas {
		if mem != nil && (mem.Trend == TrendWorsening || mem.ReferralAdvised) {
			out = append(out, area)
		}
	}
	sort.Strings(out)
	return out
}

func (m *PainMemory) sortedAreas(reported map[string]int) []string {
	set := make(map[string]bool, len(m.Areas)+len(reported))
	for a := range m.Areas {
		set[a] = true
	}
	for a := range reported {
		set[a] = true
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func (m *PainMemory) sortedGroups(skipped, trained map[MuscleGroup]bool) []MuscleGroup {
	set := make(map[MuscleGroup]bool)
	for g := range skipped {
		set[g] = true
	}
	for g := range trained {
		set[g] = true
	}
	out := make([]MuscleGroup, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
