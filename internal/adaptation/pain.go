package adaptation

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/domain"
)

// PainCategory is the column of the decision table a pain nature falls in.
type PainCategory string

const (
	CategoryMild  PainCategory = "mild"
	CategorySharp PainCategory = "sharp"
)

// CategoryOf maps a nature onto the table columns. Deep ache behaves like
// soreness; unknown pain is treated as sharp until it is described.
func CategoryOf(n domain.PainNature) PainCategory {
	switch n {
	case domain.NatureMuscularSoreness, domain.NatureJointStiffness, domain.NatureDeepAche:
		return CategoryMild
	default:
		return CategorySharp
	}
}

// PainAction is the outcome of one decision-table cell.
type PainAction string

const (
	ActionContinue         PainAction = "continue"
	ActionMonitor          PainAction = "continue_monitor"
	ActionReduceLoad       PainAction = "reduce_load"
	ActionSubstitute       PainAction = "substitute"
	ActionSubstituteOrSkip PainAction = "substitute_or_skip"
	ActionSkipDeload       PainAction = "skip_recommend_deload"
	ActionStopPattern      PainAction = "stop_pattern"
)

type painRule struct {
	minSeverity int
	maxSeverity int
	category    PainCategory
	action      PainAction
}

// painTable is the severity x nature decision table.
var painTable = []painRule{
	{1, 3, CategoryMild, ActionContinue},
	{1, 3, CategorySharp, ActionMonitor},
	{4, 6, CategoryMild, ActionReduceLoad},
	{4, 6, CategorySharp, ActionSubstitute},
	{7, 8, CategoryMild, ActionSubstituteOrSkip},
	{7, 8, CategorySharp, ActionSkipDeload},
	{9, 10, CategoryMild, ActionSkipDeload},
	{9, 10, CategorySharp, ActionStopPattern},
}

const (
	minLoadReductionPct  = 15.0
	loadReductionStepPct = 7.5
	nerveMedicalSeverity = 4
	sharpSevereSeverity  = 7
	stopAllSeverity      = 9
)

// PainDecision is the evaluated response to one pain record.
type PainDecision struct {
	Area                     string                   `json:"area"`
	Severity                 int                      `json:"severity"`
	Nature                   domain.PainNature        `json:"nature"`
	Action                   PainAction               `json:"action"`
	Patterns                 []domain.MovementPattern `json:"patterns"`
	LoadReductionPct         float64                  `json:"load_reduction_pct,omitempty"`
	RequiresMedicalAttention bool                     `json:"requires_medical_attention"`
	RecommendDeload          bool                     `json:"recommend_deload"`
	BlocksWorkout            bool                     `json:"blocks_workout"`
	ActivatesRecovery        bool                     `json:"activates_recovery"`
	Recommendation           string                   `json:"recommendation"`
}

// PainAssessment is the combined output of a pain check.
type PainAssessment struct {
	CanProceedWithWorkout    bool           `json:"can_proceed_with_workout"`
	ShouldActivateRecovery   bool           `json:"should_activate_recovery"`
	RequiresMedicalAttention bool           `json:"requires_medical_attention"`
	Decisions                []PainDecision `json:"decisions,omitempty"`
	Recommendations          []string       `json:"recommendations,omitempty"`
}

// PainAdaptationEngine evaluates pain checks against the decision table.
type PainAdaptationEngine struct {
	catalog *catalog.Catalog
}

func NewPainAdaptationEngine(c *catalog.Catalog) *PainAdaptationEngine {
	return &PainAdaptationEngine{catalog: c}
}

// Decide evaluates a single record. The affected patterns are those loading
// the area, or only scope when one is given.
func (e *PainAdaptationEngine) Decide(r domain.PainRecord, scope ...domain.MovementPattern) (PainDecision, error) {
	if err := r.Validate(); err != nil {
		return PainDecision{}, err
	}
	cat := CategoryOf(r.Nature)
	d := PainDecision{Area: r.Area, Severity: r.Severity, Nature: r.Nature}
	for _, rule := range painTable {
		if rule.category == cat && r.Severity >= rule.minSeverity && r.Severity <= rule.maxSeverity {
			d.Action = rule.action
			break
		}
	}

	if len(scope) > 0 {
		d.Patterns = append(d.Patterns, scope...)
	} else {
		d.Patterns = append(d.Patterns, e.catalog.PatternsForArea(r.Area)...)
	}

	sharpSevere := cat == CategorySharp && r.Severity >= sharpSevereSeverity
	d.RequiresMedicalAttention = sharpSevere ||
		(r.Nature == domain.NatureBurningNerve && r.Severity >= nerveMedicalSeverity)
	d.BlocksWorkout = sharpSevere || r.Severity >= stopAllSeverity
	d.ActivatesRecovery = sharpSevere || (cat == CategoryMild && r.Severity >= stopAllSeverity)
	d.RecommendDeload = d.Action == ActionSkipDeload || d.Action == ActionStopPattern

	switch d.Action {
	case ActionContinue:
		d.Recommendation = fmt.Sprintf("%s: continue as planned", r.Area)
	case ActionMonitor:
		d.Recommendation = fmt.Sprintf("%s: continue and monitor, stop if it sharpens", r.Area)
	case ActionReduceLoad:
		d.LoadReductionPct = minLoadReductionPct + float64(r.Severity-4)*loadReductionStepPct
		d.Recommendation = fmt.Sprintf("%s: reduce load by %.0f%% on affected exercises", r.Area, d.LoadReductionPct)
	case ActionSubstitute:
		d.Recommendation = fmt.Sprintf("%s: substitute exercises that load this area", r.Area)
	case ActionSubstituteOrSkip:
		d.Recommendation = fmt.Sprintf("%s: substitute or skip exercises that load this area", r.Area)
	case ActionSkipDeload:
		d.Recommendation = fmt.Sprintf("%s: skip exercises that load this area and consider a deload", r.Area)
	case ActionStopPattern:
		d.Recommendation = fmt.Sprintf("%s: stop all work for the affected patterns today", r.Area)
	}
	return d, nil
}

// PreWorkoutCheck evaluates every report collected before the session. No
// reports means proceed normally.
func (e *PainAdaptationEngine) PreWorkoutCheck(reports []domain.PainRecord, memory *domain.PainMemory) (PainAssessment, error) {
	a := PainAssessment{CanProceedWithWorkout: true}
	for _, r := range reports {
		d, err := e.Decide(r)
		if err != nil {
			return PainAssessment{}, err
		}
		a.add(d)
	}
	a.addReferrals(memory, reports)
	return a, nil
}

// IntraExerciseCheck evaluates pain reported during a set, scoped to the
// active exercise's pattern.
func (e *PainAdaptationEngine) IntraExerciseCheck(r domain.PainRecord, exercise domain.ExerciseInstance, memory *domain.PainMemory) (PainAssessment, error) {
	a := PainAssessment{CanProceedWithWorkout: true}
	d, err := e.Decide(r, exercise.Pattern)
	if err != nil {
		return PainAssessment{}, err
	}
	a.add(d)
	a.addReferrals(memory, []domain.PainRecord{r})
	return a, nil
}

// IncompleteSet describes a set that finished short of its target.
type IncompleteSet struct {
	Exercise      domain.ExerciseInstance
	RepsCompleted int
	TargetReps    int
	Reason        domain.IncompleteReason
	Pain          *domain.PainRecord
}

// PostExerciseCheck handles the incomplete-set flow. Only pain is evaluated
// against the table; fatigue yields an advisory.
func (e *PainAdaptationEngine) PostExerciseCheck(in IncompleteSet, memory *domain.PainMemory) (PainAssessment, error) {
	a := PainAssessment{CanProceedWithWorkout: true}
	if in.RepsCompleted >= in.TargetReps {
		return a, nil
	}
	switch in.Reason {
	case domain.ReasonPain:
		if in.Pain == nil {
			return PainAssessment{}, fmt.Errorf("incomplete set on %s: pain reason needs a pain report", in.Exercise.Name)
		}
		return e.IntraExerciseCheck(*in.Pain, in.Exercise, memory)
	case domain.ReasonFatigue:
		a.Recommendations = append(a.Recommendations,
			fmt.Sprintf("%s: %d of %d reps, note fatigue for next session", in.Exercise.Name, in.RepsCompleted, in.TargetReps))
	case domain.ReasonOther:
	default:
		return PainAssessment{}, fmt.Errorf("unknown incomplete-set reason %q", in.Reason)
	}
	return a, nil
}

func (a *PainAssessment) add(d PainDecision) {
	a.Decisions = append(a.Decisions, d)
	a.Recommendations = append(a.Recommendations, d.Recommendation)
	if d.BlocksWorkout {
		a.CanProceedWithWorkout = false
	}
	if d.ActivatesRecovery {
		a.ShouldActivateRecovery = true
	}
	if d.RequiresMedicalAttention {
		a.RequiresMedicalAttention = true
	}
}

// addReferrals surfaces the cross-session referral for reported areas whose
// pain has persisted, regardless of today's severity.
func (a *PainAssessment) addReferrals(memory *domain.PainMemory, reports []domain.PainRecord) {
	if memory == nil {
		return
	}
	areas := make([]string, 0, len(reports))
	seen := make(map[string]bool)
	for _, r := range reports {
		if !seen[r.Area] {
			seen[r.Area] = true
			areas = append(areas, r.Area)
		}
	}
	sort.Strings(areas)
	for _, area := range areas {
		mem, ok := memory.Areas[area]
		if !ok || mem == nil {
			continue
		}
		if mem.ReferralAdvised || (mem.Trend != domain.TrendResolved && mem.UnresolvedStreak+1 >= domain.ReferralStreak) {
			a.Recommendations = append(a.Recommendations,
				fmt.Sprintf("%s: pain has persisted across sessions, refer to a professional", area))
		}
	}
}

// BuildOutcome summarises a finished session for pain memory: worst severity
// per area, and which muscle groups were trained or had work skipped.
func BuildOutcome(c *catalog.Catalog, session *domain.WorkoutSession, exercises []domain.ExerciseInstance, loggedSets map[int]int, at time.Time) domain.SessionOutcome {
	o := domain.SessionOutcome{
		AreaSeverity:  make(map[string]int),
		SkippedGroups: make(map[domain.MuscleGroup]bool),
		TrainedGroups: make(map[domain.MuscleGroup]bool),
		At:            at,
	}
	for _, r := range session.PainReports {
		o.AreaSeverity[r.Area] = max(o.AreaSeverity[r.Area], r.Severity)
	}
	for i, ex := range exercises {
		groups := c.MuscleGroups(ex.Pattern)
		for _, g := range groups {
			switch {
			case loggedSets[i] > 0:
				o.TrainedGroups[g] = true
			case ex.Skip:
				o.SkippedGroups[g] = true
			}
		}
	}
	// A group trained anywhere in the session was not skipped.
	for g := range o.TrainedGroups {
		delete(o.SkippedGroups, g)
	}
	return o
}
