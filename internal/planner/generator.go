package planner

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/domain"
)

// GenerationInput is the validated, resolved input of one generation call.
type GenerationInput struct {
	UserID            string
	Level             domain.Level
	Goal              domain.Goal
	Location          domain.Location
	Frequency         int
	Equipment         []domain.Equipment
	PainAreas         map[string]int
	DisabilityType    string
	SportRole         string
	SpecificBodyParts []string
	Baselines         map[domain.MovementPattern]domain.Baseline
	Progressions      map[domain.MovementPattern]*domain.ProgressionState
	PainMemory        *domain.PainMemory
	VolumeActions     map[domain.MuscleGroup]domain.VolumeAction
	Flags             []string
	Now               time.Time
}

// ProgramGenerator builds a program for one family of goals.
type ProgramGenerator interface {
	Generate(in GenerationInput) (*domain.Program, error)
}

// Engine bundles the pipeline stages shared by every generator.
type Engine struct {
	Catalog    *catalog.Catalog
	Splits     SplitPlanner
	Scorer     SubstitutionScorer
	Prescriber LoadPrescriber
	Logger     *slog.Logger
}

func NewEngine(c *catalog.Catalog, t Thresholds, pc PrescriberConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		Catalog:    c,
		Splits:     SplitPlanner{},
		Scorer:     NewSubstitutionScorer(t),
		Prescriber: NewLoadPrescriber(pc),
		Logger:     logger,
	}
}

// GeneratorFor selects the generator for a goal tag.
func (e *Engine) GeneratorFor(g domain.Goal) (ProgramGenerator, error) {
	switch g {
	case domain.GoalStrength, domain.GoalMuscleGain, domain.GoalFatLoss, domain.GoalEndurance:
		return &standardGenerator{engine: e}, nil
	case domain.GoalMotorRecovery:
		return &motorRecoveryGenerator{engine: e}, nil
	case domain.GoalPerformance:
		return &performanceGenerator{engine: e}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGoal, g)
	}
}

// Generate runs the full pipeline for the input's goal.
func (e *Engine) Generate(in GenerationInput) (*domain.Program, error) {
	gen, err := e.GeneratorFor(in.Goal)
	if err != nil {
		return nil, err
	}
	return gen.Generate(in)
}

// style customises the shared build for a generator.
type style struct {
	// allow filters candidate variants for a slot.
	allow func(domain.ExerciseVariant) bool
	// decorate adjusts a prescribed exercise.
	decorate func(*domain.ExerciseInstance, GenerationInput)

	totalWeeks      func(domain.Level) int
	deloadFrequency func(domain.Level) int
	description     string
}

type standardGenerator struct{ engine *Engine }

func (g *standardGenerator) Generate(in GenerationInput) (*domain.Program, error) {
	return g.engine.build(in, style{
		totalWeeks:      standardWeeks,
		deloadFrequency: standardDeload,
		description:     goalDescriptions[in.Goal],
	})
}

type motorRecoveryGenerator struct{ engine *Engine }

// Motor recovery keeps to recovery-safe or easy variants, slow tempo and long rest.
func (g *motorRecoveryGenerator) Generate(in GenerationInput) (*domain.Program, error) {
	return g.engine.build(in, style{
		allow: func(v domain.ExerciseVariant) bool {
			return v.RecoverySafe || v.Difficulty <= 3
		},
		decorate: func(e *domain.ExerciseInstance, in GenerationInput) {
			if in.DisabilityType != "" {
				e.Notes = appendNote(e.Notes, fmt.Sprintf("adapted for %s", in.DisabilityType))
			}
		},
		totalWeeks:      func(domain.Level) int { return 6 },
		deloadFrequency: func(domain.Level) int { return 3 },
		description:     goalDescriptions[domain.GoalMotorRecovery],
	})
}

type performanceGenerator struct{ engine *Engine }

// Performance adds explosive intent and sport-role context.
func (g *performanceGenerator) Generate(in GenerationInput) (*domain.Program, error) {
	return g.engine.build(in, style{
		decorate: func(e *domain.ExerciseInstance, in GenerationInput) {
			e.Notes = appendNote(e.Notes, "move the concentric phase explosively")
			if in.SportRole != "" {
				e.Notes = appendNote(e.Notes, fmt.Sprintf("transfer focus: %s", in.SportRole))
			}
		},
		totalWeeks:      standardWeeks,
		deloadFrequency: standardDeload,
		description:     goalDescriptions[domain.GoalPerformance],
	})
}

var goalDescriptions = map[domain.Goal]string{
	domain.GoalStrength:      "Linear rep progression on the hardest variant you own, unlocking harder variants by retest.",
	domain.GoalMuscleGain:    "Moderate-rep hypertrophy work kept between minimum effective and maximum adaptive volume.",
	domain.GoalFatLoss:       "Higher-rep, short-rest circuits that preserve muscle while raising work capacity.",
	domain.GoalEndurance:     "High-rep, low-rest muscular endurance work.",
	domain.GoalPerformance:   "Low-rep power work with explosive intent for sport transfer.",
	domain.GoalMotorRecovery: "Low-load, controlled-tempo movement to restore motor patterns safely.",
}

var goalLabels = map[domain.Goal]string{
	domain.GoalStrength:      "Strength",
	domain.GoalMuscleGain:    "Muscle Gain",
	domain.GoalFatLoss:       "Fat Loss",
	domain.GoalEndurance:     "Endurance",
	domain.GoalPerformance:   "Performance",
	domain.GoalMotorRecovery: "Motor Recovery",
}

func standardWeeks(l domain.Level) int {
	switch l {
	case domain.LevelAdvanced:
		return 12
	case domain.LevelIntermediate:
		return 10
	default:
		return 8
	}
}

// Beginners deload less often; they accumulate less fatigue per week.
func standardDeload(l domain.Level) int {
	if l == domain.LevelBeginner {
		return 6
	}
	return 4
}

func (e *Engine) build(in GenerationInput, st style) (*domain.Program, error) {
	split, err := e.Splits.Plan(SplitInput{Level: in.Level, Goal: in.Goal, Location: in.Location, Frequency: in.Frequency})
	if err != nil {
		return nil, err
	}

	equipment := EquipmentSet(in.Location, in.Equipment)
	pain := mergePain(in.PainAreas, in.PainMemory)
	var reduced map[domain.MuscleGroup]bool
	if in.PainMemory != nil {
		reduced = in.PainMemory.ReducedGroups()
	}

	program := &domain.Program{
		UserID:               in.UserID,
		Name:                 fmt.Sprintf("%s %s", titleCase(string(in.Level)), goalLabels[in.Goal]),
		Description:          st.description,
		Split:                split.Name,
		Level:                in.Level,
		Goal:                 in.Goal,
		Location:             in.Location,
		Equipment:            slices.Clone(in.Equipment),
		DaysPerWeek:          len(split.Days),
		TotalWeeks:           st.totalWeeks(in.Level),
		IncludesDeload:       true,
		DeloadFrequency:      st.deloadFrequency(in.Level),
		RequiresEndCycleTest: true,
		Progression:          progressionPolicy(in.Goal, e.Prescriber.cfg.UnlockReps),
		CreatedAt:            in.Now,
	}
	for _, f := range in.Flags {
		program.AddFlag(f)
	}

	// Slots are resolved once per pattern so every day trains the same variant.
	slots := make(map[domain.MovementPattern]domain.ExerciseInstance)
	for _, day := range split.Days {
		pd := domain.ProgramDay{DayName: day.Name, Focus: day.Focus}
		for _, p := range day.Patterns {
			inst, ok := slots[p]
			if !ok {
				inst = e.fillSlot(p, in, st, equipment, pain, reduced)
				slots[p] = inst
				e.flagSlot(program, inst)
			}
			pd.Exercises = append(pd.Exercises, inst)
		}
		program.WeeklySchedule = append(program.WeeklySchedule, pd)
	}
	return program, nil
}

func (e *Engine) fillSlot(p domain.MovementPattern, in GenerationInput, st style, equipment map[domain.Equipment]bool, pain map[string]int, reduced map[domain.MuscleGroup]bool) domain.ExerciseInstance {
	var candidates []domain.ExerciseVariant
	for _, v := range e.Catalog.ForPattern(p) {
		if st.allow == nil || st.allow(v) {
			candidates = append(candidates, v)
		}
	}

	slot := SlotContext{Pattern: p, Location: in.Location, Equipment: equipment, PainAreas: pain}
	baseline, hasBaseline := in.Baselines[p]
	progression := in.Progressions[p]
	lowConfidence := false

	switch {
	case in.Goal == domain.GoalStrength && progression != nil:
		slot.TargetDifficulty = progression.VariantDifficulty
	case hasBaseline && in.Goal == domain.GoalStrength:
		slot.TargetDifficulty = baseline.Difficulty
	case hasBaseline:
		slot.TargetDifficulty = clampToTier(baseline.Difficulty, in.Level.DifficultyTier())
	default:
		lowConfidence = true
		slot.TargetDifficulty = e.lowestDifficulty(candidates, in.Location, equipment)
		e.Logger.Warn("missing baseline, using easiest variant", "user_id", in.UserID, "pattern", p)
	}

	best, ok, reason := e.Scorer.Select(candidates, slot)
	if !ok {
		return domain.ExerciseInstance{
			Name:       fmt.Sprintf("%s (skipped)", patternLabel(p)),
			Pattern:    p,
			Skip:       true,
			SkipReason: reason,
			Confidence: domain.ConfidenceVeryLow,
			Score:      best.Score,
			LoadFactor: 1,
		}
	}

	var baselinePtr *domain.Baseline
	if hasBaseline {
		baselinePtr = &baseline
	}
	next := ""
	if nv, ok := e.Catalog.Next(best.Variant, in.Location, equipment); ok {
		next = nv.ID
	}
	inst := e.Prescriber.Prescribe(PrescriptionInput{
		Goal:          in.Goal,
		Level:         in.Level,
		Candidate:     best,
		Baseline:      baselinePtr,
		Progression:   progression,
		NextVariantID: next,
		Reduced:       anyGroup(e.Catalog.MuscleGroups(p), reduced),
		VolumeAction:  volumeActionFor(e.Catalog.MuscleGroups(p), in.VolumeActions),
		LowConfidence: lowConfidence,
		Now:           in.Now,
	})
	if st.decorate != nil {
		st.decorate(&inst, in)
	}
	return inst
}

func (e *Engine) flagSlot(program *domain.Program, inst domain.ExerciseInstance) {
	if inst.Skip {
		program.AddFlag(domain.FlagSkippedSlots)
	}
	if inst.LowConfidence {
		program.AddFlag(domain.FlagLowConfidence)
	}
	if inst.LoadFactor < 1 {
		program.AddFlag(domain.FlagPreventiveLoad)
	}
}

// lowestDifficulty is the difficulty of the easiest performable variant, or
// of the easiest variant at all when nothing fits the user's equipment.
func (e *Engine) lowestDifficulty(candidates []domain.ExerciseVariant, where domain.Location, equipment map[domain.Equipment]bool) int {
	fallback := 0
	for _, v := range candidates {
		if !v.Location.Supports(where) {
			continue
		}
		if v.NeedsOnly(equipment) {
			return v.Difficulty
		}
		if fallback == 0 {
			fallback = v.Difficulty
		}
	}
	if fallback == 0 {
		return 1
	}
	return fallback
}

func progressionPolicy(g domain.Goal, unlockReps int) domain.ProgressionPolicy {
	switch g {
	case domain.GoalStrength:
		return domain.ProgressionPolicy{
			Model:       "linear",
			UnlockReps:  unlockReps,
			Description: fmt.Sprintf("Start at 3-3-3; add a rep every three weeks; retest the next variant at %d reps.", unlockReps),
		}
	case domain.GoalMotorRecovery:
		return domain.ProgressionPolicy{Model: "tolerance", Description: "Progress only when a session is completed pain-free."}
	default:
		return domain.ProgressionPolicy{Model: "volume_landmarks", Description: "Adjust weekly sets between MEV and MRV from completed volume."}
	}
}

// EquipmentSet expands the user's equipment list. Gyms are assumed to carry
// everything in the catalog.
func EquipmentSet(where domain.Location, list []domain.Equipment) map[domain.Equipment]bool {
	set := map[domain.Equipment]bool{domain.EquipmentNone: true}
	if where == domain.LocationGym {
		for _, e := range []domain.Equipment{
			domain.EquipmentPullupBar, domain.EquipmentDumbbells, domain.EquipmentBarbell,
			domain.EquipmentBench, domain.EquipmentCable, domain.EquipmentMachine,
			domain.EquipmentBands, domain.EquipmentDipBars, domain.EquipmentKettlebell,
		} {
			set[e] = true
		}
	}
	for _, e := range list {
		set[e] = true
	}
	return set
}

// mergePain combines reported pain with unresolved areas from memory,
// keeping the worse severity.
func mergePain(reported map[string]int, memory *domain.PainMemory) map[string]int {
	out := make(map[string]int, len(reported))
	for a, s := range reported {
		out[a] = s
	}
	if memory != nil {
		for a, s := range memory.ActiveAreas() {
			if s > out[a] {
				out[a] = s
			}
		}
	}
	return out
}

func clampToTier(difficulty, tier int) int {
	lo, hi := 1, 3
	switch tier {
	case 2:
		lo, hi = 4, 6
	case 3:
		lo, hi = 7, 10
	}
	return min(max(difficulty, lo), hi)
}

func anyGroup(groups []domain.MuscleGroup, set map[domain.MuscleGroup]bool) bool {
	for _, g := range groups {
		if set[g] {
			return true
		}
	}
	return false
}

// volumeActionFor resolves one action for a pattern: any decrease wins, then
// any increase.
func volumeActionFor(groups []domain.MuscleGroup, actions map[domain.MuscleGroup]domain.VolumeAction) domain.VolumeAction {
	result := domain.VolumeHold
	for _, g := range groups {
		switch actions[g] {
		case domain.VolumeDecrease:
			return domain.VolumeDecrease
		case domain.VolumeIncrease:
			result = domain.VolumeIncrease
		}
	}
	return result
}

func patternLabel(p domain.MovementPattern) string {
	return titleCase(strings.ReplaceAll(string(p), "_", " "))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
