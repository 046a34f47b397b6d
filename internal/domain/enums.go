package domain

import "fmt"

type MovementPattern string

const (
	PatternLowerPush      MovementPattern = "lower_push"
	PatternLowerPull      MovementPattern = "lower_pull"
	PatternHorizontalPush MovementPattern = "horizontal_push"
	PatternHorizontalPull MovementPattern = "horizontal_pull"
	PatternVerticalPush   MovementPattern = "vertical_push"
	PatternVerticalPull   MovementPattern = "vertical_pull"
	PatternCore           MovementPattern = "core"
)

// AllPatterns lists every movement pattern in canonical programming order.
var AllPatterns = []MovementPattern{
	PatternLowerPush,
	PatternLowerPull,
	PatternHorizontalPush,
	PatternHorizontalPull,
	PatternVerticalPush,
	PatternVerticalPull,
	PatternCore,
}

func (p MovementPattern) Valid() bool {
	switch p {
	case PatternLowerPush, PatternLowerPull, PatternHorizontalPush, PatternHorizontalPull,
		PatternVerticalPush, PatternVerticalPull, PatternCore:
		return true
	}
	return false
}

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

func (l Level) Valid() bool {
	return l == LevelBeginner || l == LevelIntermediate || l == LevelAdvanced
}

// DifficultyTier maps a level onto the coarse 1-3 difficulty tier used for
// variant selection outside the strength goal.
func (l Level) DifficultyTier() int {
	switch l {
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	default:
		return 1
	}
}

type Goal string

const (
	GoalStrength      Goal = "strength"
	GoalMuscleGain    Goal = "muscle_gain"
	GoalFatLoss       Goal = "fat_loss"
	GoalEndurance     Goal = "endurance"
	GoalPerformance   Goal = "performance"
	GoalMotorRecovery Goal = "motor_recovery"
)

var AllGoals = []Goal{GoalStrength, GoalMuscleGain, GoalFatLoss, GoalEndurance, GoalPerformance, GoalMotorRecovery}

func (g Goal) Valid() bool {
	for _, v := range AllGoals {
		if g == v {
			return true
		}
	}
	return false
}

// Location is where the user trains. Variants use LocationBoth to mark
// exercises that work in either place; users never train "both".
type Location string

const (
	LocationHome Location = "home"
	LocationGym  Location = "gym"
	LocationBoth Location = "both"
)

func (l Location) ValidForUser() bool {
	return l == LocationHome || l == LocationGym
}

// Supports reports whether a variant tagged with l can be performed at where.
func (l Location) Supports(where Location) bool {
	return l == LocationBoth || l == where
}

type Equipment string

const (
	EquipmentNone       Equipment = "none"
	EquipmentPullupBar  Equipment = "pullup_bar"
	EquipmentDumbbells  Equipment = "dumbbells"
	EquipmentBarbell    Equipment = "barbell"
	EquipmentBench      Equipment = "bench"
	EquipmentCable      Equipment = "cable"
	EquipmentMachine    Equipment = "machine"
	EquipmentBands      Equipment = "bands"
	EquipmentDipBars    Equipment = "dip_bars"
	EquipmentKettlebell Equipment = "kettlebell"
)

func (e Equipment) Valid() bool {
	switch e {
	case EquipmentNone, EquipmentPullupBar, EquipmentDumbbells, EquipmentBarbell, EquipmentBench,
		EquipmentCable, EquipmentMachine, EquipmentBands, EquipmentDipBars, EquipmentKettlebell:
		return true
	}
	return false
}

type MuscleGroup string

const (
	MuscleQuads      MuscleGroup = "quads"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleChest      MuscleGroup = "chest"
	MuscleUpperBack  MuscleGroup = "upper_back"
	MuscleLats       MuscleGroup = "lats"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleCore       MuscleGroup = "core"
)

type PainNature string

const (
	NatureMuscularSoreness PainNature = "muscular_soreness"
	NatureJointStiffness   PainNature = "joint_stiffness"
	NatureSharpAcute       PainNature = "sharp_acute"
	NatureDeepAche         PainNature = "deep_ache"
	NatureBurningNerve     PainNature = "burning_nerve"
	NatureUnknown          PainNature = "unknown"
)

func (n PainNature) Valid() bool {
	switch n {
	case NatureMuscularSoreness, NatureJointStiffness, NatureSharpAcute,
		NatureDeepAche, NatureBurningNerve, NatureUnknown:
		return true
	}
	return false
}

type PainTiming string

const (
	TimingPre   PainTiming = "pre"
	TimingIntra PainTiming = "intra"
	TimingPost  PainTiming = "post"
)

// IncompleteReason is why a set finished short of its rep target.
type IncompleteReason string

const (
	ReasonPain    IncompleteReason = "pain"
	ReasonFatigue IncompleteReason = "fatigue"
	ReasonOther   IncompleteReason = "other"
)

type Confidence string

const (
	ConfidenceHigh    Confidence = "HIGH"
	ConfidenceMedium  Confidence = "MEDIUM"
	ConfidenceLow     Confidence = "LOW"
	ConfidenceVeryLow Confidence = "VERY_LOW"
)

type SubstitutionAction string

const (
	ActionAccept      SubstitutionAction = "ACCEPT"
	ActionAskUser     SubstitutionAction = "ASK_USER"
	ActionSuggestSkip SubstitutionAction = "SUGGEST_SKIP"
)

type VolumeZone string

const (
	ZoneBelowMEV VolumeZone = "belowMEV"
	ZoneMEVToMAV VolumeZone = "MEV–MAV"
	ZoneMAVToMRV VolumeZone = "MAV–MRV"
	ZoneAboveMRV VolumeZone = "aboveMRV"
)

type RepMode string

const (
	// RepsPerSet is a dash-separated list with one entry per set ("7-6-6").
	RepsPerSet RepMode = "per_set"
	// RepsRange is an inclusive "min-max" range applied to every set.
	RepsRange RepMode = "range"
)

// ParseLevel, ParseGoal and ParseLocation are used by the CLI and the
// request validators; they never coerce unknown input.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}

func ParseGoal(s string) (Goal, error) {
	g := Goal(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown goal %q", s)
	}
	return g, nil
}

func ParseLocation(s string) (Location, error) {
	l := Location(s)
	if !l.ValidForUser() {
		return "", fmt.Errorf("unknown location %q", s)
	}
	return l, nil
}
