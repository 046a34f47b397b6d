package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/repforge/internal/catalog"
	"github.com/alexanderramin/repforge/internal/domain"
)

// PracticalTest is one measured set from the assessment: the variant
// performed and the reps (and optional load) achieved.
type PracticalTest struct {
	Pattern   domain.MovementPattern
	VariantID string
	Reps      int
	WeightKg  float64
}

type BodyComposition struct {
	BodyFatPercentage float64
	BodyShape         string
}

// AssessmentInput carries the raw signals collected at onboarding.
type AssessmentInput struct {
	UserID          string
	DeclaredLevel   *domain.Level
	QuizScore       *float64 // 0-100
	PhysicalScore   *float64 // 0-100
	Practical       []PracticalTest
	BodyComposition *BodyComposition
	Now             time.Time
}

// Resolution is the resolver's output: an overall level and per-pattern baselines.
type Resolution struct {
	Level     domain.Level
	Score     float64
	Baselines map[domain.MovementPattern]domain.Baseline
	Warnings  []string
}

// Signal weights for the composite level score; renormalized over the
// signals actually present.
const (
	quizWeight      = 0.2
	physicalWeight  = 0.4
	practicalWeight = 0.4

	intermediateCutoff = 40.0
	advancedCutoff     = 70.0

	highBodyFatPct      = 30.0
	bodyFatScorePenalty = 5.0
)

type BaselineResolver struct {
	catalog    *catalog.Catalog
	unlockReps int
}

func NewBaselineResolver(c *catalog.Catalog, unlockReps int) *BaselineResolver {
	if unlockReps <= 0 {
		unlockReps = DefaultUnlockReps
	}
	return &BaselineResolver{catalog: c, unlockReps: unlockReps}
}

func (r *BaselineResolver) Resolve(in AssessmentInput) Resolution {
	res := Resolution{Baselines: make(map[domain.MovementPattern]domain.Baseline)}

	var weighted, totalWeight float64
	if in.QuizScore != nil {
		weighted += clampScore(*in.QuizScore) * quizWeight
		totalWeight += quizWeight
	}
	if in.PhysicalScore != nil {
		weighted += clampScore(*in.PhysicalScore) * physicalWeight
		totalWeight += physicalWeight
	}

	var practicalSum float64
	var practicalN int
	for _, pt := range in.Practical {
		v, ok := r.catalog.Variant(pt.VariantID)
		if !ok || v.Pattern != pt.Pattern {
			res.Warnings = append(res.Warnings, fmt.Sprintf("ignored practical test: unknown variant %q for %s", pt.VariantID, pt.Pattern))
			continue
		}
		practicalSum += r.practicalScore(v, pt.Reps)
		practicalN++
		r.keepBest(res.Baselines, domain.Baseline{
			UserID:     in.UserID,
			Pattern:    v.Pattern,
			VariantID:  v.ID,
			MaxReps:    max(pt.Reps, 0),
			WeightKg:   math.Max(pt.WeightKg, 0),
			RMReps:     rmReps(pt),
			Difficulty: v.Difficulty,
			Source:     domain.SourceAssessment,
			AssessedAt: in.Now,
		})
	}
	if practicalN > 0 {
		weighted += practicalSum / float64(practicalN) * practicalWeight
		totalWeight += practicalWeight
	}

	if totalWeight > 0 {
		res.Score = weighted / totalWeight
	}
	if in.BodyComposition != nil && in.BodyComposition.BodyFatPercentage >= highBodyFatPct {
		res.Score = math.Max(0, res.Score-bodyFatScorePenalty)
		res.Warnings = append(res.Warnings, "body composition lowered the level estimate")
	}

	switch {
	case in.DeclaredLevel != nil && in.DeclaredLevel.Valid():
		res.Level = *in.DeclaredLevel
	case totalWeight == 0:
		res.Level = domain.LevelBeginner
		res.Warnings = append(res.Warnings, "no assessment signals: defaulting to beginner")
	default:
		res.Level = LevelForScore(res.Score)
	}
	return res
}

// LevelForScore maps a 0-100 composite score to a level.
func LevelForScore(score float64) domain.Level {
	switch {
	case score >= advancedCutoff:
		return domain.LevelAdvanced
	case score >= intermediateCutoff:
		return domain.LevelIntermediate
	default:
		return domain.LevelBeginner
	}
}

// practicalScore weights variant difficulty at 70% and rep capacity toward
// the unlock target at 30%.
func (r *BaselineResolver) practicalScore(v domain.ExerciseVariant, reps int) float64 {
	repFrac := math.Min(1, float64(max(reps, 0))/float64(r.unlockReps))
	return float64(v.Difficulty-1)/9*70 + repFrac*30
}

// keepBest keeps the hardest variant on which at least 3 reps were achieved,
// falling back to the most reps when none qualify.
func (r *BaselineResolver) keepBest(into map[domain.MovementPattern]domain.Baseline, b domain.Baseline) {
	cur, ok := into[b.Pattern]
	if !ok {
		into[b.Pattern] = b
		return
	}
	curQualifies := cur.MaxReps >= MinRetestReps
	newQualifies := b.MaxReps >= MinRetestReps
	switch {
	case newQualifies && !curQualifies:
		into[b.Pattern] = b
	case newQualifies == curQualifies && b.Difficulty > cur.Difficulty:
		into[b.Pattern] = b
	case newQualifies == curQualifies && b.Difficulty == cur.Difficulty && b.MaxReps > cur.MaxReps:
		into[b.Pattern] = b
	}
}

func rmReps(pt PracticalTest) int {
	if pt.WeightKg <= 0 {
		return 0
	}
	return pt.Reps
}

func clampScore(s float64) float64 {
	return math.Max(0, math.Min(100, s))
}
