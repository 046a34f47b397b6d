package planner

import (
	"fmt"
	"math"
	"sort"

	"github.com/alexanderramin/repforge/internal/domain"
)

// Thresholds are the score floors of the HIGH, MEDIUM and LOW confidence
// bands. Anything below Low is VERY_LOW.
type Thresholds struct {
	High   float64
	Medium float64
	Low    float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{High: 80, Medium: 60, Low: 40}
}

// Classify maps a score to its confidence band and recommendation.
func (t Thresholds) Classify(score float64) (domain.Confidence, domain.SubstitutionAction) {
	switch {
	case score >= t.High:
		return domain.ConfidenceHigh, domain.ActionAccept
	case score >= t.Medium:
		return domain.ConfidenceMedium, domain.ActionAskUser
	case score >= t.Low:
		return domain.ConfidenceLow, domain.ActionAskUser
	default:
		return domain.ConfidenceVeryLow, domain.ActionSuggestSkip
	}
}

// SubstitutionWeights are the maximum points each factor contributes.
type SubstitutionWeights struct {
	Equipment  float64
	Difficulty float64
	PainSafety float64
}

func DefaultSubstitutionWeights() SubstitutionWeights {
	return SubstitutionWeights{Equipment: 30, Difficulty: 40, PainSafety: 30}
}

// Penalty applied when a candidate loads an area hurting at severity 7+.
const severePainPenalty = 40.0

// difficultySpan is the distance at which difficulty proximity scores zero.
const difficultySpan = 5.0

// SlotContext is everything known about the slot being filled.
type SlotContext struct {
	Pattern          domain.MovementPattern
	TargetDifficulty int
	Location         domain.Location
	Equipment        map[domain.Equipment]bool
	// PainAreas maps body area to current severity.
	PainAreas map[string]int
	// Exclude lists variant IDs that must not be proposed (e.g. the exercise
	// being replaced).
	Exclude map[string]bool
}

type SubstitutionScorer struct {
	Weights    SubstitutionWeights
	Thresholds Thresholds
}

func NewSubstitutionScorer(t Thresholds) SubstitutionScorer {
	return SubstitutionScorer{Weights: DefaultSubstitutionWeights(), Thresholds: t}
}

// Score rates a single candidate for the slot on a 0-100 scale.
func (s SubstitutionScorer) Score(v domain.ExerciseVariant, slot SlotContext) domain.SubstitutionCandidate {
	c := domain.SubstitutionCandidate{Variant: v}

	if v.Pattern != slot.Pattern {
		c.Factors = append(c.Factors, domain.ScoreFactor{Code: "PATTERN_MISMATCH", Message: "Different movement pattern"})
		c.Confidence, c.Recommendation = s.Thresholds.Classify(0)
		return c
	}
	if !v.Location.Supports(slot.Location) {
		c.Factors = append(c.Factors, domain.ScoreFactor{Code: "LOCATION_MISMATCH", Message: fmt.Sprintf("Not available at %s", slot.Location)})
		c.Confidence, c.Recommendation = s.Thresholds.Classify(0)
		return c
	}

	var score float64
	factors := []func(domain.ExerciseVariant, SlotContext) domain.ScoreFactor{
		s.scoreEquipment,
		s.scoreDifficulty,
		s.scorePainSafety,
	}
	for _, f := range factors {
		factor := f(v, slot)
		score += factor.Delta
		c.Factors = append(c.Factors, factor)
	}

	c.Score = math.Max(0, math.Min(100, score))
	c.Confidence, c.Recommendation = s.Thresholds.Classify(c.Score)
	return c
}

func (s SubstitutionScorer) scoreEquipment(v domain.ExerciseVariant, slot SlotContext) domain.ScoreFactor {
	if v.NeedsOnly(slot.Equipment) {
		return domain.ScoreFactor{Code: "EQUIPMENT_OK", Message: "Equipment available", Delta: s.Weights.Equipment}
	}
	return domain.ScoreFactor{Code: "EQUIPMENT_MISSING", Message: fmt.Sprintf("Needs %v", v.Equipment)}
}

func (s SubstitutionScorer) scoreDifficulty(v domain.ExerciseVariant, slot SlotContext) domain.ScoreFactor {
	gap := math.Abs(float64(v.Difficulty - slot.TargetDifficulty))
	delta := s.Weights.Difficulty * math.Max(0, 1-gap/difficultySpan)
	msg := "Matches baseline difficulty"
	if gap > 0 {
		msg = fmt.Sprintf("Difficulty %d vs baseline %d", v.Difficulty, slot.TargetDifficulty)
	}
	return domain.ScoreFactor{Code: "DIFFICULTY", Message: msg, Delta: delta}
}

func (s SubstitutionScorer) scorePainSafety(v domain.ExerciseVariant, slot SlotContext) domain.ScoreFactor {
	worst := 0
	worstArea := ""
	for area, sev := range slot.PainAreas {
		if v.LoadsArea(area) && (sev > worst || (sev == worst && area < worstArea)) {
			worst, worstArea = sev, area
		}
	}
	switch {
	case worst == 0:
		return domain.ScoreFactor{Code: "PAIN_SAFE", Message: "Avoids painful areas", Delta: s.Weights.PainSafety}
	case worst <= 3:
		return domain.ScoreFactor{Code: "PAIN_MILD", Message: fmt.Sprintf("Loads %s (mild pain)", worstArea), Delta: s.Weights.PainSafety / 2}
	case worst <= 6:
		return domain.ScoreFactor{Code: "PAIN_MODERATE", Message: fmt.Sprintf("Loads %s (moderate pain)", worstArea)}
	default:
		return domain.ScoreFactor{Code: "PAIN_SEVERE", Message: fmt.Sprintf("Loads %s (severe pain)", worstArea), Delta: -severePainPenalty}
	}
}

// Rank scores every candidate and orders them best first. Ties prefer the
// closer difficulty, then the easier variant, then the ID.
func (s SubstitutionScorer) Rank(variants []domain.ExerciseVariant, slot SlotContext) []domain.SubstitutionCandidate {
	out := make([]domain.SubstitutionCandidate, 0, len(variants))
	for _, v := range variants {
		if slot.Exclude[v.ID] {
			continue
		}
		out = append(out, s.Score(v, slot))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ga := absInt(a.Variant.Difficulty - slot.TargetDifficulty)
		gb := absInt(b.Variant.Difficulty - slot.TargetDifficulty)
		if ga != gb {
			return ga < gb
		}
		if a.Variant.Difficulty != b.Variant.Difficulty {
			return a.Variant.Difficulty < b.Variant.Difficulty
		}
		return a.Variant.ID < b.Variant.ID
	})
	return out
}

// Select returns the best candidate, or false with a reason when nothing
// reaches the LOW band.
func (s SubstitutionScorer) Select(variants []domain.ExerciseVariant, slot SlotContext) (domain.SubstitutionCandidate, bool, string) {
	ranked := s.Rank(variants, slot)
	if len(ranked) == 0 {
		return domain.SubstitutionCandidate{}, false, fmt.Sprintf("no %s variant in the catalog", slot.Pattern)
	}
	best := ranked[0]
	if best.Score < s.Thresholds.Low {
		return best, false, fmt.Sprintf("no safe %s variant (best %s scored %.0f)", slot.Pattern, best.Variant.Name, best.Score)
	}
	return best, true, ""
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
