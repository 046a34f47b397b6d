package planner

import (
	"fmt"

	"github.com/alexanderramin/repforge/internal/domain"
)

// Split identifiers.
const (
	SplitFullBody1   = "FULL BODY (1x/week)"
	SplitFullBody2   = "FULL BODY A/B (2x/week)"
	SplitFullBody3   = "FULL BODY A/B/C (3x/week)"
	SplitUpperLower4 = "UPPER/LOWER (4x/week)"
	SplitPPL5        = "PUSH/PULL/LEGS (5x/week)"
	SplitPPL6        = "PUSH/PULL/LEGS (6x/week)"
)

var (
	upperPatterns = []domain.MovementPattern{
		domain.PatternHorizontalPush, domain.PatternHorizontalPull,
		domain.PatternVerticalPush, domain.PatternVerticalPull,
	}
	lowerPatterns = []domain.MovementPattern{
		domain.PatternLowerPush, domain.PatternLowerPull, domain.PatternCore,
	}
	pushPatterns = []domain.MovementPattern{domain.PatternHorizontalPush, domain.PatternVerticalPush}
	pullPatterns = []domain.MovementPattern{domain.PatternHorizontalPull, domain.PatternVerticalPull}
	legPatterns  = []domain.MovementPattern{domain.PatternLowerPush, domain.PatternLowerPull, domain.PatternCore}
)

// PlannedDay is a day of the split before exercises are chosen.
type PlannedDay struct {
	Name     string
	Focus    string
	Patterns []domain.MovementPattern
}

type SplitPlan struct {
	Name string
	Days []PlannedDay
}

type SplitInput struct {
	Level     domain.Level
	Goal      domain.Goal
	Location  domain.Location
	Frequency int
}

// SplitPlanner picks the weekly split template for a frequency.
type SplitPlanner struct{}

// MaxRecoveryFrequency caps motor-recovery programs at full-body rotations.
const MaxRecoveryFrequency = 3

func (SplitPlanner) Plan(in SplitInput) (SplitPlan, error) {
	if in.Frequency < 1 || in.Frequency > 6 {
		return SplitPlan{}, fmt.Errorf("%w: got %d", ErrInvalidFrequency, in.Frequency)
	}
	freq := in.Frequency
	if in.Goal == domain.GoalMotorRecovery && freq > MaxRecoveryFrequency {
		freq = MaxRecoveryFrequency
	}

	var plan SplitPlan
	switch freq {
	case 1:
		plan = SplitPlan{Name: SplitFullBody1, Days: []PlannedDay{
			fullBodyDay("Full Body", 0),
		}}
	case 2:
		plan = SplitPlan{Name: SplitFullBody2, Days: []PlannedDay{
			fullBodyDay("Full Body A", 0),
			fullBodyDay("Full Body B", 1),
		}}
	case 3:
		plan = SplitPlan{Name: SplitFullBody3, Days: []PlannedDay{
			fullBodyDay("Full Body A", 0),
			fullBodyDay("Full Body B", 1),
			fullBodyDay("Full Body C", 2),
		}}
	case 4:
		plan = SplitPlan{Name: SplitUpperLower4, Days: []PlannedDay{
			{Name: "Upper A", Focus: "upper", Patterns: upperPatterns},
			{Name: "Lower A", Focus: "lower", Patterns: lowerPatterns},
			{Name: "Upper B", Focus: "upper", Patterns: rotate(upperPatterns, 1)},
			{Name: "Lower B", Focus: "lower", Patterns: rotate(lowerPatterns, 1)},
		}}
	case 5:
		plan = SplitPlan{Name: SplitPPL5, Days: []PlannedDay{
			{Name: "Push", Focus: "push", Patterns: pushPatterns},
			{Name: "Pull", Focus: "pull", Patterns: pullPatterns},
			{Name: "Legs", Focus: "legs", Patterns: legPatterns},
			{Name: "Upper", Focus: "upper", Patterns: upperPatterns},
			{Name: "Lower", Focus: "lower", Patterns: lowerPatterns},
		}}
	case 6:
		plan = SplitPlan{Name: SplitPPL6, Days: []PlannedDay{
			{Name: "Push A", Focus: "push", Patterns: pushPatterns},
			{Name: "Pull A", Focus: "pull", Patterns: pullPatterns},
			{Name: "Legs A", Focus: "legs", Patterns: legPatterns},
			{Name: "Push B", Focus: "push", Patterns: rotate(pushPatterns, 1)},
			{Name: "Pull B", Focus: "pull", Patterns: rotate(pullPatterns, 1)},
			{Name: "Legs B", Focus: "legs", Patterns: rotate(legPatterns, 1)},
		}}
	}

	if err := CheckCoverage(plan); err != nil {
		return SplitPlan{}, err
	}
	return plan, nil
}

// CheckCoverage enforces that every scheduled pattern lands on at least two
// distinct days when the split has two or more days.
func CheckCoverage(plan SplitPlan) error {
	if len(plan.Days) < 2 {
		return nil
	}
	days := make(map[domain.MovementPattern]int)
	for _, d := range plan.Days {
		seen := make(map[domain.MovementPattern]bool)
		for _, p := range d.Patterns {
			if !seen[p] {
				seen[p] = true
				days[p]++
			}
		}
	}
	for p, n := range days {
		if n < 2 {
			return fmt.Errorf("%w: %s on %d day(s) of %s", ErrCoverage, p, n, plan.Name)
		}
	}
	return nil
}

// fullBodyDay rotates the pattern order so each rotation day leads with a
// different pattern.
func fullBodyDay(name string, shift int) PlannedDay {
	return PlannedDay{Name: name, Focus: "full_body", Patterns: rotateFullBody(shift)}
}

func rotateFullBody(shift int) []domain.MovementPattern {
	// Lower-body and core lead on A, pushes on B, pulls on C.
	orders := [][]domain.MovementPattern{
		domain.AllPatterns,
		{domain.PatternHorizontalPush, domain.PatternLowerPull, domain.PatternVerticalPull,
			domain.PatternLowerPush, domain.PatternVerticalPush, domain.PatternHorizontalPull, domain.PatternCore},
		{domain.PatternHorizontalPull, domain.PatternLowerPush, domain.PatternVerticalPush,
			domain.PatternLowerPull, domain.PatternHorizontalPush, domain.PatternVerticalPull, domain.PatternCore},
	}
	src := orders[shift%len(orders)]
	out := make([]domain.MovementPattern, len(src))
	copy(out, src)
	return out
}

// rotate returns a copy of ps rotated left by n, keeping core last.
func rotate(ps []domain.MovementPattern, n int) []domain.MovementPattern {
	var body []domain.MovementPattern
	var tail []domain.MovementPattern
	for _, p := range ps {
		if p == domain.PatternCore {
			tail = append(tail, p)
			continue
		}
		body = append(body, p)
	}
	out := make([]domain.MovementPattern, 0, len(ps))
	if len(body) > 0 {
		n %= len(body)
		out = append(out, body[n:]...)
		out = append(out, body[:n]...)
	}
	return append(out, tail...)
}
