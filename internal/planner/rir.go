package planner

import "github.com/alexanderramin/repforge/internal/domain"

// rirBias is how many reps in reserve each level overestimates on average.
var rirBias = map[domain.Level]int{
	domain.LevelBeginner:     2,
	domain.LevelIntermediate: 1,
	domain.LevelAdvanced:     0,
}

// RIRCalibrator corrects self-reported reps in reserve by level.
type RIRCalibrator struct{}

// Calibrate returns the corrected RIR, never below zero.
func (RIRCalibrator) Calibrate(level domain.Level, reported int) int {
	corrected := reported - rirBias[level]
	if corrected < 0 {
		return 0
	}
	return corrected
}

// RPE converts a reported RIR to RPE after calibration, clamped to [1,10].
func (c RIRCalibrator) RPE(level domain.Level, reported int) int {
	rpe := 10 - c.Calibrate(level, reported)
	if rpe < 1 {
		return 1
	}
	if rpe > 10 {
		return 10
	}
	return rpe
}
