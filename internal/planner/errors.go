package planner

import "errors"

var (
	// ErrInvalidFrequency is returned for weekly frequencies outside [1,6].
	ErrInvalidFrequency = errors.New("weekly frequency must be between 1 and 6")
	// ErrUnknownGoal is returned when no generator handles a goal tag.
	ErrUnknownGoal = errors.New("no program generator for goal")
	// ErrNoRetestPending is returned when a retest result arrives while no
	// unlock has been proposed.
	ErrNoRetestPending = errors.New("no variant retest is pending")
	// ErrCoverage signals a split that schedules a pattern fewer than twice.
	ErrCoverage = errors.New("split does not cover every pattern twice")
)
