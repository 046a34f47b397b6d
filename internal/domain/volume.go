package domain

import "time"

// VolumeLandmarks are weekly set-count landmarks for one muscle group.
type VolumeLandmarks struct {
	MEV int `json:"mev"`
	MAV int `json:"mav"`
	MRV int `json:"mrv"`
}

// Zone classifies a weekly set count against the landmarks.
func (l VolumeLandmarks) Zone(sets int) VolumeZone {
	switch {
	case sets < l.MEV:
		return ZoneBelowMEV
	case sets < l.MAV:
		return ZoneMEVToMAV
	case sets <= l.MRV:
		return ZoneMAVToMRV
	default:
		return ZoneAboveMRV
	}
}

type WeeklyVolumeSummary struct {
	UserID        string      `json:"user_id"`
	WeekStart     time.Time   `json:"week_start"`
	MuscleGroup   MuscleGroup `json:"muscle_group"`
	SetsCompleted int         `json:"sets_completed"`
	Zone          VolumeZone  `json:"zone"`
}

type VolumeAction string

const (
	VolumeIncrease VolumeAction = "increase"
	VolumeHold     VolumeAction = "hold"
	VolumeDecrease VolumeAction = "decrease"
)

// VolumeRecommendation feeds the next planning cycle.
type VolumeRecommendation struct {
	MuscleGroup MuscleGroup  `json:"muscle_group"`
	Action      VolumeAction `json:"action"`
	Reason      string       `json:"reason"`
}

// WeekStart returns the Monday 00:00 UTC of the week containing t.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}
