package app

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/alexanderramin/repforge/internal/domain"
)

// PracticalTestInput is one assessed set: a variant and what was achieved.
type PracticalTestInput struct {
	Pattern   string
	VariantID string
	Reps      int
	WeightKg  float64
}

type AssessmentInput struct {
	QuizScore     *float64
	PhysicalScore *float64
	Practical     []PracticalTestInput
}

type BodyCompositionInput struct {
	BodyFatPercentage float64
	BodyShape         string
}

// GenerateProgramRequest is what the onboarding collaborator sends.
type GenerateProgramRequest struct {
	UserID            string
	Level             string // optional; resolved from the assessment when empty
	Goal              string
	Location          string
	Frequency         int
	Equipment         []string
	PainAreas         map[string]int
	DisabilityType    string
	SportRole         string
	SpecificBodyParts []string
	Assessment        *AssessmentInput
	BodyComposition   *BodyCompositionInput
	Now               *time.Time
}

// ParsedProgramRequest is a validated request in domain types.
type ParsedProgramRequest struct {
	UserID    string
	Level     *domain.Level
	Goal      domain.Goal
	Location  domain.Location
	Frequency int
	Equipment []domain.Equipment
}

// Validate checks every field and returns all violations at once.
func (r GenerateProgramRequest) Validate() (ParsedProgramRequest, error) {
	var errs ValidationErrors
	out := ParsedProgramRequest{UserID: r.UserID, Frequency: r.Frequency}

	if r.UserID == "" {
		errs.Add("user_id", ValidationMissingField, "user id is required")
	}
	if r.Level != "" {
		l, err := domain.ParseLevel(r.Level)
		if err != nil {
			errs.Add("level", ValidationUnknownLevel, err.Error())
		} else {
			out.Level = &l
		}
	}
	switch g, err := domain.ParseGoal(r.Goal); {
	case r.Goal == "":
		errs.Add("goal", ValidationMissingField, "goal is required")
	case err != nil:
		errs.Add("goal", ValidationUnknownGoal, err.Error())
	default:
		out.Goal = g
	}
	switch l, err := domain.ParseLocation(r.Location); {
	case r.Location == "":
		errs.Add("location", ValidationMissingField, "location is required")
	case err != nil:
		errs.Add("location", ValidationUnknownLocation, err.Error())
	default:
		out.Location = l
	}
	if r.Frequency < 1 || r.Frequency > 6 {
		errs.Add("frequency", ValidationInvalidFrequency, fmt.Sprintf("frequency must be between 1 and 6, got %d", r.Frequency))
	}
	for _, e := range r.Equipment {
		eq := domain.Equipment(e)
		if !eq.Valid() {
			errs.Add("equipment", ValidationUnknownEquipment, fmt.Sprintf("unknown equipment %q", e))
			continue
		}
		out.Equipment = append(out.Equipment, eq)
	}
	for _, area := range slices.Sorted(maps.Keys(r.PainAreas)) {
		if sev := r.PainAreas[area]; sev < 0 || sev > 10 {
			errs.Add("pain_areas."+area, ValidationInvalidSeverity, fmt.Sprintf("severity %d outside [0,10]", sev))
		}
	}
	if a := r.Assessment; a != nil {
		validateScore(&errs, "assessment.quiz_score", a.QuizScore)
		validateScore(&errs, "assessment.physical_score", a.PhysicalScore)
		for i, pt := range a.Practical {
			field := fmt.Sprintf("assessment.practical[%d]", i)
			if !domain.MovementPattern(pt.Pattern).Valid() {
				errs.Add(field+".pattern", ValidationUnknownPattern, fmt.Sprintf("unknown pattern %q", pt.Pattern))
			}
			if pt.VariantID == "" {
				errs.Add(field+".variant_id", ValidationMissingField, "variant is required")
			}
			if pt.Reps < 0 || pt.WeightKg < 0 {
				errs.Add(field, ValidationOutOfRange, "reps and weight cannot be negative")
			}
		}
	}
	if bc := r.BodyComposition; bc != nil && (bc.BodyFatPercentage < 0 || bc.BodyFatPercentage > 70) {
		errs.Add("body_composition.body_fat_percentage", ValidationOutOfRange, fmt.Sprintf("%.1f outside [0,70]", bc.BodyFatPercentage))
	}

	if err := errs.Err(); err != nil {
		return ParsedProgramRequest{}, err
	}
	return out, nil
}

func validateScore(errs *ValidationErrors, field string, v *float64) {
	if v != nil && (*v < 0 || *v > 100) {
		errs.Add(field, ValidationOutOfRange, fmt.Sprintf("%.1f outside [0,100]", *v))
	}
}

// GenerateProgramResponse wraps the program with how it was produced.
type GenerateProgramResponse struct {
	Program *domain.Program
	Level   domain.Level
	// Degraded is set when stored state was unreadable and defaults were used;
	// callers should prompt a re-assessment.
	Degraded      bool
	Warnings      []string
	VolumeActions map[domain.MuscleGroup]domain.VolumeAction
}
