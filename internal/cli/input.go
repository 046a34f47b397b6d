package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/repforge/internal/app"
	"github.com/spf13/pflag"
)

// assessmentFlags collects the assessment inputs shared by program generate
// and baseline set.
type assessmentFlags struct {
	quiz      float64
	physical  float64
	tests     []string
	bodyFat   float64
	bodyShape string
}

func (a *assessmentFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&a.quiz, "quiz", 0, "Questionnaire score (0-100)")
	fs.Float64Var(&a.physical, "physical", 0, "Physical test score (0-100)")
	fs.StringArrayVar(&a.tests, "test", nil, "Practical test as pattern:variant:reps[:kg] (repeatable)")
	fs.Float64Var(&a.bodyFat, "body-fat", 0, "Body fat percentage")
	fs.StringVar(&a.bodyShape, "body-shape", "", "Body shape descriptor")
}

// assessment returns nil when no assessment flag was given.
func (a *assessmentFlags) assessment(fs *pflag.FlagSet) (*app.AssessmentInput, error) {
	if !fs.Changed("quiz") && !fs.Changed("physical") && len(a.tests) == 0 {
		return nil, nil
	}
	in := &app.AssessmentInput{}
	if fs.Changed("quiz") {
		in.QuizScore = &a.quiz
	}
	if fs.Changed("physical") {
		in.PhysicalScore = &a.physical
	}
	for _, raw := range a.tests {
		pt, err := parsePracticalTest(raw)
		if err != nil {
			return nil, err
		}
		in.Practical = append(in.Practical, pt)
	}
	return in, nil
}

func (a *assessmentFlags) bodyComposition(fs *pflag.FlagSet) *app.BodyCompositionInput {
	if !fs.Changed("body-fat") && a.bodyShape == "" {
		return nil
	}
	return &app.BodyCompositionInput{BodyFatPercentage: a.bodyFat, BodyShape: a.bodyShape}
}

// parsePracticalTest reads pattern:variant:reps[:kg].
func parsePracticalTest(raw string) (app.PracticalTestInput, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return app.PracticalTestInput{}, fmt.Errorf("practical test %q: want pattern:variant:reps[:kg]", raw)
	}
	reps, err := strconv.Atoi(parts[2])
	if err != nil {
		return app.PracticalTestInput{}, fmt.Errorf("practical test %q: reps: %w", raw, err)
	}
	pt := app.PracticalTestInput{Pattern: parts[0], VariantID: parts[1], Reps: reps}
	if len(parts) == 4 {
		kg, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return app.PracticalTestInput{}, fmt.Errorf("practical test %q: weight: %w", raw, err)
		}
		pt.WeightKg = kg
	}
	return pt, nil
}

// parsePainReport reads area:severity[:nature]. A missing nature is left
// empty and treated as unknown downstream.
func parsePainReport(raw string) (app.PainReportInput, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return app.PainReportInput{}, fmt.Errorf("pain report %q: want area:severity[:nature]", raw)
	}
	sev, err := strconv.Atoi(parts[1])
	if err != nil {
		return app.PainReportInput{}, fmt.Errorf("pain report %q: severity: %w", raw, err)
	}
	r := app.PainReportInput{Area: parts[0], Severity: sev}
	if len(parts) == 3 {
		r.Nature = parts[2]
	}
	return r, nil
}
