package cli

import (
	"strconv"

	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/charmbracelet/huh"
)

var painNatures = []domain.PainNature{
	domain.NatureMuscularSoreness,
	domain.NatureJointStiffness,
	domain.NatureDeepAche,
	domain.NatureSharpAcute,
	domain.NatureBurningNerve,
	domain.NatureUnknown,
}

// painForm asks for one pain report.
func painForm(o *painOptions) *huh.Form {
	severities := make([]huh.Option[int], 0, 10)
	for n := 1; n <= 10; n++ {
		severities = append(severities, huh.NewOption(strconv.Itoa(n), n))
	}
	natures := make([]huh.Option[string], 0, len(painNatures))
	for _, n := range painNatures {
		natures = append(natures, huh.NewOption(string(n), string(n)))
	}
	if o.severity < 1 {
		o.severity = 1
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Where does it hurt?").Placeholder("knee").Value(&o.area).
				Validate(huh.ValidateNotEmpty()),
			huh.NewSelect[int]().Title("Severity").Options(severities...).Value(&o.severity),
			huh.NewSelect[string]().Title("What does it feel like?").Options(natures...).Value(&o.nature),
		),
	).WithTheme(repforgeHuhTheme()).WithShowHelp(false)
}
