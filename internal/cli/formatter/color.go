package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/repforge/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ZoneStyle colors a weekly volume zone: under-dosed yellow, productive
// green, over the recoverable ceiling red.
func ZoneStyle(z domain.VolumeZone) lipgloss.Style {
	switch z {
	case domain.ZoneBelowMEV:
		return StyleYellow
	case domain.ZoneMEVToMAV, domain.ZoneMAVToMRV:
		return StyleGreen
	case domain.ZoneAboveMRV:
		return StyleRed
	default:
		return StyleDim
	}
}

// ConfidencePill returns a colored substitution confidence label.
func ConfidencePill(c domain.Confidence) string {
	switch c {
	case domain.ConfidenceHigh:
		return StyleGreen.Render("● HIGH")
	case domain.ConfidenceMedium:
		return StyleYellow.Render("● MEDIUM")
	case domain.ConfidenceLow:
		return StyleRed.Render("● LOW")
	case "":
		return StyleDim.Render("--")
	default:
		return StyleDim.Render("● " + string(c))
	}
}

// StatusPill returns a colored indicator for a workout session status.
func StatusPill(status domain.SessionStatus) string {
	switch status {
	case domain.SessionInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.SessionCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.SessionAborted:
		return StyleRed.Render("✖ Aborted")
	default:
		return StyleDim.Render(string(status))
	}
}

// SeverityStyle colors a 1-10 pain severity by decision-table band.
func SeverityStyle(severity int) lipgloss.Style {
	switch {
	case severity >= 7:
		return StyleRed
	case severity >= 4:
		return StyleYellow
	default:
		return StyleGreen
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
