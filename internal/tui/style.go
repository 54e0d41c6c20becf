package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)

	SeverityHigh = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	SeverityMedium = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))
)

func Success(text string) string {
	return SuccessStyle.Render(text)
}

func Warning(text string) string {
	return WarningStyle.Render(text)
}

func Error(text string) string {
	return ErrorStyle.Render(text)
}

func Muted(text string) string {
	return MutedStyle.Render(text)
}

func Label(text string) string {
	return LabelStyle.Render(text)
}

// SeverityTag renders severity as "[HIGH]", colored by level.
func SeverityTag(severity string) string {
	style := SeverityMedium
	if severity == "high" {
		style = SeverityHigh
	}
	return style.Render("[" + strings.ToUpper(severity) + "]")
}
