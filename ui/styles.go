package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor      = lipgloss.Color("7")
	accentColor   = lipgloss.Color("12")
	successColor  = lipgloss.Color("10")
	warningColor  = lipgloss.Color("11")
	dangerColor   = lipgloss.Color("9")
	forecastColor = lipgloss.Color("13")

	// User message style
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	// Assistant message style
	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// System/timestamp style
	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	// Title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	GoodStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	// Series channels: the three traces must read as distinct
	ObservedStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	ErrorPointStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	ForecastStyle = lipgloss.NewStyle().
			Foreground(forecastColor)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimColor).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	StaleBannerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(warningColor).
				Bold(true).
				Padding(0, 1)
)

// zoneStyle maps an ISO 10816 zone letter to a severity style.
func zoneStyle(zone string) lipgloss.Style {
	switch zone {
	case "A":
		return GoodStyle
	case "B":
		return lipgloss.NewStyle().Foreground(successColor)
	case "C":
		return WarnStyle
	case "D":
		return ErrorStyle
	}
	return DimStyle
}
