package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#166534")
	colorMuted  = lipgloss.Color("#737373")
	colorFg     = lipgloss.Color("#e5e5e5")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorFg).MarginBottom(1)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	keysStyle     = lipgloss.NewStyle().Foreground(colorMuted).Italic(true).MarginTop(1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	optionStyle   = lipgloss.NewStyle().Foreground(colorFg)
	strongStyle   = lipgloss.NewStyle().Bold(true)

	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
	focusedFieldStyle = fieldStyle.BorderForeground(colorAccent)

	zipBoxStyle        = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorMuted).Width(1)
	zipBoxFocusedStyle = zipBoxStyle.BorderForeground(colorAccent)

	panelStyle = lipgloss.NewStyle().Padding(1, 2)
)
