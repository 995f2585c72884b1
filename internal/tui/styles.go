package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#7C3AED") // Purple
	muted   = lipgloss.Color("#6B7280") // Gray
	warning = lipgloss.Color("#F59E0B") // Amber
	green   = lipgloss.Color("#10B981")
	blue    = lipgloss.Color("#60A5FA")
	white   = lipgloss.Color("#FFFFFF")

	appStyle   = lipgloss.NewStyle().Padding(1, 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primary).MarginBottom(1)

	// Day rows
	dayLabelStyle       = lipgloss.NewStyle().Foreground(muted).Width(12)
	dayLabelActiveStyle = lipgloss.NewStyle().Foreground(primary).Bold(true).Width(12)
	durationStyle       = lipgloss.NewStyle().Foreground(warning)
	selectedStyle       = lipgloss.NewStyle().Background(primary).Foreground(white).Bold(true)

	labelStyle   = lipgloss.NewStyle().Foreground(muted)
	messageStyle = lipgloss.NewStyle().Foreground(green)
	linkStyle    = lipgloss.NewStyle().Foreground(blue)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().Foreground(green).Bold(true)

	// Help line
	helpKeyStyle  = lipgloss.NewStyle().Foreground(primary)
	helpTextStyle = lipgloss.NewStyle().Foreground(muted)
)
