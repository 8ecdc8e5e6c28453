package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = "#00B8A9"
	colorBar    = "#F6C90E"
	colorAlert  = "#E84545"
	colorDim    = "#767676"
	colorInk    = "#1B1B1B"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorAccent)).
		MarginTop(1).
		MarginBottom(1)

	progressStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorBar))

	errorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorAlert))

	dimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorDim))

	resultBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(colorAccent)).
		Padding(1, 2)

	badgeStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorInk)).
		Background(lipgloss.Color(colorAccent)).
		Padding(0, 1)
)
