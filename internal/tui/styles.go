package tui

import (
	"Hikari/internal/domain/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorUp      = lipgloss.Color("#3fb950")
	colorDown    = lipgloss.Color("#f85149")
	colorMuted   = lipgloss.Color("#8b949e")
	colorAccent  = lipgloss.Color("#58a6ff")
	colorWarning = lipgloss.Color("#d29922")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorMuted)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	upStyle     = lipgloss.NewStyle().Foreground(colorUp)
	downStyle   = lipgloss.NewStyle().Foreground(colorDown)
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Underline(true)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

func directionStyle(dir string) lipgloss.Style {
	switch dir {
	case "positive":
		return upStyle
	case "negative":
		return downStyle
	}
	return mutedStyle
}

func statusStyle(level models.StatusLevel) lipgloss.Style {
	switch level {
	case models.StatusSuccess:
		return upStyle
	case models.StatusWarning:
		return lipgloss.NewStyle().Foreground(colorWarning)
	}
	return mutedStyle
}
