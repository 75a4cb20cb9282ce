package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	// Color definitions for terminal output
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	boldColor    = color.New(color.Bold)
)

type styles struct {
	Title  lipgloss.Style
	KPIBox lipgloss.Style
	Label  lipgloss.Style
	Track  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		Title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5c00")),

		KPIBox: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ff5c00")).
			Padding(0, 1),

		Label: r.NewStyle().Bold(true),
		Track: r.NewStyle().Foreground(lipgloss.Color("#27272a")),
	}
}
