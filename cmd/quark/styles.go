package main

import "github.com/charmbracelet/lipgloss"

// Terminal palette shared by the REPL and the diagnostics printer. Colors
// collapse to plain text under --no-color.
var (
	accentColor    = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	successColor   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	errorColor     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	mutedColor     = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	highlightColor = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

	promptStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(successColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	titleStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Padding(0, 1)
	nameStyle   = lipgloss.NewStyle().Foreground(highlightColor)
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)
