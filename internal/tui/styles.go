package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.Color("#10b981")
	colorYellow = lipgloss.Color("#f59e0b")
	colorRed    = lipgloss.Color("#ef4444")
	colorGray   = lipgloss.Color("#6b7280")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorCyan   = lipgloss.Color("#06b6d4")
	colorPurple = lipgloss.Color("#8b5cf6")
	colorWhite  = lipgloss.Color("#f8fafc")
	colorDark   = lipgloss.Color("#1e293b")
	colorAlt    = lipgloss.Color("#0f172a")
)

var (
	StyleHeader = lipgloss.NewStyle().Background(colorDark).Foreground(colorWhite).Padding(0, 1)
	StylePanel  = lipgloss.NewStyle().Background(colorAlt).Foreground(colorWhite).Padding(0, 1)
	StyleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	StyleError  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	StyleDim    = lipgloss.NewStyle().Foreground(colorGray)
	StyleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	StyleCyan   = lipgloss.NewStyle().Foreground(colorCyan)
)

// Node table cell colours by severity.
var (
	styleNormal = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarn   = lipgloss.NewStyle().Foreground(colorYellow)
	styleCrit   = lipgloss.NewStyle().Foreground(colorRed)
)

var healthStyles = map[string]lipgloss.Style{
	"green":  lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
	"yellow": lipgloss.NewStyle().Bold(true).Foreground(colorYellow),
	"red":    lipgloss.NewStyle().Bold(true).Foreground(colorRed),
}

// StatusStyle returns the style for a cluster health colour; unknown or
// empty health renders dim.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := healthStyles[status]; ok {
		return s
	}
	return StyleDim
}
