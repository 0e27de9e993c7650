package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sandevgo/matria/internal/core"
)

var (
	// TitleStyle ANSI 6 (Cyan) for headings, readable on light and dark terms
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle ANSI 2 (Green) for arguments and usage lines
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (Bright Black / Gray) for secondary text
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle ANSI 3 (Yellow) for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// ResponseStyle is the default body style for assistant output
	ResponseStyle = lipgloss.NewStyle()

	// WarnStyle ANSI 3 (Yellow) for cautionary lines
	WarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// AlertStyle ANSI 1 (Red) for escalations
	AlertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

	// OkStyle ANSI 2 (Green) for routine outcomes
	OkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// RiskStyle picks the render style for a risk level.
func RiskStyle(r core.RiskLevel) lipgloss.Style {
	switch r.Clamp() {
	case core.RiskLevel1:
		return OkStyle
	case core.RiskLevel2:
		return WarnStyle
	case core.RiskLevel3:
		return WarnStyle
	default:
		return AlertStyle
	}
}
