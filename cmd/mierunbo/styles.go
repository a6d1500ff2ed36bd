package main

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#E4572E")
	successColor = lipgloss.Color("#4ECDC4")
	warningColor = lipgloss.Color("#FFE66D")
	errorColor   = lipgloss.Color("#FF6B6B")
	subtleColor  = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// HeaderStyle is used for table headers.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	// SuccessStyle formats figures that are within budget.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// WarningStyle highlights urgent renewals.
	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	// ErrorStyle formats errors and overspending.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	// BoxStyle frames the budget overview.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 2)
)
