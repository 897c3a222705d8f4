package render

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorFg        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	// Title styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	// Table styles
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg).
			Underline(true)

	PositionStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	KeywordStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	LiteralStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	OperatorStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	// Tree styles
	BranchStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	NodeStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	// Status styles
	StatusOKStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Bold(true)

	CaretStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	// Help style
	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Input style
	FocusedInputStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(colorPrimary).
				Padding(0, 1)
)
