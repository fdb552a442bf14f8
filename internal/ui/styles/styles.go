// Package styles provides shared lipgloss styles for gmux output.
//
// Centralizing the palette keeps the status/list tables and per-repo
// result lines visually consistent.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the output
var (
	// Success is used for per-repo ok markers (green)
	Success lipgloss.TerminalColor = lipgloss.Color("82")

	// Error is used for per-repo FAIL markers and errors (red)
	Error lipgloss.TerminalColor = lipgloss.Color("196")

	// Warn is used for dirty/untracked markers (yellow)
	Warn lipgloss.TerminalColor = lipgloss.Color("214")

	// Muted is used for secondary text (gray)
	Muted lipgloss.TerminalColor = lipgloss.Color("240")

	// Accent is the highlight color for the current session (pink)
	Accent lipgloss.TerminalColor = lipgloss.Color("212")
)

// Common styles
var (
	// Bold applies bold formatting
	Bold = lipgloss.NewStyle().Bold(true)

	// SuccessStyle applies the success color
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)

	// ErrorStyle applies the error color
	ErrorStyle = lipgloss.NewStyle().Foreground(Error)

	// WarnStyle applies the warn color
	WarnStyle = lipgloss.NewStyle().Foreground(Warn)

	// MutedStyle applies the muted color
	MutedStyle = lipgloss.NewStyle().Foreground(Muted)

	// AccentStyle applies the accent color with bold
	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
)
