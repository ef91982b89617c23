// Package tui provides themed terminal UI components using charmbracelet.
package tui

import (
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette (Catppuccin Mocha inspired)
var (
	colorPrimary   = lipgloss.Color("205") // Pink
	colorInfo      = lipgloss.Color("75")  // Cyan
	colorDim       = lipgloss.Color("245") // Gray
	colorHighlight = lipgloss.Color("141") // Purple
)

// Styles for the form labels. Colored status lines go through the ui
// package instead.
var (
	// TitleStyle for form titles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// DimStyle for secondary/muted text
	DimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	// HighlightStyle for emphasized text
	HighlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)

	// PathStyle for file paths
	PathStyle = lipgloss.NewStyle().
			Foreground(colorInfo).
			Italic(true)
)

// SaveSyncTheme returns the custom theme for savesync TUI forms
func SaveSyncTheme() *huh.Theme {
	return huh.ThemeCatppuccin()
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsColorDisabled returns true if NO_COLOR is set or terminal doesn't support color
func IsColorDisabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	if os.Getenv("TERM") == "dumb" {
		return true
	}
	return !IsTerminal()
}

// UseAccessibleMode returns true if forms should use accessible mode
func UseAccessibleMode() bool {
	return IsColorDisabled()
}

// ApplyTheme applies the savesync theme to a form
func ApplyTheme(form *huh.Form) *huh.Form {
	if UseAccessibleMode() {
		return form.WithAccessible(true)
	}
	return form.WithTheme(SaveSyncTheme())
}
