// Package ui implements the terminal interface for the query client.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#2196F3")
	colorAccent  = lipgloss.Color("#8BC34A")
	colorError   = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorMuted   = lipgloss.Color("244")
	colorSubtle  = lipgloss.Color("240")
)

// Styles groups the lipgloss styles used by the view.
type Styles struct {
	Title      lipgloss.Style
	Header     lipgloss.Style
	Prompt     lipgloss.Style
	UserInput  lipgloss.Style
	Spinner    lipgloss.Style
	Suggestion lipgloss.Style
	Selected   lipgloss.Style
	ErrorPanel lipgloss.Style
	Meta       lipgloss.Style
	SourceID   lipgloss.Style
	SourceText lipgloss.Style
	Notice     lipgloss.Style
	Recording  lipgloss.Style
	StatusBar  lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Header:     lipgloss.NewStyle().Foreground(colorMuted),
		Prompt:     lipgloss.NewStyle().Foreground(colorAccent),
		UserInput:  lipgloss.NewStyle(),
		Spinner:    lipgloss.NewStyle().Foreground(colorAccent),
		Suggestion: lipgloss.NewStyle().Foreground(colorSubtle),
		Selected:   lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		ErrorPanel: lipgloss.NewStyle().
			Foreground(colorError).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(0, 1),
		Meta:       lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		SourceID:   lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		SourceText: lipgloss.NewStyle().Foreground(colorMuted),
		Notice:     lipgloss.NewStyle().Foreground(colorWarning),
		Recording:  lipgloss.NewStyle().Foreground(colorError).Bold(true),
		StatusBar:  lipgloss.NewStyle().Foreground(colorSubtle),
	}
}
