package ui

import "github.com/charmbracelet/lipgloss"

// Styles used by the form.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Answer lipgloss.Style
	Error  lipgloss.Style
	Faint  lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Title:  base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Label:  base.Bold(true),
		Answer: base.Foreground(lipgloss.Color("#D1D5DB")),
		Error:  base.Foreground(lipgloss.Color("#EF4444")),
		Faint:  base.Faint(true),
	}
}
