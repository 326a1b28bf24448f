// Package styles provides colour themes and styling for the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the TUI palette. Each colour has a light and a dark variant and
// lipgloss picks one from the terminal background.
type Theme struct {
	Primary    lipgloss.AdaptiveColor // title, scores, selection background
	Secondary  lipgloss.AdaptiveColor // pane headings
	Foreground lipgloss.AdaptiveColor
	Muted      lipgloss.AdaptiveColor
	Highlight  lipgloss.AdaptiveColor // the sentence of a document closest to the question
	Error      lipgloss.AdaptiveColor
	Border     lipgloss.AdaptiveColor
}

func adaptive(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    adaptive("#1F5F7A", "#2E86AB"),
		Secondary:  adaptive("#7A2456", "#A23B72"),
		Foreground: adaptive("#1A1A1A", "#E5E5E5"),
		Muted:      adaptive("#6B6B6B", "#7A7A7A"),
		Highlight:  adaptive("#B35F00", "#F18F01"),
		Error:      adaptive("#A32A12", "#C73E1D"),
		Border:     adaptive("#BDBDBD", "#4A4A4A"),
	}
}

// Styles are the lipgloss styles the views render with.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style // the match under the cursor
	Score      lipgloss.Style
	Highlight  lipgloss.Style
	Error      lipgloss.Style
	InputField lipgloss.Style
	Pane       lipgloss.Style // answer and document pane
	StatusBar  lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	boxed := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	return &Styles{
		theme:      theme,
		Title:      fg(theme.Primary).Bold(true),
		Subtitle:   fg(theme.Secondary).Bold(true),
		Normal:     fg(theme.Foreground),
		Muted:      fg(theme.Muted),
		Selected:   fg(theme.Foreground).Background(theme.Primary).Bold(true),
		Score:      fg(theme.Primary),
		Highlight:  fg(theme.Highlight).Bold(true),
		Error:      fg(theme.Error),
		InputField: boxed,
		Pane:       boxed,
		StatusBar:  fg(theme.Muted).Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
