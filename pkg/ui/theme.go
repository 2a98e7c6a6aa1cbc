package ui

import "github.com/charmbracelet/lipgloss"

// Theme bundles the colors used by the canvas and chrome. Adaptive colors
// pick the variant matching the terminal background.
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Marriage  lipgloss.AdaptiveColor
	Descent   lipgloss.AdaptiveColor
	Male      lipgloss.AdaptiveColor
	Female    lipgloss.AdaptiveColor
	Unknown   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	Renderer *lipgloss.Renderer
}

// DefaultTheme returns the standard arbor theme.
func DefaultTheme() Theme {
	return Theme{
		Primary:   lipgloss.AdaptiveColor{Light: "#1a1a2e", Dark: "#e0e0ff"},
		Secondary: lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888899"},
		Highlight: lipgloss.AdaptiveColor{Light: "#ffd54f", Dark: "#5c4d00"},
		Marriage:  lipgloss.AdaptiveColor{Light: "#c2185b", Dark: "#f48fb1"},
		Descent:   lipgloss.AdaptiveColor{Light: "#3949ab", Dark: "#9fa8da"},
		Male:      lipgloss.AdaptiveColor{Light: "#1565c0", Dark: "#90caf9"},
		Female:    lipgloss.AdaptiveColor{Light: "#ad1457", Dark: "#f8bbd0"},
		Unknown:   lipgloss.AdaptiveColor{Light: "#616161", Dark: "#bdbdbd"},
		Error:     lipgloss.AdaptiveColor{Light: "#b71c1c", Dark: "#ef9a9a"},
		Renderer:  lipgloss.DefaultRenderer(),
	}
}
