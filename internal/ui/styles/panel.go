package styles

import "github.com/charmbracelet/lipgloss"

// PanelStyle returns the appropriate panel style based on focus state.
// Styles are built per call so accent overrides take effect.
func PanelStyle(focused bool) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(panelBorderColor(focused))
}

func panelBorderColor(focused bool) lipgloss.Color {
	if focused {
		return defaultTheme.BorderFocus
	}
	return defaultTheme.Border
}
