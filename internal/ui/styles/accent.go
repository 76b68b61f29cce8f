package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// AccentTitle renders a station name in bold with a sweep from the accent
// color into the favorite gold. The text is split into grapheme clusters so
// flags and combining marks color as single units.
func (t *Theme) AccentTitle(text string) string {
	if text == "" {
		return ""
	}

	var clusters []string
	for gr := uniseg.NewGraphemes(text); gr.Next(); {
		clusters = append(clusters, gr.Str())
	}

	ramp := accentRamp(t.Primary, t.Secondary, len(clusters))

	var b strings.Builder
	for i, cluster := range clusters {
		b.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(ramp[i]).
			Render(cluster))
	}
	return b.String()
}

// accentRamp interpolates between two theme colors in HCL space, which keeps
// the perceived brightness even across the sweep. A single step keeps the
// start color.
func accentRamp(from, to lipgloss.Color, steps int) []lipgloss.Color {
	out := make([]lipgloss.Color, steps)
	if steps == 1 {
		out[0] = from
		return out
	}

	start := themeColor(from)
	end := themeColor(to)
	for i := range steps {
		blend := start.BlendHcl(end, float64(i)/float64(steps-1))
		out[i] = lipgloss.Color(blend.Hex())
	}
	return out
}

// themeColor parses a theme hex color, falling back to mid gray for values
// colorful cannot interpret.
func themeColor(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}
