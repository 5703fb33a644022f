package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient renders text with a horizontal color gradient between two hex
// colors, one color per grapheme cluster.
func Gradient(text string, from, to lipgloss.Color, bold bool) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Foreground(from).Bold(bold).Render(text)
	}

	var b strings.Builder
	for i, c := range Blend(len(clusters), from, to) {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Bold(bold)
		b.WriteString(style.Render(clusters[i]))
	}
	return b.String()
}

// Blend returns n colors from from to to, blended in HCL space for
// perceptually even steps.
func Blend(n int, from, to lipgloss.Color) []colorful.Color {
	c1 := toColorful(from)
	if n < 2 {
		return []colorful.Color{c1}
	}
	c2 := toColorful(to)

	out := make([]colorful.Color, n)
	for i := range n {
		out[i] = c1.BlendHcl(c2, float64(i)/float64(n-1)).Clamped()
	}
	return out
}

// toColorful parses a "#rrggbb" color; ANSI color numbers fall back to a
// neutral gray.
func toColorful(c lipgloss.Color) colorful.Color {
	if col, err := colorful.Hex(string(c)); err == nil {
		return col
	}
	gray, _ := colorful.MakeColor(color.Gray{Y: 128})
	return gray
}
