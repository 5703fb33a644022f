package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles for the player.
type Theme struct {
	// Header gradient
	GradientFrom lipgloss.Color
	GradientTo   lipgloss.Color

	Accent lipgloss.Color // active entry, progress fill

	// Text hierarchy (most to least prominent)
	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgCursor lipgloss.Color // cursor highlight

	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Error lipgloss.Color

	styles *Styles
}

// Styles contains pre-built lipgloss styles.
type Styles struct {
	Base     lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style
	Title    lipgloss.Style
	Active   lipgloss.Style // loaded playlist entry
	Cursor   lipgloss.Style
	Progress lipgloss.Style // filled part of the progress bar
	Error    lipgloss.Style
}

var defaultTheme = Theme{
	GradientFrom: lipgloss.Color("#667eea"),
	GradientTo:   lipgloss.Color("#764ba2"),

	Accent: lipgloss.Color("#8f9cf0"),

	FgBase:   lipgloss.Color("#d0d0d0"),
	FgMuted:  lipgloss.Color("#8a8a8a"),
	FgSubtle: lipgloss.Color("#5c5c5c"),

	BgCursor: lipgloss.Color("#2e2e3e"),

	Border:      lipgloss.Color("#4e4e5e"),
	BorderFocus: lipgloss.Color("#667eea"),

	Error: lipgloss.Color("#ff5f5f"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)

	return &Styles{
		Base:   base,
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:  base.Bold(true),
		Active: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Background(t.BgCursor).
			Foreground(t.FgBase),
		Progress: lipgloss.NewStyle().Foreground(t.Accent),
		Error:    lipgloss.NewStyle().Foreground(t.Error),
	}
}
