package app

import "github.com/llehouerou/deck/internal/ui/playerview"

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// View renders the player. Before the first WindowSizeMsg it assumes a
// standard terminal.
func (m Model) View() string {
	w, h := m.Width, m.Height
	if w <= 0 || h <= 0 {
		w, h = defaultWidth, defaultHeight
	}
	out := m.Screen.Render(w, h, m.help, m.Prompt.View())
	if m.cover == nil {
		return out
	}
	// Uploads go out once; the placement is repeated so redraws keep it.
	return m.cover.TakePending() + out + m.cover.Placement(playerview.CoverRow, 1)
}
