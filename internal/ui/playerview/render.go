package playerview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/deck/internal/icons"
	"github.com/llehouerou/deck/internal/ui/render"
	"github.com/llehouerou/deck/internal/ui/styles"
)

const (
	appTitle = "deck"

	// CoverRow is the 1-based terminal row of the now-playing block, where
	// a cover image goes.
	CoverRow = 3

	// header, now playing (3), transport, status, panel borders
	chromeRows = 9
	minWidth   = 20
)

const (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// Render draws the whole view into width x height cells. prompt replaces
// the help line when non-empty.
func (m *Model) Render(width, height int, help, prompt string) string {
	width = max(width, minWidth)
	s := styles.T().S()

	header := styles.Gradient(appTitle, styles.T().GradientFrom, styles.T().GradientTo, true)
	if m.loading {
		header += " " + s.Muted.Render(icons.Loading())
	}

	lines := []string{
		render.Row(header, m.renderVolume(), width),
		"",
	}
	lines = append(lines, m.renderNowPlaying(width)...)
	lines = append(lines,
		m.RenderProgress(width),
		m.renderStatus(width),
	)

	rows := max(height-chromeRows, 1)
	panel := styles.T().Panel(prompt == "").
		Width(width - 2).
		Render(m.renderPlaylist(width-4, rows))
	lines = append(lines, panel)

	footer := s.Subtle.Render(render.Truncate(help, width))
	if prompt != "" {
		footer = prompt
	}
	lines = append(lines, footer)

	return strings.Join(lines, "\n")
}

func (m *Model) renderNowPlaying(width int) []string {
	s := styles.T().S()
	indent := strings.Repeat(" ", m.coverCols)
	width = max(width-m.coverCols, 1)
	if m.active < 0 {
		return []string{
			s.Muted.Render("No track loaded"),
			s.Subtle.Render(render.Truncate("Drop audio files here or press o to open one", width)),
			"",
		}
	}
	return []string{
		indent + s.Title.Render(render.Truncate(icons.FormatAudio(m.title), width)),
		indent + s.Muted.Render(render.Truncate(m.artist, width)),
		indent + s.Subtle.Render(render.Truncate(m.artwork, width)),
	}
}

func (m *Model) renderVolume() string {
	var modes []string
	if m.shuffle {
		modes = append(modes, icons.Shuffle())
	}
	if m.repeat {
		modes = append(modes, icons.Repeat())
	}
	vol := fmt.Sprintf("%s %3d%%", icons.Volume(m.volume), int(m.volume*100+0.5))
	return styles.T().S().Muted.Render(strings.Join(append(modes, vol), "  "))
}

func (m *Model) renderStatus(width int) string {
	s := styles.T().S()
	if m.failed {
		return s.Error.Render(render.Truncate(m.status, width))
	}
	return s.Muted.Render(render.Truncate(m.status, width))
}

// RenderProgress renders the transport line.
// Format: ▶  1:23  ▓▓▓▓▓░░░░░  4:56
func (m *Model) RenderProgress(width int) string {
	status := icons.PlayPause(m.playing)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(m.elapsed) + 2 + 2 + lipgloss.Width(m.duration)
	barWidth := width - fixedWidth
	if barWidth < 3 {
		return status + "  " + m.elapsed + " / " + m.duration
	}

	filled := min(int(float64(barWidth)*m.progress/100), barWidth)
	bar := styles.T().S().Progress.Render(strings.Repeat(filledBlock, filled)) +
		styles.T().S().Subtle.Render(strings.Repeat(emptyBlock, barWidth-filled))

	return status + "  " + m.elapsed + "  " + bar + "  " + m.duration
}

func (m *Model) renderPlaylist(width, rows int) string {
	s := styles.T().S()
	if len(m.tracks) == 0 {
		return s.Subtle.Render(render.Fit("Playlist is empty", width))
	}

	start := scrollStart(m.cursor, len(m.tracks), rows)
	end := min(start+rows, len(m.tracks))

	marker := icons.Active()
	markerWidth := lipgloss.Width(marker) + 1

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		t := m.tracks[i]
		prefix := strings.Repeat(" ", markerWidth)
		if i == m.active {
			prefix = marker + " "
		}
		text := render.Fit(t.Title+"  "+t.Artist, width-markerWidth)

		var style lipgloss.Style
		switch {
		case i == m.cursor && i == m.active:
			style = s.Cursor.Foreground(styles.T().Accent).Bold(true)
		case i == m.cursor:
			style = s.Cursor
		case i == m.active:
			style = s.Active
		default:
			style = s.Base
		}
		out = append(out, style.Render(prefix+text))
	}
	return strings.Join(out, "\n")
}

// scrollStart returns the first visible row so the cursor stays on screen.
func scrollStart(cursor, total, rows int) int {
	if total <= rows {
		return 0
	}
	start := cursor - rows/2
	return min(max(start, 0), total-rows)
}
