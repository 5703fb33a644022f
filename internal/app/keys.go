package app

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/llehouerou/deck/internal/ingest"
	"github.com/llehouerou/deck/internal/keymap"
)

const (
	seekStep   = 5.0 // percent of the duration
	volumeStep = 5.0 // percent
)

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Prompt.Active() {
		return m, m.Prompt.Update(msg)
	}

	// Terminals paste the paths of files dragged onto them.
	if msg.Paste {
		paths := ingest.ParseDropped(string(msg.Runes))
		m.log.Debug("paths dropped", zap.Strings("paths", paths))
		return m, openPaths(paths)
	}

	key := msg.String()
	c := m.Controller
	switch m.keys.Resolve(key) {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionOpenPrompt:
		return m, m.Prompt.Start("Open:", "", m.Width)

	case keymap.ActionPlayPause:
		c.TogglePlayPause()
	case keymap.ActionNextTrack:
		c.NextTrack()
	case keymap.ActionPrevTrack:
		c.PreviousTrack()
	case keymap.ActionSeekForward:
		m.seekBy(seekStep)
	case keymap.ActionSeekBack:
		m.seekBy(-seekStep)
	case keymap.ActionSeekTo:
		c.Seek(float64(key[0]-'0') * 10)
	case keymap.ActionVolumeUp:
		m.changeVolume(volumeStep)
	case keymap.ActionVolumeDown:
		m.changeVolume(-volumeStep)
	case keymap.ActionShuffle:
		c.SetShuffle(!c.State().Shuffle)
	case keymap.ActionRepeat:
		c.SetRepeat(!c.State().Repeat)

	case keymap.ActionMoveUp:
		m.Screen.MoveCursor(-1)
	case keymap.ActionMoveDown:
		m.Screen.MoveCursor(1)
	case keymap.ActionLoadTrack:
		c.LoadTrack(m.Screen.Cursor())
	}
	return m, nil
}

// seekBy moves the position by delta percent of the duration.
func (m Model) seekBy(delta float64) {
	s := m.Controller.Snapshot()
	if !s.DurationKnown || s.Duration <= 0 {
		return
	}
	pct := float64(s.Position)/float64(s.Duration)*100 + delta
	m.Controller.Seek(lo.Clamp(pct, 0, 100))
}

func (m Model) changeVolume(delta float64) {
	level := math.Round(m.Controller.State().Volume*100) + delta
	m.Controller.SetVolume(lo.Clamp(level, 0, 100))
}
