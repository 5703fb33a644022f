package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize/english"
	"go.uber.org/zap"

	"github.com/llehouerou/deck/internal/errmsg"
	"github.com/llehouerou/deck/internal/ingest"
	"github.com/llehouerou/deck/internal/player"
	"github.com/llehouerou/deck/internal/ui/textinput"
)

// Update handles a message and publishes the resulting controller state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.publish()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case inboxMsg:
		next, cmd := m.handleInbox(msg.msg)
		return next, tea.Batch(cmd, next.bridge.wait())

	case PlayerEventMsg:
		m.Controller.HandleEvent(player.Event(msg))
		return m, waitForPlayerEvent(m.player.Events())

	case PlayerClosedMsg:
		m.log.Debug("player events closed")
		return m, nil

	case WatchedFileMsg:
		if n := m.Controller.IngestFiles([]*ingest.File{msg.File}); n > 0 {
			m.log.Info("added from drop folder", zap.String("name", msg.File.Name))
		}
		return m, waitForWatchedFile(m.watcher.Files())

	case FilesOpenedMsg:
		return m.handleFilesOpened(msg)

	case textinput.ResultMsg:
		if msg.Canceled || msg.Text == "" {
			return m, nil
		}
		return m, openPaths([]string{msg.Text})

	case StatusClearMsg:
		if msg.Version == m.statusVersion {
			m.Screen.SetStatus("")
		}
		return m, nil
	}

	// Cursor blinks and other component messages.
	if m.Prompt.Active() {
		return m, m.Prompt.Update(msg)
	}
	return m, nil
}

func (m Model) handleInbox(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case playResultMsg:
		msg.done(msg.err)
	case dispatchMsg:
		msg(m.Controller)
	case FilesOpenedMsg:
		return m.handleFilesOpened(msg)
	}
	return m, nil
}

func (m Model) handleFilesOpened(msg FilesOpenedMsg) (Model, tea.Cmd) {
	added := m.Controller.IngestFiles(msg.Files)
	if msg.Err != nil {
		m.log.Warn("some paths could not be opened", zap.Error(msg.Err))
		return m.setError(strings.ReplaceAll(errmsg.Format(errmsg.OpFileOpen, msg.Err), "\n", "; "))
	}
	if added == 0 {
		return m, nil
	}
	return m.setStatus("Added " + english.Plural(added, "track", ""))
}

func (m Model) setStatus(text string) (Model, tea.Cmd) {
	m.statusVersion++
	m.Screen.SetStatus(text)
	return m, clearStatusCmd(m.statusVersion)
}

func (m Model) setError(text string) (Model, tea.Cmd) {
	m.statusVersion++
	m.Screen.SetError(text)
	return m, clearStatusCmd(m.statusVersion)
}
