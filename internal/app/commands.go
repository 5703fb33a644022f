package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/deck/internal/ingest"
	"github.com/llehouerou/deck/internal/player"
)

const statusTimeout = 3 * time.Second

// waitForPlayerEvent returns a command that delivers the next player event.
func waitForPlayerEvent(events <-chan player.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return PlayerClosedMsg{}
		}
		return PlayerEventMsg(e)
	}
}

// waitForWatchedFile returns a command that delivers the next file from the
// drop folder. It returns nil once the watcher is closed.
func waitForWatchedFile(files <-chan *ingest.File) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-files
		if !ok {
			return nil
		}
		return WatchedFileMsg{File: f}
	}
}

// openPaths returns a command that collects paths off the event loop.
func openPaths(paths []string) tea.Cmd {
	if len(paths) == 0 {
		return nil
	}
	return func() tea.Msg {
		return collect(paths)
	}
}

func collect(paths []string) FilesOpenedMsg {
	files, err := ingest.Collect(paths)
	return FilesOpenedMsg{Files: files, Err: err}
}

// clearStatusCmd returns a command that clears the status line after a delay.
func clearStatusCmd(version int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return StatusClearMsg{Version: version}
	})
}
