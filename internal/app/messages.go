// Package app is the terminal front end: a bubbletea model that feeds keys,
// pastes, player events and watched files into the playback controller.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/deck/internal/ingest"
	"github.com/llehouerou/deck/internal/playback"
	"github.com/llehouerou/deck/internal/player"
)

// PlayerEventMsg wraps a notification from the player.
type PlayerEventMsg player.Event

// PlayerClosedMsg is sent once the player's event channel is closed.
type PlayerClosedMsg struct{}

// WatchedFileMsg carries a file that appeared in the drop folder.
type WatchedFileMsg struct {
	File *ingest.File
}

// FilesOpenedMsg carries files collected from user supplied paths.
type FilesOpenedMsg struct {
	Files []*ingest.File
	Err   error // paths that could not be read
}

// StatusClearMsg clears the status line unless a newer message replaced
// it. Version identifies the message it was scheduled for.
type StatusClearMsg struct {
	Version int
}

// inboxMsg wraps whatever arrived through the bridge.
type inboxMsg struct {
	msg tea.Msg
}

// playResultMsg delivers a finished play request to its continuation.
type playResultMsg struct {
	done func(error)
	err  error
}

// dispatchMsg runs a controller call posted from another goroutine.
type dispatchMsg func(c *playback.Controller)
