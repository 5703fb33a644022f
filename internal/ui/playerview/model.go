// Package playerview is the terminal rendering surface of the player: the
// now-playing block, transport line and playlist panel.
package playerview

import (
	"github.com/llehouerou/deck/internal/playback"
	"github.com/llehouerou/deck/internal/playlist"
)

// Model holds what the controller last told the view. It is only touched
// from the event loop.
type Model struct {
	tracks   []playlist.Track
	active   int
	cursor   int
	title    string
	artist   string
	artwork  string
	progress float64
	elapsed  string
	duration string
	playing  bool
	loading  bool
	volume   float64
	status   string
	failed   bool
	shuffle  bool
	repeat   bool

	coverCols int
}

// New creates an empty view.
func New() *Model {
	return &Model{
		active:   -1,
		elapsed:  "0:00",
		duration: "0:00",
		volume:   1,
	}
}

var _ playback.View = (*Model)(nil)

func (m *Model) SetPlaylist(tracks []playlist.Track) {
	m.tracks = tracks
	m.cursor = min(max(m.cursor, 0), max(len(tracks)-1, 0))
}

// SetActive marks the loaded entry and moves the cursor onto it.
func (m *Model) SetActive(index int) {
	m.active = index
	if index >= 0 && index < len(m.tracks) {
		m.cursor = index
	}
}

func (m *Model) SetTrack(title, artist, artwork string) {
	m.title, m.artist, m.artwork = title, artist, artwork
}

func (m *Model) SetProgress(percent float64) {
	m.progress = min(max(percent, 0), 100)
}

func (m *Model) SetElapsed(label string)  { m.elapsed = label }
func (m *Model) SetDuration(label string) { m.duration = label }
func (m *Model) SetPlaying(playing bool)  { m.playing = playing }
func (m *Model) SetLoading(loading bool)  { m.loading = loading }
func (m *Model) SetVolume(level float64)  { m.volume = level }

// SetStatus shows a one-line message under the transport, replacing the
// previous one. Empty clears it.
func (m *Model) SetStatus(msg string) {
	m.status = msg
	m.failed = false
}

// SetError is SetStatus for failures.
func (m *Model) SetError(msg string) {
	m.status = msg
	m.failed = true
}

// Status returns the status line.
func (m *Model) Status() string { return m.status }

// SetModes shows the shuffle and repeat flags.
func (m *Model) SetModes(shuffle, repeat bool) {
	m.shuffle = shuffle
	m.repeat = repeat
}

// SetCoverWidth reserves cols cells left of the now-playing text for a
// cover image. Zero removes the space.
func (m *Model) SetCoverWidth(cols int) { m.coverCols = max(cols, 0) }

// MoveCursor moves the playlist cursor by delta rows, stopping at the ends.
func (m *Model) MoveCursor(delta int) {
	if len(m.tracks) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.tracks)-1)
}

// Cursor returns the index under the cursor, or -1 on an empty playlist.
func (m *Model) Cursor() int {
	if len(m.tracks) == 0 {
		return -1
	}
	return m.cursor
}

// Active returns the index of the loaded entry.
func (m *Model) Active() int { return m.active }

// Progress returns the position indicator in percent.
func (m *Model) Progress() float64 { return m.progress }

// Playing reports whether the pause icon is shown.
func (m *Model) Playing() bool { return m.playing }

// Loading reports whether the loading indicator is shown.
func (m *Model) Loading() bool { return m.loading }

// Labels returns the elapsed and duration labels.
func (m *Model) Labels() (elapsed, duration string) { return m.elapsed, m.duration }
