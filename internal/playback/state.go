package playback

import (
	"time"

	"github.com/llehouerou/deck/internal/playlist"
)

// State is the controller's player state.
type State struct {
	CurrentIndex int     // -1 while the playlist is empty
	Playing      bool    // last settled play/pause outcome
	Volume       float64 // 0.0 to 1.0
	Shuffle      bool    // stored only
	Repeat       bool    // stored only
}

// Snapshot is a read-only copy of everything a remote control surface shows.
type Snapshot struct {
	State
	Len           int
	Track         playlist.Track
	HasTrack      bool
	Position      time.Duration
	Duration      time.Duration
	DurationKnown bool
}
