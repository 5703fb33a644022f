package playback

import "github.com/llehouerou/deck/internal/playlist"

// View is the rendering surface the controller keeps in sync with its state.
// All calls happen on the event loop.
type View interface {
	SetPlaylist(tracks []playlist.Track)
	// SetActive marks exactly one playlist entry as the loaded one.
	SetActive(index int)
	SetTrack(title, artist, artwork string)
	// SetProgress sets the position indicator, in percent of the duration.
	SetProgress(percent float64)
	SetElapsed(label string)
	SetDuration(label string)
	SetPlaying(playing bool)
	SetLoading(loading bool)
	SetVolume(level float64)
}

// Listener is told about controller changes that matter outside the view.
type Listener interface {
	TrackLoaded(index int, track playlist.Track)
	PlayingChanged(playing bool)
}

type nopView struct{}

func (nopView) SetPlaylist([]playlist.Track)    {}
func (nopView) SetActive(int)                   {}
func (nopView) SetTrack(string, string, string) {}
func (nopView) SetProgress(float64)             {}
func (nopView) SetElapsed(string)               {}
func (nopView) SetDuration(string)              {}
func (nopView) SetPlaying(bool)                 {}
func (nopView) SetLoading(bool)                 {}
func (nopView) SetVolume(float64)               {}
