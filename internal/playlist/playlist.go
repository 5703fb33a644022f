// Package playlist holds the ordered, append-only track list.
package playlist

import "github.com/llehouerou/deck/internal/ingest"

// Track represents a single playable entry with its display metadata.
// Tracks are identified by their position in the playlist.
type Track struct {
	Title   string
	Artist  string
	Source  string       // resource locator: URL, file path or blob: handle
	Artwork string       // artwork locator shown next to the title
	Origin  *ingest.File // raw file the track was created from (nil for demo entries)
}

// Playlist holds an ordered collection of tracks.
// It only grows: tracks are appended and never removed or reordered.
type Playlist struct {
	tracks []Track
}

// New creates a new empty playlist.
func New() *Playlist {
	return &Playlist{
		tracks: make([]Track, 0),
	}
}

// Add appends tracks to the playlist.
func (p *Playlist) Add(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Track returns a copy of the track at the given index.
// The second value is false if index is out of bounds.
func (p *Playlist) Track(index int) (Track, bool) {
	if !p.Valid(index) {
		return Track{}, false
	}
	return p.tracks[index], true
}

// Valid reports whether index addresses a track.
func (p *Playlist) Valid(index int) bool {
	return index >= 0 && index < len(p.tracks)
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// IsEmpty returns true if the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return len(p.tracks) == 0
}

// Wrap maps any integer onto a valid index, cycling past either end.
// Returns -1 for an empty playlist.
func (p *Playlist) Wrap(index int) int {
	n := len(p.tracks)
	if n == 0 {
		return -1
	}
	return ((index % n) + n) % n
}
