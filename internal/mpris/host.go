// Package mpris exposes the player on the D-Bus session bus as an MPRIS2
// media player, so media keys and desktop widgets can drive it.
package mpris

import "github.com/llehouerou/deck/internal/playback"

// Host is the side of the application the adapter talks to. D-Bus calls
// arrive on their own goroutines, so commands are posted to the event loop
// and reads come from a published snapshot.
type Host interface {
	// Snapshot returns the last published controller state.
	Snapshot() playback.Snapshot
	// Dispatch runs fn on the event loop.
	Dispatch(fn func(c *playback.Controller))
	// OpenPaths ingests local files.
	OpenPaths(paths []string)
}
