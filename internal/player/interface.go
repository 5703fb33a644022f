package player

import (
	"context"
	"time"
)

// Interface is the playable-media resource the playback controller drives.
//
// SetSource, Pause, SetPosition and SetVolume return immediately. Play blocks
// until playback has actually begun or failed, so callers run it off their
// event loop. Status changes are published on Events.
type Interface interface {
	SetSource(locator string)
	Source() string
	// Generation identifies the current load. Every SetSource increments
	// it, so events of an earlier load differ even when the locator is the
	// same.
	Generation() uint64
	Play(ctx context.Context) error
	Pause()
	State() State
	Position() time.Duration
	SetPosition(d time.Duration)
	// Duration returns the source length; false while it is not yet known.
	Duration() (time.Duration, bool)
	Volume() float64
	SetVolume(level float64)
	Events() <-chan Event
	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
