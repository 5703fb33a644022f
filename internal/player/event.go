package player

import "fmt"

// EventType identifies a media resource notification.
type EventType int

const (
	EventLoadStart      EventType = iota // a new source started loading
	EventLoadedMetadata                  // duration became known
	EventCanPlay                         // source decoded and ready
	EventTimeUpdate                      // position advanced or jumped
	EventEnded                           // playback reached the end naturally
	EventError                           // source could not be loaded
)

func (t EventType) String() string {
	switch t {
	case EventLoadStart:
		return "loadstart"
	case EventLoadedMetadata:
		return "loadedmetadata"
	case EventCanPlay:
		return "canplay"
	case EventTimeUpdate:
		return "timeupdate"
	case EventEnded:
		return "ended"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is a notification published by a player.
type Event struct {
	Type   EventType
	Source string // locator the event refers to
	Gen    uint64 // load the event belongs to, see Interface.Generation
	Err    error  // set for EventError
}
