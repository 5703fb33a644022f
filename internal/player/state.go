package player

// State is the transport state of the current source.
//
// SetSource always lands in Stopped, and so does reaching the end of the
// source. Play moves to Playing, Pause from Playing moves to Paused. A Play
// after the end restarts the source from the top.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}
