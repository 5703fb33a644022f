package player

import (
	"context"
	"time"
)

// Mock is a test double for Player. It publishes no events on its own;
// tests drive it with Emit and the setters.
type Mock struct {
	state         State
	source        string
	gen           uint64
	sources       []string
	position      time.Duration
	duration      time.Duration
	durationKnown bool
	volume        float64
	playErr       error
	playCalls     int
	pauseCalls    int
	seekCalls     []time.Duration
	events        chan Event
	closed        bool
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		state:  Stopped,
		volume: 1,
		events: make(chan Event, 64),
	}
}

func (m *Mock) SetSource(locator string) {
	m.gen++
	m.source = locator
	m.sources = append(m.sources, locator)
	m.state = Stopped
	m.position = 0
}

func (m *Mock) Source() string { return m.source }

func (m *Mock) Generation() uint64 { return m.gen }

func (m *Mock) Play(_ context.Context) error {
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	m.pauseCalls++
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) State() State { return m.state }

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) SetPosition(d time.Duration) {
	m.seekCalls = append(m.seekCalls, d)
	m.position = d
}

func (m *Mock) Duration() (time.Duration, bool) { return m.duration, m.durationKnown }

func (m *Mock) Volume() float64 { return m.volume }

func (m *Mock) SetVolume(level float64) { m.volume = clampLevel(level) }

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Close() error {
	if !m.closed {
		m.closed = true
		close(m.events)
	}
	return nil
}

// Test helpers

func (m *Mock) SetPlayError(err error) { m.playErr = err }

func (m *Mock) PlayCalls() int { return m.playCalls }

func (m *Mock) PauseCalls() int { return m.pauseCalls }

func (m *Mock) Sources() []string { return m.sources }

func (m *Mock) SeekCalls() []time.Duration { return m.seekCalls }

// SetDuration makes the duration known.
func (m *Mock) SetDuration(d time.Duration) {
	m.duration = d
	m.durationKnown = true
}

// ClearDuration makes the duration unknown again.
func (m *Mock) ClearDuration() {
	m.duration = 0
	m.durationKnown = false
}

func (m *Mock) SetCurrentPosition(d time.Duration) { m.position = d }

// Emit publishes an event for the current load.
func (m *Mock) Emit(t EventType) {
	m.events <- m.Event(t)
}

// Event returns an event of type t for the current load, for tests that
// hand events to a controller directly.
func (m *Mock) Event(t EventType) Event {
	return Event{Type: t, Source: m.source, Gen: m.gen}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
