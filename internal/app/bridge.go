package app

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/deck/internal/mpris"
	"github.com/llehouerou/deck/internal/playback"
)

const inboxSize = 64

// Bridge carries work from other goroutines onto the event loop: finished
// play requests, D-Bus calls and paths opened from outside. It also holds
// the controller snapshot last published by the loop, for readers that
// cannot touch the controller directly.
type Bridge struct {
	inbox chan tea.Msg
	done  <-chan struct{}

	mu   sync.RWMutex
	snap playback.Snapshot
}

var (
	_ playback.Scheduler = (*Bridge)(nil)
	_ mpris.Host         = (*Bridge)(nil)
)

// NewBridge creates a bridge. Posting stops blocking once ctx is done.
func NewBridge(ctx context.Context) *Bridge {
	return &Bridge{
		inbox: make(chan tea.Msg, inboxSize),
		done:  ctx.Done(),
		snap:  playback.Snapshot{State: playback.State{CurrentIndex: -1}},
	}
}

func (b *Bridge) post(msg tea.Msg) bool {
	select {
	case b.inbox <- msg:
		return true
	case <-b.done:
		return false
	}
}

// Go runs work on its own goroutine and delivers done on the event loop.
func (b *Bridge) Go(work func() error, done func(error)) {
	go func() {
		err := work()
		b.post(playResultMsg{done: done, err: err})
	}()
}

// Dispatch runs fn with the controller on the event loop.
func (b *Bridge) Dispatch(fn func(c *playback.Controller)) {
	b.post(dispatchMsg(fn))
}

// OpenPaths collects paths in the background and appends what it finds.
func (b *Bridge) OpenPaths(paths []string) {
	go func() {
		b.post(collect(paths))
	}()
}

// Snapshot returns the last published controller state.
func (b *Bridge) Snapshot() playback.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

func (b *Bridge) publish(s playback.Snapshot) {
	b.mu.Lock()
	b.snap = s
	b.mu.Unlock()
}

// wait returns a command that delivers the next posted message. It must be
// re-armed after every delivery.
func (b *Bridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.inbox:
			return inboxMsg{msg: msg}
		case <-b.done:
			return nil
		}
	}
}
