package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"go.uber.org/zap"
)

var (
	// ErrNoSource is returned by Play before any source was set.
	ErrNoSource = errors.New("no source set")
	// ErrInterrupted is returned by Play when the source changes while the
	// request is waiting for it to load.
	ErrInterrupted = errors.New("play request interrupted by a new load")
)

// Resolver opens a locator and returns its bytes with a decoder hint.
type Resolver interface {
	Open(ctx context.Context, locator string) (io.ReadCloser, string, error)
}

// Options configures a Player.
type Options struct {
	SampleRate   int           // speaker sample rate in Hz
	Buffer       time.Duration // speaker buffer length
	TickInterval time.Duration // how often time updates are published while playing
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		SampleRate:   44100,
		Buffer:       100 * time.Millisecond,
		TickInterval: 250 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.SampleRate <= 0 {
		o.SampleRate = def.SampleRate
	}
	if o.Buffer <= 0 {
		o.Buffer = def.Buffer
	}
	if o.TickInterval <= 0 {
		o.TickInterval = def.TickInterval
	}
	return o
}

// load holds everything about one source. A new load replaces the old one
// on every SetSource; requests still referring to the old one are stale.
type load struct {
	locator string
	gen     uint64
	cancel  context.CancelFunc
	ready   chan struct{}
	err     error

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	started  bool
	ended    bool
}

func (ld *load) loaded() bool {
	select {
	case <-ld.ready:
		return ld.err == nil && ld.streamer != nil
	default:
		return false
	}
}

// Player plays one source at a time through the speaker.
//
// Lock order: p.mu before the output lock. Output callbacks never take p.mu
// synchronously.
type Player struct {
	mu          sync.Mutex
	out         output
	resolver    Resolver
	log         *zap.Logger
	rate        beep.SampleRate
	state       State
	load        *load
	gen         uint64
	volumeLevel float64

	events *eventQueue
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// New initialises the speaker and returns a player reading sources through
// resolver.
func New(resolver Resolver, log *zap.Logger, opts Options) (*Player, error) {
	opts = opts.withDefaults()
	out, err := openSpeaker(beep.SampleRate(opts.SampleRate), opts.Buffer)
	if err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return newPlayer(out, resolver, log, opts), nil
}

func newPlayer(out output, resolver Resolver, log *zap.Logger, opts Options) *Player {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	p := &Player{
		out:         out,
		resolver:    resolver,
		log:         log.Named("player"),
		rate:        beep.SampleRate(opts.SampleRate),
		state:       Stopped,
		volumeLevel: 1,
		events:      newEventQueue(),
		ctx:         ctx,
		cancel:      cancel,
	}
	p.wg.Add(1)
	go p.tickLoop(opts.TickInterval)
	return p
}

// Events returns the channel player notifications are published on.
func (p *Player) Events() <-chan Event {
	return p.events.out
}

func (p *Player) emit(t EventType, ld *load, err error) {
	p.events.push(Event{Type: t, Source: ld.locator, Gen: ld.gen, Err: err})
}

// SetSource stops the current source and starts loading a new one in the
// background. Loading publishes EventLoadStart, then EventLoadedMetadata and
// EventCanPlay, or EventError.
func (p *Player) SetSource(locator string) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.releaseLocked()

	ctx, cancel := context.WithCancel(p.ctx)
	p.gen++
	ld := &load{
		locator: locator,
		gen:     p.gen,
		cancel:  cancel,
		ready:   make(chan struct{}),
	}
	p.load = ld
	p.state = Stopped
	p.mu.Unlock()

	p.emit(EventLoadStart, ld, nil)

	p.wg.Add(1)
	go p.preload(ctx, ld)
}

// Source returns the current locator.
func (p *Player) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.load == nil {
		return ""
	}
	return p.load.locator
}

// Generation returns the number of the current load, 0 before the first
// SetSource.
func (p *Player) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

func (p *Player) preload(ctx context.Context, ld *load) {
	defer p.wg.Done()

	streamer, format, err := p.open(ctx, ld.locator)

	p.mu.Lock()
	if p.load != ld {
		p.mu.Unlock()
		if streamer != nil {
			streamer.Close()
		}
		close(ld.ready)
		return
	}
	if err != nil {
		ld.err = err
		close(ld.ready)
		p.mu.Unlock()
		p.log.Debug("load failed", zap.String("source", ld.locator), zap.Error(err))
		p.emit(EventError, ld, err)
		return
	}

	ld.streamer = streamer
	ld.format = format
	ld.ctrl = &beep.Ctrl{
		Streamer: beep.Resample(4, format.SampleRate, p.rate, streamer),
		Paused:   true,
	}
	ld.volume = &effects.Volume{
		Streamer: ld.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.volumeLevel <= 0,
	}
	close(ld.ready)
	p.mu.Unlock()

	p.emit(EventLoadedMetadata, ld, nil)
	p.emit(EventCanPlay, ld, nil)
}

func (p *Player) open(ctx context.Context, locator string) (beep.StreamSeekCloser, beep.Format, error) {
	rc, hint, err := p.resolver.Open(ctx, locator)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("open %s: %w", locator, err)
	}
	return decode(rc, hint)
}

// Play waits for the current source to load and starts or resumes it.
// A source that already played to the end restarts from the beginning.
func (p *Player) Play(ctx context.Context) error {
	p.mu.Lock()
	ld := p.load
	p.mu.Unlock()
	if ld == nil {
		return ErrNoSource
	}

	select {
	case <-ld.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.load != ld {
		return ErrInterrupted
	}
	if ld.err != nil {
		return ld.err
	}

	if !ld.started || ld.ended {
		if ld.ended {
			p.out.Lock()
			err := ld.streamer.Seek(0)
			p.out.Unlock()
			if err != nil {
				return fmt.Errorf("rewind: %w", err)
			}
			ld.ended = false
		}
		p.out.Play(beep.Seq(ld.volume, beep.Callback(func() {
			// Runs on the speaker goroutine with the output locked.
			go p.finish(ld)
		})))
		ld.started = true
	}

	p.out.Lock()
	ld.ctrl.Paused = false
	p.out.Unlock()
	p.state = Playing
	return nil
}

func (p *Player) finish(ld *load) {
	p.mu.Lock()
	if p.load != ld || ld.ended {
		p.mu.Unlock()
		return
	}
	ld.ended = true
	p.state = Stopped
	p.mu.Unlock()

	p.emit(EventEnded, ld, nil)
}

// Pause pauses playback. It is a no-op unless playing.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != Playing || p.load == nil || p.load.ctrl == nil {
		return
	}
	p.out.Lock()
	p.load.ctrl.Paused = true
	p.out.Unlock()
	p.state = Paused
}

// State returns the transport state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	ld := p.load
	if ld == nil || !ld.loaded() {
		return 0
	}
	p.out.Lock()
	pos := ld.format.SampleRate.D(ld.streamer.Position())
	p.out.Unlock()
	return pos
}

// SetPosition moves playback to d, clamped to the source length.
func (p *Player) SetPosition(d time.Duration) {
	p.mu.Lock()
	ld := p.load
	if ld == nil || !ld.loaded() {
		p.mu.Unlock()
		return
	}

	n := ld.format.SampleRate.N(d)
	if last := ld.streamer.Len() - 1; n > last {
		n = max(last, 0)
	}
	n = max(n, 0)

	p.out.Lock()
	err := ld.streamer.Seek(n)
	p.out.Unlock()
	if err == nil && ld.ended {
		// The finished stream left the mixer; the next Play re-queues it
		// from the new position instead of rewinding.
		ld.ended = false
		ld.started = false
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("seek failed", zap.String("source", ld.locator), zap.Error(err))
		return
	}
	p.emit(EventTimeUpdate, ld, nil)
}

// Duration returns the length of the current source once it is loaded.
func (p *Player) Duration() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ld := p.load
	if ld == nil || !ld.loaded() || ld.streamer.Len() <= 0 {
		return 0, false
	}
	return ld.format.SampleRate.D(ld.streamer.Len()), true
}

func (p *Player) tickLoop(interval time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.mu.Lock()
			ld := p.load
			playing := p.state == Playing && ld != nil
			p.mu.Unlock()
			if playing {
				p.emit(EventTimeUpdate, ld, nil)
			}
		}
	}
}

// releaseLocked stops the output and frees the current source.
func (p *Player) releaseLocked() {
	ld := p.load
	if ld == nil {
		return
	}
	ld.cancel()
	p.out.Clear()
	if ld.loaded() {
		ld.streamer.Close()
	}
	p.load = nil
	p.state = Stopped
}

// Close stops playback, waits for background work and closes Events.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.releaseLocked()
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	p.events.close()
	return nil
}
