// Package playback implements the playback controller: it owns the
// playlist and player state, turns user intents into player calls and
// mirrors the player's status back into the view.
//
// Every method runs on the host's event loop. The only asynchronous step,
// starting playback, goes through a Scheduler that reports back on the loop.
package playback

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/llehouerou/deck/internal/ingest"
	"github.com/llehouerou/deck/internal/player"
	"github.com/llehouerou/deck/internal/playlist"
	"github.com/llehouerou/deck/internal/source"
)

// Deps are the collaborators a Controller drives.
type Deps struct {
	Player    player.Interface
	View      View          // nil renders nothing
	Scheduler Scheduler     // nil runs play requests inline
	Blobs     *source.Store // locators for ingested files; nil creates one
	Log       *zap.Logger   // nil discards diagnostics
	Listeners []Listener
}

// Options are the labels given to ingested files.
type Options struct {
	PlaceholderArtist  string
	PlaceholderArtwork string
}

// DefaultOptions returns the labels used when none are configured.
func DefaultOptions() Options {
	return Options{
		PlaceholderArtist:  "Unknown Artist",
		PlaceholderArtwork: "https://via.placeholder.com/300x300/667eea/ffffff?text=Audio+File",
	}
}

// Controller is the playback controller. Construct one with New and pass
// it to every event binding.
type Controller struct {
	ctx       context.Context
	player    player.Interface
	view      View
	sched     Scheduler
	blobs     *source.Store
	log       *zap.Logger
	opts      Options
	listeners []Listener

	playlist *playlist.Playlist
	state    State

	// requested is the load generation of the latest unsettled play
	// request, 0 when none is in flight.
	requested uint64
}

// New creates a controller with an empty playlist. ctx bounds every play
// request it issues.
func New(ctx context.Context, deps Deps, opts Options) *Controller {
	c := &Controller{
		ctx:       ctx,
		player:    deps.Player,
		view:      deps.View,
		sched:     deps.Scheduler,
		blobs:     deps.Blobs,
		log:       deps.Log,
		opts:      opts,
		listeners: deps.Listeners,
		playlist:  playlist.New(),
		state: State{
			CurrentIndex: -1,
			Volume:       deps.Player.Volume(),
		},
	}
	if c.view == nil {
		c.view = nopView{}
	}
	if c.sched == nil {
		c.sched = Inline{}
	}
	if c.blobs == nil {
		c.blobs = source.NewStore()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.Named("playback")

	c.view.SetPlaylist(nil)
	c.view.SetPlaying(false)
	c.view.SetVolume(c.state.Volume)
	c.view.SetProgress(0)
	c.view.SetElapsed(FormatTime(0))
	c.view.SetDuration(FormatTime(0))
	return c
}

// AddListener registers l for track and playing changes.
func (c *Controller) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// State returns a copy of the player state.
func (c *Controller) State() State {
	return c.state
}

// Tracks returns a copy of the playlist.
func (c *Controller) Tracks() []playlist.Track {
	return c.playlist.Tracks()
}

// Len returns the playlist length.
func (c *Controller) Len() int {
	return c.playlist.Len()
}

// Snapshot returns the state plus current track and timing.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		State:    c.state,
		Len:      c.playlist.Len(),
		Position: c.player.Position(),
	}
	s.Track, s.HasTrack = c.playlist.Track(c.state.CurrentIndex)
	s.Duration, s.DurationKnown = c.player.Duration()
	return s
}

// LoadTrack points the player at the track at index and shows it, without
// starting playback. The new source starts stopped, so Playing drops.
// Out-of-range indices are ignored.
func (c *Controller) LoadTrack(index int) {
	t, ok := c.playlist.Track(index)
	if !ok {
		return
	}

	c.state.CurrentIndex = index
	c.player.SetSource(t.Source)
	c.setPlaying(false)

	c.view.SetProgress(0)
	c.view.SetElapsed(FormatTime(0))
	c.view.SetTrack(t.Title, t.Artist, t.Artwork)
	c.view.SetActive(index)

	c.log.Debug("track loaded", zap.Int("index", index), zap.String("title", t.Title), zap.String("source", t.Source))
	for _, l := range c.listeners {
		l.TrackLoaded(index, t)
	}
}

// TogglePlayPause pauses when playing and requests playback otherwise.
// It does nothing on an empty playlist.
func (c *Controller) TogglePlayPause() {
	if c.playlist.IsEmpty() {
		return
	}
	if c.state.Playing {
		c.Pause()
		return
	}
	c.Play()
}

// Play requests playback unless already playing.
func (c *Controller) Play() {
	if c.playlist.IsEmpty() || c.state.Playing {
		return
	}
	c.requestPlay()
}

// Pause pauses playback if playing.
func (c *Controller) Pause() {
	if !c.state.Playing {
		return
	}
	c.player.Pause()
	c.setPlaying(false)
}

// requestPlay starts playback asynchronously. Playing only flips once the
// player confirms, and a failed request leaves it false. Results for a load
// that was replaced meanwhile are ignored: the new source starts stopped.
func (c *Controller) requestPlay() {
	locator := c.player.Source()
	gen := c.player.Generation()
	c.requested = gen
	c.sched.Go(
		func() error { return c.player.Play(c.ctx) },
		func(err error) {
			if c.requested == gen {
				c.requested = 0
			}
			if gen != c.player.Generation() {
				c.log.Debug("play request superseded", zap.String("source", locator), zap.Error(err))
				return
			}
			if err != nil {
				c.log.Warn("error playing audio", zap.String("source", locator), zap.Error(err))
				c.setPlaying(false)
				return
			}
			c.setPlaying(true)
		},
	)
}

func (c *Controller) setPlaying(playing bool) {
	if c.state.Playing == playing {
		return
	}
	c.state.Playing = playing
	c.view.SetPlaying(playing)
	for _, l := range c.listeners {
		l.PlayingChanged(playing)
	}
}

// PreviousTrack loads the previous track, wrapping to the last one, and
// keeps playing if playback was on.
func (c *Controller) PreviousTrack() {
	c.step(-1)
}

// NextTrack loads the next track, wrapping to the first one, and keeps
// playing if playback was on.
func (c *Controller) NextTrack() {
	c.step(1)
}

func (c *Controller) step(delta int) {
	if c.playlist.IsEmpty() {
		return
	}
	// A request still in flight for the current track counts as playing,
	// so skipping quickly keeps playback on.
	resume := c.state.Playing || (c.requested != 0 && c.requested == c.player.Generation())
	c.LoadTrack(c.playlist.Wrap(c.state.CurrentIndex + delta))
	if resume {
		c.requestPlay()
	}
}

// Seek moves playback to fraction percent (0-100) of the duration. It does
// nothing while the duration is unknown.
func (c *Controller) Seek(fraction float64) {
	d, ok := c.player.Duration()
	if !ok || d <= 0 {
		return
	}
	c.player.SetPosition(time.Duration(fraction / 100 * float64(d)))
}

// SetVolume sets the volume from a 0-100 level.
func (c *Controller) SetVolume(level float64) {
	v := level / 100
	c.player.SetVolume(v)
	c.state.Volume = v
	c.view.SetVolume(v)
}

// SetShuffle stores the shuffle flag. It does not change navigation.
func (c *Controller) SetShuffle(on bool) {
	c.state.Shuffle = on
}

// SetRepeat stores the repeat flag. It does not change navigation; the
// playlist always loops.
func (c *Controller) SetRepeat(on bool) {
	c.state.Repeat = on
}

// IngestFiles appends every audio file of files, in order, and returns how
// many were added. Other files are dropped silently. The first track is
// loaded (not played) when the playlist was empty.
func (c *Controller) IngestFiles(files []*ingest.File) int {
	audio := lo.Filter(files, func(f *ingest.File, _ int) bool {
		if f == nil {
			return false
		}
		if !f.IsAudio() {
			c.log.Debug("skipping non-audio file", zap.String("name", f.Name), zap.String("type", f.Type))
			return false
		}
		return true
	})

	tracks := lo.Map(audio, func(f *ingest.File, _ int) playlist.Track {
		c.log.Debug("ingesting file",
			zap.String("name", f.Name),
			zap.String("type", f.Type),
			zap.String("size", humanize.IBytes(uint64(max(f.Size, 0)))),
		)
		return playlist.Track{
			Title:   f.Title(),
			Artist:  c.opts.PlaceholderArtist,
			Source:  c.blobs.CreateObjectURL(f, f.Type),
			Artwork: c.opts.PlaceholderArtwork,
			Origin:  f,
		}
	})

	c.appendTracks(tracks)
	return len(tracks)
}

// LoadDemo appends demo tracks.
func (c *Controller) LoadDemo(tracks []playlist.Track) {
	c.appendTracks(tracks)
}

func (c *Controller) appendTracks(tracks []playlist.Track) {
	wasEmpty := c.playlist.IsEmpty()
	c.playlist.Add(tracks...)
	c.renderPlaylist()
	if wasEmpty && !c.playlist.IsEmpty() {
		c.LoadTrack(0)
	}
}

func (c *Controller) renderPlaylist() {
	c.view.SetPlaylist(c.playlist.Tracks())
	if c.state.CurrentIndex >= 0 {
		c.view.SetActive(c.state.CurrentIndex)
	}
}
