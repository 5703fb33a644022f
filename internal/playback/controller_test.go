package playback

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/llehouerou/deck/internal/ingest"
	"github.com/llehouerou/deck/internal/player"
	"github.com/llehouerou/deck/internal/playlist"
	"github.com/llehouerou/deck/internal/source"
)

type fakeView struct {
	tracks   []playlist.Track
	active   int
	title    string
	artist   string
	artwork  string
	progress float64
	elapsed  string
	duration string
	playing  bool
	loading  bool
	volume   float64
}

func (v *fakeView) SetPlaylist(tracks []playlist.Track) { v.tracks = tracks }
func (v *fakeView) SetActive(index int)                 { v.active = index }
func (v *fakeView) SetTrack(title, artist, artwork string) {
	v.title, v.artist, v.artwork = title, artist, artwork
}
func (v *fakeView) SetProgress(percent float64) { v.progress = percent }
func (v *fakeView) SetElapsed(label string)     { v.elapsed = label }
func (v *fakeView) SetDuration(label string)    { v.duration = label }
func (v *fakeView) SetPlaying(playing bool)     { v.playing = playing }
func (v *fakeView) SetLoading(loading bool)     { v.loading = loading }
func (v *fakeView) SetVolume(level float64)     { v.volume = level }

// deferredScheduler holds play requests until flush, like a slow audio
// device would.
type deferredScheduler struct {
	pending []func()
}

func (d *deferredScheduler) Go(work func() error, done func(error)) {
	d.pending = append(d.pending, func() { done(work()) })
}

func (d *deferredScheduler) flush() {
	pending := d.pending
	d.pending = nil
	for _, f := range pending {
		f()
	}
}

type recordingListener struct {
	loaded  []int
	playing []bool
}

func (l *recordingListener) TrackLoaded(index int, _ playlist.Track) {
	l.loaded = append(l.loaded, index)
}

func (l *recordingListener) PlayingChanged(playing bool) {
	l.playing = append(l.playing, playing)
}

type fixture struct {
	ctrl  *Controller
	p     *player.Mock
	view  *fakeView
	blobs *source.Store
	logs  *observer.ObservedLogs
}

func newFixture(t *testing.T, sched Scheduler) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		p:     player.NewMock(),
		view:  &fakeView{active: -1},
		blobs: source.NewStore(),
		logs:  logs,
	}
	f.ctrl = New(context.Background(), Deps{
		Player:    f.p,
		View:      f.view,
		Scheduler: sched,
		Blobs:     f.blobs,
		Log:       zap.New(core),
	}, DefaultOptions())
	return f
}

func demoTracks(n int) []playlist.Track {
	tracks := make([]playlist.Track, n)
	for i := range tracks {
		tracks[i] = playlist.Track{
			Title:  string(rune('A' + i)),
			Artist: "Demo Artist",
			Source: "/music/" + string(rune('a'+i)) + ".mp3",
		}
	}
	return tracks
}

func TestNew_StartsEmpty(t *testing.T) {
	f := newFixture(t, nil)

	st := f.ctrl.State()
	assert.Equal(t, -1, st.CurrentIndex)
	assert.False(t, st.Playing)
	assert.Equal(t, 1.0, st.Volume)
	assert.Equal(t, 0, f.ctrl.Len())
	assert.Equal(t, "0:00", f.view.elapsed)
	assert.Equal(t, "0:00", f.view.duration)
}

func TestNew_NilOptionalDeps(t *testing.T) {
	c := New(context.Background(), Deps{Player: player.NewMock()}, DefaultOptions())

	c.LoadDemo(demoTracks(2))
	c.TogglePlayPause()

	assert.True(t, c.State().Playing)
}

func TestLoadDemo_LoadsFirstTrack(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.LoadDemo(demoTracks(2))

	assert.Equal(t, 0, f.ctrl.State().CurrentIndex)
	assert.Equal(t, []string{"/music/a.mp3"}, f.p.Sources())
	assert.Len(t, f.view.tracks, 2)
	assert.Equal(t, 0, f.view.active)
	assert.Equal(t, "A", f.view.title)
	assert.Equal(t, "Demo Artist", f.view.artist)
	assert.False(t, f.ctrl.State().Playing)
	assert.Equal(t, 0, f.p.PlayCalls())
}

func TestLoadTrack(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(3))
	f.view.progress = 40
	f.view.elapsed = "1:23"

	f.ctrl.LoadTrack(2)

	assert.Equal(t, 2, f.ctrl.State().CurrentIndex)
	assert.Equal(t, "/music/c.mp3", f.p.Source())
	assert.Equal(t, 2, f.view.active)
	assert.Equal(t, "C", f.view.title)
	assert.Equal(t, 0.0, f.view.progress)
	assert.Equal(t, "0:00", f.view.elapsed)
	assert.Equal(t, 0, f.p.PlayCalls(), "loading must not start playback")
}

func TestLoadTrack_OutOfRangeIgnored(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(3))
	f.ctrl.LoadTrack(1)

	for _, index := range []int{-1, 3, 100} {
		f.ctrl.LoadTrack(index)

		assert.Equal(t, 1, f.ctrl.State().CurrentIndex, "LoadTrack(%d)", index)
	}
	assert.Len(t, f.p.Sources(), 2)
}

func TestTogglePlayPause_EmptyPlaylist(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.TogglePlayPause()

	assert.False(t, f.ctrl.State().Playing)
	assert.Equal(t, 0, f.p.PlayCalls())
	assert.Equal(t, 0, f.p.PauseCalls())
}

func TestTogglePlayPause_PlayThenPause(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(2))

	f.ctrl.TogglePlayPause()

	assert.True(t, f.ctrl.State().Playing)
	assert.True(t, f.view.playing)
	assert.Equal(t, 1, f.p.PlayCalls())

	f.ctrl.TogglePlayPause()

	assert.False(t, f.ctrl.State().Playing)
	assert.False(t, f.view.playing)
	assert.Equal(t, 1, f.p.PauseCalls())
	assert.Equal(t, player.Paused, f.p.State())
}

func TestTogglePlayPause_FailureIsLoggedAndNotPlaying(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(1))
	f.p.SetPlayError(errors.New("device busy"))

	f.ctrl.TogglePlayPause()

	assert.False(t, f.ctrl.State().Playing)
	assert.False(t, f.view.playing)
	warnings := f.logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "error playing audio", warnings[0].Message)
	assert.Equal(t, "/music/a.mp3", warnings[0].ContextMap()["source"])
}

func TestTogglePlayPause_PlayingOnlyAfterResolution(t *testing.T) {
	sched := &deferredScheduler{}
	f := newFixture(t, sched)
	f.ctrl.LoadDemo(demoTracks(1))

	f.ctrl.TogglePlayPause()

	assert.False(t, f.ctrl.State().Playing, "no optimistic playing state")
	require.Len(t, sched.pending, 1)

	sched.flush()

	assert.True(t, f.ctrl.State().Playing)
}

func TestTogglePlayPause_PendingRequestWinsOverEarlierPause(t *testing.T) {
	sched := &deferredScheduler{}
	f := newFixture(t, sched)
	f.ctrl.LoadDemo(demoTracks(1))

	// Two toggles before the first request settles: both are play requests
	// because nothing has settled yet.
	f.ctrl.TogglePlayPause()
	f.ctrl.TogglePlayPause()
	require.Len(t, sched.pending, 2)

	sched.flush()

	assert.True(t, f.ctrl.State().Playing)
	assert.Equal(t, 0, f.p.PauseCalls())
}

func TestNextTrack_Wraps(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(3))
	f.ctrl.LoadTrack(2)

	f.ctrl.NextTrack()

	assert.Equal(t, 0, f.ctrl.State().CurrentIndex)
	assert.Equal(t, 0, f.view.active)
}

func TestPreviousTrack_Wraps(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(3))

	f.ctrl.PreviousTrack()

	assert.Equal(t, 2, f.ctrl.State().CurrentIndex)
	assert.Equal(t, "/music/c.mp3", f.p.Source())
}

func TestNavigation_Sequence(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(4))

	var got []int
	for range 5 {
		f.ctrl.NextTrack()
		got = append(got, f.ctrl.State().CurrentIndex)
	}
	for range 3 {
		f.ctrl.PreviousTrack()
		got = append(got, f.ctrl.State().CurrentIndex)
	}

	assert.Equal(t, []int{1, 2, 3, 0, 1, 0, 3, 2}, got)
}

func TestNavigation_SingleTrackReloadsItself(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(1))

	f.ctrl.NextTrack()
	f.ctrl.PreviousTrack()

	assert.Equal(t, 0, f.ctrl.State().CurrentIndex)
	assert.Len(t, f.p.Sources(), 3)
}

func TestNavigation_EmptyPlaylistIsNoop(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.NextTrack()
	f.ctrl.PreviousTrack()

	assert.Equal(t, -1, f.ctrl.State().CurrentIndex)
	assert.Empty(t, f.p.Sources())
}

func TestNextTrack_KeepsPlaying(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(3))
	f.ctrl.TogglePlayPause()
	require.Equal(t, 1, f.p.PlayCalls())

	f.ctrl.NextTrack()

	assert.Equal(t, 2, f.p.PlayCalls())
	assert.True(t, f.ctrl.State().Playing)
	assert.Equal(t, player.Playing, f.p.State())
}

func TestNextTrack_WhilePausedDoesNotPlay(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(3))

	f.ctrl.NextTrack()

	assert.Equal(t, 0, f.p.PlayCalls())
	assert.False(t, f.ctrl.State().Playing)
}

func TestNextTrack_InFlightRequestNotCancelled(t *testing.T) {
	sched := &deferredScheduler{}
	f := newFixture(t, sched)
	f.ctrl.LoadDemo(demoTracks(3))
	f.ctrl.TogglePlayPause()
	sched.flush()

	f.ctrl.NextTrack()
	f.ctrl.NextTrack()

	assert.Len(t, sched.pending, 2, "each navigation issues its own request")
	sched.flush()
	assert.Equal(t, 2, f.ctrl.State().CurrentIndex)
	assert.True(t, f.ctrl.State().Playing)
}

func TestNextTrack_FailedPlayLeavesNotPlaying(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(3))
	f.ctrl.TogglePlayPause()
	require.True(t, f.ctrl.State().Playing)
	f.p.SetPlayError(errors.New("device lost"))

	f.ctrl.NextTrack()

	assert.Equal(t, 2, f.p.PlayCalls())
	assert.False(t, f.ctrl.State().Playing)
	assert.False(t, f.view.playing)
	assert.Equal(t, 1, f.logs.FilterMessage("error playing audio").Len())
}

func TestLoadTrack_WhilePlayingDropsPlaying(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(3))
	f.ctrl.TogglePlayPause()
	require.True(t, f.ctrl.State().Playing)

	f.ctrl.LoadTrack(2)

	assert.False(t, f.ctrl.State().Playing)
	assert.False(t, f.view.playing)

	f.ctrl.TogglePlayPause()

	assert.Equal(t, 2, f.p.PlayCalls(), "toggle after a load starts the new track")
	assert.Equal(t, 0, f.p.PauseCalls())
	assert.True(t, f.ctrl.State().Playing)
}

func TestPlayResult_SupersededByLoadIsIgnored(t *testing.T) {
	sched := &deferredScheduler{}
	f := newFixture(t, sched)
	f.ctrl.LoadDemo(demoTracks(3))

	f.ctrl.TogglePlayPause()
	f.ctrl.LoadTrack(2)
	sched.flush()

	assert.False(t, f.ctrl.State().Playing, "result for track 0 must not mark track 2 playing")
	assert.Equal(t, 1, f.logs.FilterMessage("play request superseded").Len())
}

func TestOnEnded_AtLastTrackWrapsAndPlays(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(3))
	f.ctrl.LoadTrack(2)
	f.ctrl.TogglePlayPause()
	playCalls := f.p.PlayCalls()

	f.ctrl.OnEnded()

	assert.Equal(t, 0, f.ctrl.State().CurrentIndex)
	assert.Equal(t, playCalls+1, f.p.PlayCalls())
	assert.True(t, f.ctrl.State().Playing)
}

func TestSeek(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(1))
	f.p.SetDuration(200 * time.Second)

	f.ctrl.Seek(25)
	f.ctrl.Seek(100)
	f.ctrl.Seek(0)

	assert.Equal(t, []time.Duration{50 * time.Second, 200 * time.Second, 0}, f.p.SeekCalls())
}

func TestSeek_UnknownDurationIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(1))

	f.ctrl.Seek(50)

	assert.Empty(t, f.p.SeekCalls())
}

func TestSetVolume(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		level float64
		want  float64
	}{
		{0, 0},
		{100, 1},
		{50, 0.5},
		{70, 0.7},
		{25, 0.25},
	}

	for _, tt := range tests {
		f.ctrl.SetVolume(tt.level)

		assert.InDelta(t, tt.want, f.p.Volume(), 1e-9, "SetVolume(%v)", tt.level)
		assert.InDelta(t, tt.want, f.ctrl.State().Volume, 1e-9)
		assert.InDelta(t, tt.want, f.view.volume, 1e-9)
	}
}

func TestShuffleAndRepeat_StoredOnly(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(3))

	f.ctrl.SetShuffle(true)
	f.ctrl.SetRepeat(true)
	f.ctrl.NextTrack()

	assert.True(t, f.ctrl.State().Shuffle)
	assert.True(t, f.ctrl.State().Repeat)
	assert.Equal(t, 1, f.ctrl.State().CurrentIndex)
}

func TestIngestFiles_FiltersAndKeepsOrder(t *testing.T) {
	f := newFixture(t, nil)
	files := []*ingest.File{
		ingest.NewMemFile("first song.mp3", "audio/mpeg", []byte("one")),
		ingest.NewMemFile("cover.png", "image/png", []byte("png")),
		ingest.NewMemFile("second.take.flac", "audio/flac", []byte("two")),
	}

	added := f.ctrl.IngestFiles(files)

	assert.Equal(t, 2, added)
	tracks := f.ctrl.Tracks()
	require.Len(t, tracks, 2)
	assert.Equal(t, "first song", tracks[0].Title)
	assert.Equal(t, "second.take", tracks[1].Title)
	for i, tr := range tracks {
		assert.Equal(t, "Unknown Artist", tr.Artist)
		assert.Equal(t, DefaultOptions().PlaceholderArtwork, tr.Artwork)
		assert.True(t, source.IsBlob(tr.Source))
		assert.Same(t, files[i*2], tr.Origin)
	}
	assert.Len(t, f.view.tracks, 2)
}

func TestIngestFiles_LocatorsResolveToFileBytes(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.IngestFiles([]*ingest.File{ingest.NewMemFile("a.wav", "audio/wav", []byte("RIFFdata"))})

	rc, hint, err := f.blobs.Open(f.ctrl.Tracks()[0].Source)

	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "RIFFdata", string(data))
	assert.Equal(t, "audio/wav", hint)
}

func TestIngestFiles_IntoEmptyLoadsFirstWithoutPlaying(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.IngestFiles([]*ingest.File{
		ingest.NewMemFile("a.mp3", "audio/mpeg", nil),
		ingest.NewMemFile("b.mp3", "audio/mpeg", nil),
	})

	assert.Equal(t, 0, f.ctrl.State().CurrentIndex)
	assert.False(t, f.ctrl.State().Playing)
	assert.Equal(t, 0, f.p.PlayCalls())
	assert.Equal(t, f.ctrl.Tracks()[0].Source, f.p.Source())
	assert.Equal(t, "a", f.view.title)
}

func TestIngestFiles_IntoNonEmptyKeepsCurrent(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(2))
	f.ctrl.LoadTrack(1)

	f.ctrl.IngestFiles([]*ingest.File{ingest.NewMemFile("c.mp3", "audio/mpeg", nil)})

	assert.Equal(t, 3, f.ctrl.Len())
	assert.Equal(t, 1, f.ctrl.State().CurrentIndex)
	assert.Equal(t, 1, f.view.active)
	assert.Len(t, f.p.Sources(), 2)
}

func TestIngestFiles_NothingAudio(t *testing.T) {
	f := newFixture(t, nil)

	added := f.ctrl.IngestFiles([]*ingest.File{
		ingest.NewMemFile("notes.txt", "text/plain", nil),
		nil,
	})

	assert.Equal(t, 0, added)
	assert.Equal(t, -1, f.ctrl.State().CurrentIndex)
	assert.Empty(t, f.p.Sources())
	assert.Empty(t, f.logs.FilterLevelExact(zapcore.WarnLevel).All(), "rejections are silent")
}

func TestOnTimeUpdate(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(1))
	f.p.SetDuration(200 * time.Second)
	f.p.SetCurrentPosition(50 * time.Second)

	f.ctrl.OnTimeUpdate()

	assert.InDelta(t, 25.0, f.view.progress, 1e-9)
	assert.Equal(t, "0:50", f.view.elapsed)
}

func TestOnTimeUpdate_UnknownDuration(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(1))
	f.p.SetCurrentPosition(50 * time.Second)

	f.ctrl.OnTimeUpdate()

	assert.Equal(t, 0.0, f.view.progress)
	assert.Equal(t, "0:00", f.view.elapsed)
}

func TestOnLoadedMetadata(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(1))

	f.ctrl.OnLoadedMetadata()
	assert.Equal(t, "0:00", f.view.duration)

	f.p.SetDuration(3*time.Minute + 7*time.Second)
	f.ctrl.OnLoadedMetadata()
	assert.Equal(t, "3:07", f.view.duration)
}

func TestHandleEvent(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(2))
	f.p.SetDuration(100 * time.Second)
	f.p.SetCurrentPosition(10 * time.Second)

	f.ctrl.HandleEvent(f.p.Event(player.EventLoadStart))
	assert.True(t, f.view.loading)

	f.ctrl.HandleEvent(f.p.Event(player.EventLoadedMetadata))
	assert.Equal(t, "1:40", f.view.duration)

	f.ctrl.HandleEvent(f.p.Event(player.EventCanPlay))
	assert.False(t, f.view.loading)

	f.ctrl.HandleEvent(f.p.Event(player.EventTimeUpdate))
	assert.InDelta(t, 10.0, f.view.progress, 1e-9)

	f.ctrl.HandleEvent(f.p.Event(player.EventEnded))
	assert.Equal(t, 1, f.ctrl.State().CurrentIndex)
}

func TestHandleEvent_DropsStaleEvents(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(3))

	stale := f.p.Event(player.EventEnded)
	f.ctrl.LoadTrack(1)

	f.ctrl.HandleEvent(stale)

	assert.Equal(t, 1, f.ctrl.State().CurrentIndex)
	assert.Equal(t, 1, f.logs.FilterMessage("dropping stale event").Len())
}

func TestHandleEvent_StaleEndedWithSameSourceDoesNotSkip(t *testing.T) {
	f := newFixture(t, nil)
	tracks := demoTracks(3)
	tracks[1].Source = tracks[0].Source
	f.ctrl.LoadDemo(tracks)
	f.ctrl.TogglePlayPause()
	ended := f.p.Event(player.EventEnded)

	f.ctrl.NextTrack()
	require.Equal(t, tracks[0].Source, f.p.Source())
	f.ctrl.HandleEvent(ended)

	assert.Equal(t, 1, f.ctrl.State().CurrentIndex)
	assert.True(t, f.ctrl.State().Playing)
}

func TestHandleEvent_ErrorIsLogged(t *testing.T) {
	f := newFixture(t, nil)
	f.ctrl.LoadDemo(demoTracks(1))
	f.view.loading = true

	ev := f.p.Event(player.EventError)
	ev.Err = errors.New("bad file")
	f.ctrl.HandleEvent(ev)

	assert.False(t, f.view.loading)
	assert.Equal(t, 1, f.logs.FilterMessage("source failed to load").Len())
}

func TestListeners(t *testing.T) {
	f := newFixture(t, nil)
	l := &recordingListener{}
	f.ctrl.AddListener(l)

	f.ctrl.LoadDemo(demoTracks(2))
	f.ctrl.TogglePlayPause()
	f.ctrl.NextTrack()
	f.ctrl.TogglePlayPause()

	assert.Equal(t, []int{0, 1}, l.loaded)
	assert.Equal(t, []bool{true, false, true, false}, l.playing)
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, nil)

	s := f.ctrl.Snapshot()
	assert.False(t, s.HasTrack)
	assert.Equal(t, 0, s.Len)

	f.ctrl.LoadDemo(demoTracks(2))
	f.ctrl.LoadTrack(1)
	f.p.SetDuration(time.Minute)
	f.p.SetCurrentPosition(15 * time.Second)

	s = f.ctrl.Snapshot()
	assert.True(t, s.HasTrack)
	assert.Equal(t, "B", s.Track.Title)
	assert.Equal(t, 1, s.CurrentIndex)
	assert.Equal(t, 2, s.Len)
	assert.Equal(t, time.Minute, s.Duration)
	assert.True(t, s.DurationKnown)
	assert.Equal(t, 15*time.Second, s.Position)
}
