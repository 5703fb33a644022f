package notify

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/llehouerou/deck/internal/ingest"
	"github.com/llehouerou/deck/internal/playback"
	"github.com/llehouerou/deck/internal/player"
	"github.com/llehouerou/deck/internal/playlist"
)

func TestExpireMillis(t *testing.T) {
	assert.Equal(t, int32(-1), expireMillis(0))
	assert.Equal(t, int32(-1), expireMillis(-time.Second))
	assert.Equal(t, int32(5000), expireMillis(5*time.Second))
	assert.Equal(t, int32(math.MaxInt32), expireMillis(1000*time.Hour))
}

type mockNotifier struct {
	notifications []Notification
	closed        []uint32
	lastID        uint32
	err           error
}

func (m *mockNotifier) Notify(n Notification) (uint32, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.lastID++
	m.notifications = append(m.notifications, n)
	return m.lastID, nil
}

func (m *mockNotifier) Close(id uint32) error {
	m.closed = append(m.closed, id)
	return nil
}

func newNowPlaying(m *mockNotifier) *NowPlaying {
	np := NewNowPlaying(m, zap.NewNop())
	np.send = func(f func()) { f() }
	return np
}

var song = playlist.Track{Title: "Sample Song 1", Artist: "Demo Artist", Source: "https://example.com/a.wav"}

func TestNowPlaying_LoadWhilePausedIsSilent(t *testing.T) {
	m := &mockNotifier{}
	np := newNowPlaying(m)

	np.TrackLoaded(0, song)

	assert.Empty(t, m.notifications)
}

func TestNowPlaying_AnnouncesOnPlay(t *testing.T) {
	m := &mockNotifier{}
	np := newNowPlaying(m)

	np.TrackLoaded(0, song)
	np.PlayingChanged(true)

	require.Len(t, m.notifications, 1)
	n := m.notifications[0]
	assert.Equal(t, "Sample Song 1", n.Summary)
	assert.Equal(t, "Demo Artist", n.Body)
	assert.Equal(t, defaultIcon, n.Icon)
	assert.Equal(t, defaultExpire, n.Expire)
	assert.Equal(t, uint32(0), n.Replaces)
}

func TestNowPlaying_ResumeDoesNotRepeat(t *testing.T) {
	m := &mockNotifier{}
	np := newNowPlaying(m)

	np.TrackLoaded(0, song)
	np.PlayingChanged(true)
	np.PlayingChanged(false)
	np.PlayingChanged(true)

	assert.Len(t, m.notifications, 1)
}

func TestNowPlaying_NextTrackReplacesPrevious(t *testing.T) {
	m := &mockNotifier{}
	np := newNowPlaying(m)

	np.TrackLoaded(0, song)
	np.PlayingChanged(true)
	np.PlayingChanged(false)
	np.TrackLoaded(1, playlist.Track{Title: "Sample Song 2", Artist: "Demo Artist"})
	np.PlayingChanged(true)

	require.Len(t, m.notifications, 2)
	assert.Equal(t, "Sample Song 2", m.notifications[1].Summary)
	assert.Equal(t, uint32(1), m.notifications[1].Replaces)
}

func TestNowPlaying_UsesCoverArt(t *testing.T) {
	dir := t.TempDir()
	cover := filepath.Join(dir, "folder.png")
	require.NoError(t, os.WriteFile(cover, []byte("png"), 0o600))
	m := &mockNotifier{}
	np := newNowPlaying(m)

	np.TrackLoaded(0, playlist.Track{
		Title:  "song",
		Origin: &ingest.File{Name: "song.flac", Path: filepath.Join(dir, "song.flac")},
	})
	np.PlayingChanged(true)

	require.Len(t, m.notifications, 1)
	assert.Equal(t, cover, m.notifications[0].Icon)
}

func TestNowPlaying_ErrorKeepsLastID(t *testing.T) {
	m := &mockNotifier{}
	np := newNowPlaying(m)
	np.TrackLoaded(0, song)
	np.PlayingChanged(true)

	m.err = errors.New("bus gone")
	np.PlayingChanged(false)
	np.TrackLoaded(1, song)
	np.PlayingChanged(true)
	m.err = nil
	np.PlayingChanged(false)
	np.TrackLoaded(2, song)
	np.PlayingChanged(true)

	require.Len(t, m.notifications, 2)
	assert.Equal(t, uint32(1), m.notifications[1].Replaces)
}

func TestNowPlaying_LoadWithoutPlayIsSilent(t *testing.T) {
	m := &mockNotifier{}
	np := newNowPlaying(m)
	np.TrackLoaded(0, song)
	np.PlayingChanged(true)

	np.PlayingChanged(false)
	np.TrackLoaded(1, playlist.Track{Title: "Sample Song 2"})

	assert.Len(t, m.notifications, 1, "announced only once playback starts")
}

// heldScheduler keeps play requests until release.
type heldScheduler struct {
	pending []func()
}

func (h *heldScheduler) Go(work func() error, done func(error)) {
	h.pending = append(h.pending, func() { done(work()) })
}

func (h *heldScheduler) release() {
	pending := h.pending
	h.pending = nil
	for _, f := range pending {
		f()
	}
}

func TestNowPlaying_FollowsControllerPlayResult(t *testing.T) {
	m := &mockNotifier{}
	np := newNowPlaying(m)
	p := player.NewMock()
	sched := &heldScheduler{}
	c := playback.New(context.Background(), playback.Deps{Player: p, Scheduler: sched}, playback.DefaultOptions())
	c.AddListener(np)
	c.LoadDemo([]playlist.Track{song, {Title: "Sample Song 2", Source: "https://example.com/b.wav"}})

	c.TogglePlayPause()
	assert.Empty(t, m.notifications, "nothing before the play settles")
	sched.release()
	require.Len(t, m.notifications, 1)

	p.SetPlayError(errors.New("device lost"))
	c.NextTrack()
	sched.release()

	assert.Len(t, m.notifications, 1, "a failed play is not announced")
	assert.False(t, c.State().Playing)
}

func TestNowPlaying_Dismiss(t *testing.T) {
	m := &mockNotifier{}
	np := newNowPlaying(m)

	np.Dismiss()
	assert.Empty(t, m.closed, "nothing shown yet")

	np.TrackLoaded(0, song)
	np.PlayingChanged(true)
	np.Dismiss()
	np.Dismiss()

	assert.Equal(t, []uint32{1}, m.closed)
}
