package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/deck/internal/playback"
	"github.com/llehouerou/deck/internal/playlist"
)

const (
	defaultIcon   = "audio-x-generic"
	defaultExpire = 5 * time.Second
)

// NowPlaying shows a "now playing" notification once per loaded track, when
// playback of it actually starts. Each notification replaces the last.
type NowPlaying struct {
	notifier Notifier
	log      *zap.Logger
	send     func(func())

	current   playlist.Track
	hasTrack  bool
	announced bool

	mu     sync.Mutex
	lastID uint32
}

var _ playback.Listener = (*NowPlaying)(nil)

// NewNowPlaying creates the listener. Notifications are sent on their own
// goroutine so a slow bus never stalls the event loop.
func NewNowPlaying(n Notifier, log *zap.Logger) *NowPlaying {
	return &NowPlaying{
		notifier: n,
		log:      log.Named("notify"),
		send:     func(f func()) { go f() },
	}
}

func (np *NowPlaying) TrackLoaded(_ int, t playlist.Track) {
	np.current = t
	np.hasTrack = true
	np.announced = false
}

func (np *NowPlaying) PlayingChanged(playing bool) {
	if playing && np.hasTrack && !np.announced {
		np.announce()
	}
}

func (np *NowPlaying) announce() {
	np.announced = true
	n := Notification{
		Summary: np.current.Title,
		Body:    np.current.Artist,
		Icon:    defaultIcon,
		Expire:  defaultExpire,
	}
	if art := np.current.Origin.FindCoverArt(); art != "" {
		n.Icon = art
	}

	np.send(func() {
		np.mu.Lock()
		defer np.mu.Unlock()
		n.Replaces = np.lastID
		id, err := np.notifier.Notify(n)
		if err != nil {
			np.log.Debug("notification failed", zap.Error(err))
			return
		}
		np.lastID = id
	})
}

// Dismiss closes the last announcement, if the server still shows it.
func (np *NowPlaying) Dismiss() {
	np.mu.Lock()
	defer np.mu.Unlock()
	if np.lastID == 0 {
		return
	}
	if err := np.notifier.Close(np.lastID); err != nil {
		np.log.Debug("close notification", zap.Error(err))
	}
	np.lastID = 0
}
