//go:build linux

package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"go.uber.org/zap"

	"github.com/llehouerou/deck/internal/playback"
)

// ErrUnsupportedURI is returned by OpenUri for anything but file URIs.
var ErrUnsupportedURI = errors.New("only file:// URIs can be opened")

const noTrack = dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")

// Adapter connects the playback controller to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
	log    *zap.Logger
}

// New creates and starts a new MPRIS adapter.
func New(host Host, log *zap.Logger) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer("deck", &rootAdapter{}, &playerAdapter{host: host}),
		log:    log.Named("mpris"),
	}

	// Start the server in background
	go func() {
		if err := a.server.Listen(); err != nil {
			a.log.Warn("mpris server stopped", zap.Error(err))
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // the TUI owns its lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Deck", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter plus the loop
// and shuffle extensions.
type playerAdapter struct {
	host Host
}

func (p *playerAdapter) Next() error {
	p.host.Dispatch((*playback.Controller).NextTrack)
	return nil
}

func (p *playerAdapter) Previous() error {
	p.host.Dispatch((*playback.Controller).PreviousTrack)
	return nil
}

func (p *playerAdapter) Pause() error {
	p.host.Dispatch((*playback.Controller).Pause)
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.host.Dispatch((*playback.Controller).TogglePlayPause)
	return nil
}

// Stop pauses and rewinds; there is no separate stopped state.
func (p *playerAdapter) Stop() error {
	p.host.Dispatch(func(c *playback.Controller) {
		c.Pause()
		c.Seek(0)
	})
	return nil
}

func (p *playerAdapter) Play() error {
	p.host.Dispatch((*playback.Controller).Play)
	return nil
}

// Seek moves relative to the current position. Seeking past the end skips
// to the next track, as MPRIS asks.
func (p *playerAdapter) Seek(offset types.Microseconds) error {
	delta := time.Duration(offset) * time.Microsecond
	p.host.Dispatch(func(c *playback.Controller) {
		s := c.Snapshot()
		if !s.DurationKnown || s.Duration <= 0 {
			return
		}
		target := s.Position + delta
		if target > s.Duration {
			c.NextTrack()
			return
		}
		c.Seek(percentOf(max(target, 0), s.Duration))
	})
	return nil
}

// SetPosition seeks to an absolute position if trackID is still current.
func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	pos := time.Duration(position) * time.Microsecond
	p.host.Dispatch(func(c *playback.Controller) {
		s := c.Snapshot()
		if string(trackObjectPath(s)) != trackID || !s.DurationKnown {
			return
		}
		if pos < 0 || pos > s.Duration {
			return
		}
		c.Seek(percentOf(pos, s.Duration))
	})
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("parse uri: %w", err)
	}
	if u.Scheme != "file" {
		return ErrUnsupportedURI
	}
	p.host.OpenPaths([]string{u.Path})
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.host.Snapshot()), nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.host.Snapshot()), nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.host.Snapshot().Volume, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	level := min(max(v, 0), 1) * 100
	p.host.Dispatch(func(c *playback.Controller) { c.SetVolume(level) })
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.host.Snapshot().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

// The playlist wraps, so next and previous are always available once
// something is loaded.
func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.host.Snapshot().Len > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.host.Snapshot().Len > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.host.Snapshot().HasTrack, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.host.Snapshot().HasTrack, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.host.Snapshot().DurationKnown, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	if p.host.Snapshot().Repeat {
		return types.LoopStatusPlaylist, nil
	}
	return types.LoopStatusNone, nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
// Track repeat is stored as playlist repeat.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	on := status != types.LoopStatusNone
	p.host.Dispatch(func(c *playback.Controller) { c.SetRepeat(on) })
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.host.Snapshot().Shuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	p.host.Dispatch(func(c *playback.Controller) { c.SetShuffle(shuffle) })
	return nil
}

func playbackStatus(s playback.Snapshot) types.PlaybackStatus {
	switch {
	case !s.HasTrack:
		return types.PlaybackStatusStopped
	case s.Playing:
		return types.PlaybackStatusPlaying
	default:
		return types.PlaybackStatusPaused
	}
}

func metadata(s playback.Snapshot) types.Metadata {
	if !s.HasTrack {
		return types.Metadata{TrackId: noTrack}
	}

	meta := types.Metadata{
		TrackId: trackObjectPath(s),
		Title:   s.Track.Title,
		Artist:  []string{s.Track.Artist},
		ArtUrl:  artURL(s),
	}
	if s.DurationKnown {
		meta.Length = types.Microseconds(s.Duration.Microseconds())
	}
	return meta
}

// artURL prefers art found next to a local file over the remote artwork
// locator.
func artURL(s playback.Snapshot) string {
	if path := s.Track.Origin.FindCoverArt(); path != "" {
		return (&url.URL{Scheme: "file", Path: path}).String()
	}
	if strings.HasPrefix(s.Track.Artwork, "http://") || strings.HasPrefix(s.Track.Artwork, "https://") {
		return s.Track.Artwork
	}
	return ""
}

// trackObjectPath identifies a playlist entry. Duplicate entries get
// different ids because the index is part of the hash.
func trackObjectPath(s playback.Snapshot) dbus.ObjectPath {
	if !s.HasTrack {
		return noTrack
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%d\x00%s", s.CurrentIndex, s.Track.Source)
	return dbus.ObjectPath(fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64()))
}

func percentOf(pos, total time.Duration) float64 {
	return float64(pos) / float64(total) * 100
}
