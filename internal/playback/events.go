package playback

import (
	"go.uber.org/zap"

	"github.com/llehouerou/deck/internal/player"
)

// HandleEvent routes a player notification to its handler. Events of an
// earlier load are stale and dropped, even when that load had the same
// source.
func (c *Controller) HandleEvent(e player.Event) {
	if e.Gen != c.player.Generation() {
		c.log.Debug("dropping stale event",
			zap.Stringer("event", e.Type),
			zap.String("source", e.Source),
			zap.Uint64("gen", e.Gen))
		return
	}

	switch e.Type {
	case player.EventLoadStart:
		c.OnLoadStart()
	case player.EventLoadedMetadata:
		c.OnLoadedMetadata()
	case player.EventCanPlay:
		c.OnCanPlay()
	case player.EventTimeUpdate:
		c.OnTimeUpdate()
	case player.EventEnded:
		c.OnEnded()
	case player.EventError:
		c.view.SetLoading(false)
		c.log.Warn("source failed to load", zap.String("source", e.Source), zap.Error(e.Err))
	}
}

// OnTimeUpdate mirrors the player position into the progress indicator and
// the elapsed label.
func (c *Controller) OnTimeUpdate() {
	d, ok := c.player.Duration()
	if !ok || d <= 0 {
		return
	}
	pos := c.player.Position()
	c.view.SetProgress(float64(pos) / float64(d) * 100)
	c.view.SetElapsed(FormatDuration(pos))
}

// OnLoadedMetadata shows the duration once it is known.
func (c *Controller) OnLoadedMetadata() {
	if d, ok := c.player.Duration(); ok {
		c.view.SetDuration(FormatDuration(d))
	}
}

// OnEnded advances to the next track; the playlist loops.
func (c *Controller) OnEnded() {
	c.NextTrack()
}

// OnLoadStart shows the loading indicator.
func (c *Controller) OnLoadStart() {
	c.log.Debug("loading", zap.String("source", c.player.Source()))
	c.view.SetLoading(true)
}

// OnCanPlay hides the loading indicator.
func (c *Controller) OnCanPlay() {
	c.log.Debug("loaded", zap.String("source", c.player.Source()))
	c.view.SetLoading(false)
}
