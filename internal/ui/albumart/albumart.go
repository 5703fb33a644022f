// Package albumart draws the current track's cover next to the now-playing
// block using the Kitty graphics protocol.
package albumart

import (
	"bytes"
	"image"
	_ "image/jpeg" // cover decoders
	_ "image/png"
	"sync/atomic"

	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"github.com/llehouerou/deck/internal/playback"
	"github.com/llehouerou/deck/internal/playlist"
)

const (
	defaultCellW = 8
	defaultCellH = 16
)

var nextImageID atomic.Uint32

// Renderer keeps one cover uploaded to the terminal. It is driven from the
// event loop only.
type Renderer struct {
	cols, rows   int
	cellW, cellH int
	log          *zap.Logger

	key     string // source of the current image
	id      uint32 // 0 when no image is shown
	pending string // escape sequences not yet written
}

var _ playback.Listener = (*Renderer)(nil)

// New creates a renderer for a cover of cols x rows cells.
func New(cols, rows int, log *zap.Logger) *Renderer {
	w, h := cellSize()
	return &Renderer{
		cols:  cols,
		rows:  rows,
		cellW: w,
		cellH: h,
		log:   log.Named("albumart"),
	}
}

// TrackLoaded shows the cover of the loaded track.
func (r *Renderer) TrackLoaded(_ int, t playlist.Track) {
	r.Show(t)
}

// PlayingChanged implements playback.Listener.
func (r *Renderer) PlayingChanged(bool) {}

// Show uploads the cover of t, replacing the previous one. Tracks without
// a readable cover clear the image.
func (r *Renderer) Show(t playlist.Track) {
	data, key, err := Extract(t)
	if err != nil {
		r.log.Debug("read cover", zap.String("track", t.Title), zap.Error(err))
	}
	if key != "" && key == r.key && r.id != 0 {
		return
	}
	r.Clear()
	if err != nil || len(data) == 0 {
		return
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		r.log.Debug("decode cover", zap.String("source", key), zap.Error(err))
		return
	}
	w := uint(r.cols * r.cellW) //nolint:gosec // cell counts are small
	h := uint(r.rows * r.cellH) //nolint:gosec // cell counts are small
	thumb := resize.Thumbnail(w, h, img, resize.Lanczos3)

	id := nextImageID.Add(1)
	cmd, err := TransmitImage(thumb, id)
	if err != nil {
		r.log.Debug("encode cover", zap.String("source", key), zap.Error(err))
		return
	}
	r.key = key
	r.id = id
	r.pending += cmd
}

// Clear deletes the current image.
func (r *Renderer) Clear() {
	if r.id != 0 {
		r.pending += DeleteImage(r.id)
	}
	r.key = ""
	r.id = 0
}

// HasImage reports whether a cover is uploaded.
func (r *Renderer) HasImage() bool {
	return r.id != 0
}

// Cols returns the cover width in cells.
func (r *Renderer) Cols() int {
	return r.cols
}

// TakePending returns the upload and delete sequences queued since the
// last call. They must be written to the terminal exactly once.
func (r *Renderer) TakePending() string {
	p := r.pending
	r.pending = ""
	return p
}

// Placement returns the sequence drawing the cover with its top-left
// corner at the 1-based row and col, or "" without an image.
func (r *Renderer) Placement(row, col int) string {
	if r.id == 0 {
		return ""
	}
	return PlaceImage(r.id, row, col, r.cols, r.rows)
}
