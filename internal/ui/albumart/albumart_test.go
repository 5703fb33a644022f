package albumart

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/llehouerou/deck/internal/ingest"
	"github.com/llehouerou/deck/internal/playlist"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255}) //nolint:gosec // test pattern
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// trackInDir returns a track whose file sits in dir, with a cover.png next
// to it when withCover is set.
func trackInDir(t *testing.T, dir string, withCover bool) playlist.Track {
	t.Helper()
	audio := filepath.Join(dir, "song.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("not tagged"), 0o600))
	if withCover {
		writePNG(t, filepath.Join(dir, "cover.png"), 32, 32)
	}
	f, err := ingest.FromPath(audio)
	require.NoError(t, err)
	return playlist.Track{Title: "song", Origin: f}
}

func newTestRenderer() *Renderer {
	r := New(6, 3, zap.NewNop())
	r.cellW, r.cellH = 8, 16
	return r
}

func TestExtract_CoverNextToFile(t *testing.T) {
	dir := t.TempDir()
	tr := trackInDir(t, dir, true)

	data, key, err := Extract(tr)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cover.png"), key)
	assert.NotEmpty(t, data)
}

func TestExtract_LocalArtworkLocator(t *testing.T) {
	art := filepath.Join(t.TempDir(), "art.png")
	writePNG(t, art, 4, 4)

	data, key, err := Extract(playlist.Track{Artwork: art})

	require.NoError(t, err)
	assert.Equal(t, art, key)
	assert.NotEmpty(t, data)
}

func TestExtract_RemoteOrMissing(t *testing.T) {
	tests := []struct {
		name  string
		track playlist.Track
	}{
		{"remote artwork", playlist.Track{Artwork: "https://example.com/a.png"}},
		{"no artwork", playlist.Track{}},
		{"missing local file", playlist.Track{Artwork: "/does/not/exist.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, key, err := Extract(tt.track)
			require.NoError(t, err)
			assert.Empty(t, key)
			assert.Empty(t, data)
		})
	}
}

func TestRenderer_ShowUploadsOnce(t *testing.T) {
	tr := trackInDir(t, t.TempDir(), true)
	r := newTestRenderer()

	r.TrackLoaded(0, tr)

	require.True(t, r.HasImage())
	pending := r.TakePending()
	assert.Contains(t, pending, "a=t")
	assert.Contains(t, pending, "f=100")
	assert.Empty(t, r.TakePending(), "pending is consumed")

	// Same cover again: nothing to upload.
	r.Show(tr)
	assert.Empty(t, r.TakePending())
	assert.True(t, r.HasImage())
}

func TestRenderer_TrackWithoutCoverClears(t *testing.T) {
	r := newTestRenderer()
	r.Show(trackInDir(t, t.TempDir(), true))
	id := r.id
	r.TakePending()

	r.Show(playlist.Track{Title: "demo", Artwork: "https://example.com/a.png"})

	assert.False(t, r.HasImage())
	assert.Equal(t, DeleteImage(id), r.TakePending())
	assert.Empty(t, r.Placement(3, 1))
}

func TestRenderer_NewCoverReplacesOld(t *testing.T) {
	r := newTestRenderer()
	r.Show(trackInDir(t, t.TempDir(), true))
	first := r.id
	r.TakePending()

	r.Show(trackInDir(t, t.TempDir(), true))

	require.True(t, r.HasImage())
	assert.NotEqual(t, first, r.id)
	pending := r.TakePending()
	assert.True(t, strings.HasPrefix(pending, DeleteImage(first)))
	assert.Contains(t, pending, "a=t")
}

func TestRenderer_UndecodableCover(t *testing.T) {
	dir := t.TempDir()
	tr := trackInDir(t, dir, false)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("not an image"), 0o600))
	r := newTestRenderer()

	r.Show(tr)

	assert.False(t, r.HasImage())
	assert.Empty(t, r.TakePending())
}

func TestRenderer_Placement(t *testing.T) {
	r := newTestRenderer()
	r.Show(trackInDir(t, t.TempDir(), true))

	assert.Equal(t, PlaceImage(r.id, 3, 1, 6, 3), r.Placement(3, 1))
	assert.Equal(t, 6, r.Cols())
}

func TestSupported_Override(t *testing.T) {
	t.Setenv(overrideEnv, "kitty")
	assert.True(t, Supported())

	t.Setenv(overrideEnv, "none")
	t.Setenv("KITTY_WINDOW_ID", "1")
	assert.False(t, Supported())
}

func TestSupported_Environment(t *testing.T) {
	reset := func(t *testing.T) {
		for _, k := range []string{overrideEnv, "CONTOUR_PROFILE", "KITTY_WINDOW_ID", "TERM_PROGRAM", "GHOSTTY_RESOURCES_DIR", "KONSOLE_VERSION"} {
			t.Setenv(k, "")
		}
		t.Setenv("TERM", "xterm-256color")
	}

	tests := []struct {
		key, value string
		want       bool
	}{
		{"KITTY_WINDOW_ID", "3", true},
		{"TERM", "xterm-kitty", true},
		{"TERM_PROGRAM", "WezTerm", true},
		{"GHOSTTY_RESOURCES_DIR", "/usr/share/ghostty", true},
		{"KONSOLE_VERSION", "230801", true},
		{"KONSOLE_VERSION", "210401", false},
		{"TERM", "xterm-256color", false},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			reset(t)
			t.Setenv(tt.key, tt.value)
			assert.Equal(t, tt.want, Supported())
		})
	}

	t.Run("contour", func(t *testing.T) {
		reset(t)
		t.Setenv("KITTY_WINDOW_ID", "3")
		t.Setenv("CONTOUR_PROFILE", "default")
		assert.False(t, Supported())
	})
}
