package albumart

import (
	"os"
	"strings"

	"github.com/dhowden/tag"

	"github.com/llehouerou/deck/internal/playlist"
)

// Extract finds the cover of a track: the picture embedded in its file,
// then an image next to it, then an artwork locator naming a local file.
// Remote artwork is never fetched. key identifies where the bytes came
// from; it is empty when the track has no cover.
func Extract(t playlist.Track) (data []byte, key string, err error) {
	if f := t.Origin; f != nil && f.Path != "" {
		if pic := embeddedPicture(f.Path); len(pic) > 0 {
			return pic, f.Path, nil
		}
		if p := f.FindCoverArt(); p != "" {
			data, err := os.ReadFile(p)
			return data, p, err
		}
	}
	if isLocalFile(t.Artwork) {
		data, err := os.ReadFile(t.Artwork)
		return data, t.Artwork, err
	}
	return nil, "", nil
}

func embeddedPicture(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil
	}
	if pic := m.Picture(); pic != nil {
		return pic.Data
	}
	return nil
}

func isLocalFile(locator string) bool {
	if locator == "" || strings.Contains(locator, "://") {
		return false
	}
	info, err := os.Stat(locator)
	return err == nil && !info.IsDir()
}
