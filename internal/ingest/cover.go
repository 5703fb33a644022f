package ingest

import (
	"os"
	"path/filepath"
)

// coverNames lists common album art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// FindCoverArt looks for album art next to a file on disk. Returns the
// art path, or "" when the file is in memory or no art is found.
func (f *File) FindCoverArt() string {
	if f == nil || f.Path == "" {
		return ""
	}
	dir := filepath.Dir(f.Path)
	for _, name := range coverNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
