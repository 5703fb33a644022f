// Package ingest turns user supplied files into raw file handles the
// playback controller can append to its playlist.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// sniffLen is how much of a file header is read to detect its media type.
const sniffLen = 512

// File is a raw file handle: a name, a media type and lazily opened bytes.
type File struct {
	Name string // base name, including extension
	Path string // absolute path, empty for in-memory files
	Type string // media type, e.g. "audio/mpeg"; empty when unknown
	Size int64

	open func() (io.ReadCloser, error)
}

// NewFile creates a file handle backed by an arbitrary opener.
func NewFile(name, mediaType string, size int64, open func() (io.ReadCloser, error)) *File {
	return &File{Name: name, Type: mediaType, Size: size, open: open}
}

// NewMemFile creates a file handle over an in-memory buffer.
func NewMemFile(name, mediaType string, data []byte) *File {
	return NewFile(name, mediaType, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// FromPath stats a file on disk and detects its media type.
func FromPath(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", abs)
	}

	mediaType, err := detectType(abs)
	if err != nil {
		return nil, err
	}

	return &File{
		Name: filepath.Base(abs),
		Path: abs,
		Type: mediaType,
		Size: info.Size(),
		open: func() (io.ReadCloser, error) { return os.Open(abs) },
	}, nil
}

// Open returns a reader over the file's bytes.
func (f *File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, errors.New("file has no content")
	}
	return f.open()
}

// IsAudio reports whether the file's media type is an audio type.
func (f *File) IsAudio() bool {
	return strings.HasPrefix(f.Type, "audio/")
}

// Title derives a display title from the file name by dropping its extension.
func (f *File) Title() string {
	return TrimExtension(f.Name)
}

// TrimExtension removes a trailing ".ext" from name. A trailing dot alone
// is not an extension.
func TrimExtension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 || strings.ContainsRune(name[i+1:], '/') {
		return name
	}
	return name[:i]
}

// extTypes maps audio extensions to media types. The stdlib mime table
// has no audio entries on systems without /etc/mime.types.
var extTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
	".wave": "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
}

// TypeByExtension returns the media type for a file name's extension.
func TypeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}

// detectType reads the file header: tag containers first, then the
// extension, then generic content sniffing.
func detectType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, ft, err := tag.Identify(f); err == nil {
		if t := typeForFileType(ft); t != "" {
			return t, nil
		}
	}

	if t := TypeByExtension(path); t != "" {
		return t, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

func typeForFileType(ft tag.FileType) string {
	switch ft {
	case tag.MP3:
		return "audio/mpeg"
	case tag.FLAC:
		return "audio/flac"
	case tag.OGG:
		return "audio/ogg"
	case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return "audio/mp4"
	case tag.DSF:
		return "audio/dsf"
	default:
		return ""
	}
}
